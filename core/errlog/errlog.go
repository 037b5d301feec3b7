// Package errlog is the diagnostic ledger read by admin tooling. Collaborators outside the
// core report non-critical faults here instead of returning them to their caller.
package errlog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/rubrica/core"
)

type Entry struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Resolved  bool      `json:"resolved"`
}

type (
	// Repository persists the whole ledger, most recent entry first.
	Repository interface {
		LoadEntries(ctx context.Context) ([]Entry, error)
		ReplaceEntries(ctx context.Context, entries []Entry) error
	}

	Service struct {
		repo   Repository
		logger core.Logger
		newID  func() string
		now    func() time.Time
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		newID:  uuid.NewString,
		now:    core.NowUTC,
	}
}

func (svc *Service) load(ctx context.Context) ([]Entry, error) {
	entries, err := svc.repo.LoadEntries(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading error entries")
	}
	return entries, nil
}

func (svc *Service) save(ctx context.Context, entries []Entry) error {
	if err := svc.repo.ReplaceEntries(ctx, entries); err != nil {
		return errors.Wrap(err, "saving error entries")
	}
	return nil
}

// Record prepends a new unresolved entry.
func (svc *Service) Record(ctx context.Context, msg string) (Entry, error) {
	entries, err := svc.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{
		ID:        svc.newID(),
		Message:   msg,
		Timestamp: svc.now(),
	}
	entries = append([]Entry{entry}, entries...)
	if err := svc.save(ctx, entries); err != nil {
		return Entry{}, err
	}
	if svc.logger != nil {
		svc.logger.Error(msg, map[string]interface{}{"error_id": entry.ID})
	}
	return entry, nil
}

// Resolve marks the entry with id as resolved. Unknown ids are ignored.
func (svc *Service) Resolve(ctx context.Context, id string) error {
	entries, err := svc.load(ctx)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == id {
			if entries[i].Resolved {
				return nil
			}
			entries[i].Resolved = true
			return svc.save(ctx, entries)
		}
	}
	return nil
}

// ClearResolved drops every resolved entry, keeping the order of the others.
func (svc *Service) ClearResolved(ctx context.Context) error {
	entries, err := svc.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Resolved {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return svc.save(ctx, kept)
}

// ListAll returns the ledger, most recent first.
func (svc *Service) ListAll(ctx context.Context) ([]Entry, error) {
	return svc.load(ctx)
}

// Unresolved counts the entries still awaiting an admin.
func (svc *Service) Unresolved(ctx context.Context) (int, error) {
	entries, err := svc.load(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	for _, e := range entries {
		if !e.Resolved {
			n++
		}
	}
	return n, nil
}
