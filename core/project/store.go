package project

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/rubrica/core"
)

type (
	// Repository persists the whole project collection in insertion order. ReplaceProjects must
	// be atomic: either every record is written or none is.
	Repository interface {
		LoadProjects(ctx context.Context) ([]Project, error)
		ReplaceProjects(ctx context.Context, projects []Project) error
	}

	// Store is the shared project collection. Upsert is its only write primitive: callers read
	// a full record, change it, and hand the full record back.
	Store struct {
		repo Repository
	}
)

func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) ListAll(ctx context.Context) ([]Project, error) {
	projects, err := s.repo.LoadProjects(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading projects")
	}
	return projects, nil
}

func (s *Store) ListByStudent(ctx context.Context, studentID string) ([]Project, error) {
	projects, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var owned []Project
	for _, p := range projects {
		if p.StudentID == studentID {
			owned = append(owned, p)
		}
	}
	return owned, nil
}

func (s *Store) Get(ctx context.Context, id string) (Project, error) {
	projects, err := s.ListAll(ctx)
	if err != nil {
		return Project{}, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, core.NewNotFoundError("project", id)
}

// Upsert replaces the project with the same ID in place, or appends p. A record that breaks
// the project invariants is rejected with a ValidationError and nothing is written.
// Timestamps are stored in UTC at millisecond precision.
func (s *Store) Upsert(ctx context.Context, p Project) error {
	p = p.Clone()
	p.normalizeTimes()
	if err := p.CheckInvariants(); err != nil {
		return core.NewValidationError(core.ReasonInvalidInput, err)
	}

	projects, err := s.ListAll(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range projects {
		if projects[i].ID == p.ID {
			projects[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		projects = append(projects, p)
	}

	if err := s.repo.ReplaceProjects(ctx, projects); err != nil {
		return errors.Wrap(err, "saving projects")
	}
	return nil
}
