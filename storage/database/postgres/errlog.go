package pgrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/rubrica/core/errlog"
)

const (
	selectEntries = `SELECT id, message, timestamp, resolved FROM error_entries ORDER BY position`
	insertEntry   = `INSERT INTO error_entries (id, position, message, timestamp, resolved)
		VALUES (:id, :position, :message, :timestamp, :resolved)`
)

type entryRow struct {
	ID        string    `db:"id"`
	Position  int       `db:"position"`
	Message   string    `db:"message"`
	Timestamp time.Time `db:"timestamp"`
	Resolved  bool      `db:"resolved"`
}

type errlogRepository struct {
	db *sqlx.DB
}

var _ errlog.Repository = (*errlogRepository)(nil) // interface compliance check

func NewErrlogRepository(db *sqlx.DB) errlog.Repository {
	return &errlogRepository{db: db}
}

func (repo *errlogRepository) LoadEntries(ctx context.Context) ([]errlog.Entry, error) {
	var rows []entryRow
	if err := repo.db.SelectContext(ctx, &rows, selectEntries); err != nil {
		return nil, errors.Wrap(err, "querying error entries")
	}
	entries := make([]errlog.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, errlog.Entry{
			ID:        r.ID,
			Message:   r.Message,
			Timestamp: r.Timestamp.UTC(),
			Resolved:  r.Resolved,
		})
	}
	return entries, nil
}

func (repo *errlogRepository) ReplaceEntries(ctx context.Context, entries []errlog.Entry) error {
	rows := make([]interface{}, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, entryRow{
			ID:        e.ID,
			Position:  i,
			Message:   e.Message,
			Timestamp: e.Timestamp.UTC(),
			Resolved:  e.Resolved,
		})
	}
	return replace(ctx, repo.db, "error_entries", insertEntry, rows)
}
