package inmemdb

import (
	"context"

	"github.com/trezcool/rubrica/core/errlog"
)

type errlogRepository struct {
	db *errlogTable
}

var _ errlog.Repository = (*errlogRepository)(nil) // interface compliance check

func NewErrlogRepository(db *DB) errlog.Repository {
	return &errlogRepository{db: db.errlog}
}

func (repo *errlogRepository) LoadEntries(_ context.Context) ([]errlog.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]errlog.Entry, len(repo.db.rows))
	copy(entries, repo.db.rows)
	return entries, nil
}

func (repo *errlogRepository) ReplaceEntries(_ context.Context, entries []errlog.Entry) error {
	rows := make([]errlog.Entry, len(entries))
	copy(rows, entries)

	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.rows = rows
	return nil
}
