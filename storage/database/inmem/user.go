package inmemdb

import (
	"context"

	"github.com/trezcool/rubrica/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) LoadUsers(_ context.Context) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := make([]user.User, len(repo.db.rows))
	copy(users, repo.db.rows)
	return users, nil
}

func (repo *userRepository) ReplaceUsers(_ context.Context, users []user.User) error {
	rows := make([]user.User, len(users))
	copy(rows, users)

	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.rows = rows
	return nil
}
