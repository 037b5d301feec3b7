package pgrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/rubrica/core/user"
)

const (
	selectUsers = `SELECT id, role, name, email, password, avatar, roll_no, department FROM users ORDER BY position`
	insertUser  = `INSERT INTO users (id, position, role, name, email, password, avatar, roll_no, department)
		VALUES (:id, :position, :role, :name, :email, :password, :avatar, :roll_no, :department)`
)

type userRow struct {
	ID         string `db:"id"`
	Position   int    `db:"position"`
	Role       string `db:"role"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	Password   string `db:"password"`
	Avatar     string `db:"avatar"`
	RollNo     string `db:"roll_no"`
	Department string `db:"department"`
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) LoadUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, selectUsers); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, user.User{
			ID:         r.ID,
			Role:       user.Role(r.Role),
			Name:       r.Name,
			Email:      r.Email,
			Password:   r.Password,
			Avatar:     r.Avatar,
			RollNo:     r.RollNo,
			Department: r.Department,
		})
	}
	return users, nil
}

func (repo *userRepository) ReplaceUsers(ctx context.Context, users []user.User) error {
	rows := make([]interface{}, 0, len(users))
	for i, u := range users {
		rows = append(rows, userRow{
			ID:         u.ID,
			Position:   i,
			Role:       u.Role.String(),
			Name:       u.Name,
			Email:      u.Email,
			Password:   u.Password,
			Avatar:     u.Avatar,
			RollNo:     u.RollNo,
			Department: u.Department,
		})
	}
	return replace(ctx, repo.db, "users", insertUser, rows)
}
