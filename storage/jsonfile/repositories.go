package jsonfile

import (
	"context"

	"github.com/trezcool/rubrica/core/errlog"
	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/user"
)

type (
	userRepository    struct{ db *DB }
	projectRepository struct{ db *DB }
	errlogRepository  struct{ db *DB }
)

var (
	_ user.Repository    = (*userRepository)(nil)
	_ project.Repository = (*projectRepository)(nil)
	_ errlog.Repository  = (*errlogRepository)(nil)
)

func NewUserRepository(db *DB) user.Repository       { return &userRepository{db: db} }
func NewProjectRepository(db *DB) project.Repository { return &projectRepository{db: db} }
func NewErrlogRepository(db *DB) errlog.Repository   { return &errlogRepository{db: db} }

func (repo *userRepository) LoadUsers(_ context.Context) ([]user.User, error) {
	doc, err := repo.db.view()
	if err != nil {
		return nil, err
	}
	return doc.Users, nil
}

func (repo *userRepository) ReplaceUsers(_ context.Context, users []user.User) error {
	return repo.db.update(func(doc *document) { doc.Users = users })
}

func (repo *projectRepository) LoadProjects(_ context.Context) ([]project.Project, error) {
	doc, err := repo.db.view()
	if err != nil {
		return nil, err
	}
	return doc.Projects, nil
}

func (repo *projectRepository) ReplaceProjects(_ context.Context, projects []project.Project) error {
	return repo.db.update(func(doc *document) { doc.Projects = projects })
}

func (repo *errlogRepository) LoadEntries(_ context.Context) ([]errlog.Entry, error) {
	doc, err := repo.db.view()
	if err != nil {
		return nil, err
	}
	return doc.Errors, nil
}

func (repo *errlogRepository) ReplaceEntries(_ context.Context, entries []errlog.Entry) error {
	return repo.db.update(func(doc *document) { doc.Errors = entries })
}
