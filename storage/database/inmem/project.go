package inmemdb

import (
	"context"

	"github.com/trezcool/rubrica/core/project"
)

type projectRepository struct {
	db *projectTable
}

var _ project.Repository = (*projectRepository)(nil) // interface compliance check

func NewProjectRepository(db *DB) project.Repository {
	return &projectRepository{db: db.project}
}

func cloneProjects(projects []project.Project) []project.Project {
	cloned := make([]project.Project, 0, len(projects))
	for _, p := range projects {
		cloned = append(cloned, p.Clone())
	}
	return cloned
}

func (repo *projectRepository) LoadProjects(_ context.Context) ([]project.Project, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return cloneProjects(repo.db.rows), nil
}

func (repo *projectRepository) ReplaceProjects(_ context.Context, projects []project.Project) error {
	rows := cloneProjects(projects)

	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.rows = rows
	return nil
}
