package pgrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/rubrica/core/project"
)

const (
	selectProjects = `SELECT id, student_id, title, description, tech, status, submitted_at, file_name, milestones, evaluation
		FROM projects ORDER BY position`
	insertProject = `INSERT INTO projects (id, position, student_id, title, description, tech, status, submitted_at, file_name, milestones, evaluation)
		VALUES (:id, :position, :student_id, :title, :description, :tech, :status, :submitted_at, :file_name, CAST(:milestones AS JSONB), CAST(:evaluation AS JSONB))`
)

// projectRow keeps milestones and the evaluation as JSON text.
type projectRow struct {
	ID          string         `db:"id"`
	Position    int            `db:"position"`
	StudentID   string         `db:"student_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Tech        string         `db:"tech"`
	Status      string         `db:"status"`
	SubmittedAt *time.Time     `db:"submitted_at"`
	FileName    *string        `db:"file_name"`
	Milestones  string         `db:"milestones"`
	Evaluation  sql.NullString `db:"evaluation"`
}

func toProjectRow(p project.Project, position int) (projectRow, error) {
	milestones := p.Milestones
	if milestones == nil {
		milestones = []project.Milestone{}
	}
	ms, err := json.Marshal(milestones)
	if err != nil {
		return projectRow{}, errors.Wrap(err, "encoding milestones")
	}
	row := projectRow{
		ID:          p.ID,
		Position:    position,
		StudentID:   p.StudentID,
		Title:       p.Title,
		Description: p.Description,
		Tech:        p.Tech,
		Status:      p.Status.String(),
		SubmittedAt: p.SubmittedAt,
		FileName:    p.FileName,
		Milestones:  string(ms),
	}
	if p.Evaluation != nil {
		ev, err := json.Marshal(p.Evaluation)
		if err != nil {
			return projectRow{}, errors.Wrap(err, "encoding evaluation")
		}
		row.Evaluation = sql.NullString{String: string(ev), Valid: true}
	}
	return row, nil
}

func fromProjectRow(row projectRow) (project.Project, error) {
	p := project.Project{
		ID:          row.ID,
		StudentID:   row.StudentID,
		Title:       row.Title,
		Description: row.Description,
		Tech:        row.Tech,
		Status:      project.Status(row.Status),
		FileName:    row.FileName,
	}
	if row.SubmittedAt != nil {
		t := row.SubmittedAt.UTC()
		p.SubmittedAt = &t
	}
	if err := json.Unmarshal([]byte(row.Milestones), &p.Milestones); err != nil {
		return project.Project{}, errors.Wrapf(err, "decoding milestones of project %s", row.ID)
	}
	if row.Evaluation.Valid {
		var ev project.Evaluation
		if err := json.Unmarshal([]byte(row.Evaluation.String), &ev); err != nil {
			return project.Project{}, errors.Wrapf(err, "decoding evaluation of project %s", row.ID)
		}
		ev.EvaluatedAt = ev.EvaluatedAt.UTC()
		p.Evaluation = &ev
	}
	return p, nil
}

type projectRepository struct {
	db *sqlx.DB
}

var _ project.Repository = (*projectRepository)(nil) // interface compliance check

func NewProjectRepository(db *sqlx.DB) project.Repository {
	return &projectRepository{db: db}
}

func (repo *projectRepository) LoadProjects(ctx context.Context) ([]project.Project, error) {
	var rows []projectRow
	if err := repo.db.SelectContext(ctx, &rows, selectProjects); err != nil {
		return nil, errors.Wrap(err, "querying projects")
	}
	projects := make([]project.Project, 0, len(rows))
	for _, r := range rows {
		p, err := fromProjectRow(r)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (repo *projectRepository) ReplaceProjects(ctx context.Context, projects []project.Project) error {
	rows := make([]interface{}, 0, len(projects))
	for i, p := range projects {
		row, err := toProjectRow(p, i)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return replace(ctx, repo.db, "projects", insertProject, rows)
}
