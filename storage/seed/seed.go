// Package seed loads the demo accounts and projects.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/user"
)

//go:embed fixture.yaml
var defaultFixture []byte

type (
	Fixture struct {
		Users    []userFixture    `yaml:"users"`
		Projects []projectFixture `yaml:"projects"`
	}

	userFixture struct {
		ID         string `yaml:"id"`
		Role       string `yaml:"role"`
		Name       string `yaml:"name"`
		Email      string `yaml:"email"`
		Password   string `yaml:"password"`
		RollNo     string `yaml:"rollNo"`
		Department string `yaml:"department"`
	}

	projectFixture struct {
		ID          string             `yaml:"id"`
		StudentID   string             `yaml:"studentId"`
		Title       string             `yaml:"title"`
		Description string             `yaml:"description"`
		Tech        string             `yaml:"tech"`
		Status      string             `yaml:"status"`
		SubmittedAt *time.Time         `yaml:"submittedAt"`
		FileName    string             `yaml:"fileName"`
		Milestones  []milestoneFixture `yaml:"milestones"`
		Evaluation  *evaluationFixture `yaml:"evaluation"`
	}

	milestoneFixture struct {
		Title string `yaml:"title"`
		Done  bool   `yaml:"done"`
	}

	evaluationFixture struct {
		Feedback    string         `yaml:"feedback"`
		Rubric      map[string]int `yaml:"rubric"`
		EvaluatedBy string         `yaml:"evaluatedBy"`
		EvaluatedAt time.Time      `yaml:"evaluatedAt"`
	}
)

// rubric maps the category keys onto a Rubric. Every category must be present exactly once.
func (ef evaluationFixture) rubric() (project.Rubric, error) {
	var r project.Rubric
	for key, v := range ef.Rubric {
		c, ok := categoryOf(key)
		if !ok {
			return r, errors.Errorf("unknown rubric category %q", key)
		}
		r.Set(c, v)
	}
	for _, c := range project.Categories {
		if _, ok := ef.Rubric[string(c)]; !ok {
			return r, errors.Errorf("missing rubric category %q", c)
		}
	}
	return r, nil
}

func categoryOf(key string) (project.Category, bool) {
	for _, c := range project.Categories {
		if string(c) == key {
			return c, true
		}
	}
	return "", false
}

// Load decodes a YAML fixture.
func Load(r io.Reader) (Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return Fixture{}, errors.Wrap(err, "decoding fixture")
	}
	return fx, nil
}

// Default is the embedded demo fixture.
func Default() (Fixture, error) {
	return Load(bytes.NewReader(defaultFixture))
}

// Build turns the fixture into records. Passwords are stored through pwds and every
// evaluation is rescored, so marks always equal the clamped rubric total.
func (fx Fixture) Build(pwds user.Passwords) ([]user.User, []project.Project, error) {
	users := make([]user.User, 0, len(fx.Users))
	roles := make(map[string]user.Role, len(fx.Users))
	for _, uf := range fx.Users {
		role := user.Role(uf.Role)
		if !role.Valid() {
			return nil, nil, errors.Errorf("user %s: invalid role %q", uf.ID, uf.Role)
		}
		pwd, err := pwds.Hash(uf.Password)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "user %s: hashing password", uf.ID)
		}
		users = append(users, user.User{
			ID:         uf.ID,
			Role:       role,
			Name:       uf.Name,
			Email:      uf.Email,
			Password:   pwd,
			Avatar:     core.Initials(uf.Name),
			RollNo:     uf.RollNo,
			Department: uf.Department,
		})
		roles[uf.ID] = role
	}

	projects := make([]project.Project, 0, len(fx.Projects))
	for _, pf := range fx.Projects {
		if roles[pf.StudentID] != user.RoleStudent {
			return nil, nil, errors.Errorf("project %s: unknown student %q", pf.ID, pf.StudentID)
		}
		p := project.Project{
			ID:          pf.ID,
			StudentID:   pf.StudentID,
			Title:       pf.Title,
			Description: pf.Description,
			Tech:        pf.Tech,
			Status:      project.Status(pf.Status),
		}
		if pf.SubmittedAt != nil {
			t := pf.SubmittedAt.UTC()
			p.SubmittedAt = &t
		}
		if pf.FileName != "" {
			name := pf.FileName
			p.FileName = &name
		}
		for _, m := range pf.Milestones {
			p.Milestones = append(p.Milestones, project.Milestone{Title: m.Title, Done: m.Done})
		}
		if ef := pf.Evaluation; ef != nil {
			if roles[ef.EvaluatedBy] != user.RoleFaculty {
				return nil, nil, errors.Errorf("project %s: unknown faculty %q", pf.ID, ef.EvaluatedBy)
			}
			r, err := ef.rubric()
			if err != nil {
				return nil, nil, errors.Wrapf(err, "project %s", pf.ID)
			}
			clamped, marks := project.Score(r)
			p.Evaluation = &project.Evaluation{
				Marks:       marks,
				Feedback:    ef.Feedback,
				Rubric:      clamped,
				EvaluatedBy: ef.EvaluatedBy,
				EvaluatedAt: ef.EvaluatedAt.UTC(),
			}
		}
		if err := p.CheckInvariants(); err != nil {
			return nil, nil, err
		}
		projects = append(projects, p)
	}
	return users, projects, nil
}

// Apply writes the fixture into empty stores. Stores already holding records are left alone
// unless force is set, in which case both collections are replaced. It reports whether
// anything was written.
func Apply(ctx context.Context, fx Fixture, users user.Repository, projects project.Repository, pwds user.Passwords, force bool) (bool, error) {
	if !force {
		existingUsers, err := users.LoadUsers(ctx)
		if err != nil {
			return false, errors.Wrap(err, "loading users")
		}
		existingProjects, err := projects.LoadProjects(ctx)
		if err != nil {
			return false, errors.Wrap(err, "loading projects")
		}
		if len(existingUsers) > 0 || len(existingProjects) > 0 {
			return false, nil
		}
	}

	us, ps, err := fx.Build(pwds)
	if err != nil {
		return false, err
	}
	if err := users.ReplaceUsers(ctx, us); err != nil {
		return false, errors.Wrap(err, "saving users")
	}
	if err := projects.ReplaceProjects(ctx, ps); err != nil {
		return false, errors.Wrap(err, "saving projects")
	}
	return true, nil
}
