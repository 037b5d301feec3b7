// Package testutil builds an in-memory environment wired like the admin tool.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/core/errlog"
	"github.com/trezcool/rubrica/core/evaluation"
	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/report"
	"github.com/trezcool/rubrica/core/session"
	"github.com/trezcool/rubrica/core/user"
	emailsvc "github.com/trezcool/rubrica/services/email"
	inmemdb "github.com/trezcool/rubrica/storage/database/inmem"
)

var Conf = &core.Config{
	AppName:          "Rubrica",
	Env:              "TEST",
	TestMode:         true,
	DefaultFromEmail: "noreply@rubrica.test",
	Storage:          core.StorageConfig{Driver: core.StorageMemory},
}

type Env struct {
	UserRepo    user.Repository
	ProjectRepo project.Repository
	ErrlogRepo  errlog.Repository
	Mail        *emailsvc.ConsoleServiceMock
	Logger      *Logger
	Deps        *session.Deps
}

func NewEnv(t *testing.T) *Env {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}
	return NewEnvWith(inmemdb.NewUserRepository(db), inmemdb.NewProjectRepository(db), inmemdb.NewErrlogRepository(db))
}

// NewEnvWith wires the core services over the given repositories.
func NewEnvWith(usrRepo user.Repository, projRepo project.Repository, errRepo errlog.Repository) *Env {
	env := &Env{
		UserRepo:    usrRepo,
		ProjectRepo: projRepo,
		ErrlogRepo:  errRepo,
		Mail:        emailsvc.NewConsoleServiceMock(Conf),
		Logger:      new(Logger),
	}

	users := user.NewService(env.UserRepo, user.PlainPasswords{})
	store := project.NewStore(env.ProjectRepo)
	errs := errlog.NewService(env.ErrlogRepo, env.Logger)
	env.Deps = &session.Deps{
		Users:     users,
		Projects:  store,
		Lifecycle: project.NewLifecycle(store, users),
		Engine:    evaluation.NewEngine(store, users, env.Mail, env.Logger),
		Downloads: project.NewDownloads(store, errs),
		Errors:    errs,
		Reports:   report.NewService(users, store, errs),
	}
	return env
}

// CreateUser registers a user through the identity service.
func CreateUser(t *testing.T, env *Env, name, email, pwd string, role user.Role) user.User {
	usr, err := env.Deps.Users.Register(context.Background(), user.NewUser{
		Name:     name,
		Email:    email,
		Password: pwd,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateProject stores p as is, bypassing the lifecycle.
func CreateProject(t *testing.T, env *Env, p project.Project) project.Project {
	if p.Status == "" {
		p.Status = project.StatusSubmitted
	}
	if p.Status != project.StatusDraft && p.SubmittedAt == nil {
		submittedAt := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
		p.SubmittedAt = &submittedAt
	}
	if err := env.Deps.Projects.Upsert(context.Background(), p); err != nil {
		t.Fatalf("CreateProject() failed: %v", err)
	}
	return p
}
