package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/core/errlog"
	"github.com/trezcool/rubrica/core/evaluation"
	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/report"
	"github.com/trezcool/rubrica/core/session"
	"github.com/trezcool/rubrica/core/user"
	emailsvc "github.com/trezcool/rubrica/services/email"
	logsvc "github.com/trezcool/rubrica/services/logger"
	"github.com/trezcool/rubrica/storage/database"
	inmemdb "github.com/trezcool/rubrica/storage/database/inmem"
	pgrepos "github.com/trezcool/rubrica/storage/database/postgres"
	"github.com/trezcool/rubrica/storage/jsonfile"
	"github.com/trezcool/rubrica/storage/seed"
)

// backend is the storage chosen by `storage.driver`.
type backend struct {
	migrate func(command string, args ...string) error
	close   func() error
}

type storageResult struct {
	dig.Out

	Backend  *backend
	Users    user.Repository
	Projects project.Repository
	Errors   errlog.Repository
}

var errNoDatabase = errors.New("migrations need the postgres storage driver")

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewZerologLogger(conf), conf)
	logger.Enable(conf.RollbarToken != "" && !conf.Debug)
	return logger
}

func newStorage(conf *core.Config, logger core.Logger) (storageResult, error) {
	noMigrations := func(string, ...string) error { return errNoDatabase }
	noop := func() error { return nil }

	switch conf.Storage.Driver {
	case core.StorageFile:
		db, err := jsonfile.Open(conf.Storage.Path)
		if err != nil {
			return storageResult{}, errors.Wrap(err, "opening json store")
		}
		logger.Debug("using json file storage", map[string]interface{}{"path": db.Path()})
		return storageResult{
			Backend:  &backend{migrate: noMigrations, close: noop},
			Users:    jsonfile.NewUserRepository(db),
			Projects: jsonfile.NewProjectRepository(db),
			Errors:   jsonfile.NewErrlogRepository(db),
		}, nil

	case core.StoragePostgres:
		if err := database.CreateIfNotExist(conf); err != nil {
			return storageResult{}, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return storageResult{}, errors.Wrap(err, "opening database")
		}
		if err := database.Ping(db); err != nil {
			_ = db.Close()
			return storageResult{}, err
		}
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return storageResult{}, err
		}
		logger.Debug("using postgres storage", map[string]interface{}{"address": conf.Database.Address()})
		return storageResult{
			Backend: &backend{
				migrate: func(command string, args ...string) error { return database.Run(db, command, args...) },
				close:   db.Close,
			},
			Users:    pgrepos.NewUserRepository(db),
			Projects: pgrepos.NewProjectRepository(db),
			Errors:   pgrepos.NewErrlogRepository(db),
		}, nil

	default:
		db, err := inmemdb.Open()
		if err != nil {
			return storageResult{}, err
		}
		logger.Warn("using in-memory storage, changes are lost on exit")
		return storageResult{
			Backend:  &backend{migrate: noMigrations, close: noop},
			Users:    inmemdb.NewUserRepository(db),
			Projects: inmemdb.NewProjectRepository(db),
			Errors:   inmemdb.NewErrlogRepository(db),
		}, nil
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridAPIKey == "" {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newLifecycle(store *project.Store, users *user.Service) *project.Lifecycle {
	return project.NewLifecycle(store, users)
}

func newDownloads(store *project.Store, errs *errlog.Service) *project.Downloads {
	return project.NewDownloads(store, errs)
}

func newEngine(store *project.Store, users *user.Service, mailSvc core.EmailService, logger core.Logger) *evaluation.Engine {
	return evaluation.NewEngine(store, users, mailSvc, logger)
}

type depsParams struct {
	dig.In

	Users     *user.Service
	Projects  *project.Store
	Lifecycle *project.Lifecycle
	Engine    *evaluation.Engine
	Downloads *project.Downloads
	Errors    *errlog.Service
	Reports   *report.Service
}

func newDeps(p depsParams) *session.Deps {
	return &session.Deps{
		Users:     p.Users,
		Projects:  p.Projects,
		Lifecycle: p.Lifecycle,
		Engine:    p.Engine,
		Downloads: p.Downloads,
		Errors:    p.Errors,
		Reports:   p.Reports,
	}
}

type cliParams struct {
	dig.In

	Conf     *core.Config
	Logger   core.Logger
	Deps     *session.Deps
	Backend  *backend
	Users    user.Repository
	Projects project.Repository
	Pwds     user.Passwords
}

// newCommandLine also loads the demo fixture into an empty store when `storage.seed` is set.
func newCommandLine(p cliParams) (*commandLine, error) {
	if p.Conf.Storage.Seed {
		fx, err := seed.Default()
		if err != nil {
			return nil, err
		}
		seeded, err := seed.Apply(context.Background(), fx, p.Users, p.Projects, p.Pwds, false)
		if err != nil {
			return nil, errors.Wrap(err, "seeding store")
		}
		if seeded {
			p.Logger.Info("demo data loaded")
		}
	}
	return &commandLine{
		deps:     p.Deps,
		usrRepo:  p.Users,
		projRepo: p.Projects,
		pwds:     p.Pwds,
		migrate:  p.Backend.migrate,
		out:      os.Stdout,
	}, nil
}

func newContainer() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStorage))
	must(c.Provide(newEmailService))
	must(c.Provide(user.NewPasswords))
	must(c.Provide(user.NewService))
	must(c.Provide(project.NewStore))
	must(c.Provide(errlog.NewService))
	must(c.Provide(newLifecycle))
	must(c.Provide(newDownloads))
	must(c.Provide(newEngine))
	must(c.Provide(report.NewService))
	must(c.Provide(newDeps))
	must(c.Provide(newCommandLine))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", errors.Wrap(err, "failed to provide dependency"))
		os.Exit(1)
	}
}
