// Package inmemdb keeps every collection in memory. Each table is guarded by its own lock
// so a replace is observed either entirely or not at all.
package inmemdb

import (
	"sync"

	"github.com/trezcool/rubrica/core/errlog"
	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/user"
)

type (
	DB struct {
		user    *userTable
		project *projectTable
		errlog  *errlogTable
	}

	userTable struct {
		sync.RWMutex
		rows []user.User
	}

	projectTable struct {
		sync.RWMutex
		rows []project.Project
	}

	errlogTable struct {
		sync.RWMutex
		rows []errlog.Entry
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:    &userTable{},
		project: &projectTable{},
		errlog:  &errlogTable{},
	}
	return db, nil
}
