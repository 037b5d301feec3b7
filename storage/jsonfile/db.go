// Package jsonfile stores the three collections in one JSON document:
//
//	{"users": [...], "projects": [...], "errors": [...]}
//
// Every write replaces the file through a temporary file and a rename, so readers never see
// a partially written document.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/rubrica/core/errlog"
	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/user"
)

type document struct {
	Users    []user.User       `json:"users"`
	Projects []project.Project `json:"projects"`
	Errors   []errlog.Entry    `json:"errors"`
}

type DB struct {
	mu   sync.Mutex
	path string
}

// Open checks that the document at path is readable. A missing file is an empty store.
func Open(path string) (*DB, error) {
	db := &DB{path: path}
	if _, err := db.read(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) Path() string { return db.path }

func (db *DB) read() (document, error) {
	var doc document
	data, err := os.ReadFile(db.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, errors.Wrapf(err, "reading %s", db.path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, errors.Wrapf(err, "decoding %s", db.path)
	}
	return doc, nil
}

func (db *DB) write(doc document) error {
	if doc.Users == nil {
		doc.Users = []user.User{}
	}
	if doc.Projects == nil {
		doc.Projects = []project.Project{}
	}
	if doc.Errors == nil {
		doc.Errors = []errlog.Entry{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}

	dir := filepath.Dir(db.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(db.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }() // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmp.Name(), db.path); err != nil {
		return errors.Wrapf(err, "replacing %s", db.path)
	}
	return nil
}

// update applies fn to the current document and writes the result.
func (db *DB) update(fn func(doc *document)) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	doc, err := db.read()
	if err != nil {
		return err
	}
	fn(&doc)
	return db.write(doc)
}

func (db *DB) view() (document, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.read()
}
