package project

import (
	"context"
	"fmt"

	"github.com/trezcool/rubrica/core/errlog"
)

// FaultRecorder receives faults that must not reach the caller.
type FaultRecorder interface {
	Record(ctx context.Context, msg string) (errlog.Entry, error)
}

type Download struct {
	Project   Project
	FileName  string
	Available bool
}

// Downloads simulates fetching a project's attached file. File storage does not exist, so a
// request against a project without a file is reported to the error log and answered with
// an unavailable Download.
type Downloads struct {
	store  *Store
	faults FaultRecorder
}

func NewDownloads(store *Store, faults FaultRecorder) *Downloads {
	return &Downloads{store: store, faults: faults}
}

func (d *Downloads) Request(ctx context.Context, projectID string) (Download, error) {
	p, err := d.store.Get(ctx, projectID)
	if err != nil {
		return Download{}, err
	}
	if p.FileName != nil && *p.FileName != "" {
		return Download{Project: p, FileName: *p.FileName, Available: true}, nil
	}

	msg := fmt.Sprintf("Download attempted for project %q (ID: %s) - no file attached yet.", p.Title, p.ID)
	if _, err := d.faults.Record(ctx, msg); err != nil {
		return Download{}, err
	}
	return Download{Project: p, FileName: p.Title}, nil
}
