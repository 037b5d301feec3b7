package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/core/user"
)

// Users resolves the actors referenced by projects.
type Users interface {
	FindByID(ctx context.Context, id string) (user.User, error)
}

// Lifecycle drives projects through draft -> submitted -> evaluated. Evaluation itself is
// done by the evaluation engine.
type Lifecycle struct {
	store *Store
	users Users
	newID func() string
	now   func() time.Time
}

func NewLifecycle(store *Store, users Users) *Lifecycle {
	return &Lifecycle{
		store: store,
		users: users,
		newID: uuid.NewString,
		now:   core.NowUTC,
	}
}

// Submit creates a submitted project for the student with the default milestone template.
func (lc *Lifecycle) Submit(ctx context.Context, studentID string, sub Submission) (Project, error) {
	if err := sub.Validate(); err != nil {
		return Project{}, err
	}

	student, err := lc.users.FindByID(ctx, studentID)
	if err != nil {
		return Project{}, err
	}
	if !student.IsStudent() {
		return Project{}, core.NewValidationError(
			core.ReasonInvalidActor,
			errors.Errorf("user %s is not a student", studentID),
			core.FieldError{Field: "studentId", Error: "only students can submit projects"},
		)
	}

	submittedAt := lc.now()
	p := Project{
		ID:          lc.newID(),
		StudentID:   student.ID,
		Title:       sub.Title,
		Description: sub.Description,
		Tech:        sub.Tech,
		Status:      StatusSubmitted,
		SubmittedAt: &submittedAt,
		Milestones:  DefaultMilestones(),
	}
	if sub.FileName != "" {
		p.FileName = &sub.FileName
	}

	if err := lc.store.Upsert(ctx, p); err != nil {
		return Project{}, err
	}
	return p, nil
}
