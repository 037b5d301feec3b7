// Package evaluation scores submitted projects against the fixed rubric and performs the
// submitted -> evaluated transition.
package evaluation

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/user"
)

var errEmptyFeedback = errors.New("feedback is required")

type Engine struct {
	projects *project.Store
	users    project.Users
	mailSvc  core.EmailService
	logger   core.Logger
	now      func() time.Time
}

// NewEngine builds an Engine. mailSvc and logger may be nil.
func NewEngine(projects *project.Store, users project.Users, mailSvc core.EmailService, logger core.Logger) *Engine {
	return &Engine{
		projects: projects,
		users:    users,
		mailSvc:  mailSvc,
		logger:   logger,
		now:      core.NowUTC,
	}
}

// Evaluate scores the submitted project and stores it as evaluated. On failure nothing is written.
func (eng *Engine) Evaluate(ctx context.Context, projectID, evaluatorID string, r project.Rubric, feedback string) (project.Project, error) {
	feedback = core.CleanString(feedback)
	if feedback == "" {
		return project.Project{}, core.NewValidationError(
			core.ReasonEmptyFeedback, errEmptyFeedback,
			core.FieldError{Field: "feedback", Error: errEmptyFeedback.Error()},
		)
	}

	p, err := eng.projects.Get(ctx, projectID)
	if err != nil {
		return project.Project{}, err
	}

	evaluator, err := eng.users.FindByID(ctx, evaluatorID)
	if err != nil {
		return project.Project{}, err
	}
	if !evaluator.IsFaculty() {
		return project.Project{}, core.NewValidationError(
			core.ReasonInvalidActor,
			errors.Errorf("user %s is not faculty", evaluatorID),
			core.FieldError{Field: "evaluatedBy", Error: "only faculty can evaluate projects"},
		)
	}

	clamped, marks := project.Score(r)
	ev := project.Evaluation{
		Marks:       marks,
		Feedback:    feedback,
		Rubric:      clamped,
		EvaluatedBy: evaluator.ID,
		EvaluatedAt: eng.now(),
	}
	if err := p.MarkEvaluated(ev); err != nil {
		return project.Project{}, err
	}
	if err := eng.projects.Upsert(ctx, p); err != nil {
		return project.Project{}, err
	}

	eng.notify(ctx, p, evaluator)
	return p, nil
}

// notify mails the student their result. Failures are logged only.
func (eng *Engine) notify(ctx context.Context, p project.Project, evaluator user.User) {
	if eng.mailSvc == nil {
		return
	}
	student, err := eng.users.FindByID(ctx, p.StudentID)
	if err != nil {
		if eng.logger != nil {
			eng.logger.Warn(fmt.Sprintf("notifying student of project %s", p.ID), err)
		}
		return
	}
	if student.Email == "" {
		return
	}

	var body strings.Builder
	_, _ = fmt.Fprintf(&body, "Hi %s,\n\n", student.FirstName())
	_, _ = fmt.Fprintf(&body, "%s evaluated your project %q.\n\n", evaluator.Name, p.Title)
	_, _ = fmt.Fprintf(&body, "Marks: %d/100\n", p.Evaluation.Marks)
	for _, c := range project.Categories {
		_, _ = fmt.Fprintf(&body, "  %-14s %2d/%d\n", c, p.Evaluation.Rubric.Get(c), project.Ceiling(c))
	}
	_, _ = fmt.Fprintf(&body, "\nFeedback:\n%s\n", p.Evaluation.Feedback)

	eng.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject: "Your project has been evaluated",
		Body:    body.String(),
	})
}
