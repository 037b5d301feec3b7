// Package session hands out role-scoped capabilities. A StudentHandle, EvaluatorHandle or
// AdminHandle can only be obtained from a Session whose user holds the matching role.
package session

import (
	"context"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/core/errlog"
	"github.com/trezcool/rubrica/core/evaluation"
	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/report"
	"github.com/trezcool/rubrica/core/user"
)

// Deps are the core services reachable through sessions.
type Deps struct {
	Users     *user.Service
	Projects  *project.Store
	Lifecycle *project.Lifecycle
	Engine    *evaluation.Engine
	Downloads *project.Downloads
	Errors    *errlog.Service
	Reports   *report.Service
}

type Authenticator struct {
	deps *Deps
}

func NewAuthenticator(deps *Deps) *Authenticator {
	return &Authenticator{deps: deps}
}

// Login opens a session for the account matching email and password.
func (a *Authenticator) Login(ctx context.Context, email, pwd string) (*Session, error) {
	usr, err := a.deps.Users.Login(ctx, email, pwd)
	if err != nil {
		return nil, err
	}
	return &Session{user: usr, deps: a.deps}, nil
}

// LoginAs opens a session only if the account holds role.
func (a *Authenticator) LoginAs(ctx context.Context, email, pwd string, role user.Role) (*Session, error) {
	usr, err := a.deps.Users.LoginAs(ctx, email, pwd, role)
	if err != nil {
		return nil, err
	}
	return &Session{user: usr, deps: a.deps}, nil
}

type Session struct {
	user user.User
	deps *Deps
}

func (s *Session) User() user.User { return s.user }

func (s *Session) forbidden(role user.Role) error {
	return core.NewAuthFailure(core.ReasonForbidden, "user "+s.user.ID+" is not "+role.String())
}

func (s *Session) Student() (*StudentHandle, error) {
	if !s.user.IsStudent() {
		return nil, s.forbidden(user.RoleStudent)
	}
	return &StudentHandle{user: s.user, deps: s.deps}, nil
}

func (s *Session) Faculty() (*EvaluatorHandle, error) {
	if !s.user.IsFaculty() {
		return nil, s.forbidden(user.RoleFaculty)
	}
	return &EvaluatorHandle{user: s.user, deps: s.deps}, nil
}

func (s *Session) Admin() (*AdminHandle, error) {
	if !s.user.IsAdmin() {
		return nil, s.forbidden(user.RoleAdmin)
	}
	return &AdminHandle{deps: s.deps}, nil
}

// StudentHandle submits and tracks the session user's own projects.
type StudentHandle struct {
	user user.User
	deps *Deps
}

func (h *StudentHandle) Submit(ctx context.Context, sub project.Submission) (project.Project, error) {
	return h.deps.Lifecycle.Submit(ctx, h.user.ID, sub)
}

func (h *StudentHandle) MyProjects(ctx context.Context) ([]project.Project, error) {
	return h.deps.Projects.ListByStudent(ctx, h.user.ID)
}

func (h *StudentHandle) Summary(ctx context.Context) (report.StudentSummary, error) {
	return h.deps.Reports.StudentSummary(ctx, h.user.ID)
}

// EvaluatorHandle is the only way to evaluate a project. Evaluations are attributed to the
// session user.
type EvaluatorHandle struct {
	user user.User
	deps *Deps
}

func (h *EvaluatorHandle) Evaluate(ctx context.Context, projectID string, r project.Rubric, feedback string) (project.Project, error) {
	return h.deps.Engine.Evaluate(ctx, projectID, h.user.ID, r, feedback)
}

func (h *EvaluatorHandle) Submissions(ctx context.Context, filter report.Filter) ([]report.Submission, error) {
	return h.deps.Reports.Submissions(ctx, filter)
}

func (h *EvaluatorHandle) Download(ctx context.Context, projectID string) (project.Download, error) {
	return h.deps.Downloads.Request(ctx, projectID)
}

// AdminHandle manages accounts and the error log.
type AdminHandle struct {
	deps *Deps
}

func (h *AdminHandle) AddUser(ctx context.Context, nu user.NewUser) (user.User, error) {
	return h.deps.Users.Register(ctx, nu)
}

func (h *AdminHandle) DeleteUser(ctx context.Context, id string) error {
	return h.deps.Users.Delete(ctx, id)
}

func (h *AdminHandle) Users(ctx context.Context, search string) ([]user.User, error) {
	return h.deps.Users.Search(ctx, search)
}

func (h *AdminHandle) Projects(ctx context.Context) ([]report.Submission, error) {
	return h.deps.Reports.Submissions(ctx, report.Filter{})
}

func (h *AdminHandle) Errors(ctx context.Context) ([]errlog.Entry, error) {
	return h.deps.Errors.ListAll(ctx)
}

func (h *AdminHandle) Resolve(ctx context.Context, id string) error {
	return h.deps.Errors.Resolve(ctx, id)
}

func (h *AdminHandle) ClearResolved(ctx context.Context) error {
	return h.deps.Errors.ClearResolved(ctx)
}

func (h *AdminHandle) Overview(ctx context.Context) (report.Overview, error) {
	return h.deps.Reports.Overview(ctx)
}
