// Package report builds the read models shown on the dashboards.
package report

import (
	"context"
	"math"
	"strings"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/core/errlog"
	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/user"
)

// Submission is a project with its student, when the student still exists.
type Submission struct {
	project.Project
	Student *user.User `json:"student"`
}

func (s Submission) StudentName() string {
	if s.Student == nil {
		return ""
	}
	return s.Student.Name
}

type Filter struct {
	Search string         // matched against title and student name
	Status project.Status // empty means any status
}

type Overview struct {
	Users            int                    `json:"users"`
	UsersByRole      map[user.Role]int      `json:"usersByRole"`
	Projects         int                    `json:"projects"`
	ProjectsByStatus map[project.Status]int `json:"projectsByStatus"`
	ActiveErrors     int                    `json:"activeErrors"`
}

type StudentSummary struct {
	Total        int `json:"total"`
	Submitted    int `json:"submitted"`
	Evaluated    int `json:"evaluated"`
	AverageMarks int `json:"averageMarks"` // rounded, 0 without evaluations
}

type Service struct {
	users    *user.Service
	projects *project.Store
	errs     *errlog.Service
}

func NewService(users *user.Service, projects *project.Store, errs *errlog.Service) *Service {
	return &Service{users: users, projects: projects, errs: errs}
}

// Submissions lists projects matching filter, in insertion order.
func (svc *Service) Submissions(ctx context.Context, filter Filter) ([]Submission, error) {
	projects, err := svc.projects.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	users, err := svc.users.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	search := core.CleanString(filter.Search, true /* lower */)
	subs := make([]Submission, 0, len(projects))
	for _, p := range projects {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		sub := Submission{Project: p}
		if u, ok := byID[p.StudentID]; ok {
			u := u
			sub.Student = &u
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title+" "+sub.StudentName()), search) {
			continue
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (svc *Service) Overview(ctx context.Context) (Overview, error) {
	users, err := svc.users.QueryAll(ctx)
	if err != nil {
		return Overview{}, err
	}
	projects, err := svc.projects.ListAll(ctx)
	if err != nil {
		return Overview{}, err
	}
	active, err := svc.errs.Unresolved(ctx)
	if err != nil {
		return Overview{}, err
	}

	ov := Overview{
		Users:            len(users),
		UsersByRole:      make(map[user.Role]int, len(user.AllRoles)),
		Projects:         len(projects),
		ProjectsByStatus: make(map[project.Status]int, len(project.AllStatuses)),
		ActiveErrors:     active,
	}
	for _, r := range user.AllRoles {
		ov.UsersByRole[r] = 0
	}
	for _, s := range project.AllStatuses {
		ov.ProjectsByStatus[s] = 0
	}
	for _, u := range users {
		ov.UsersByRole[u.Role]++
	}
	for _, p := range projects {
		ov.ProjectsByStatus[p.Status]++
	}
	return ov, nil
}

func (svc *Service) StudentSummary(ctx context.Context, studentID string) (StudentSummary, error) {
	projects, err := svc.projects.ListByStudent(ctx, studentID)
	if err != nil {
		return StudentSummary{}, err
	}
	sum := StudentSummary{Total: len(projects)}
	var marks int
	for _, p := range projects {
		switch p.Status {
		case project.StatusSubmitted:
			sum.Submitted++
		case project.StatusEvaluated:
			sum.Evaluated++
			if p.Evaluation != nil {
				marks += p.Evaluation.Marks
			}
		}
	}
	if sum.Evaluated > 0 {
		sum.AverageMarks = int(math.Round(float64(marks) / float64(sum.Evaluated)))
	}
	return sum, nil
}
