package report_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/report"
	"github.com/trezcool/rubrica/core/user"
	"github.com/trezcool/rubrica/tests"
)

type fixture struct {
	env            *testutil.Env
	priya, arjun   user.User
	smart, elearn  project.Project
	chatbot, draft project.Project
}

func setup(t *testing.T) fixture {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	fx := fixture{env: env}
	fx.priya = testutil.CreateUser(t, env, "Priya Singh", "priya@student.edu", "x", user.RoleStudent)
	fx.arjun = testutil.CreateUser(t, env, "Arjun Mehta", "arjun@student.edu", "x", user.RoleStudent)
	faculty := testutil.CreateUser(t, env, "Dr. Rajesh Kumar", "rajesh@faculty.edu", "x", user.RoleFaculty)
	testutil.CreateUser(t, env, "Admin User", "admin@university.edu", "x", user.RoleAdmin)

	submit := func(studentID, title string) project.Project {
		p, err := env.Deps.Lifecycle.Submit(ctx, studentID, project.Submission{Title: title, Description: "d", Tech: "Go"})
		require.NoError(t, err)
		return p
	}
	fx.smart = submit(fx.priya.ID, "Smart Campus Management")
	fx.elearn = submit(fx.arjun.ID, "E-Learning Platform")
	fx.chatbot = submit(fx.priya.ID, "AI Chatbot")
	fx.draft = testutil.CreateProject(t, env, project.Project{ID: "p3", StudentID: fx.arjun.ID, Title: "Mobile Health Tracker", Status: project.StatusDraft})

	var err error
	fx.smart, err = env.Deps.Engine.Evaluate(ctx, fx.smart.ID, faculty.ID, project.Rubric{Innovation: 18, Technical: 22, Presentation: 16, Documentation: 15, Teamwork: 15}, "Excellent")
	require.NoError(t, err)
	fx.chatbot, err = env.Deps.Engine.Evaluate(ctx, fx.chatbot.ID, faculty.ID, project.Rubric{Innovation: 15, Technical: 20, Presentation: 15, Documentation: 15, Teamwork: 10}, "Good")
	require.NoError(t, err)
	return fx
}

func titles(subs []report.Submission) []string {
	var ts []string
	for _, s := range subs {
		ts = append(ts, s.Title)
	}
	return ts
}

func TestService_Submissions(t *testing.T) {
	fx := setup(t)

	tests := []struct {
		name   string
		filter report.Filter
		want   []string
	}{
		{"all", report.Filter{}, []string{"Smart Campus Management", "E-Learning Platform", "AI Chatbot", "Mobile Health Tracker"}},
		{"by title", report.Filter{Search: "CAMPUS"}, []string{"Smart Campus Management"}},
		{"by student name", report.Filter{Search: "arjun"}, []string{"E-Learning Platform", "Mobile Health Tracker"}},
		{"by status", report.Filter{Status: project.StatusEvaluated}, []string{"Smart Campus Management", "AI Chatbot"}},
		{"by status and student", report.Filter{Search: "priya", Status: project.StatusSubmitted}, nil},
		{"no match", report.Filter{Search: "blockchain"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs, err := fx.env.Deps.Reports.Submissions(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(subs))
		})
	}
}

func TestService_Submissions_deletedStudent(t *testing.T) {
	ctx := context.Background()
	fx := setup(t)
	require.NoError(t, fx.env.Deps.Users.Delete(ctx, fx.arjun.ID))

	subs, err := fx.env.Deps.Reports.Submissions(ctx, report.Filter{Status: project.StatusSubmitted})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Nil(t, subs[0].Student)
	assert.Equal(t, "", subs[0].StudentName())
}

func TestService_Overview(t *testing.T) {
	ctx := context.Background()
	fx := setup(t)
	_, err := fx.env.Deps.Downloads.Request(ctx, fx.elearn.ID)
	require.NoError(t, err)

	ov, err := fx.env.Deps.Reports.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.Overview{
		Users:            4,
		UsersByRole:      map[user.Role]int{user.RoleStudent: 2, user.RoleFaculty: 1, user.RoleAdmin: 1},
		Projects:         4,
		ProjectsByStatus: map[project.Status]int{project.StatusDraft: 1, project.StatusSubmitted: 1, project.StatusEvaluated: 2},
		ActiveErrors:     1,
	}, ov)
}

func TestService_StudentSummary(t *testing.T) {
	ctx := context.Background()
	fx := setup(t)

	tests := []struct {
		name      string
		studentID string
		want      report.StudentSummary
	}{
		// (86 + 75) / 2 = 80.5
		{"evaluated projects", fx.priya.ID, report.StudentSummary{Total: 2, Evaluated: 2, AverageMarks: 81}},
		{"nothing evaluated", fx.arjun.ID, report.StudentSummary{Total: 2, Submitted: 1}},
		{"no projects", "ghost", report.StudentSummary{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fx.env.Deps.Reports.StudentSummary(ctx, tt.studentID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
