package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/core/project"
	"github.com/trezcool/rubrica/core/user"
	"github.com/trezcool/rubrica/tests"
)

func TestLifecycle_Submit(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	priya := testutil.CreateUser(t, env, "Priya Singh", "priya@student.edu", "student123", user.RoleStudent)
	faculty := testutil.CreateUser(t, env, "Dr. Anita Sharma", "anita@faculty.edu", "faculty123", user.RoleFaculty)
	lc := env.Deps.Lifecycle

	p, err := lc.Submit(ctx, priya.ID, project.Submission{Title: "AI Chatbot", Description: "NLP bot", Tech: "Python"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, priya.ID, p.StudentID)
	assert.Equal(t, project.StatusSubmitted, p.Status)
	assert.NotNil(t, p.SubmittedAt)
	assert.Nil(t, p.FileName)
	assert.Nil(t, p.Evaluation)
	assert.Equal(t, project.DefaultMilestones(), p.Milestones)
	assert.NoError(t, p.CheckInvariants())

	mine, err := env.Deps.Projects.ListByStudent(ctx, priya.ID)
	require.NoError(t, err)
	assert.Equal(t, []project.Project{p}, mine)

	withFile, err := lc.Submit(ctx, priya.ID, project.Submission{Title: "T", Description: "D", Tech: "Go", FileName: "code.zip"})
	require.NoError(t, err)
	require.NotNil(t, withFile.FileName)
	assert.Equal(t, "code.zip", *withFile.FileName)

	t.Run("rejected submissions are not stored", func(t *testing.T) {
		tests := []struct {
			name      string
			studentID string
			sub       project.Submission
			wantErr   error
		}{
			{"missing title", priya.ID, project.Submission{Description: "D", Tech: "Go"}, core.ErrMissingFields},
			{"unknown student", "ghost", project.Submission{Title: "T", Description: "D", Tech: "Go"}, core.ErrNotFound},
			{"not a student", faculty.ID, project.Submission{Title: "T", Description: "D", Tech: "Go"}, core.ErrInvalidActor},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := lc.Submit(ctx, tt.studentID, tt.sub)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				all, err := env.Deps.Projects.ListAll(ctx)
				require.NoError(t, err)
				assert.Len(t, all, 2)
			})
		}
	})
}
