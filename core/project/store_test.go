package project_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/core/project"
	inmemdb "github.com/trezcool/rubrica/storage/database/inmem"
)

func newStore(t *testing.T) *project.Store {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("newStore() failed: %v", err)
	}
	return project.NewStore(inmemdb.NewProjectRepository(db))
}

func submitted(id, studentID, title string) project.Project {
	at := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	return project.Project{
		ID:          id,
		StudentID:   studentID,
		Title:       title,
		Description: "d",
		Tech:        "Go",
		Status:      project.StatusSubmitted,
		SubmittedAt: &at,
		Milestones:  project.DefaultMilestones(),
	}
}

func TestStore_Upsert(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	p1 := submitted("p1", "s1", "Smart Campus")
	p2 := submitted("p2", "s2", "E-Learning")
	require.NoError(t, store.Upsert(ctx, p1))
	require.NoError(t, store.Upsert(ctx, p2))

	got, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p1, got)

	// idempotent
	require.NoError(t, store.Upsert(ctx, p1))
	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []project.Project{p1, p2}, all)

	// replaced in place
	p1.Title = "Smart Campus v2"
	require.NoError(t, store.Upsert(ctx, p1))
	all, err = store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []project.Project{p1, p2}, all)
}

func TestStore_Upsert_copies(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	p := submitted("p1", "s1", "Smart Campus")
	require.NoError(t, store.Upsert(ctx, p))
	p.Milestones[3].Done = true

	got, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, got.Milestones[3].Done)
}

func TestStore_ListByStudent(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	p1 := submitted("p1", "s1", "A")
	p2 := submitted("p2", "s2", "B")
	p3 := submitted("p3", "s1", "C")
	for _, p := range []project.Project{p1, p2, p3} {
		require.NoError(t, store.Upsert(ctx, p))
	}

	tests := []struct {
		studentID string
		want      []project.Project
	}{
		{"s1", []project.Project{p1, p3}},
		{"s2", []project.Project{p2}},
		{"s9", nil},
	}
	for _, tt := range tests {
		t.Run(tt.studentID, func(t *testing.T) {
			got, err := store.ListByStudent(ctx, tt.studentID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_Get_notFound(t *testing.T) {
	_, err := newStore(t).Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestStore_Upsert_invalid(t *testing.T) {
	at := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	evaluated := func(ev project.Evaluation) project.Project {
		p := submitted("p9", "s1", "Broken")
		p.Status = project.StatusEvaluated
		p.Evaluation = &ev
		return p
	}
	tests := []struct {
		name string
		p    project.Project
	}{
		{"evaluated without evaluation", project.Project{ID: "p9", Status: project.StatusEvaluated, SubmittedAt: &at}},
		{"submitted without time", project.Project{ID: "p9", Status: project.StatusSubmitted}},
		{"unknown status", project.Project{ID: "p9", Status: "archived"}},
		{"marks above 100", evaluated(project.Evaluation{Marks: 150, Feedback: "ok", Rubric: project.Rubric{20, 25, 20, 20, 15}})},
		{"marks off the rubric", evaluated(project.Evaluation{Marks: 90, Feedback: "ok", Rubric: project.Rubric{18, 22, 16, 15, 14}})},
		{"category above ceiling", evaluated(project.Evaluation{Marks: 17, Feedback: "ok", Rubric: project.Rubric{Teamwork: 17}})},
		{"blank feedback", evaluated(project.Evaluation{Marks: 85, Feedback: " ", Rubric: project.Rubric{18, 22, 16, 15, 14}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			existing := submitted("p1", "s1", "Smart Campus")
			require.NoError(t, store.Upsert(ctx, existing))

			err := store.Upsert(ctx, tt.p)
			assert.True(t, errors.Is(err, &core.ValidationError{Reason: core.ReasonInvalidInput}), "got %v", err)

			all, err := store.ListAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []project.Project{existing}, all)
		})
	}
}

func TestStore_Upsert_normalizesTimes(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	local := time.Date(2025, 1, 10, 14, 30, 0, 123456789, time.FixedZone("EAT", 3*60*60))
	p := submitted("p1", "s1", "Smart Campus")
	p.SubmittedAt = &local
	p.Status = project.StatusEvaluated
	p.Evaluation = &project.Evaluation{
		Marks:       85,
		Feedback:    "Excellent",
		Rubric:      project.Rubric{18, 22, 16, 15, 14},
		EvaluatedBy: "f1",
		EvaluatedAt: local.Add(time.Hour),
	}
	require.NoError(t, store.Upsert(ctx, p))

	got, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	wantSubmitted := time.Date(2025, 1, 10, 11, 30, 0, 123000000, time.UTC)
	assert.Equal(t, wantSubmitted, *got.SubmittedAt)
	assert.Equal(t, wantSubmitted.Add(time.Hour), got.Evaluation.EvaluatedAt)
	assert.True(t, got.SubmittedAt.Equal(local.Truncate(time.Millisecond)))

	// storing the normalised record again changes nothing
	require.NoError(t, store.Upsert(ctx, got))
	again, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, got, again)
}
