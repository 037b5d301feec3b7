package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/tests"
)

func TestDownloads_Request(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv(t)
	file := "campus.zip"
	withFile := submitted("p1", "s1", "Smart Campus")
	withFile.FileName = &file
	withoutFile := submitted("p2", "s2", "E-Learning")
	testutil.CreateProject(t, env, withFile)
	testutil.CreateProject(t, env, withoutFile)

	dl, err := env.Deps.Downloads.Request(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, dl.Available)
	assert.Equal(t, "campus.zip", dl.FileName)
	entries, err := env.Deps.Errors.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	dl, err = env.Deps.Downloads.Request(ctx, "p2")
	require.NoError(t, err)
	assert.False(t, dl.Available)
	assert.Equal(t, "p2", dl.Project.ID)
	entries, err = env.Deps.Errors.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, `Download attempted for project "E-Learning" (ID: p2) - no file attached yet.`, entries[0].Message)
	assert.False(t, entries[0].Resolved)

	_, err = env.Deps.Downloads.Request(ctx, "nope")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}
