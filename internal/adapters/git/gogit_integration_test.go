// Package git provides adapters for interacting with local Git repositories.
package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildstamp/gitver/internal/domain"
)

// initPlainRepo initializes an on-disk repository under a temp dir.
func initPlainRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return dir
}

func TestOpen_Success(t *testing.T) {
	dir := initPlainRepo(t)

	gateway, err := Open(dir, &testLogger{})

	require.NoError(t, err)
	require.NotNil(t, gateway)
	assert.Equal(t, dir, gateway.path)
	require.NoError(t, gateway.Close())
}

func TestOpen_DetectsDotGitUpward(t *testing.T) {
	dir := initPlainRepo(t)
	nested := filepath.Join(dir, "sub", "module")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	gateway, err := Open(nested, &testLogger{})

	require.NoError(t, err)
	require.NotNil(t, gateway)
}

func TestOpen_NotARepository(t *testing.T) {
	dir := t.TempDir()

	gateway, err := Open(dir, &testLogger{})

	require.Error(t, err)
	assert.Nil(t, gateway)
	assert.ErrorIs(t, err, domain.ErrRepositoryUnavailable)
}

func TestOpen_EmptyRepositoryHasNoCommits(t *testing.T) {
	dir := initPlainRepo(t)

	gateway, err := Open(dir, &testLogger{})
	require.NoError(t, err)

	_, err = gateway.HeadCommit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoCommits)

	_, err = gateway.CurrentBranchName(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoCommits)
}

func TestExists(t *testing.T) {
	repoDir := initPlainRepo(t)
	plainDir := t.TempDir()

	tests := []struct {
		name       string
		candidates []string
		want       bool
	}{
		{
			name:       "repository marker in first candidate",
			candidates: []string{repoDir, plainDir},
			want:       true,
		},
		{
			name:       "repository marker in a later candidate",
			candidates: []string{plainDir, repoDir},
			want:       true,
		},
		{
			name:       "no marker anywhere",
			candidates: []string{plainDir, filepath.Join(plainDir, "missing")},
			want:       false,
		},
		{
			name:       "empty candidates are skipped",
			candidates: []string{"", repoDir},
			want:       true,
		},
		{
			name:       "no candidates",
			candidates: nil,
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Exists(tt.candidates...))
		})
	}
}
