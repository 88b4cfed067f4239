package git

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

// testLogger is a minimal logger for testing that doesn't output anything.
type testLogger struct{}

func (l *testLogger) Debug(_ context.Context, _ string, _ map[string]interface{}) {}
func (l *testLogger) Warn(_ context.Context, _ string, _ map[string]interface{})  {}

// testClock hands out strictly increasing commit timestamps so recency
// ordering in fixtures is deterministic.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) next() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func signatureAt(when time.Time) *object.Signature {
	return &object.Signature{
		Name:  "test",
		Email: "test@example.com",
		When:  when,
	}
}

// newMemoryRepo creates a new in-memory git repository for testing.
func newMemoryRepo(t *testing.T) *gogit.Repository {
	t.Helper()

	repo, err := gogit.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)
	return repo
}

// commitFile writes content to a file, stages it, and commits, returning
// the new commit hash.
func commitFile(t *testing.T, repo *gogit.Repository, clock *testClock, filename, content string) plumbing.Hash {
	t.Helper()

	workTree, err := repo.Worktree()
	require.NoError(t, err)

	writeWorktreeFile(t, repo, filename, content)

	_, err = workTree.Add(filename)
	require.NoError(t, err)

	sig := signatureAt(clock.next())
	hash, err := workTree.Commit("add "+filename, &gogit.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	require.NoError(t, err)
	return hash
}

// writeWorktreeFile writes a file into the repository's worktree without
// staging it.
func writeWorktreeFile(t *testing.T, repo *gogit.Repository, filename, content string) {
	t.Helper()

	workTree, err := repo.Worktree()
	require.NoError(t, err)

	file, err := workTree.Filesystem.Create(filename)
	require.NoError(t, err)
	defer file.Close()

	_, err = file.Write([]byte(content))
	require.NoError(t, err)
}

// lightweightTag creates a tag reference pointing directly at a commit.
func lightweightTag(t *testing.T, repo *gogit.Repository, name string, target plumbing.Hash) {
	t.Helper()

	_, err := repo.CreateTag(name, target, nil)
	require.NoError(t, err)
}

// annotatedTag creates a tag object pointing at a commit.
func annotatedTag(t *testing.T, repo *gogit.Repository, clock *testClock, name string, target plumbing.Hash) {
	t.Helper()

	_, err := repo.CreateTag(name, target, &gogit.CreateTagOptions{
		Tagger:  signatureAt(clock.next()),
		Message: "release " + name,
	})
	require.NoError(t, err)
}

// testGateway wraps a repository in a Gateway with a silent logger.
func testGateway(repo *gogit.Repository) *Gateway {
	return NewFromRepository(repo, &testLogger{})
}
