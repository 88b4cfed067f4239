package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildstamp/gitver/internal/domain"
)

// mockLogger implements the Logger interface for testing.
type mockLogger struct{}

func (m *mockLogger) Info(_ context.Context, _ string, _ map[string]interface{})           {}
func (m *mockLogger) Debug(_ context.Context, _ string, _ map[string]interface{})          {}
func (m *mockLogger) Warn(_ context.Context, _ string, _ map[string]interface{})           {}
func (m *mockLogger) Error(_ context.Context, _ string, _ error, _ map[string]interface{}) {}

// mockGateway implements domain.RepositoryGateway for testing.
type mockGateway struct {
	head          *domain.HeadCommit
	headErr       error
	branch        string
	branchErr     error
	tags          []domain.TagRef
	tagsErr       error
	peeled        map[string]domain.TagRef
	described     string
	describedOK   bool
	describedErr  error
	staged        []string
	unstaged      []string
	statusErr     error
	branchTargets map[string]string
	closeCalled   bool
}

func (m *mockGateway) HeadCommit(_ context.Context) (*domain.HeadCommit, error) {
	if m.headErr != nil {
		return nil, m.headErr
	}
	return m.head, nil
}

func (m *mockGateway) CurrentBranchName(_ context.Context) (string, error) {
	return m.branch, m.branchErr
}

func (m *mockGateway) Tags(_ context.Context) ([]domain.TagRef, error) {
	return m.tags, m.tagsErr
}

func (m *mockGateway) PeeledTagTargets(_ context.Context) (map[string]domain.TagRef, error) {
	return m.peeled, nil
}

func (m *mockGateway) DescribeLong(_ context.Context) (string, bool, error) {
	return m.described, m.describedOK, m.describedErr
}

func (m *mockGateway) WorkingTreeChanges(_ context.Context) ([]string, []string, error) {
	return m.staged, m.unstaged, m.statusErr
}

func (m *mockGateway) ResolveBranchTarget(_ context.Context, branch string) (string, bool, error) {
	target, ok := m.branchTargets[branch]
	return target, ok, nil
}

func (m *mockGateway) Close() error {
	m.closeCalled = true
	return nil
}

func openerFor(gw *mockGateway) GatewayOpener {
	return func(_ context.Context) (domain.RepositoryGateway, error) {
		return gw, nil
	}
}

func probeResult(present bool) func() bool {
	return func() bool { return present }
}

func TestVersionResolver_GetInfo_NoRepository(t *testing.T) {
	resolver := NewVersionResolver(probeResult(false), nil, &mockLogger{})

	record, err := resolver.GetInfo(context.Background(), domain.DeriveInput{})

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.IsNone())
	assert.Equal(t, domain.None(), record, "sentinel must be returned whole")
	assert.Empty(t, record.VersionCode)
}

func TestVersionResolver_GetInfo_TaggedHead(t *testing.T) {
	gw := &mockGateway{
		head: &domain.HeadCommit{
			Hash:        "aaaabbbbccccddddeeeeffff0000111122223333",
			Abbreviated: "aaaabbb",
			ParentCount: 1,
			ObjectID:    "aaaabbbbccccddddeeeeffff0000111122223333",
		},
		branch:      "main",
		described:   "2.10.5-0-gaaaabbb",
		describedOK: true,
		tags: []domain.TagRef{
			{Name: "2.10.5", Target: "aaaabbbbccccddddeeeeffff0000111122223333"},
		},
		branchTargets: map[string]string{
			"main": "aaaabbbbccccddddeeeeffff0000111122223333",
		},
	}
	resolver := NewVersionResolver(probeResult(true), openerFor(gw), &mockLogger{})

	record, err := resolver.GetInfo(context.Background(), domain.DeriveInput{
		BranchEnvVars: []string{"BRANCH_NAME"},
		Environment:   map[string]string{},
	})

	require.NoError(t, err)
	assert.Equal(t, "main", record.Branch)
	assert.Equal(t, "aaaabbbbccccddddeeeeffff0000111122223333", record.Commit)
	assert.Equal(t, "aaaabbb", record.Abbreviated)
	assert.Equal(t, "2.10.5", record.Tag)
	assert.False(t, record.Shallow)
	assert.False(t, record.Dirty)
	assert.Equal(t, "2.10.5", record.VersionName)
	assert.Equal(t, "21005", record.VersionCode)
	assert.True(t, gw.closeCalled)
}

func TestVersionResolver_GetInfo_BranchOverrideAndDirty(t *testing.T) {
	gw := &mockGateway{
		head: &domain.HeadCommit{
			Hash:        "1111222233334444555566667777888899990000",
			Abbreviated: "1111222",
			ParentCount: 1,
			ObjectID:    "1111222233334444555566667777888899990000",
		},
		branch:      "main",
		describedOK: false,
		unstaged:    []string{"src/app.go"},
	}
	resolver := NewVersionResolver(probeResult(true), openerFor(gw), &mockLogger{})

	record, err := resolver.GetInfo(context.Background(), domain.DeriveInput{
		BranchEnvVars: []string{"BRANCH_NAME"},
		Environment:   map[string]string{"BRANCH_NAME": "feature/login"},
		IgnorePrefix:  "sandbox/",
	})

	require.NoError(t, err)
	assert.Equal(t, "feature/login", record.Branch, "override taken verbatim, pre-normalization")
	assert.Empty(t, record.Tag)
	assert.True(t, record.Dirty)
	assert.Equal(t, "featureLogin", record.VersionName)
	assert.Equal(t, "1", record.VersionCode)
}

func TestVersionResolver_GetInfo_NoCommitsIsFatal(t *testing.T) {
	gw := &mockGateway{
		headErr: domain.ErrNoCommits,
		branch:  "main",
	}
	resolver := NewVersionResolver(probeResult(true), openerFor(gw), &mockLogger{})

	record, err := resolver.GetInfo(context.Background(), domain.DeriveInput{})

	require.Error(t, err)
	assert.Nil(t, record)
	assert.ErrorIs(t, err, domain.ErrNoCommits)
}

func TestVersionResolver_GetInfo_MalformedDescribeIsFatal(t *testing.T) {
	gw := &mockGateway{
		head: &domain.HeadCommit{
			Hash:        "1111222233334444555566667777888899990000",
			Abbreviated: "1111222",
			ParentCount: 1,
			ObjectID:    "1111222233334444555566667777888899990000",
		},
		branch:      "main",
		described:   "1.2.3-4",
		describedOK: true,
	}
	resolver := NewVersionResolver(probeResult(true), openerFor(gw), &mockLogger{})

	_, err := resolver.GetInfo(context.Background(), domain.DeriveInput{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDescribeParse)
}

func TestVersionResolver_GetInfo_OpenFailure(t *testing.T) {
	open := func(_ context.Context) (domain.RepositoryGateway, error) {
		return nil, domain.ErrRepositoryUnavailable
	}
	resolver := NewVersionResolver(probeResult(true), open, &mockLogger{})

	_, err := resolver.GetInfo(context.Background(), domain.DeriveInput{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRepositoryUnavailable)
}

func TestVersionResolver_BaseTags(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	gw := &mockGateway{
		tags: []domain.TagRef{
			{Name: "1.2.1", Target: "c1", When: base.Add(100 * time.Second)},
			{Name: "1.2.3", Target: "c1", When: base.Add(100 * time.Second)},
			{Name: "1.2.2", Target: "c2", When: base.Add(50 * time.Second)},
		},
	}
	resolver := NewVersionResolver(probeResult(true), openerFor(gw), &mockLogger{})

	names, err := resolver.BaseTags(context.Background(), "1.2")

	require.NoError(t, err)
	assert.Equal(t, []string{"1.2.3", "1.2.1", "1.2.2"}, names)
	assert.True(t, gw.closeCalled)
}

func TestVersionResolver_BaseTags_TagListError(t *testing.T) {
	gw := &mockGateway{tagsErr: errors.New("object store corrupt")}
	resolver := NewVersionResolver(probeResult(true), openerFor(gw), &mockLogger{})

	_, err := resolver.BaseTags(context.Background(), "1.2")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing tags")
}

func TestVersionResolver_LatestRelease(t *testing.T) {
	gw := &mockGateway{
		tags: []domain.TagRef{
			{Name: "v1.9.0"},
			{Name: "v1.10.0"},
			{Name: "nightly"},
		},
	}
	resolver := NewVersionResolver(probeResult(true), openerFor(gw), &mockLogger{})

	name, found, err := resolver.LatestRelease(context.Background())

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v1.10.0", name)
}
