// Package domain defines the core business entities and interfaces for gitver.
// This package contains no external dependencies and represents the innermost layer
// of the CLEAN architecture.
package domain

import (
	"context"
	"errors"
)

// Domain errors for repository inspection and version derivation.
var (
	// ErrRepositoryUnavailable indicates no repository metadata could be
	// opened at a resolved path. Callers must have already confirmed
	// existence via the probe before opening.
	ErrRepositoryUnavailable = errors.New("git repository metadata could not be opened")

	// ErrNoCommits indicates the repository has no commit history.
	// Version computation cannot proceed and must abort.
	ErrNoCommits = errors.New("repository has no commits")

	// ErrDescribeParse indicates the describe output did not match the
	// expected <tag>-<distance>-g<hash> shape. This signals an
	// environment or toolchain mismatch and is not recoverable.
	ErrDescribeParse = errors.New("malformed describe output")
)

// RepositoryGateway provides read-only access to an existing repository's
// refs, commit log, tag objects, and working-tree status. The core never
// issues writes through this interface, so implementations only need to
// tolerate concurrent reads.
type RepositoryGateway interface {
	// HeadCommit resolves the current HEAD commit.
	// Returns ErrNoCommits if the repository has no history.
	HeadCommit(ctx context.Context) (*HeadCommit, error)

	// CurrentBranchName returns the short name of the checked-out branch,
	// or an empty string if HEAD is detached.
	CurrentBranchName(ctx context.Context) (string, error)

	// Tags returns every tag in the repository with its peeled target
	// commit and that commit's timestamp.
	Tags(ctx context.Context) ([]TagRef, error)

	// PeeledTagTargets maps each tag's peeled commit id to its TagRef.
	// Annotated tags are dereferenced to the commit they ultimately
	// target. When several tags share a commit, the mapping keeps one.
	PeeledTagTargets(ctx context.Context) (map[string]TagRef, error)

	// DescribeLong emulates the long-form describe operation for HEAD:
	// the nearest reachable tag encoded as <tag>-<distance>-g<abbrevhash>.
	// The second return is false when no tag is reachable in history.
	DescribeLong(ctx context.Context) (string, bool, error)

	// WorkingTreeChanges returns the staged and unstaged paths currently
	// differing from HEAD.
	WorkingTreeChanges(ctx context.Context) (staged, unstaged []string, err error)

	// ResolveBranchTarget resolves the branch reference's target commit
	// id. The second return is false when the branch cannot be resolved,
	// for example when the name came from an environment override and no
	// such ref exists locally.
	ResolveBranchTarget(ctx context.Context, branch string) (string, bool, error)

	// Close releases any resources held by the gateway.
	Close() error
}

// OutputWriter renders query results to an output destination.
type OutputWriter interface {
	// WriteRecord renders a VersionRecord.
	WriteRecord(record *VersionRecord) error

	// WriteTags renders an ordered list of tag names, one per line.
	WriteTags(names []string) error
}

// VersionQuery derives version descriptors from repository state.
type VersionQuery interface {
	// GetInfo derives one VersionRecord from the current repository
	// state, or the None sentinel when no repository is present.
	GetInfo(ctx context.Context, input DeriveInput) (*VersionRecord, error)

	// BaseTags returns tags named <base>.<N>, ordered by the base-tag
	// precedence rules.
	BaseTags(ctx context.Context, base string) ([]string, error)

	// LatestRelease returns the highest semantic version among all tags,
	// or false when no tag parses as a version.
	LatestRelease(ctx context.Context) (string, bool, error)
}
