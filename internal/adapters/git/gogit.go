// Package git provides adapters for interacting with local Git repositories.
// This package implements the domain.RepositoryGateway interface using go-git/v5.
package git

import (
	"context"
	"errors"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/buildstamp/gitver/internal/domain"
)

// abbrevLen is the length of abbreviated commit hashes, matching the
// default short form used by describe output.
const abbrevLen = 7

// Logger defines the logging interface for the git adapter.
// This interface enables dependency injection and testability.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// Gateway implements domain.RepositoryGateway using go-git/v5.
// It issues only reads against the repository, so independent gateways may
// run concurrently over the same clone.
type Gateway struct {
	repo   *gogit.Repository
	path   string
	logger Logger
}

// Open creates a Gateway for the repository at the given path. The .git
// directory is detected upward from the path, so a subdirectory of a
// working copy is acceptable. Returns domain.ErrRepositoryUnavailable when
// no repository metadata can be opened; callers are expected to have
// confirmed existence with Exists first.
func Open(path string, log Logger) (*Gateway, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRepositoryUnavailable, path)
	}

	return &Gateway{
		repo:   repo,
		path:   path,
		logger: log,
	}, nil
}

// NewFromRepository wraps an already-open go-git repository. Used by tests
// that build fixtures on in-memory storage.
func NewFromRepository(repo *gogit.Repository, log Logger) *Gateway {
	return &Gateway{repo: repo, logger: log}
}

// HeadCommit resolves the current HEAD commit. Returns domain.ErrNoCommits
// when the repository has no history.
func (g *Gateway) HeadCommit(ctx context.Context) (*domain.HeadCommit, error) {
	commit, err := g.headCommitObject()
	if err != nil {
		return nil, err
	}

	parents, err := g.reachableParentCount(commit)
	if err != nil {
		return nil, err
	}

	hash := commit.Hash.String()
	head := &domain.HeadCommit{
		Hash:        hash,
		Abbreviated: hash[:abbrevLen],
		ParentCount: parents,
		ObjectID:    hash,
	}

	g.logger.Debug(ctx, "resolved HEAD commit", map[string]interface{}{
		"commit":       head.Hash,
		"parent_count": head.ParentCount,
	})

	return head, nil
}

// reachableParentCount counts the parents of commit whose objects are present
// in this clone. A commit listed in the shallow grafts, or whose recorded
// parents were never fetched, has none: the clone's history is truncated there
// even though the commit object still names its parents.
func (g *Gateway) reachableParentCount(commit *object.Commit) (int, error) {
	grafts, err := g.repo.Storer.Shallow()
	if err != nil {
		return 0, fmt.Errorf("reading shallow grafts: %w", err)
	}
	for _, grafted := range grafts {
		if grafted == commit.Hash {
			return 0, nil
		}
	}

	count := 0
	for _, parent := range commit.ParentHashes {
		if _, err := g.repo.CommitObject(parent); err != nil {
			continue
		}
		count++
	}
	return count, nil
}

// CurrentBranchName returns the short name of the checked-out branch, or
// an empty string when HEAD is detached.
func (g *Gateway) CurrentBranchName(ctx context.Context) (string, error) {
	head, err := g.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", fmt.Errorf("%w: %v", domain.ErrNoCommits, err)
		}
		return "", fmt.Errorf("resolving HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		g.logger.Warn(ctx, "HEAD is detached; branch name will be empty", map[string]interface{}{
			"head_sha": head.Hash().String(),
			"path":     g.path,
		})
		return "", nil
	}
	return head.Name().Short(), nil
}

// Tags returns every tag with its peeled target commit and timestamp.
// Tags that do not ultimately target a commit are skipped.
func (g *Gateway) Tags(ctx context.Context) ([]domain.TagRef, error) {
	var tags []domain.TagRef
	err := g.forEachTag(ctx, func(ref domain.TagRef) {
		tags = append(tags, ref)
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// PeeledTagTargets maps each tag's peeled commit id to its TagRef. When
// several tags share a commit the mapping keeps one of them.
func (g *Gateway) PeeledTagTargets(ctx context.Context) (map[string]domain.TagRef, error) {
	targets := make(map[string]domain.TagRef)
	err := g.forEachTag(ctx, func(ref domain.TagRef) {
		targets[ref.Target] = ref
	})
	if err != nil {
		return nil, err
	}
	return targets, nil
}

// DescribeLong emulates the long-form describe operation for HEAD: the
// nearest reachable tag encoded as <tag>-<distance>-g<abbrevhash>. The
// second return is false when no tag is reachable in history.
func (g *Gateway) DescribeLong(ctx context.Context) (string, bool, error) {
	commit, err := g.headCommitObject()
	if err != nil {
		return "", false, err
	}

	peeled, err := g.PeeledTagTargets(ctx)
	if err != nil {
		return "", false, err
	}
	if len(peeled) == 0 {
		return "", false, nil
	}

	var (
		tagName  string
		distance int
		found    bool
	)
	walker := object.NewCommitPreorderIter(commit, nil, nil)
	err = walker.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if ref, ok := peeled[c.Hash.String()]; ok {
			tagName = ref.Name
			found = true
			return storer.ErrStop
		}
		distance++
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return "", false, fmt.Errorf("walking commit history: %w", err)
	}
	if !found {
		return "", false, nil
	}

	described := fmt.Sprintf("%s-%d-g%s", tagName, distance, commit.Hash.String()[:abbrevLen])
	g.logger.Debug(ctx, "described HEAD", map[string]interface{}{
		"describe": described,
	})
	return described, true, nil
}

// WorkingTreeChanges returns the staged and unstaged paths currently
// differing from HEAD. Untracked files count as unstaged. A bare
// repository has no working tree and reports no changes.
func (g *Gateway) WorkingTreeChanges(_ context.Context) (staged, unstaged []string, err error) {
	workTree, err := g.repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := workTree.Status()
	if err != nil {
		return nil, nil, fmt.Errorf("getting git status: %w", err)
	}

	for path, fileStatus := range status {
		if fileStatus.Staging != gogit.Unmodified && fileStatus.Staging != gogit.Untracked {
			staged = append(staged, path)
		}
		if fileStatus.Worktree != gogit.Unmodified {
			unstaged = append(unstaged, path)
		}
	}
	sort.Strings(staged)
	sort.Strings(unstaged)
	return staged, unstaged, nil
}

// ResolveBranchTarget resolves the branch reference's target commit id.
// The second return is false when the branch cannot be resolved locally,
// which happens when the name came from an environment override with no
// matching ref.
func (g *Gateway) ResolveBranchTarget(_ context.Context, branch string) (string, bool, error) {
	if branch == "" {
		return "", false, nil
	}
	hash, err := g.repo.ResolveRevision(plumbing.Revision(branch))
	if err != nil {
		return "", false, nil
	}
	return hash.String(), true, nil
}

// Close releases any resources held by the gateway.
// For go-git, this is a no-op as the repository doesn't hold persistent resources.
func (g *Gateway) Close() error {
	return nil
}

func (g *Gateway) headCommitObject() (*object.Commit, error) {
	head, err := g.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("%w: %v", domain.ErrNoCommits, err)
		}
		return nil, fmt.Errorf("resolving HEAD reference: %w", err)
	}

	commit, err := g.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("getting commit object for HEAD: %w", err)
	}
	return commit, nil
}

// forEachTag peels every tag reference to its target commit and hands a
// TagRef to fn. Annotated tags are dereferenced through the tag object;
// lightweight tags point at the commit directly.
func (g *Gateway) forEachTag(ctx context.Context, fn func(domain.TagRef)) error {
	iter, err := g.repo.Tags()
	if err != nil {
		return fmt.Errorf("listing tags: %w", err)
	}

	return iter.ForEach(func(ref *plumbing.Reference) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		commit, err := g.peelToCommit(ref)
		if err != nil {
			g.logger.Debug(ctx, "skipping tag without commit target", map[string]interface{}{
				"tag":   ref.Name().Short(),
				"error": err.Error(),
			})
			return nil
		}

		fn(domain.TagRef{
			Name:   ref.Name().Short(),
			Target: commit.Hash.String(),
			When:   commit.Committer.When,
		})
		return nil
	})
}

func (g *Gateway) peelToCommit(ref *plumbing.Reference) (*object.Commit, error) {
	tagObject, err := g.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		// Annotated tag: dereference to the target commit.
		return tagObject.Commit()
	case errors.Is(err, plumbing.ErrObjectNotFound):
		// Lightweight tag: the ref points at the commit directly.
		return g.repo.CommitObject(ref.Hash())
	default:
		return nil, err
	}
}
