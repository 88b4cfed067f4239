// Package usecases contains the application business logic.
// This package orchestrates domain entities and interfaces to fulfill use cases.
package usecases

import (
	"context"
	"fmt"

	"github.com/buildstamp/gitver/internal/domain"
)

// Logger defines the logging interface required by the resolver.
// This abstracts the logger dependency to avoid coupling to a specific implementation.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// GatewayOpener opens a fresh repository gateway. Each query performs a
// fresh open and fresh reads, so repeated invocations observe current
// repository state and share no mutable state with each other.
type GatewayOpener func(ctx context.Context) (domain.RepositoryGateway, error)

// VersionResolver derives version descriptors from repository state.
// It implements domain.VersionQuery.
type VersionResolver struct {
	probe  func() bool
	open   GatewayOpener
	logger Logger
}

// NewVersionResolver creates a VersionResolver with the given dependencies.
// The probe reports whether any candidate directory carries repository
// metadata; the opener is only invoked after a successful probe.
func NewVersionResolver(probe func() bool, open GatewayOpener, log Logger) *VersionResolver {
	return &VersionResolver{
		probe:  probe,
		open:   open,
		logger: log,
	}
}

// GetInfo derives one VersionRecord from the current repository state.
// When no repository is present the None sentinel is returned whole, with
// no error. Empty commit history and malformed describe output abort with
// domain.ErrNoCommits and domain.ErrDescribeParse respectively.
func (r *VersionResolver) GetInfo(ctx context.Context, input domain.DeriveInput) (*domain.VersionRecord, error) {
	if !r.probe() {
		r.logger.Info(ctx, "no repository present, returning empty version record", nil)
		return domain.None(), nil
	}

	gateway, err := r.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	defer r.closeGateway(ctx, gateway)

	branch, err := ResolveBranch(ctx, input.Environment, input.BranchEnvVars, gateway)
	if err != nil {
		return nil, fmt.Errorf("resolving branch: %w", err)
	}

	classification, err := ClassifyCommit(ctx, gateway)
	if err != nil {
		return nil, err
	}

	staged, unstaged, err := gateway.WorkingTreeChanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading working tree status: %w", err)
	}
	dirty := EvaluateDirty(staged, unstaged, input.IgnorePrefix)

	versionName, err := DeriveVersionName(ctx, gateway, branch)
	if err != nil {
		return nil, err
	}

	record := &domain.VersionRecord{
		Branch:      branch,
		Commit:      classification.Commit,
		Abbreviated: classification.Abbreviated,
		Tag:         classification.Tag,
		Dirty:       dirty,
		Shallow:     classification.Shallow,
		VersionName: versionName,
		VersionCode: VersionCode(versionName),
	}

	r.logger.Debug(ctx, "derived version record", map[string]interface{}{
		"branch":       record.Branch,
		"commit":       record.Commit,
		"tag":          record.Tag,
		"dirty":        record.Dirty,
		"shallow":      record.Shallow,
		"version_name": record.VersionName,
		"version_code": record.VersionCode,
	})

	return record, nil
}

// BaseTags returns the tags named <base>.<N>, ordered by the base-tag
// precedence rules. It is an independent query path against the same
// gateway.
func (r *VersionResolver) BaseTags(ctx context.Context, base string) ([]string, error) {
	tags, err := r.listTags(ctx)
	if err != nil {
		return nil, err
	}
	return SortBaseTags(tags, base), nil
}

// LatestRelease returns the highest semantic version among all tags.
func (r *VersionResolver) LatestRelease(ctx context.Context) (string, bool, error) {
	tags, err := r.listTags(ctx)
	if err != nil {
		return "", false, err
	}
	name, found := HighestRelease(tags)
	return name, found, nil
}

func (r *VersionResolver) listTags(ctx context.Context) ([]domain.TagRef, error) {
	gateway, err := r.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	defer r.closeGateway(ctx, gateway)

	tags, err := gateway.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

func (r *VersionResolver) closeGateway(ctx context.Context, gateway domain.RepositoryGateway) {
	if err := gateway.Close(); err != nil {
		r.logger.Warn(ctx, "failed to close repository gateway", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
