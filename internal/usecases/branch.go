package usecases

import (
	"context"

	"github.com/buildstamp/gitver/internal/domain"
)

// ResolveBranch resolves the effective branch name under override rules.
// The candidate environment variable names are consulted in order and the
// first one present in the injected environment wins, value taken verbatim.
// When none are set the gateway's checked-out branch name is used.
//
// The environment is an explicit snapshot rather than ambient process
// state, so the resolution is a pure function of its inputs.
func ResolveBranch(
	ctx context.Context,
	env map[string]string,
	candidates []string,
	gateway domain.RepositoryGateway,
) (string, error) {
	for _, name := range candidates {
		if value, ok := env[name]; ok {
			return value, nil
		}
	}
	return gateway.CurrentBranchName(ctx)
}
