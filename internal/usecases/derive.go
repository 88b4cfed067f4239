package usecases

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/buildstamp/gitver/internal/domain"
)

var (
	// versionTriple matches the first three dot-separated integer groups
	// anywhere in a version name, not anchored.
	versionTriple = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

	// slashLetter matches a slash followed by a letter, for artifact-safe
	// name normalization.
	slashLetter = regexp.MustCompile(`/(\p{L})`)
)

// DeriveVersionName computes the canonical version label for the resolved
// branch. A tag qualifies when its peeled target matches the branch
// reference's resolved target; among qualifying tags the one with the
// fewest dashes wins, preferring the cleanest-looking tag when several
// annotate the same commit. With no qualifying tag the branch name itself
// is used. The result is normalized to be slash-free.
func DeriveVersionName(ctx context.Context, gateway domain.RepositoryGateway, branch string) (string, error) {
	name := branch

	target, ok, err := gateway.ResolveBranchTarget(ctx, branch)
	if err != nil {
		return "", fmt.Errorf("resolving branch target: %w", err)
	}
	if ok {
		tags, err := gateway.Tags(ctx)
		if err != nil {
			return "", fmt.Errorf("listing tags: %w", err)
		}
		best := ""
		bestDashes := 0
		for _, tag := range tags {
			if tag.Target != target {
				continue
			}
			dashes := strings.Count(tag.Name, "-")
			if best == "" || dashes < bestDashes {
				best = tag.Name
				bestDashes = dashes
			}
		}
		if best != "" {
			name = best
		}
	}

	return NormalizeVersionName(name), nil
}

// NormalizeVersionName replaces every slash-letter pair with the
// upper-cased letter, e.g. "feature/login" becomes "featureLogin".
func NormalizeVersionName(name string) string {
	return slashLetter.ReplaceAllStringFunc(name, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

// VersionCode derives the monotonic integer version code from a version
// name. The first major.minor.patch triple found packs fixed-width as
// major*10000 + minor*100 + patch. A name without a triple is accepted as
// a bare integer literal; anything else defaults to "1".
func VersionCode(versionName string) string {
	if m := versionTriple.FindStringSubmatch(versionName); m != nil {
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		patch, _ := strconv.Atoi(m[3])
		return strconv.Itoa(major*10000 + minor*100 + patch)
	}
	if code, err := strconv.Atoi(versionName); err == nil {
		return strconv.Itoa(code)
	}
	return "1"
}
