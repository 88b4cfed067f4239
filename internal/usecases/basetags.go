package usecases

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/blang/semver"

	"github.com/buildstamp/gitver/internal/domain"
)

// SortBaseTags selects the tags named <base>.<N> and orders them for
// release-point lookup. The base string is a literal, not a pattern.
//
// Ordering runs as two stable sort passes: first by numeric suffix
// descending, then by target commit timestamp descending. The timestamp
// pass runs last and therefore dominates, with the suffix pass deciding
// timestamp ties. Commit time alone is insufficient when several
// qualifying tags share a commit, e.g. after re-tagging. Keep the two
// passes separate; folding them into one composite comparator changes the
// output on tied inputs.
func SortBaseTags(tags []domain.TagRef, base string) []string {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `\.(\d+)$`)

	type candidate struct {
		name   string
		when   time.Time
		suffix int
	}

	var candidates []candidate
	for _, tag := range tags {
		m := pattern.FindStringSubmatch(tag.Name)
		if m == nil {
			continue
		}
		suffix, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			name:   tag.Name,
			when:   tag.When,
			suffix: suffix,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].suffix > candidates[j].suffix
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].when.After(candidates[j].when)
	})

	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.name)
	}
	return names
}

// HighestRelease returns the tag whose name parses as the highest semantic
// version, tolerating a leading "v". The second return is false when no
// tag parses as a version.
func HighestRelease(tags []domain.TagRef) (string, bool) {
	var (
		bestName    string
		bestVersion semver.Version
		found       bool
	)
	for _, tag := range tags {
		version, err := semver.ParseTolerant(tag.Name)
		if err != nil {
			continue
		}
		if !found || version.GT(bestVersion) {
			bestName = tag.Name
			bestVersion = version
			found = true
		}
	}
	return bestName, found
}
