package usecases

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/buildstamp/gitver/internal/domain"
)

// describePattern is the required shape of long-form describe output:
// <tag>-<distance>-g<abbrevhash>.
var describePattern = regexp.MustCompile(`^(.*)-(\d+)-g([0-9a-f]+)$`)

// Classification is the commit identity portion of a version record.
type Classification struct {
	Commit      string
	Abbreviated string
	Tag         string
	Shallow     bool
}

// ClassifyCommit resolves the current commit's identity, shallow-ness, and
// tag association.
//
// On a shallow history the describe operation cannot walk ancestry
// reliably, so the tag is resolved by matching HEAD's object id against
// the peeled targets of all tags. On a full history the describe output is
// parsed instead: distance zero means HEAD sits exactly on the tag, any
// other distance means commits exist past it and no tag applies.
func ClassifyCommit(ctx context.Context, gateway domain.RepositoryGateway) (*Classification, error) {
	head, err := gateway.HeadCommit(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	cls := &Classification{
		Commit:      head.Hash,
		Abbreviated: head.Abbreviated,
		Shallow:     head.ParentCount == 0,
	}

	if cls.Shallow {
		peeled, err := gateway.PeeledTagTargets(ctx)
		if err != nil {
			return nil, fmt.Errorf("peeling tags: %w", err)
		}
		if ref, ok := peeled[head.ObjectID]; ok {
			cls.Tag = strings.TrimPrefix(ref.Name, "refs/tags/")
		}
		return cls, nil
	}

	described, ok, err := gateway.DescribeLong(ctx)
	if err != nil {
		return nil, fmt.Errorf("describing HEAD: %w", err)
	}
	if !ok {
		// No tag reachable in history.
		return cls, nil
	}

	matches := describePattern.FindStringSubmatch(described)
	if matches == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrDescribeParse, described)
	}
	if matches[2] == "0" {
		cls.Tag = matches[1]
	}
	return cls, nil
}
