package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/buildstamp/gitver/internal/domain"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func at(seconds int) time.Time {
	return epoch.Add(time.Duration(seconds) * time.Second)
}

func TestSortBaseTags(t *testing.T) {
	tests := []struct {
		name string
		tags []domain.TagRef
		base string
		want []string
	}{
		{
			name: "timestamp ties broken by descending suffix",
			tags: []domain.TagRef{
				{Name: "1.2.1", When: at(100)},
				{Name: "1.2.3", When: at(100)},
				{Name: "1.2.2", When: at(50)},
			},
			base: "1.2",
			want: []string{"1.2.3", "1.2.1", "1.2.2"},
		},
		{
			name: "recency dominates when timestamps differ",
			tags: []domain.TagRef{
				{Name: "1.2.1", When: at(300)},
				{Name: "1.2.9", When: at(100)},
			},
			base: "1.2",
			want: []string{"1.2.1", "1.2.9"},
		},
		{
			name: "only exact base.N names qualify",
			tags: []domain.TagRef{
				{Name: "1.2.1", When: at(10)},
				{Name: "1.2.1-rc1", When: at(20)},
				{Name: "1.22.1", When: at(30)},
				{Name: "v1.2.1", When: at(40)},
				{Name: "1.2.x", When: at(50)},
			},
			base: "1.2",
			want: []string{"1.2.1"},
		},
		{
			name: "base is literal, not a pattern",
			tags: []domain.TagRef{
				{Name: "1x2.1", When: at(10)},
				{Name: "1.2.1", When: at(20)},
			},
			base: "1.2",
			want: []string{"1.2.1"},
		},
		{
			name: "no matches",
			tags: []domain.TagRef{{Name: "2.0.0", When: at(10)}},
			base: "1.2",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortBaseTags(tt.tags, tt.base)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHighestRelease(t *testing.T) {
	tags := []domain.TagRef{
		{Name: "v1.2.3"},
		{Name: "1.10.0"},
		{Name: "v1.10.0-rc1"},
		{Name: "nightly-build"},
	}

	name, found := HighestRelease(tags)

	assert.True(t, found)
	assert.Equal(t, "1.10.0", name, "release precedence beats its own rc")
}

func TestHighestRelease_NoParseableTags(t *testing.T) {
	_, found := HighestRelease([]domain.TagRef{{Name: "nightly"}, {Name: "stable"}})
	assert.False(t, found)
}
