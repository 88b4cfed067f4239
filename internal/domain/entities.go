// Package domain defines the core business entities and interfaces for gitver.
package domain

import "time"

// VersionRecord is the complete version descriptor derived from a repository.
// It is produced once per query and owned by the caller after return.
type VersionRecord struct {
	// Branch is the resolved branch name, after environment override but
	// before slash normalization.
	Branch string `json:"branch"`

	// Commit is the full commit hash of HEAD.
	Commit string `json:"commit"`

	// Abbreviated is the short form of the HEAD hash.
	Abbreviated string `json:"abbreviated"`

	// Tag is the name of a tag exactly matching HEAD, or empty if HEAD
	// is not a tagged commit.
	Tag string `json:"tag,omitempty"`

	// Dirty is true if the working tree has uncommitted changes after
	// noise filtering.
	Dirty bool `json:"dirty"`

	// Shallow is true if the HEAD commit has no parent reachable in this
	// clone (a shallow or truncated history).
	Shallow bool `json:"shallow"`

	// VersionName is the canonical, slash-free version label.
	VersionName string `json:"versionName"`

	// VersionCode is a decimal integer string derived from VersionName,
	// "1" when no numeric structure is found.
	VersionCode string `json:"versionCode"`
}

// None returns the sentinel record used when no repository is present.
// All fields are zero, including VersionCode. It is always returned whole,
// never partially populated.
func None() *VersionRecord {
	return &VersionRecord{}
}

// IsNone reports whether the record is the no-repository sentinel.
func (r *VersionRecord) IsNone() bool {
	return r.Commit == "" && r.VersionCode == ""
}

// TagRef is a tag reference peeled to the commit it ultimately targets.
// Read fresh on each query; the repository is the source of truth and no
// caching is required across calls.
type TagRef struct {
	// Name is the short tag name, without the refs/tags/ prefix.
	Name string

	// Target is the hex id of the peeled target commit.
	Target string

	// When is the target commit's timestamp.
	When time.Time
}

// HeadCommit describes the repository's current HEAD commit.
type HeadCommit struct {
	// Hash is the full commit hash.
	Hash string

	// Abbreviated is the short form of Hash.
	Abbreviated string

	// ParentCount is the number of parents reachable in this clone.
	// Zero means the history is shallow or HEAD is a root commit.
	ParentCount int

	// ObjectID is the resolved object id of HEAD, used for tag matching.
	ObjectID string
}

// DeriveInput carries per-query settings into version resolution.
type DeriveInput struct {
	// BranchEnvVars is the ordered list of environment variable names
	// consulted for a branch override. The first set variable wins.
	BranchEnvVars []string

	// IgnorePrefix excludes unstaged paths beneath it from the dirty
	// check. Staged paths always count.
	IgnorePrefix string

	// Environment is the process environment snapshot used for branch
	// overrides, injected so resolution stays a pure function.
	Environment map[string]string
}
