package repo

import (
	"sort"
	"strings"

	"github.com/odvcencio/gitscope/pkg/object"
)

// RefKind distinguishes branch refs from tag refs.
type RefKind string

const (
	RefBranch RefKind = "branch"
	RefTag    RefKind = "tag"
)

// Ref is a named pointer read from a loose ref file. Peeled is set for tags
// that point at an annotated tag object and holds the tag's final target.
type Ref struct {
	Name   string      `json:"name"`
	Hash   object.Hash `json:"hash"`
	Kind   RefKind     `json:"type"`
	Peeled object.Hash `json:"peeled,omitempty"`
}

// Target returns the peeled hash when known, else the ref hash.
func (r Ref) Target() object.Hash {
	if r.Peeled != "" {
		return r.Peeled
	}
	return r.Hash
}

// RefSet is the output of ResolveRefs.
type RefSet struct {
	Head     HeadPointer
	Branches []Ref
	Tags     []Ref
	Skipped  []Dropped
}

// ResolveRefs reads HEAD and the loose branch and tag refs from entries.
// Names are the path below refs/heads/ or refs/tags/ and may contain
// slashes. Ref files whose content is not a full hash (including symbolic
// "ref:" content) are skipped and reported. Refs are ordered by name.
func ResolveRefs(entries map[string][]byte) RefSet {
	set := RefSet{Head: HeadPointer{Kind: HeadUnknown}}
	if content, ok := entries[HeadPath]; ok {
		set.Head = ParseHead(content)
	}

	for p, data := range entries {
		var (
			kind RefKind
			name string
			ok   bool
		)
		if name, ok = strings.CutPrefix(p, HeadsPrefix); ok {
			kind = RefBranch
		} else if name, ok = strings.CutPrefix(p, TagsPrefix); ok {
			kind = RefTag
		} else {
			continue
		}
		if name == "" {
			continue
		}

		h, err := object.ParseHash(string(data))
		if err != nil {
			set.Skipped = append(set.Skipped, Dropped{Path: p, Reason: err.Error()})
			continue
		}
		ref := Ref{Name: name, Hash: h, Kind: kind}
		if kind == RefBranch {
			set.Branches = append(set.Branches, ref)
		} else {
			set.Tags = append(set.Tags, ref)
		}
	}

	sortRefs(set.Branches)
	sortRefs(set.Tags)
	sort.Slice(set.Skipped, func(i, j int) bool { return set.Skipped[i].Path < set.Skipped[j].Path })
	return set
}

func sortRefs(refs []Ref) {
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
}

// peelTags records the final target of tags that point at annotated tag
// objects.
func peelTags(tags []Ref, table *object.Table) {
	for i := range tags {
		if _, ok := table.Tag(tags[i].Hash); !ok {
			continue
		}
		tags[i].Peeled = table.Peel(tags[i].Hash)
	}
}
