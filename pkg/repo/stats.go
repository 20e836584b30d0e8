package repo

import (
	"sort"
	"time"

	"github.com/odvcencio/gitscope/pkg/object"
)

// Stats summarises a snapshot.
type Stats struct {
	TotalCommits  int                       `json:"totalCommits"`
	TotalBranches int                       `json:"totalBranches"`
	TotalTags     int                       `json:"totalTags"`
	MergeCommits  int                       `json:"mergeCommits"`
	Authors       []string                  `json:"authors"`
	Earliest      *time.Time                `json:"earliest"`
	Latest        *time.Time                `json:"latest"`
	Objects       map[object.ObjectType]int `json:"objectCounts"`
	BlobBytes     int64                     `json:"blobBytes"`
	// Unreachable counts objects not reachable from any branch, tag or HEAD.
	Unreachable int `json:"unreachable"`
}

// Stats computes totals, the distinct author names, the dated range of the
// history and per-type object counts. Commits without a date do not affect
// the range.
func (s *Snapshot) Stats() Stats {
	st := Stats{
		TotalCommits:  len(s.Commits),
		TotalBranches: len(s.Branches),
		TotalTags:     len(s.Tags),
		Authors:       []string{},
		Objects: map[object.ObjectType]int{
			object.TypeCommit: s.Objects.Count(object.TypeCommit),
			object.TypeTree:   s.Objects.Count(object.TypeTree),
			object.TypeBlob:   s.Objects.Count(object.TypeBlob),
			object.TypeTag:    s.Objects.Count(object.TypeTag),
		},
	}

	authors := make(map[string]struct{})
	for _, c := range s.Commits {
		if c.IsMerge() {
			st.MergeCommits++
		}
		if c.Author != nil && c.Author.Name != "" {
			authors[c.Author.Name] = struct{}{}
		}
		if c.Date.IsZero() {
			continue
		}
		d := c.Date
		if st.Earliest == nil || d.Before(*st.Earliest) {
			st.Earliest = &d
		}
		if st.Latest == nil || d.After(*st.Latest) {
			st.Latest = &d
		}
	}
	for name := range authors {
		st.Authors = append(st.Authors, name)
	}
	sort.Strings(st.Authors)

	for _, h := range s.Objects.Hashes() {
		if b, ok := s.Objects.Blob(h); ok {
			st.BlobBytes += int64(b.Size)
		}
	}

	roots := make([]object.Hash, 0, len(s.Branches)+len(s.Tags)+1)
	for _, r := range s.Branches {
		roots = append(roots, r.Hash)
	}
	for _, r := range s.Tags {
		roots = append(roots, r.Hash)
	}
	if h, ok := s.HeadCommit(); ok {
		roots = append(roots, h)
	}
	st.Unreachable = s.Objects.Len() - len(s.Objects.ReachableSet(roots))
	return st
}
