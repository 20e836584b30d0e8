package repo

import (
	"sort"

	"github.com/odvcencio/gitscope/pkg/object"
)

// BuildCommitGraph returns every commit in table, oldest first, each
// annotated with the sorted names of the branches that reach it.
//
// All commits are included, reachable or not. Commits without a date sort
// before all dated commits; ties are ordered by hash. Membership is a union
// over one independent walk per branch; a branch whose target is missing
// contributes nothing.
func BuildCommitGraph(table *object.Table, branches []Ref) []*Commit {
	commits := table.Commits()

	order := make([]object.Hash, 0, len(commits))
	for h := range commits {
		order = append(order, h)
	}
	sort.Slice(order, func(i, j int) bool {
		di, dj := commits[order[i]].Date(), commits[order[j]].Date()
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return order[i] < order[j]
	})

	membership := make(map[object.Hash]map[string]struct{}, len(commits))
	for _, b := range branches {
		for h := range table.ReachableCommits(b.Hash) {
			set, ok := membership[h]
			if !ok {
				set = make(map[string]struct{})
				membership[h] = set
			}
			set[b.Name] = struct{}{}
		}
	}

	out := make([]*Commit, 0, len(order))
	for _, h := range order {
		out = append(out, newCommit(h, commits[h], sortedNames(membership[h])))
	}
	return out
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
