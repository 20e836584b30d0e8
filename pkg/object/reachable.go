package object

import (
	"sort"
	"strings"
)

// ReachableCommits returns the set of commits reachable from start by
// following parent links. The walk uses an explicit stack and a visited set,
// so long histories and accidental cycles are safe. Hashes that are missing
// from the table, or are not commits, end their path silently.
func (t *Table) ReachableCommits(start Hash) map[Hash]struct{} {
	out := make(map[Hash]struct{})
	visited := make(map[Hash]struct{})

	stack := []Hash{start}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[h]; ok {
			continue
		}
		visited[h] = struct{}{}

		c, ok := t.Commit(h)
		if !ok {
			continue
		}
		out[h] = struct{}{}
		for _, p := range c.Parents {
			if _, ok := visited[p]; !ok {
				stack = append(stack, p)
			}
		}
	}
	return out
}

// ReachableSet returns all object hashes reachable from roots by following
// object references (tag targets, commit trees and parents, tree entries).
// Missing roots and missing referenced objects are ignored.
func (t *Table) ReachableSet(roots []Hash) map[Hash]struct{} {
	roots = uniqueNormalizedHashes(roots)
	out := make(map[Hash]struct{}, len(roots))

	stack := make([]Hash, 0, len(roots))
	stack = append(stack, roots...)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == "" {
			continue
		}
		if _, ok := out[h]; ok {
			continue
		}
		obj, ok := t.Get(h)
		if !ok {
			continue
		}
		out[h] = struct{}{}
		stack = append(stack, referencedHashes(obj)...)
	}
	return out
}

func referencedHashes(obj Object) []Hash {
	switch o := obj.(type) {
	case *TagObj:
		return []Hash{o.Target}
	case *CommitObj:
		refs := make([]Hash, 0, 1+len(o.Parents))
		refs = append(refs, o.TreeHash)
		refs = append(refs, o.Parents...)
		return refs
	case *TreeObj:
		refs := make([]Hash, 0, len(o.Entries))
		for _, e := range o.Entries {
			// Submodule entries point into another repository.
			if e.Mode == TreeModeSubmodule {
				continue
			}
			refs = append(refs, e.Hash)
		}
		return refs
	default:
		return nil
	}
}

func uniqueNormalizedHashes(in []Hash) []Hash {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[Hash]struct{}, len(in))
	out := make([]Hash, 0, len(in))
	for _, h := range in {
		h = Hash(strings.TrimSpace(string(h)))
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
