package repo

import (
	"fmt"
	"path"
	"sort"

	"github.com/odvcencio/gitscope/pkg/object"
)

// TreeFileEntry represents a single file in a flattened tree.
type TreeFileEntry struct {
	Path string      `json:"path"`
	Mode string      `json:"mode"`
	Hash object.Hash `json:"hash"`
}

// maxFlattenEntries bounds the entries one flatten visits. A subtree reached
// through several paths is expanded once per path.
const maxFlattenEntries = 1 << 20

// FlattenTree walks a tree object, returning all non-directory entries with
// their full slash-separated paths in depth-first order. Subtrees that are
// missing from the table are skipped, as is a subtree that is its own
// ancestor.
func (s *Snapshot) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	if _, ok := s.Objects.Tree(h); !ok {
		return nil, fmt.Errorf("flatten tree %s: %w", h.Short(), ErrNotFound)
	}

	var (
		result  []TreeFileEntry
		stack   []flattenItem
		visited int
	)
	push := func(tree object.Hash, prefix string, frame *treeFrame) {
		treeObj, ok := s.Objects.Tree(tree)
		if !ok {
			return
		}
		// Reverse order so entries pop in stored order.
		for i := len(treeObj.Entries) - 1; i >= 0; i-- {
			entry := treeObj.Entries[i]
			fullPath := entry.Name
			if prefix != "" {
				fullPath = path.Join(prefix, entry.Name)
			}
			stack = append(stack, flattenItem{entry: entry, path: fullPath, frame: frame})
		}
	}

	push(h, "", &treeFrame{hash: h})
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited++
		if visited > maxFlattenEntries {
			return nil, fmt.Errorf("flatten tree %s: more than %d entries: %w", h.Short(), maxFlattenEntries, ErrTreeTooLarge)
		}

		if item.entry.Mode == object.TreeModeDir {
			if item.frame.contains(item.entry.Hash) {
				continue
			}
			push(item.entry.Hash, item.path, &treeFrame{hash: item.entry.Hash, parent: item.frame})
			continue
		}
		result = append(result, TreeFileEntry{Path: item.path, Mode: item.entry.Mode, Hash: item.entry.Hash})
	}
	return result, nil
}

type flattenItem struct {
	entry object.TreeEntry
	path  string
	frame *treeFrame
}

// treeFrame links a tree to the chain of trees enclosing it.
type treeFrame struct {
	hash   object.Hash
	parent *treeFrame
}

func (f *treeFrame) contains(h object.Hash) bool {
	for ; f != nil; f = f.parent {
		if f.hash == h {
			return true
		}
	}
	return false
}

// ChangeStatus classifies a path in a tree comparison.
type ChangeStatus string

const (
	ChangeAdded    ChangeStatus = "A"
	ChangeDeleted  ChangeStatus = "D"
	ChangeModified ChangeStatus = "M"
)

// TreeChange is one changed path between two trees.
type TreeChange struct {
	Status ChangeStatus `json:"status"`
	Path   string       `json:"path"`
	Before object.Hash  `json:"before,omitempty"`
	After  object.Hash  `json:"after,omitempty"`
}

// DiffTrees compares two trees path by path. An empty before hash treats
// the first tree as empty, which is how root commits are compared.
func (s *Snapshot) DiffTrees(before, after object.Hash) ([]TreeChange, error) {
	beforeEntries := map[string]TreeFileEntry{}
	if before != "" {
		list, err := s.FlattenTree(before)
		if err != nil {
			return nil, err
		}
		for _, e := range list {
			beforeEntries[e.Path] = e
		}
	}
	list, err := s.FlattenTree(after)
	if err != nil {
		return nil, err
	}
	afterEntries := make(map[string]TreeFileEntry, len(list))
	for _, e := range list {
		afterEntries[e.Path] = e
	}

	paths := make([]string, 0, len(beforeEntries)+len(afterEntries))
	for p := range beforeEntries {
		paths = append(paths, p)
	}
	for p := range afterEntries {
		if _, ok := beforeEntries[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var out []TreeChange
	for _, p := range paths {
		b, inBefore := beforeEntries[p]
		a, inAfter := afterEntries[p]
		switch {
		case !inBefore && inAfter:
			out = append(out, TreeChange{Status: ChangeAdded, Path: p, After: a.Hash})
		case inBefore && !inAfter:
			out = append(out, TreeChange{Status: ChangeDeleted, Path: p, Before: b.Hash})
		case b.Hash != a.Hash || b.Mode != a.Mode:
			out = append(out, TreeChange{Status: ChangeModified, Path: p, Before: b.Hash, After: a.Hash})
		}
	}
	return out, nil
}

// CommitChanges compares a commit's tree with its first parent's tree.
func (s *Snapshot) CommitChanges(commit object.Hash) ([]TreeChange, error) {
	c, ok := s.Objects.Commit(commit)
	if !ok {
		return nil, fmt.Errorf("commit changes %s: %w", commit.Short(), ErrNotFound)
	}
	var parentTree object.Hash
	if len(c.Parents) > 0 {
		if p, ok := s.Objects.Commit(c.Parents[0]); ok {
			parentTree = p.TreeHash
		}
	}
	return s.DiffTrees(parentTree, c.TreeHash)
}
