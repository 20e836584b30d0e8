package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/gitscope/pkg/object"
)

// LookupPath walks the tree of commit along the slash-separated path and
// returns the final entry. Missing trees along the way end the lookup.
func (s *Snapshot) LookupPath(commit object.Hash, relPath string) (object.TreeEntry, error) {
	c, ok := s.Objects.Commit(commit)
	if !ok {
		return object.TreeEntry{}, fmt.Errorf("lookup %s: commit %s: %w", relPath, commit.Short(), ErrNotFound)
	}
	parts := splitPath(relPath)
	if len(parts) == 0 {
		return object.TreeEntry{}, fmt.Errorf("lookup: empty path: %w", ErrNotFound)
	}

	current := c.TreeHash
	for i, part := range parts {
		treeObj, ok := s.Objects.Tree(current)
		if !ok {
			return object.TreeEntry{}, fmt.Errorf("lookup %s: tree %s: %w", relPath, current.Short(), ErrNotFound)
		}
		entry, found := treeObj.Entry(part)
		if !found {
			return object.TreeEntry{}, fmt.Errorf("lookup %s: %w", relPath, ErrNotFound)
		}
		if i == len(parts)-1 {
			return entry, nil
		}
		if entry.Kind != object.TypeTree {
			return object.TreeEntry{}, fmt.Errorf("lookup %s: %s is not a directory: %w", relPath, part, ErrNotFound)
		}
		current = entry.Hash
	}
	return object.TreeEntry{}, fmt.Errorf("lookup %s: %w", relPath, ErrNotFound)
}

// FileAtCommit returns the blob stored at relPath in the given commit.
func (s *Snapshot) FileAtCommit(commit object.Hash, relPath string) (*object.BlobObj, error) {
	entry, err := s.LookupPath(commit, relPath)
	if err != nil {
		return nil, err
	}
	blob, ok := s.Objects.Blob(entry.Hash)
	if !ok {
		return nil, fmt.Errorf("file %s at %s: blob %s: %w", relPath, commit.Short(), entry.Hash.Short(), ErrNotFound)
	}
	return blob, nil
}

func splitPath(relPath string) []string {
	var parts []string
	for _, p := range strings.Split(strings.Trim(relPath, "/"), "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return parts
}
