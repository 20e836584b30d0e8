package repo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/odvcencio/gitscope/pkg/object"
)

const minShortHashLen = 4

// ResolveRevision resolves a revision to an object hash.
//
// Accepted forms, tried in order:
//  1. "HEAD"
//  2. a branch name, then a tag name (tags resolve to their peeled target)
//  3. a full hash, or a hash prefix of at least four characters. A prefix
//     must name a single commit; when no commit matches it may name a
//     single object of any type.
//
// Any of these may be followed by "^" (first parent) or "~N" (N-th first
// parent ancestor) suffixes.
func (s *Snapshot) ResolveRevision(rev string) (object.Hash, error) {
	rev = strings.TrimSpace(rev)
	if rev == "" {
		return "", fmt.Errorf("resolve revision: empty revision: %w", ErrUnknownRevision)
	}

	base, steps, err := splitAncestry(rev)
	if err != nil {
		return "", fmt.Errorf("resolve revision %q: %w", rev, err)
	}
	if steps > len(s.Commits) {
		return "", fmt.Errorf("resolve revision %q: %d ancestry steps exceed history: %w", rev, steps, ErrUnknownRevision)
	}
	h, err := s.resolveBase(base)
	if err != nil {
		return "", fmt.Errorf("resolve revision %q: %w", rev, err)
	}
	for i := 0; i < steps; i++ {
		c, ok := s.Objects.Commit(h)
		if !ok || len(c.Parents) == 0 {
			return "", fmt.Errorf("resolve revision %q: %s has no parent: %w", rev, h.Short(), ErrUnknownRevision)
		}
		h = c.Parents[0]
	}
	return h, nil
}

func (s *Snapshot) resolveBase(base string) (object.Hash, error) {
	if base == "HEAD" {
		h, ok := s.HeadCommit()
		if !ok {
			return "", fmt.Errorf("HEAD does not point at a known branch or commit: %w", ErrUnknownRevision)
		}
		return h, nil
	}
	if ref, ok := s.Branch(base); ok {
		return ref.Hash, nil
	}
	if ref, ok := s.Tag(base); ok {
		return ref.Target(), nil
	}

	prefix := strings.ToLower(base)
	if object.IsHash(prefix) {
		return object.Hash(prefix), nil
	}
	if len(prefix) < minShortHashLen || !isHexString(prefix) {
		return "", ErrUnknownRevision
	}
	candidates := make([]object.Hash, 0, len(s.Commits))
	for _, c := range s.Commits {
		candidates = append(candidates, c.Hash)
	}
	match, err := uniquePrefixMatch(prefix, candidates)
	if err != nil || match != "" {
		return match, err
	}
	match, err = uniquePrefixMatch(prefix, s.Objects.Hashes())
	if err != nil {
		return "", err
	}
	if match == "" {
		return "", ErrUnknownRevision
	}
	return match, nil
}

// uniquePrefixMatch returns the single hash starting with prefix, or "" when
// none does.
func uniquePrefixMatch(prefix string, hashes []object.Hash) (object.Hash, error) {
	var match object.Hash
	for _, h := range hashes {
		if !strings.HasPrefix(string(h), prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%s: %w", prefix, ErrAmbiguousRevision)
		}
		match = h
	}
	return match, nil
}

// splitAncestry strips trailing "^" and "~N" suffixes, returning the base
// revision and the total number of first-parent steps.
func splitAncestry(rev string) (string, int, error) {
	steps := 0
	for {
		switch {
		case strings.HasSuffix(rev, "^"):
			if steps == math.MaxInt {
				return "", 0, fmt.Errorf("ancestry suffix overflows: %w", ErrUnknownRevision)
			}
			rev = rev[:len(rev)-1]
			steps++
		case strings.Contains(rev, "~"):
			idx := strings.LastIndex(rev, "~")
			n := 1
			if digits := rev[idx+1:]; digits != "" {
				v, err := strconv.Atoi(digits)
				if err != nil || v < 0 {
					return "", 0, fmt.Errorf("bad ancestry suffix %q: %w", rev[idx:], ErrUnknownRevision)
				}
				n = v
			}
			if n > math.MaxInt-steps {
				return "", 0, fmt.Errorf("ancestry suffix %q overflows: %w", rev[idx:], ErrUnknownRevision)
			}
			rev = rev[:idx]
			steps += n
		default:
			return rev, steps, nil
		}
	}
}

func isHexString(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
