package repo

import (
	"strings"

	"github.com/odvcencio/gitscope/pkg/object"
)

// HeadKind classifies the content of HEAD.
type HeadKind string

const (
	HeadUnknown  HeadKind = "unknown"
	HeadSymbolic HeadKind = "branch"
	HeadDetached HeadKind = "commit"
)

// HeadPointer is the decoded HEAD: a branch name when symbolic, a commit
// hash when detached, or neither when HEAD is missing or unrecognised.
type HeadPointer struct {
	Kind   HeadKind    `json:"type"`
	Branch string      `json:"name,omitempty"`
	Hash   object.Hash `json:"hash,omitempty"`
}

// ParseHead decodes HEAD content. "ref: refs/heads/<name>" yields a symbolic
// pointer, a bare 40-hex hash a detached one; anything else is unknown.
func ParseHead(content []byte) HeadPointer {
	trimmed := strings.TrimSpace(string(content))

	const prefix = "ref: refs/heads/"
	if name, ok := strings.CutPrefix(trimmed, prefix); ok && name != "" {
		return HeadPointer{Kind: HeadSymbolic, Branch: name}
	}
	if object.IsHash(trimmed) {
		return HeadPointer{Kind: HeadDetached, Hash: object.Hash(trimmed)}
	}
	return HeadPointer{Kind: HeadUnknown}
}

// Resolve returns the commit HEAD points at, looking symbolic pointers up
// in branches.
func (h HeadPointer) Resolve(branches []Ref) (object.Hash, bool) {
	switch h.Kind {
	case HeadDetached:
		return h.Hash, true
	case HeadSymbolic:
		for _, b := range branches {
			if b.Name == h.Branch {
				return b.Hash, true
			}
		}
	}
	return "", false
}

func (h HeadPointer) String() string {
	switch h.Kind {
	case HeadSymbolic:
		return "ref: refs/heads/" + h.Branch
	case HeadDetached:
		return string(h.Hash)
	default:
		return "unknown"
	}
}
