package repo

import (
	"strings"
	"time"

	"github.com/odvcencio/gitscope/pkg/object"
)

// Commit is the exported view of a commit object, annotated with the
// branches whose history contains it.
type Commit struct {
	Hash      object.Hash      `json:"hash"`
	ShortHash string           `json:"shortHash"`
	Tree      object.Hash      `json:"tree"`
	Parents   []object.Hash    `json:"parents"`
	Author    *object.Identity `json:"author"`
	Committer *object.Identity `json:"committer"`
	Date      time.Time        `json:"date"`
	Message   string           `json:"message"`
	Branches  []string         `json:"branches"`
}

func newCommit(h object.Hash, c *object.CommitObj, branches []string) *Commit {
	parents := make([]object.Hash, len(c.Parents))
	copy(parents, c.Parents)
	if branches == nil {
		branches = []string{}
	}
	return &Commit{
		Hash:      h,
		ShortHash: h.Short(),
		Tree:      c.TreeHash,
		Parents:   parents,
		Author:    c.Author,
		Committer: c.Committer,
		Date:      c.Date(),
		Message:   c.Message,
		Branches:  branches,
	}
}

// OnBranch reports whether the named branch reaches this commit.
func (c *Commit) OnBranch(name string) bool {
	for _, b := range c.Branches {
		if b == name {
			return true
		}
	}
	return false
}

// IsMerge reports whether the commit has more than one parent.
func (c *Commit) IsMerge() bool { return len(c.Parents) > 1 }

// Subject returns the first line of the message.
func (c *Commit) Subject() string {
	subject, _, _ := strings.Cut(c.Message, "\n")
	return subject
}
