package repo

import (
	"github.com/odvcencio/gitscope/pkg/object"
)

// Snapshot is the immutable result of one parse: commits oldest first,
// branch and tag refs, the head pointer, and the full object table for
// on-demand tree and blob lookups.
type Snapshot struct {
	Commits  []*Commit     `json:"commits"`
	Branches []Ref         `json:"branches"`
	Tags     []Ref         `json:"tags"`
	Head     HeadPointer   `json:"head"`
	Objects  *object.Table `json:"-"`
	Report   Report        `json:"report"`

	byHash map[object.Hash]*Commit
}

func newSnapshot(commits []*Commit, refs RefSet, table *object.Table, report Report) *Snapshot {
	branches := refs.Branches
	if branches == nil {
		branches = []Ref{}
	}
	tags := refs.Tags
	if tags == nil {
		tags = []Ref{}
	}
	s := &Snapshot{
		Commits:  commits,
		Branches: branches,
		Tags:     tags,
		Head:     refs.Head,
		Objects:  table,
		Report:   report,
		byHash:   make(map[object.Hash]*Commit, len(commits)),
	}
	for _, c := range commits {
		s.byHash[c.Hash] = c
	}
	return s
}

// Commit returns the commit with the given full hash.
func (s *Snapshot) Commit(h object.Hash) (*Commit, bool) {
	c, ok := s.byHash[h]
	return c, ok
}

// Object returns any decoded object by full hash.
func (s *Snapshot) Object(h object.Hash) (object.Object, bool) {
	return s.Objects.Get(h)
}

// CommitHistory returns the commits reached by the named branch, oldest
// first. An empty name returns every commit.
func (s *Snapshot) CommitHistory(branch string) []*Commit {
	if branch == "" {
		return s.Commits
	}
	var out []*Commit
	for _, c := range s.Commits {
		if c.OnBranch(branch) {
			out = append(out, c)
		}
	}
	return out
}

// Branch returns the branch ref with the given name.
func (s *Snapshot) Branch(name string) (Ref, bool) {
	return findRef(s.Branches, name)
}

// Tag returns the tag ref with the given name.
func (s *Snapshot) Tag(name string) (Ref, bool) {
	return findRef(s.Tags, name)
}

// HeadCommit resolves HEAD to a commit hash.
func (s *Snapshot) HeadCommit() (object.Hash, bool) {
	return s.Head.Resolve(s.Branches)
}

func findRef(refs []Ref, name string) (Ref, bool) {
	for _, r := range refs {
		if r.Name == name {
			return r, true
		}
	}
	return Ref{}, false
}
