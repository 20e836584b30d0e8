package object

import "time"

// Hash is a 40-character lowercase hex-encoded SHA-1 object id.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTag    ObjectType = "tag"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

const (
	// Tree mode constants using Git's canonical mode strings.
	TreeModeDir        = "40000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
	TreeModeSymlink    = "120000"
	TreeModeSubmodule  = "160000"
)

// Object is implemented by every decoded object variant.
type Object interface {
	Type() ObjectType
}

// Identity is a person and point in time taken from an author, committer or
// tagger header. When holds the epoch seconds interpreted as UTC; Timezone
// keeps the raw offset (e.g. "+0200") without applying it.
type Identity struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	When     time.Time `json:"when"`
	Timezone string    `json:"timezone"`
}

// BlobObj holds file content decoded as text. Size is the raw byte length,
// which differs from len(Content) when invalid UTF-8 was replaced.
type BlobObj struct {
	Content string `json:"content"`
	Size    int    `json:"size"`
}

func (*BlobObj) Type() ObjectType { return TypeBlob }

// TreeEntry is one entry in a tree object. Kind is TypeBlob when the mode
// starts with "100" and TypeTree otherwise, so symlinks and submodules are
// reported as trees.
type TreeEntry struct {
	Mode string     `json:"mode"`
	Name string     `json:"name"`
	Hash Hash       `json:"hash"`
	Kind ObjectType `json:"type"`
}

// TreeObj holds tree entries in stored order.
type TreeObj struct {
	Entries []TreeEntry `json:"entries"`
}

func (*TreeObj) Type() ObjectType { return TypeTree }

// Entry returns the entry with the given name.
func (t *TreeObj) Entry(name string) (TreeEntry, bool) {
	for _, e := range t.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

// CommitObj represents a commit pointing to a tree with metadata.
// Author and Committer are nil when the header is missing or malformed.
type CommitObj struct {
	TreeHash  Hash      `json:"tree"`
	Parents   []Hash    `json:"parents"`
	Author    *Identity `json:"author"`
	Committer *Identity `json:"committer"`
	Signature string    `json:"signature,omitempty"`
	Message   string    `json:"message"`
}

func (*CommitObj) Type() ObjectType { return TypeCommit }

// Date returns the author time, falling back to the committer time. The zero
// time is returned when neither is known.
func (c *CommitObj) Date() time.Time {
	if c.Author != nil {
		return c.Author.When
	}
	if c.Committer != nil {
		return c.Committer.When
	}
	return time.Time{}
}

// TagObj is an annotated tag pointing at another object.
type TagObj struct {
	Target     Hash       `json:"object"`
	TargetType ObjectType `json:"targetType"`
	Name       string     `json:"tag"`
	Tagger     *Identity  `json:"tagger"`
	Message    string     `json:"message"`
}

func (*TagObj) Type() ObjectType { return TypeTag }
