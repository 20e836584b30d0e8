package object

import (
	"fmt"
	"sort"
)

// Table is an in-memory, hash-keyed object table. Each key is written at
// most once while objects are decoded; afterwards the table is only read.
type Table struct {
	objects map[Hash]Object
}

// NewTable creates an empty Table sized for n objects.
func NewTable(n int) *Table {
	return &Table{objects: make(map[Hash]Object, n)}
}

// Put stores obj under h. Writing a key twice is an error.
func (t *Table) Put(h Hash, obj Object) error {
	if obj == nil {
		return fmt.Errorf("table put %s: nil object", h)
	}
	if _, ok := t.objects[h]; ok {
		return fmt.Errorf("table put %s: %w", h, ErrDuplicateObject)
	}
	t.objects[h] = obj
	return nil
}

// Has reports whether the table contains an object with the given hash.
func (t *Table) Has(h Hash) bool {
	_, ok := t.objects[h]
	return ok
}

// Get returns the object stored under h.
func (t *Table) Get(h Hash) (Object, bool) {
	obj, ok := t.objects[h]
	return obj, ok
}

// Len returns the number of objects in the table.
func (t *Table) Len() int { return len(t.objects) }

// Hashes returns every stored hash in ascending order.
func (t *Table) Hashes() []Hash {
	out := make([]Hash, 0, len(t.objects))
	for h := range t.objects {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Count returns the number of stored objects of the given type.
func (t *Table) Count(objType ObjectType) int {
	n := 0
	for _, obj := range t.objects {
		if obj.Type() == objType {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Typed lookups
// ---------------------------------------------------------------------------

// Commit returns the commit stored under h, or false if h is missing or is
// not a commit.
func (t *Table) Commit(h Hash) (*CommitObj, bool) {
	c, ok := t.objects[h].(*CommitObj)
	return c, ok
}

// Tree returns the tree stored under h.
func (t *Table) Tree(h Hash) (*TreeObj, bool) {
	tr, ok := t.objects[h].(*TreeObj)
	return tr, ok
}

// Blob returns the blob stored under h.
func (t *Table) Blob(h Hash) (*BlobObj, bool) {
	b, ok := t.objects[h].(*BlobObj)
	return b, ok
}

// Tag returns the annotated tag stored under h.
func (t *Table) Tag(h Hash) (*TagObj, bool) {
	tag, ok := t.objects[h].(*TagObj)
	return tag, ok
}

// Commits returns every commit in the table keyed by hash.
func (t *Table) Commits() map[Hash]*CommitObj {
	out := make(map[Hash]*CommitObj)
	for h, obj := range t.objects {
		if c, ok := obj.(*CommitObj); ok {
			out[h] = c
		}
	}
	return out
}

// Peel follows annotated tags until it reaches a non-tag object, returning
// the final hash. Missing objects and tag cycles stop the chain.
func (t *Table) Peel(h Hash) Hash {
	seen := make(map[Hash]struct{})
	for {
		tag, ok := t.Tag(h)
		if !ok {
			return h
		}
		if _, dup := seen[h]; dup {
			return h
		}
		seen[h] = struct{}{}
		h = tag.Target
	}
}
