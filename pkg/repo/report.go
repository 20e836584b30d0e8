package repo

import (
	"time"

	"github.com/odvcencio/gitscope/pkg/object"
)

// Dropped describes an entry that was left out of the snapshot.
type Dropped struct {
	Path   string      `json:"path"`
	Hash   object.Hash `json:"hash,omitempty"`
	Reason string      `json:"reason"`
}

// Report summarises a parse: decoded objects per type, objects and refs
// that were dropped, and how long the parse took.
type Report struct {
	Objects        map[object.ObjectType]int `json:"objects"`
	DroppedObjects []Dropped                 `json:"droppedObjects,omitempty"`
	SkippedRefs    []Dropped                 `json:"skippedRefs,omitempty"`
	IgnoredEntries int                       `json:"ignoredEntries"`
	Elapsed        time.Duration             `json:"elapsed"`
}
