package repo

import "errors"

var (
	// ErrNoMetadata is returned when the input holds no .git/ entries at all.
	ErrNoMetadata = errors.New("no .git folder found in the uploaded file")
	// ErrUnknownRevision is returned when a revision names nothing in the snapshot.
	ErrUnknownRevision = errors.New("unknown revision")
	// ErrAmbiguousRevision is returned when a short hash matches several objects.
	ErrAmbiguousRevision = errors.New("ambiguous revision")
	// ErrNotFound is returned by tree and path lookups that resolve nothing.
	ErrNotFound = errors.New("not found")
	// ErrTreeTooLarge is returned when flattening a tree visits too many entries.
	ErrTreeTooLarge = errors.New("tree too large")
)
