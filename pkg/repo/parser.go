package repo

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/odvcencio/gitscope/pkg/object"
	"go.uber.org/zap"
)

// Options configures a Parser.
type Options struct {
	// Workers bounds the number of objects decoded concurrently.
	Workers int
	// VerifyObjects rejects objects whose content does not hash to the id
	// taken from their path.
	VerifyObjects bool
	// Inflater decompresses loose objects; zlib when nil.
	Inflater object.Inflater
	Logger   *zap.SugaredLogger
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Workers:       runtime.NumCPU(),
		VerifyObjects: true,
	}
}

// Parser turns metadata directory entries into a Snapshot. A Parser holds
// no state between calls; each Parse builds a fresh object table.
type Parser struct {
	opts Options
	log  *zap.SugaredLogger
}

// NewParser creates a Parser, filling in defaults for unset options.
func NewParser(opts Options) *Parser {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Inflater == nil {
		opts.Inflater = object.ZlibInflater{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Parser{opts: opts, log: log}
}

// Parse builds a snapshot from entries keyed by archive path. Paths may carry
// a leading project folder; only paths inside a .git/ directory are used.
// ErrNoMetadata is the only data error: per-ref and per-object failures are
// logged, left out and listed in the snapshot's Report. ctx is checked
// between stages; a stage that has started runs to completion.
func (p *Parser) Parse(ctx context.Context, entries map[string][]byte) (*Snapshot, error) {
	start := time.Now()

	meta, ignored := metadataEntries(entries)
	if len(meta) == 0 {
		return nil, ErrNoMetadata
	}

	refs := ResolveRefs(meta)
	if _, ok := meta[HeadPath]; !ok {
		p.log.Warnw("HEAD missing, head pointer unknown")
	}
	for _, s := range refs.Skipped {
		p.log.Warnw("skipping ref", "path", s.Path, "err", s.Reason)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	table, dropped := p.decodeObjects(looseEntries(meta))
	peelTags(refs.Tags, table)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	commits := BuildCommitGraph(table, refs.Branches)

	report := Report{
		Objects: map[object.ObjectType]int{
			object.TypeCommit: table.Count(object.TypeCommit),
			object.TypeTree:   table.Count(object.TypeTree),
			object.TypeBlob:   table.Count(object.TypeBlob),
			object.TypeTag:    table.Count(object.TypeTag),
		},
		DroppedObjects: dropped,
		SkippedRefs:    refs.Skipped,
		IgnoredEntries: ignored,
		Elapsed:        time.Since(start),
	}
	p.log.Infow("parsed repository",
		"commits", len(commits),
		"branches", len(refs.Branches),
		"tags", len(refs.Tags),
		"objects", table.Len(),
		"dropped", len(dropped),
		"elapsed", report.Elapsed,
	)

	return newSnapshot(commits, refs, table, report), nil
}

// metadataEntries keeps the entries inside a .git/ directory, normalizing
// their paths, and counts the rest.
func metadataEntries(entries map[string][]byte) (map[string][]byte, int) {
	meta := make(map[string][]byte, len(entries))
	ignored := 0
	for p, data := range entries {
		if strings.HasSuffix(p, "/") {
			continue
		}
		norm, ok := NormalizePath(p)
		if !ok {
			ignored++
			continue
		}
		meta[norm] = data
	}
	return meta, ignored
}
