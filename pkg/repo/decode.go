package repo

import (
	"fmt"
	"sort"

	"github.com/gammazero/workerpool"
	"github.com/odvcencio/gitscope/pkg/object"
)

type looseEntry struct {
	path string
	hash object.Hash
	data []byte
}

type decodeResult struct {
	obj object.Object
	err error
}

// looseEntries selects the loose object files from entries, ordered by path.
func looseEntries(entries map[string][]byte) []looseEntry {
	var out []looseEntry
	for p, data := range entries {
		h, ok := objectHashFromPath(p)
		if !ok {
			continue
		}
		out = append(out, looseEntry{path: p, hash: h, data: data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

// decodeObjects decodes every loose entry on a bounded worker pool. Each
// task writes only its own result slot; the table is filled after StopWait
// returns, so callers never observe a partially populated table.
func (p *Parser) decodeObjects(loose []looseEntry) (*object.Table, []Dropped) {
	results := make([]decodeResult, len(loose))

	wp := workerpool.New(p.opts.Workers)
	for i := range loose {
		i := i
		wp.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					results[i] = decodeResult{err: fmt.Errorf("decode object %s: panic: %v", loose[i].hash, r)}
				}
			}()
			obj, err := object.DecodeLoose(loose[i].hash, loose[i].data, p.opts.Inflater, p.opts.VerifyObjects)
			results[i] = decodeResult{obj: obj, err: err}
		})
	}
	wp.StopWait()

	table := object.NewTable(len(loose))
	var dropped []Dropped
	for i, res := range results {
		e := loose[i]
		if res.err == nil {
			res.err = table.Put(e.hash, res.obj)
		}
		if res.err != nil {
			p.log.Warnw("skipping object", "hash", e.hash, "path", e.path, "err", res.err)
			dropped = append(dropped, Dropped{Path: e.path, Hash: e.hash, Reason: res.err.Error()})
		}
	}
	return table, dropped
}
