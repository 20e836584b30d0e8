// Package fixture builds in-memory .git directory entries for tests: real
// zlib-compressed loose objects, loose refs and HEAD, keyed by archive path.
package fixture

import (
	"archive/tar"
	"bytes"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/odvcencio/gitscope/pkg/object"
)

// Repo accumulates metadata directory entries.
type Repo struct {
	tb      testing.TB
	entries map[string][]byte
}

// New creates an empty fixture repository.
func New(tb testing.TB) *Repo {
	tb.Helper()
	return &Repo{tb: tb, entries: make(map[string][]byte)}
}

// WriteObject stores a loose object with the given type and body and
// returns its hash.
func (r *Repo) WriteObject(objType object.ObjectType, body []byte) object.Hash {
	r.tb.Helper()
	compressed, h, err := object.EncodeLoose(objType, body)
	if err != nil {
		r.tb.Fatalf("EncodeLoose: %v", err)
	}
	r.entries[".git/objects/"+object.LoosePath(h)] = compressed
	return h
}

// WriteBlob stores a blob.
func (r *Repo) WriteBlob(content string) object.Hash {
	r.tb.Helper()
	return r.WriteObject(object.TypeBlob, []byte(content))
}

// WriteTree stores a tree.
func (r *Repo) WriteTree(entries ...object.TreeEntry) object.Hash {
	r.tb.Helper()
	body, err := object.MarshalTree(&object.TreeObj{Entries: entries})
	if err != nil {
		r.tb.Fatalf("MarshalTree: %v", err)
	}
	return r.WriteObject(object.TypeTree, body)
}

// File returns a regular file tree entry.
func File(name string, h object.Hash) object.TreeEntry {
	return object.TreeEntry{Mode: object.TreeModeFile, Name: name, Hash: h, Kind: object.TypeBlob}
}

// Dir returns a subdirectory tree entry.
func Dir(name string, h object.Hash) object.TreeEntry {
	return object.TreeEntry{Mode: object.TreeModeDir, Name: name, Hash: h, Kind: object.TypeTree}
}

// Sig returns an identity at the given epoch second.
func Sig(name string, epoch int64) *object.Identity {
	return &object.Identity{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		When:     time.Unix(epoch, 0).UTC(),
		Timezone: "+0000",
	}
}

// WriteCommit stores a commit authored and committed by "dev" at epoch.
func (r *Repo) WriteCommit(tree object.Hash, epoch int64, message string, parents ...object.Hash) object.Hash {
	r.tb.Helper()
	return r.WriteCommitObj(&object.CommitObj{
		TreeHash:  tree,
		Parents:   parents,
		Author:    Sig("dev", epoch),
		Committer: Sig("dev", epoch),
		Message:   message,
	})
}

// WriteCommitObj stores an arbitrary commit.
func (r *Repo) WriteCommitObj(c *object.CommitObj) object.Hash {
	r.tb.Helper()
	return r.WriteObject(object.TypeCommit, object.MarshalCommit(c))
}

// WriteTag stores an annotated tag object pointing at target.
func (r *Repo) WriteTag(name string, target object.Hash, targetType object.ObjectType) object.Hash {
	r.tb.Helper()
	return r.WriteObject(object.TypeTag, object.MarshalTag(&object.TagObj{
		Target:     target,
		TargetType: targetType,
		Name:       name,
		Tagger:     Sig("release", 1),
		Message:    "release " + name,
	}))
}

// SetBranch writes refs/heads/<name>.
func (r *Repo) SetBranch(name string, h object.Hash) {
	r.entries[".git/refs/heads/"+name] = []byte(string(h) + "\n")
}

// SetTag writes refs/tags/<name>.
func (r *Repo) SetTag(name string, h object.Hash) {
	r.entries[".git/refs/tags/"+name] = []byte(string(h) + "\n")
}

// SetHead writes a symbolic HEAD pointing at branch.
func (r *Repo) SetHead(branch string) {
	r.entries[".git/HEAD"] = []byte("ref: refs/heads/" + branch + "\n")
}

// Put writes raw bytes at an arbitrary entry path.
func (r *Repo) Put(path string, data []byte) {
	r.entries[path] = data
}

// Delete removes an entry.
func (r *Repo) Delete(path string) {
	delete(r.entries, path)
}

// Entries returns a copy of the entries, optionally moved under a leading
// project folder.
func (r *Repo) Entries(prefix ...string) map[string][]byte {
	p := ""
	if len(prefix) > 0 && prefix[0] != "" {
		p = prefix[0] + "/"
	}
	out := make(map[string][]byte, len(r.entries))
	for k, v := range r.entries {
		out[p+k] = append([]byte(nil), v...)
	}
	return out
}

// ZipBytes packs entries into a zip archive.
func ZipBytes(tb testing.TB, entries map[string][]byte) []byte {
	tb.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range sortedKeys(entries) {
		w, err := zw.Create(name)
		if err != nil {
			tb.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write(entries[name]); err != nil {
			tb.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// TarBytes packs entries into an uncompressed tar archive.
func TarBytes(tb testing.TB, entries map[string][]byte) []byte {
	tb.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, name := range sortedKeys(entries) {
		data := entries[name]
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(data)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			tb.Fatalf("tar header %s: %v", name, err)
		}
		if _, err := tw.Write(data); err != nil {
			tb.Fatalf("tar write %s: %v", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		tb.Fatalf("tar close: %v", err)
	}
	return buf.Bytes()
}

// TarGzBytes packs entries into a gzip-compressed tar archive.
func TarGzBytes(tb testing.TB, entries map[string][]byte) []byte {
	tb.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(TarBytes(tb, entries)); err != nil {
		tb.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		tb.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
