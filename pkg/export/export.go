// Package export serializes snapshots as JSON documents, optionally
// zstd-compressed.
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/odvcencio/gitscope/pkg/repo"
)

// FormatVersion is bumped when the document layout changes.
const FormatVersion = 1

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Document is the exported form of a snapshot.
type Document struct {
	Version  int              `json:"version"`
	Head     repo.HeadPointer `json:"head"`
	Branches []repo.Ref       `json:"branches"`
	Tags     []repo.Ref       `json:"tags"`
	Commits  []*repo.Commit   `json:"commits"`
	Stats    repo.Stats       `json:"stats"`
	Report   repo.Report      `json:"report"`
}

// Build assembles the document for snap.
func Build(snap *repo.Snapshot) *Document {
	return &Document{
		Version:  FormatVersion,
		Head:     snap.Head,
		Branches: snap.Branches,
		Tags:     snap.Tags,
		Commits:  snap.Commits,
		Stats:    snap.Stats(),
		Report:   snap.Report,
	}
}

// Write encodes snap to w as indented JSON, zstd-compressed when compress
// is set.
func Write(w io.Writer, snap *repo.Snapshot, compress bool) error {
	if !compress {
		return encode(w, Build(snap))
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("export: zstd: %w", err)
	}
	if err := encode(enc, Build(snap)); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("export: zstd close: %w", err)
	}
	return nil
}

func encode(w io.Writer, doc *Document) error {
	je := json.NewEncoder(w)
	je.SetIndent("", "  ")
	if err := je.Encode(doc); err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}
	return nil
}

// Read decodes a document, detecting zstd compression from the stream's
// leading bytes.
func Read(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(zstdMagic))

	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("export: zstd: %w", err)
		}
		defer dec.Close()
		src = dec
	}

	var doc Document
	if err := json.NewDecoder(src).Decode(&doc); err != nil {
		return nil, fmt.Errorf("export: decode: %w", err)
	}
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("export: unsupported document version %d", doc.Version)
	}
	return &doc, nil
}

// WantsZstd reports whether a compression option (a flag or query value
// such as "zstd" or "json+zstd") asks for zstd.
func WantsZstd(option string) bool {
	return strings.Contains(strings.ToLower(option), "zstd")
}
