// Package archive extracts the metadata directory of an uploaded repository
// from zip and tar archives, or from a directory already on disk.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/odvcencio/gitscope/pkg/repo"
)

var (
	// ErrTooLarge is returned when the archive or one of its entries exceeds
	// the configured limits.
	ErrTooLarge = errors.New("archive too large")
	// ErrUnsupportedFormat is returned when the archive format cannot be
	// determined from the name or the leading bytes.
	ErrUnsupportedFormat = errors.New("unsupported archive format")
)

// Limits bound how much data an extraction may read. Zero means unlimited.
type Limits struct {
	MaxArchiveBytes int64
	MaxEntryBytes   int64
}

// Entries maps a normalized ".git/..." path to the entry's bytes.
type Entries map[string][]byte

// Format is a supported container format.
type Format string

const (
	FormatZip    Format = "zip"
	FormatTar    Format = "tar"
	FormatTarGz  Format = "tar.gz"
	FormatTarZst Format = "tar.zst"
	FormatTarXz  Format = "tar.xz"
)

var magic = []struct {
	prefix []byte
	format Format
}{
	{[]byte("PK\x03\x04"), FormatZip},
	{[]byte("PK\x05\x06"), FormatZip},
	{[]byte{0x1f, 0x8b}, FormatTarGz},
	{[]byte{0x28, 0xb5, 0x2f, 0xfd}, FormatTarZst},
	{[]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, FormatTarXz},
}

// DetectFormat picks the format from the file name, falling back to the
// leading bytes of the content.
func DetectFormat(name string, head []byte) (Format, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip, nil
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz, nil
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tzst"):
		return FormatTarZst, nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return FormatTarXz, nil
	case strings.HasSuffix(lower, ".tar"):
		return FormatTar, nil
	}
	for _, m := range magic {
		if bytes.HasPrefix(head, m.prefix) {
			return m.format, nil
		}
	}
	if len(head) >= 262 && string(head[257:262]) == "ustar" {
		return FormatTar, nil
	}
	return "", fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
}

// Read extracts the metadata entries of the archive read from r. The whole
// archive is buffered, so MaxArchiveBytes also bounds memory use.
func Read(ctx context.Context, name string, r io.Reader, limits Limits) (Entries, error) {
	data, err := readLimited(r, limits.MaxArchiveBytes)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", name, err)
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	format, err := DetectFormat(name, head)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	var entries Entries
	switch format {
	case FormatZip:
		entries, err = readZip(ctx, data, limits)
	default:
		entries, err = readTar(ctx, format, bytes.NewReader(data), limits)
	}
	if err != nil {
		return nil, fmt.Errorf("read archive %s (%s): %w", name, format, err)
	}
	return entries, nil
}

// wanted reports whether an archive entry lies inside a metadata directory.
// Entries outside it are skipped before any size limit applies.
func wanted(name string) bool {
	norm, ok := repo.NormalizePath(name)
	return ok && !strings.HasSuffix(norm, "/")
}

// add stores an entry if it lies inside a metadata directory.
func (e Entries) add(name string, r io.Reader, limits Limits) error {
	norm, ok := repo.NormalizePath(name)
	if !ok || strings.HasSuffix(norm, "/") {
		return nil
	}
	data, err := readLimited(r, limits.MaxEntryBytes)
	if err != nil {
		return fmt.Errorf("entry %s: %w", name, err)
	}
	e[norm] = data
	return nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("more than %d bytes: %w", limit, ErrTooLarge)
	}
	return data, nil
}
