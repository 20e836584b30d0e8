package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/klauspost/compress/zip"
)

func readZip(ctx context.Context, data []byte, limits Limits) (Entries, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	entries := make(Entries)
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() || !wanted(f.Name) {
			continue
		}
		if limits.MaxEntryBytes > 0 && f.UncompressedSize64 > uint64(limits.MaxEntryBytes) {
			return nil, fmt.Errorf("entry %s: %d bytes: %w", f.Name, f.UncompressedSize64, ErrTooLarge)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		err = entries.add(f.Name, rc, limits)
		rc.Close()
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}
