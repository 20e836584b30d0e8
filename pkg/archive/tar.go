package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/xi2/xz"
)

func readTar(ctx context.Context, format Format, r io.Reader, limits Limits) (Entries, error) {
	stream, closeFn, err := decompressor(format, r)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	entries := make(Entries)
	tr := tar.NewReader(stream)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("tar: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || !wanted(hdr.Name) {
			continue
		}
		if limits.MaxEntryBytes > 0 && hdr.Size > limits.MaxEntryBytes {
			return nil, fmt.Errorf("entry %s: %d bytes: %w", hdr.Name, hdr.Size, ErrTooLarge)
		}
		if err := entries.add(hdr.Name, tr, limits); err != nil {
			return nil, err
		}
	}
}

// decompressor wraps r with the stream decoder for format.
func decompressor(format Format, r io.Reader) (io.Reader, func(), error) {
	noop := func() {}
	switch format {
	case FormatTar:
		return r, noop, nil
	case FormatTarGz:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return gr, func() { gr.Close() }, nil
	case FormatTarZst:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return zr, zr.Close, nil
	case FormatTarXz:
		xr, err := xz.NewReader(r, xz.DefaultDictMax)
		if err != nil {
			return nil, nil, fmt.Errorf("xz: %w", err)
		}
		return xr, noop, nil
	default:
		return nil, nil, fmt.Errorf("%s: %w", format, ErrUnsupportedFormat)
	}
}
