package archive

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/odvcencio/gitscope/internal/fixture"
)

func sampleEntries() map[string][]byte {
	return map[string][]byte{
		"demo/.git/HEAD":            []byte("ref: refs/heads/main\n"),
		"demo/.git/refs/heads/main": []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\n"),
		"demo/README.md":            []byte("# demo\n"),
	}
}

func assertMetadata(t *testing.T, entries Entries) {
	t.Helper()
	if len(entries) != 2 {
		t.Fatalf("entries = %v, want HEAD and refs/heads/main only", keys(entries))
	}
	if got := string(entries[".git/HEAD"]); got != "ref: refs/heads/main\n" {
		t.Fatalf("HEAD = %q", got)
	}
	if _, ok := entries[".git/refs/heads/main"]; !ok {
		t.Fatalf("refs/heads/main missing: %v", keys(entries))
	}
}

func keys(e Entries) []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	return out
}

func TestRead_Zip(t *testing.T) {
	data := fixture.ZipBytes(t, sampleEntries())
	entries, err := Read(context.Background(), "demo.zip", bytes.NewReader(data), Limits{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	assertMetadata(t, entries)
}

func TestRead_Tar(t *testing.T) {
	data := fixture.TarBytes(t, sampleEntries())
	entries, err := Read(context.Background(), "demo.tar", bytes.NewReader(data), Limits{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	assertMetadata(t, entries)
}

func TestRead_TarGz(t *testing.T) {
	data := fixture.TarGzBytes(t, sampleEntries())
	for _, name := range []string{"demo.tar.gz", "demo.tgz", "upload.bin"} {
		entries, err := Read(context.Background(), name, bytes.NewReader(data), Limits{})
		if err != nil {
			t.Fatalf("Read(%s): %v", name, err)
		}
		assertMetadata(t, entries)
	}
}

func TestRead_TarZst(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	data := enc.EncodeAll(fixture.TarBytes(t, sampleEntries()), nil)
	enc.Close()

	entries, err := Read(context.Background(), "demo.tar.zst", bytes.NewReader(data), Limits{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	assertMetadata(t, entries)
}

func TestRead_TarXz(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "demo.tar.xz"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	entries, err := Read(context.Background(), "demo.tar.xz", bytes.NewReader(data), Limits{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	assertMetadata(t, entries)
}

func TestRead_Limits(t *testing.T) {
	data := fixture.ZipBytes(t, sampleEntries())

	_, err := Read(context.Background(), "demo.zip", bytes.NewReader(data), Limits{MaxArchiveBytes: 16})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("archive limit err = %v, want ErrTooLarge", err)
	}

	_, err = Read(context.Background(), "demo.zip", bytes.NewReader(data), Limits{MaxEntryBytes: 8})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("entry limit err = %v, want ErrTooLarge", err)
	}

	tarData := fixture.TarBytes(t, sampleEntries())
	_, err = Read(context.Background(), "demo.tar", bytes.NewReader(tarData), Limits{MaxEntryBytes: 8})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("tar entry limit err = %v, want ErrTooLarge", err)
	}
}

func TestRead_UnsupportedFormat(t *testing.T) {
	_, err := Read(context.Background(), "notes.txt", bytes.NewReader([]byte("plain text")), Limits{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestRead_NoMetadataYieldsEmpty(t *testing.T) {
	data := fixture.ZipBytes(t, map[string][]byte{"src/main.go": []byte("package main")})
	entries, err := Read(context.Background(), "src.zip", bytes.NewReader(data), Limits{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %v, want none", keys(entries))
	}
}

func TestReadDir(t *testing.T) {
	root := t.TempDir()
	for name, data := range sampleEntries() {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	for _, dir := range []string{filepath.Join(root, "demo"), filepath.Join(root, "demo", ".git")} {
		entries, err := ReadDir(context.Background(), dir, Limits{})
		if err != nil {
			t.Fatalf("ReadDir(%s): %v", dir, err)
		}
		assertMetadata(t, entries)
	}

	if _, err := ReadDir(context.Background(), root, Limits{}); err == nil {
		t.Fatalf("ReadDir without .git should fail")
	}
	if _, err := ReadDir(context.Background(), filepath.Join(root, "demo"), Limits{MaxArchiveBytes: 4}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("ReadDir limit err = %v, want ErrTooLarge", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want Format
	}{
		{"a.ZIP", nil, FormatZip},
		{"a.tgz", nil, FormatTarGz},
		{"a.tar.zst", nil, FormatTarZst},
		{"a.txz", nil, FormatTarXz},
		{"upload", []byte("PK\x03\x04rest"), FormatZip},
		{"upload", []byte{0x28, 0xb5, 0x2f, 0xfd, 0}, FormatTarZst},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.name, tt.head)
		if err != nil || got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, %v; want %q", tt.name, got, err, tt.want)
		}
	}
}

func TestRead_EntryLimitIgnoresWorkingTree(t *testing.T) {
	files := sampleEntries()
	files["demo/big.bin"] = bytes.Repeat([]byte{'x'}, 4096)
	data := fixture.TarBytes(t, files)

	entries, err := Read(context.Background(), "demo.tar", bytes.NewReader(data), Limits{MaxEntryBytes: 1024})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	assertMetadata(t, entries)
}
