package object

import (
	"errors"
	"testing"
	"time"
)

func encodeCommit(t *testing.T, c *CommitObj) ([]byte, Hash) {
	t.Helper()
	data, h, err := EncodeLoose(TypeCommit, MarshalCommit(c))
	if err != nil {
		t.Fatalf("EncodeLoose: %v", err)
	}
	return data, h
}

func TestDecodeLooseCommit(t *testing.T) {
	orig := &CommitObj{
		TreeHash: testHash('a'),
		Author:   &Identity{Name: "A", Email: "a@example.com", When: time.Unix(10, 0).UTC(), Timezone: "+0000"},
		Message:  "initial",
	}
	data, h := encodeCommit(t, orig)

	for _, verify := range []bool{false, true} {
		obj, err := DecodeLoose(h, data, ZlibInflater{}, verify)
		if err != nil {
			t.Fatalf("DecodeLoose(verify=%v): %v", verify, err)
		}
		c, ok := obj.(*CommitObj)
		if !ok {
			t.Fatalf("DecodeLoose returned %T, want *CommitObj", obj)
		}
		if c.TreeHash != orig.TreeHash || c.Message != orig.Message {
			t.Errorf("commit = %+v, want %+v", c, orig)
		}
	}
}

func TestDecodeLooseCorruptBytes(t *testing.T) {
	_, err := DecodeLoose(testHash('a'), []byte("definitely not zlib"), nil, false)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if de.Stage != StageInflate {
		t.Errorf("Stage = %q, want %q", de.Stage, StageInflate)
	}
}

func TestDecodeLooseUnknownType(t *testing.T) {
	data, h, err := EncodeLoose(ObjectType("widget"), []byte("payload"))
	if err != nil {
		t.Fatalf("EncodeLoose: %v", err)
	}
	_, err = DecodeLoose(h, data, nil, true)
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestDecodeLooseVerifyMismatch(t *testing.T) {
	data, _, err := EncodeLoose(TypeBlob, []byte("hello\n"))
	if err != nil {
		t.Fatalf("EncodeLoose: %v", err)
	}
	wrong := testHash('0')

	if _, err := DecodeLoose(wrong, data, nil, true); !errors.Is(err, ErrHashMismatch) {
		t.Fatalf("verify on: expected ErrHashMismatch, got %v", err)
	}
	obj, err := DecodeLoose(wrong, data, nil, false)
	if err != nil {
		t.Fatalf("verify off: %v", err)
	}
	if b, ok := obj.(*BlobObj); !ok || b.Content != "hello\n" || b.Size != 6 {
		t.Fatalf("verify off: got %#v", obj)
	}
}

func TestHashObjectMatchesGit(t *testing.T) {
	// `printf 'hello\n' | git hash-object --stdin`
	h, collision := HashObject(TypeBlob, []byte("hello\n"))
	if collision {
		t.Fatal("unexpected collision report")
	}
	if h != "ce013625030ba8dba906f756967f9e9ca394464a" {
		t.Fatalf("HashObject = %s", h)
	}
}

func TestParseEnvelope(t *testing.T) {
	typ, size, body, err := ParseEnvelope([]byte("blob 3\x00abc"))
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	if typ != TypeBlob || size != 3 || string(body) != "abc" {
		t.Fatalf("got (%q, %d, %q)", typ, size, body)
	}

	for _, raw := range []string{"blob 3abc", "blob\x00abc", "blob x\x00abc"} {
		if _, _, _, err := ParseEnvelope([]byte(raw)); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseEnvelope(%q): expected ErrMalformed, got %v", raw, err)
		}
	}
}

func TestParseHash(t *testing.T) {
	h, err := ParseHash("  CE013625030BA8DBA906F756967F9E9CA394464A\n")
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if h.Short() != "ce01362" {
		t.Errorf("Short() = %q", h.Short())
	}
	if _, err := ParseHash("ref: refs/heads/main"); err == nil {
		t.Error("expected error for symbolic ref content")
	}
}
