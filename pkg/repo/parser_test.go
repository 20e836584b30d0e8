package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/odvcencio/gitscope/internal/fixture"
	"github.com/odvcencio/gitscope/pkg/object"
)

func TestParse_NoMetadata(t *testing.T) {
	p := NewParser(DefaultOptions())
	for _, entries := range []map[string][]byte{
		nil,
		{"project/README.md": []byte("hi")},
		{"project/.gitignore": []byte("bin/")},
	} {
		if _, err := p.Parse(context.Background(), entries); !errors.Is(err, ErrNoMetadata) {
			t.Fatalf("Parse(%v) err = %v, want ErrNoMetadata", entries, err)
		}
	}
}

func TestParse_ProjectFolderPrefix(t *testing.T) {
	fx := fixture.New(t)
	tree := fx.WriteTree()
	c1 := fx.WriteCommit(tree, 1, "init")
	fx.SetBranch("main", c1)
	fx.SetHead("main")

	entries := fx.Entries("my-project")
	entries["my-project/src/main.go"] = []byte("package main")
	entries["my-project/"] = nil

	snap, err := NewParser(DefaultOptions()).Parse(context.Background(), entries)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(snap.Commits) != 1 || snap.Commits[0].Hash != c1 {
		t.Fatalf("commits = %v", commitHashes(snap.Commits))
	}
	if snap.Head.Kind != HeadSymbolic || snap.Head.Branch != "main" {
		t.Fatalf("head = %+v", snap.Head)
	}
	if snap.Report.IgnoredEntries != 1 {
		t.Errorf("IgnoredEntries = %d, want 1", snap.Report.IgnoredEntries)
	}
}

func TestParse_MissingHeadAndRefs(t *testing.T) {
	fx := fixture.New(t)
	tree := fx.WriteTree()
	c1 := fx.WriteCommit(tree, 1, "lonely")

	snap, err := NewParser(DefaultOptions()).Parse(context.Background(), fx.Entries())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if snap.Head.Kind != HeadUnknown {
		t.Fatalf("head = %+v, want unknown", snap.Head)
	}
	if snap.Branches == nil || len(snap.Branches) != 0 || snap.Tags == nil {
		t.Fatalf("refs should be empty non-nil slices: %#v %#v", snap.Branches, snap.Tags)
	}
	if len(snap.Commits) != 1 || snap.Commits[0].Hash != c1 || len(snap.Commits[0].Branches) != 0 {
		t.Fatalf("commits = %+v", snap.Commits)
	}
}

func TestParse_VerifyObjects(t *testing.T) {
	fx := fixture.New(t)
	blob := fx.WriteBlob("real content\n")
	other := fx.WriteBlob("other content\n")
	fx.SetHead("main")
	// Store other's bytes under blob's path: decodes fine, hashes wrong.
	entries := fx.Entries()
	entries[".git/objects/"+object.LoosePath(blob)] = entries[".git/objects/"+object.LoosePath(other)]

	verified, err := NewParser(Options{VerifyObjects: true}).Parse(context.Background(), entries)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := verified.Object(blob); ok {
		t.Fatalf("mismatched object %s accepted with verification on", blob.Short())
	}
	var decErr *object.DecodeError
	if len(verified.Report.DroppedObjects) != 1 {
		t.Fatalf("dropped = %+v", verified.Report.DroppedObjects)
	}

	unverified, err := NewParser(Options{VerifyObjects: false}).Parse(context.Background(), entries)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	obj, ok := unverified.Object(blob)
	if !ok {
		t.Fatalf("object %s missing with verification off", blob.Short())
	}
	if b := obj.(*object.BlobObj); b.Content != "other content\n" {
		t.Fatalf("content = %q", b.Content)
	}

	// The drop reason comes from a verify-stage decode error.
	_, err = object.DecodeLoose(blob, entries[".git/objects/"+object.LoosePath(blob)], nil, true)
	if !errors.As(err, &decErr) || decErr.Stage != object.StageVerify {
		t.Fatalf("DecodeLoose err = %v, want verify-stage DecodeError", err)
	}
}

func TestParse_ReportCounts(t *testing.T) {
	fx := fixture.New(t)
	blob := fx.WriteBlob("x")
	tree := fx.WriteTree(fixture.File("x", blob))
	c1 := fx.WriteCommit(tree, 1, "init")
	tag := fx.WriteTag("v1", c1, object.TypeCommit)
	fx.SetBranch("main", c1)
	fx.SetTag("v1", tag)
	fx.Put(".git/objects/pack/pack-1.pack", []byte("PACK"))
	fx.Put(".git/objects/ab/short", []byte("junk"))

	snap, err := NewParser(Options{Workers: 2, VerifyObjects: true}).Parse(context.Background(), fx.Entries())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := map[object.ObjectType]int{
		object.TypeCommit: 1, object.TypeTree: 1, object.TypeBlob: 1, object.TypeTag: 1,
	}
	for typ, n := range want {
		if snap.Report.Objects[typ] != n {
			t.Errorf("Report.Objects[%s] = %d, want %d", typ, snap.Report.Objects[typ], n)
		}
	}
	if len(snap.Report.DroppedObjects) != 0 {
		t.Errorf("dropped = %+v, want none (short names are not loose objects)", snap.Report.DroppedObjects)
	}
	ref, ok := snap.Tag("v1")
	if !ok || ref.Hash != tag || ref.Peeled != c1 || ref.Target() != c1 {
		t.Fatalf("tag ref = %+v, want peeled to %s", ref, c1.Short())
	}
}

func TestParse_WorkerCountDoesNotChangeResult(t *testing.T) {
	fx := fixture.New(t)
	var parent object.Hash
	for i := 0; i < 50; i++ {
		blob := fx.WriteBlob(string(rune('a'+i%26)) + "\n")
		tree := fx.WriteTree(fixture.File("f.txt", blob))
		if parent == "" {
			parent = fx.WriteCommit(tree, int64(i), "c")
		} else {
			parent = fx.WriteCommit(tree, int64(i), "c", parent)
		}
	}
	fx.SetBranch("main", parent)

	one, err := NewParser(Options{Workers: 1}).Parse(context.Background(), fx.Entries())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	many, err := NewParser(Options{Workers: 16}).Parse(context.Background(), fx.Entries())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a, b := commitHashes(one.Commits), commitHashes(many.Commits)
	if len(a) != 50 || len(a) != len(b) {
		t.Fatalf("commit counts %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("order differs at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestParse_CanceledContext(t *testing.T) {
	fx := fixture.New(t)
	fx.SetBranch("main", fx.WriteCommit(fx.WriteTree(), 1, "x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewParser(DefaultOptions()).Parse(ctx, fx.Entries()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Parse err = %v, want context.Canceled", err)
	}
}
