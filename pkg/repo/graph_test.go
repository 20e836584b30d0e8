package repo

import (
	"context"
	"reflect"
	"testing"

	"github.com/odvcencio/gitscope/internal/fixture"
	"github.com/odvcencio/gitscope/pkg/object"
)

func parseFixture(t *testing.T, fx *fixture.Repo) *Snapshot {
	t.Helper()
	snap, err := NewParser(DefaultOptions()).Parse(context.Background(), fx.Entries())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return snap
}

func commitHashes(commits []*Commit) []object.Hash {
	out := make([]object.Hash, len(commits))
	for i, c := range commits {
		out[i] = c.Hash
	}
	return out
}

func TestBuildCommitGraph_SingleRoot(t *testing.T) {
	fx := fixture.New(t)
	tree := fx.WriteTree(fixture.File("a.txt", fx.WriteBlob("a\n")))
	c1 := fx.WriteCommit(tree, 100, "init")
	fx.SetBranch("main", c1)
	fx.SetHead("main")

	snap := parseFixture(t, fx)

	if got := commitHashes(snap.Commits); !reflect.DeepEqual(got, []object.Hash{c1}) {
		t.Fatalf("commits = %v, want [%s]", got, c1)
	}
	if len(snap.Branches) != 1 || snap.Branches[0].Name != "main" || snap.Branches[0].Hash != c1 {
		t.Fatalf("branches = %+v", snap.Branches)
	}
	if !reflect.DeepEqual(snap.Commits[0].Branches, []string{"main"}) {
		t.Fatalf("C1 branches = %v, want [main]", snap.Commits[0].Branches)
	}
	if len(snap.Commits[0].Parents) != 0 {
		t.Fatalf("root commit has parents %v", snap.Commits[0].Parents)
	}
}

func TestBuildCommitGraph_LinearChainTwoBranches(t *testing.T) {
	fx := fixture.New(t)
	tree := fx.WriteTree(fixture.File("a.txt", fx.WriteBlob("a\n")))
	c1 := fx.WriteCommit(tree, 100, "one")
	c2 := fx.WriteCommit(tree, 200, "two", c1)
	c3 := fx.WriteCommit(tree, 300, "three", c2)
	fx.SetBranch("main", c3)
	fx.SetBranch("dev", c2)

	snap := parseFixture(t, fx)

	if got := commitHashes(snap.Commits); !reflect.DeepEqual(got, []object.Hash{c1, c2, c3}) {
		t.Fatalf("commits = %v, want [%s %s %s]", got, c1, c2, c3)
	}
	both := []string{"dev", "main"}
	for _, h := range []object.Hash{c1, c2} {
		c, _ := snap.Commit(h)
		if !reflect.DeepEqual(c.Branches, both) {
			t.Errorf("%s branches = %v, want %v", h.Short(), c.Branches, both)
		}
	}
	c, _ := snap.Commit(c3)
	if !reflect.DeepEqual(c.Branches, []string{"main"}) {
		t.Errorf("C3 branches = %v, want [main]", c.Branches)
	}
}

func TestBuildCommitGraph_MergeCommit(t *testing.T) {
	fx := fixture.New(t)
	tree := fx.WriteTree(fixture.File("a.txt", fx.WriteBlob("a\n")))
	c1 := fx.WriteCommit(tree, 100, "one")
	c2 := fx.WriteCommit(tree, 200, "left", c1)
	c3 := fx.WriteCommit(tree, 300, "right", c1)
	c4 := fx.WriteCommit(tree, 400, "merge", c2, c3)
	fx.SetBranch("main", c4)

	snap := parseFixture(t, fx)

	for _, h := range []object.Hash{c1, c2, c3, c4} {
		c, ok := snap.Commit(h)
		if !ok {
			t.Fatalf("commit %s missing", h.Short())
		}
		if !reflect.DeepEqual(c.Branches, []string{"main"}) {
			t.Errorf("%s branches = %v, want [main]", h.Short(), c.Branches)
		}
	}
	merge, _ := snap.Commit(c4)
	if !merge.IsMerge() || merge.Parents[0] != c2 || merge.Parents[1] != c3 {
		t.Fatalf("merge parents = %v, want [%s %s]", merge.Parents, c2, c3)
	}
}

func TestBuildCommitGraph_CycleTerminates(t *testing.T) {
	// Two commits that name each other as parent cannot come out of a real
	// repository, so the table is assembled directly.
	a := object.Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	b := object.Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	table := object.NewTable(2)
	if err := table.Put(a, &object.CommitObj{Parents: []object.Hash{b}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := table.Put(b, &object.CommitObj{Parents: []object.Hash{a}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	commits := BuildCommitGraph(table, []Ref{{Name: "main", Hash: a, Kind: RefBranch}})
	if len(commits) != 2 {
		t.Fatalf("got %d commits, want 2", len(commits))
	}
	for _, c := range commits {
		if !reflect.DeepEqual(c.Branches, []string{"main"}) {
			t.Errorf("%s branches = %v, want [main]", c.Hash.Short(), c.Branches)
		}
	}
}

func TestBuildCommitGraph_CorruptedParent(t *testing.T) {
	fx := fixture.New(t)
	tree := fx.WriteTree(fixture.File("a.txt", fx.WriteBlob("a\n")))
	c1 := fx.WriteCommit(tree, 100, "one")
	c2 := fx.WriteCommit(tree, 200, "two", c1)
	c3 := fx.WriteCommit(tree, 300, "three", c2)
	fx.SetBranch("main", c3)
	fx.Put(".git/objects/"+object.LoosePath(c2), []byte("definitely not zlib"))

	snap := parseFixture(t, fx)

	if _, ok := snap.Object(c2); ok {
		t.Fatalf("corrupted object %s should be absent", c2.Short())
	}
	if got := commitHashes(snap.Commits); !reflect.DeepEqual(got, []object.Hash{c1, c3}) {
		t.Fatalf("commits = %v, want [%s %s]", got, c1, c3)
	}
	top, _ := snap.Commit(c3)
	if !reflect.DeepEqual(top.Branches, []string{"main"}) {
		t.Errorf("C3 branches = %v, want [main]", top.Branches)
	}
	root, _ := snap.Commit(c1)
	if len(root.Branches) != 0 {
		t.Errorf("C1 branches = %v, want none (walk ends at missing parent)", root.Branches)
	}
	if len(snap.Report.DroppedObjects) != 1 || snap.Report.DroppedObjects[0].Hash != c2 {
		t.Errorf("dropped = %+v, want only %s", snap.Report.DroppedObjects, c2.Short())
	}
}

func TestBuildCommitGraph_OrphansAndMissingBranchTarget(t *testing.T) {
	fx := fixture.New(t)
	tree := fx.WriteTree(fixture.File("a.txt", fx.WriteBlob("a\n")))
	c1 := fx.WriteCommit(tree, 100, "one")
	orphan := fx.WriteCommit(tree, 50, "dangling")
	fx.SetBranch("main", c1)
	fx.SetBranch("gone", object.Hash("0123456789abcdef0123456789abcdef01234567"))

	snap := parseFixture(t, fx)

	if got := commitHashes(snap.Commits); !reflect.DeepEqual(got, []object.Hash{orphan, c1}) {
		t.Fatalf("commits = %v, want [%s %s]", got, orphan, c1)
	}
	o, _ := snap.Commit(orphan)
	if o.Branches == nil || len(o.Branches) != 0 {
		t.Errorf("orphan branches = %#v, want empty non-nil", o.Branches)
	}
	if _, ok := snap.Branch("gone"); !ok {
		t.Errorf("branch with missing target should still be listed")
	}
}

func TestBuildCommitGraph_UndatedSortFirst(t *testing.T) {
	fx := fixture.New(t)
	tree := fx.WriteTree()
	dated := fx.WriteCommit(tree, 10, "dated")
	undated := fx.WriteCommitObj(&object.CommitObj{TreeHash: tree, Message: "no identity"})
	fx.SetBranch("main", dated)

	snap := parseFixture(t, fx)

	if got := commitHashes(snap.Commits); !reflect.DeepEqual(got, []object.Hash{undated, dated}) {
		t.Fatalf("commits = %v, want undated first", got)
	}
	if !snap.Commits[0].Date.IsZero() {
		t.Fatalf("undated commit has date %v", snap.Commits[0].Date)
	}
}

func TestBuildCommitGraph_MembershipMatchesReachability(t *testing.T) {
	fx := fixture.New(t)
	tree := fx.WriteTree()
	base := fx.WriteCommit(tree, 1, "base")
	left := fx.WriteCommit(tree, 2, "left", base)
	right := fx.WriteCommit(tree, 3, "right", base)
	tip := fx.WriteCommit(tree, 4, "tip", left, right)
	fx.SetBranch("main", tip)
	fx.SetBranch("feature/right", right)
	fx.SetBranch("left", left)

	snap := parseFixture(t, fx)

	for _, b := range snap.Branches {
		reach := snap.Objects.ReachableCommits(b.Hash)
		for _, c := range snap.Commits {
			_, want := reach[c.Hash]
			if got := c.OnBranch(b.Name); got != want {
				t.Errorf("%s on %s = %v, want %v", c.Hash.Short(), b.Name, got, want)
			}
		}
	}
}

func TestParse_Idempotent(t *testing.T) {
	fx := fixture.New(t)
	tree := fx.WriteTree(fixture.File("a.txt", fx.WriteBlob("a\n")))
	c1 := fx.WriteCommit(tree, 100, "one")
	c2 := fx.WriteCommit(tree, 100, "same second", c1)
	fx.SetBranch("main", c2)
	fx.SetTag("v1", c1)
	fx.SetHead("main")

	p := NewParser(Options{Workers: 4, VerifyObjects: true})
	first, err := p.Parse(context.Background(), fx.Entries())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	second, err := p.Parse(context.Background(), fx.Entries())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !reflect.DeepEqual(first.Commits, second.Commits) {
		t.Fatalf("commits differ between parses")
	}
	if !reflect.DeepEqual(first.Branches, second.Branches) || !reflect.DeepEqual(first.Tags, second.Tags) {
		t.Fatalf("refs differ between parses")
	}
	if first.Head != second.Head {
		t.Fatalf("head differs: %+v vs %+v", first.Head, second.Head)
	}
}
