package linediff

import (
	"bytes"
	"strings"
	"testing"
)

func render(ops []Op) string {
	var sb strings.Builder
	for _, op := range ops {
		sb.WriteByte(op.Kind.prefix())
		sb.WriteString(op.Line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestMyers_Trivial(t *testing.T) {
	if ops := Myers(nil, nil); ops != nil {
		t.Fatalf("Myers(nil, nil) = %v", ops)
	}
	if got := render(Myers(nil, []string{"a", "b"})); got != "+a\n+b\n" {
		t.Fatalf("insert-only = %q", got)
	}
	if got := render(Myers([]string{"a"}, nil)); got != "-a\n" {
		t.Fatalf("delete-only = %q", got)
	}
}

func TestMyers_ReconstructsBothSides(t *testing.T) {
	a := []string{"a", "b", "c", "a", "b", "b", "a"}
	b := []string{"c", "b", "a", "b", "a", "c"}

	ops := Myers(a, b)
	var gotA, gotB []string
	for _, op := range ops {
		if op.Kind != Insert {
			gotA = append(gotA, op.Line)
		}
		if op.Kind != Delete {
			gotB = append(gotB, op.Line)
		}
	}
	if strings.Join(gotA, "") != strings.Join(a, "") || strings.Join(gotB, "") != strings.Join(b, "") {
		t.Fatalf("edit script does not reproduce inputs: %q", render(ops))
	}
	added, deleted := Stat(ops)
	// The classic example has edit distance 5.
	if added+deleted != 5 {
		t.Fatalf("edit distance = %d, want 5", added+deleted)
	}
}

func TestHunks_Ranges(t *testing.T) {
	var before, after []string
	for i := 1; i <= 20; i++ {
		line := string(rune('a' + i - 1))
		before = append(before, line)
		if i == 3 {
			after = append(after, "C")
			continue
		}
		if i == 18 {
			continue
		}
		after = append(after, line)
	}
	hunks := Hunks(Myers(before, after), 2)
	if len(hunks) != 2 {
		t.Fatalf("got %d hunks, want 2", len(hunks))
	}
	first := hunks[0]
	if first.OldStart != 1 || first.OldCount != 5 || first.NewStart != 1 || first.NewCount != 5 {
		t.Fatalf("first hunk = %+v", first)
	}
	second := hunks[1]
	if second.OldStart != 16 || second.OldCount != 5 || second.NewStart != 16 || second.NewCount != 4 {
		t.Fatalf("second hunk = %+v", second)
	}
}

func TestWriteUnified(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUnified(&buf, "a.txt", "a.txt", "one\ntwo\nthree\n", "one\n2\nthree\n", DefaultContext); err != nil {
		t.Fatalf("WriteUnified: %v", err)
	}
	want := "--- a/a.txt\n+++ b/a.txt\n@@ -1,3 +1,3 @@\n one\n-two\n+2\n three\n"
	if buf.String() != want {
		t.Fatalf("unified =\n%s\nwant\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := WriteUnified(&buf, "", "new.txt", "", "hello\n", DefaultContext); err != nil {
		t.Fatalf("WriteUnified: %v", err)
	}
	want = "--- /dev/null\n+++ b/new.txt\n@@ -0,0 +1,1 @@\n+hello\n"
	if buf.String() != want {
		t.Fatalf("added file =\n%s", buf.String())
	}

	buf.Reset()
	if err := WriteUnified(&buf, "same", "same", "x\n", "x\n", DefaultContext); err != nil {
		t.Fatalf("WriteUnified: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("identical texts wrote %q", buf.String())
	}
}
