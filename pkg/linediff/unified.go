package linediff

import (
	"fmt"
	"io"
)

// DefaultContext is the number of unchanged lines kept around each change.
const DefaultContext = 3

// Hunk is a contiguous window of an edit script with its line ranges in the
// old and new text. Starts are 1-based; an empty side starts one line early,
// as in unified diffs.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Ops                []Op
}

// Hunks groups changes into windows with up to context unchanged lines on
// each side. Windows that touch or overlap are merged.
func Hunks(ops []Op, context int) []Hunk {
	if context < 0 {
		context = 0
	}

	type window struct{ start, end int }
	var windows []window
	for i, op := range ops {
		if op.Kind == Equal {
			continue
		}
		start := max(i-context, 0)
		end := min(i+context+1, len(ops))
		if len(windows) == 0 || start > windows[len(windows)-1].end {
			windows = append(windows, window{start, end})
			continue
		}
		if end > windows[len(windows)-1].end {
			windows[len(windows)-1].end = end
		}
	}

	hunks := make([]Hunk, 0, len(windows))
	oldLine, newLine, pos := 1, 1, 0
	for _, w := range windows {
		for ; pos < w.start; pos++ {
			oldLine, newLine = advance(ops[pos].Kind, oldLine, newLine)
		}
		h := Hunk{OldStart: oldLine, NewStart: newLine, Ops: ops[w.start:w.end]}
		for ; pos < w.end; pos++ {
			switch ops[pos].Kind {
			case Equal:
				h.OldCount++
				h.NewCount++
			case Delete:
				h.OldCount++
			case Insert:
				h.NewCount++
			}
			oldLine, newLine = advance(ops[pos].Kind, oldLine, newLine)
		}
		if h.OldCount == 0 {
			h.OldStart--
		}
		if h.NewCount == 0 {
			h.NewStart--
		}
		hunks = append(hunks, h)
	}
	return hunks
}

func advance(kind Kind, oldLine, newLine int) (int, int) {
	switch kind {
	case Equal:
		return oldLine + 1, newLine + 1
	case Delete:
		return oldLine + 1, newLine
	default:
		return oldLine, newLine + 1
	}
}

// WriteUnified writes a unified diff of one file. Identical texts write
// nothing.
func WriteUnified(w io.Writer, oldPath, newPath, before, after string, context int) error {
	if before == after {
		return nil
	}
	if oldPath == "" {
		oldPath = "/dev/null"
	} else {
		oldPath = "a/" + oldPath
	}
	if newPath == "" {
		newPath = "/dev/null"
	} else {
		newPath = "b/" + newPath
	}

	if _, err := fmt.Fprintf(w, "--- %s\n+++ %s\n", oldPath, newPath); err != nil {
		return err
	}
	for _, h := range Hunks(Lines(before, after), context) {
		if _, err := fmt.Fprintf(w, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount); err != nil {
			return err
		}
		for _, op := range h.Ops {
			if _, err := fmt.Fprintf(w, "%c%s\n", op.Kind.prefix(), op.Line); err != nil {
				return err
			}
		}
	}
	return nil
}
