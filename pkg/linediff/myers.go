// Package linediff computes line-level edit scripts between two texts and
// groups them into unified-diff hunks.
package linediff

import "strings"

// Kind classifies a line in an edit script.
type Kind int

const (
	Equal  Kind = iota // present in both texts
	Insert             // present in the new text only
	Delete             // present in the old text only
)

func (k Kind) prefix() byte {
	switch k {
	case Insert:
		return '+'
	case Delete:
		return '-'
	default:
		return ' '
	}
}

// Op is one line of an edit script.
type Op struct {
	Kind Kind
	Line string
}

// Lines diffs two texts line by line. A trailing newline does not produce an
// extra empty line.
func Lines(before, after string) []Op {
	return Myers(splitLines(before), splitLines(after))
}

// Myers returns the shortest edit script turning a into b, in
// O((N+M)*D) time where D is the edit distance.
func Myers(a, b []string) []Op {
	n, m := len(a), len(b)
	switch {
	case n == 0 && m == 0:
		return nil
	case n == 0:
		return uniform(Insert, b)
	case m == 0:
		return uniform(Delete, a)
	}

	offset := n + m
	v := make([]int, 2*offset+1)
	var trace [][]int

	for d := 0; d <= offset; d++ {
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x

			if x >= n && y >= m {
				trace = append(trace, append([]int(nil), v...))
				return walkBack(trace, a, b)
			}
		}
		trace = append(trace, append([]int(nil), v...))
	}
	return nil
}

// walkBack rebuilds the edit script from the saved frontier of each round.
func walkBack(trace [][]int, a, b []string) []Op {
	offset := len(a) + len(b)
	x, y := len(a), len(b)

	var ops []Op
	for d := len(trace) - 1; d > 0; d-- {
		prev := trace[d-1]
		k := x - y

		prevK := k - 1
		if k == -d || (k != d && prev[offset+k-1] < prev[offset+k+1]) {
			prevK = k + 1
		}
		prevX := prev[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, Op{Kind: Equal, Line: a[x]})
		}
		if prevK == k-1 {
			x--
			ops = append(ops, Op{Kind: Delete, Line: a[x]})
		} else {
			y--
			ops = append(ops, Op{Kind: Insert, Line: b[y]})
		}
	}
	for x > 0 && y > 0 {
		x--
		y--
		ops = append(ops, Op{Kind: Equal, Line: a[x]})
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}

func uniform(kind Kind, lines []string) []Op {
	ops := make([]Op, len(lines))
	for i, line := range lines {
		ops[i] = Op{Kind: kind, Line: line}
	}
	return ops
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Stat counts inserted and deleted lines.
func Stat(ops []Op) (added, deleted int) {
	for _, op := range ops {
		switch op.Kind {
		case Insert:
			added++
		case Delete:
			deleted++
		}
	}
	return added, deleted
}
