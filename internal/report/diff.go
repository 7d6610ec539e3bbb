package report

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type Op string

const (
	OpEqual  Op = "equal"
	OpInsert Op = "insert"
	OpDelete Op = "delete"
)

// Line is one line of a line-wise diff.
type Line struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// Diff compares two texts line by line.
func Diff(a, b string) []Line {
	dmp := diffmatchpatch.New()
	c1, c2, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), lines)

	var out []Line
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		}
		if d.Text == "" {
			continue
		}
		for _, l := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out = append(out, Line{Op: op, Text: l})
		}
	}
	return out
}

// Changed reports whether any line differs.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != OpEqual {
			return true
		}
	}
	return false
}
