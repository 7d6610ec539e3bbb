package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/hanpama/schemagraph/internal/merge"
)

type palette struct {
	insert, delete, node, field, dim func(a ...interface{}) string
}

func newPalette(colored bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		insert: mk(color.FgGreen),
		delete: mk(color.FgRed),
		node:   mk(color.FgCyan, color.Bold),
		field:  mk(color.FgYellow),
		dim:    mk(color.Faint),
	}
}

// WriteDiff writes lines in unified style: "+ " for insertions, "- " for
// deletions and two spaces for context.
func WriteDiff(w io.Writer, lines []Line, colored bool) error {
	p := newPalette(colored)
	for _, l := range lines {
		var err error
		switch l.Op {
		case OpInsert:
			_, err = fmt.Fprintln(w, p.insert("+ "+l.Text))
		case OpDelete:
			_, err = fmt.Fprintln(w, p.delete("- "+l.Text))
		default:
			_, err = fmt.Fprintln(w, p.dim("  "+l.Text))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteConflicts writes one line per merge conflict followed by a summary.
func WriteConflicts(w io.Writer, conflicts merge.ConflictError, colored bool) error {
	p := newPalette(colored)
	for _, c := range conflicts {
		where := p.node(c.Node)
		if c.Field != "" {
			where += "." + p.field(c.Field)
		}
		if _, err := fmt.Fprintf(w, "%s %s (%s): %s\n", p.delete("✗"), where, c.Kind, c.Message); err != nil {
			return err
		}
	}
	noun := "conflicts"
	if len(conflicts) == 1 {
		noun = "conflict"
	}
	_, err := fmt.Fprintf(w, "%d merge %s\n", len(conflicts), noun)
	return err
}
