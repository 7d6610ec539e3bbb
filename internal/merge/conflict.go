package merge

import (
	"fmt"
	"strings"

	"github.com/hanpama/schemagraph/internal/ir"
)

// Conflict is one incompatibility between the two trees.
type Conflict struct {
	Node    string  `json:"node"`
	Kind    ir.Kind `json:"kind"`
	Field   string  `json:"field,omitempty"`
	Message string  `json:"message,omitempty"`
}

func (c *Conflict) String() string {
	var sb strings.Builder
	sb.WriteString(c.Node)
	if c.Field != "" {
		sb.WriteString(".")
		sb.WriteString(c.Field)
	}
	if c.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(c.Message)
	}
	return sb.String()
}

// ConflictError carries every conflict found in one merge.
type ConflictError []*Conflict

func (e ConflictError) Error() string {
	if len(e) == 1 {
		return "merge conflict: " + e[0].String()
	}
	msg := fmt.Sprintf("%d merge conflicts:\n", len(e))
	for _, c := range e {
		msg += "- " + c.String() + "\n"
	}
	return msg
}
