package parser

import (
	"strings"

	"github.com/hanpama/schemagraph/internal/ir"
)

// extractComments returns one comment node per `#` line of src, in document
// order. Lines inside block strings are description text, not comments.
func extractComments(src string) []*ir.Field {
	var out []*ir.Field
	inBlock := false
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inBlock && strings.HasPrefix(trimmed, "#") {
			out = append(out, &ir.Field{
				Name: strings.TrimSpace(strings.TrimPrefix(trimmed, "#")),
				Kind: ir.KindComment,
			})
			continue
		}
		if blockQuotes(line)%2 == 1 {
			inBlock = !inBlock
		}
	}
	return out
}

// blockQuotes counts the unescaped `"""` delimiters on a line.
func blockQuotes(line string) int {
	n := 0
	for i := 0; i+3 <= len(line); {
		switch {
		case strings.HasPrefix(line[i:], `\"""`):
			i += 4
		case strings.HasPrefix(line[i:], `"""`):
			n++
			i += 3
		default:
			i++
		}
	}
	return n
}
