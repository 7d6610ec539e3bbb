package protoreg

import (
	"strings"

	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"github.com/samber/lo"
)

// comment turns the description of n, and its @deprecated reason if any,
// into a leading proto comment. Every line gets one space of indent.
func comment(n *ir.Field) protobuilder.Comments {
	var lines []string
	if n.Description != "" {
		lines = strings.Split(n.Description, "\n")
	}
	if reason, ok := deprecation(n); ok {
		lines = append(lines, "Deprecated: "+reason)
	}
	if len(lines) == 0 {
		return protobuilder.Comments{}
	}
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(" ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return protobuilder.Comments{LeadingComment: sb.String()}
}

const defaultDeprecationReason = "No longer supported"

func deprecation(n *ir.Field) (string, bool) {
	d, ok := lo.Find(n.Directives, func(d *ir.Field) bool { return d.Name == "deprecated" })
	if !ok {
		return "", false
	}
	if arg := ir.FindArg(d, "reason"); arg != nil && arg.Value != nil && arg.Value.Kind == ir.KindStringValue {
		return arg.Value.Name, true
	}
	return defaultDeprecationReason, true
}
