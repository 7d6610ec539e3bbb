package printer

import (
	"fmt"
	"strings"

	"github.com/hanpama/schemagraph/internal/ir"
)

func renderValue(b *strings.Builder, v *ir.Field) {
	switch v.Kind {
	case ir.KindIntValue, ir.KindFloatValue, ir.KindBooleanValue, ir.KindEnumValue:
		b.WriteString(v.Name)
	case ir.KindNullValue:
		b.WriteString("null")
	case ir.KindStringValue:
		writeString(b, v.Name)
	case ir.KindListValue:
		b.WriteString("[")
		for i, el := range v.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			renderValue(b, el)
		}
		b.WriteString("]")
	case ir.KindObjectValue:
		b.WriteString("{")
		for i, entry := range v.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(entry.Name)
			b.WriteString(": ")
			renderValue(b, entry.Value)
		}
		b.WriteString("}")
	default:
		panic("unreachable")
	}
}

// writeString quotes s as a GraphQL string literal. Unlike strconv.Quote it
// never emits \x or \U escapes, which GraphQL does not accept.
func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
