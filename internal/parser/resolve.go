package parser

import (
	"github.com/hanpama/schemagraph/internal/ir"
	language "github.com/hanpama/schemagraph/internal/language"
)

// ResolveType converts a grammar type node into a FieldType, unwrapping list
// and non-null wrappers down to the named leaf.
func ResolveType(t *language.Type) *ir.FieldType {
	if t == nil {
		return nil
	}
	var out *ir.FieldType
	if t.Elem != nil {
		out = ir.ListType(ResolveType(t.Elem))
	} else {
		out = ir.NamedType(t.NamedType)
	}
	if t.NonNull {
		out = ir.NonNullType(out)
	}
	return out
}

// ResolveValue converts a literal into an IR value node. Lists and objects
// become composite nodes whose args are the resolved elements; everything else
// is a leaf carrying the raw text.
func ResolveValue(v *language.Value) *ir.Field {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case language.IntValue:
		return &ir.Field{Name: v.Raw, Kind: ir.KindIntValue}
	case language.FloatValue:
		return &ir.Field{Name: v.Raw, Kind: ir.KindFloatValue}
	case language.StringValue, language.BlockValue:
		return &ir.Field{Name: v.Raw, Kind: ir.KindStringValue}
	case language.BooleanValue:
		return &ir.Field{Name: v.Raw, Kind: ir.KindBooleanValue}
	case language.NullValue:
		return &ir.Field{Name: "null", Kind: ir.KindNullValue}
	case language.EnumValue:
		return &ir.Field{Name: v.Raw, Kind: ir.KindEnumValue}
	case language.ListValue:
		list := &ir.Field{Name: "list", Kind: ir.KindListValue}
		for _, child := range v.Children {
			list.Args = append(list.Args, ResolveValue(child.Value))
		}
		return list
	case language.ObjectValue:
		obj := &ir.Field{Name: "object", Kind: ir.KindObjectValue}
		for _, child := range v.Children {
			obj.Args = append(obj.Args, &ir.Field{
				Name:  child.Name,
				Kind:  ir.KindArgument,
				Value: ResolveValue(child.Value),
			})
		}
		return obj
	}
	// variables never appear in constant positions
	panic("unreachable")
}

func resolveDirectives(list language.DirectiveList) []*ir.Field {
	var out []*ir.Field
	for _, d := range list {
		dir := &ir.Field{Name: d.Name, Kind: ir.KindDirective}
		for _, a := range d.Arguments {
			dir.Args = append(dir.Args, &ir.Field{
				Name:  a.Name,
				Kind:  ir.KindArgument,
				Value: ResolveValue(a.Value),
			})
		}
		out = append(out, dir)
	}
	return out
}

func resolveArguments(list []*language.ArgumentDefinition) []*ir.Field {
	var out []*ir.Field
	for _, a := range list {
		out = append(out, &ir.Field{
			Name:        a.Name,
			Kind:        ir.KindInputValueDefinition,
			Type:        ResolveType(a.Type),
			Description: a.Description,
			Value:       ResolveValue(a.DefaultValue),
			Directives:  resolveDirectives(a.Directives),
		})
	}
	return out
}

func resolveField(f *language.FieldDefinition, kind ir.Kind) *ir.Field {
	return &ir.Field{
		Name:        f.Name,
		Kind:        kind,
		Type:        ResolveType(f.Type),
		Args:        resolveArguments(f.Arguments),
		Description: f.Description,
		Value:       ResolveValue(f.DefaultValue),
		Directives:  resolveDirectives(f.Directives),
	}
}
