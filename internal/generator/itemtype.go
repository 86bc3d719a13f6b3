package generator

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Kind tags the three shapes a schema-property fragment can resolve to.
type Kind string

const (
	KindPrimitive Kind = "primitive"
	KindReference Kind = "reference"
	KindArray     Kind = "array"
)

// ItemType is the internal representation of one schema-property site. It is
// constructed per occurrence and never cached. A reference carries the raw
// $ref pointer in Name; an array always carries a non-nil Elem.
type ItemType struct {
	Kind Kind
	Name string
	Elem *ItemType
}

// pyPrimitives is the fixed OpenAPI-primitive to Python-type table.
var pyPrimitives = map[string]string{
	"string":  "str",
	"integer": "int",
	"number":  "float",
	"boolean": "bool",
	"object":  "Dict",
}

// resolveItemType maps a raw schema fragment to an ItemType. A fragment with
// neither a $ref nor a type keyword is a fatal MissingTypeInfo error; at
// names the fragment's location for diagnostics.
func resolveItemType(ref *openapi3.SchemaRef, at string) (ItemType, error) {
	if ref == nil {
		return ItemType{}, &SchemaError{
			Code:       MissingTypeInfo,
			Message:    "schema fragment is absent",
			SchemaPath: at,
		}
	}
	if ref.Ref != "" {
		return ItemType{Kind: KindReference, Name: ref.Ref}, nil
	}
	if ref.Value != nil && ref.Value.Type != "" {
		if ref.Value.Type == "array" {
			elem, err := resolveItemType(ref.Value.Items, at+"/items")
			if err != nil {
				return ItemType{}, err
			}
			return ItemType{Kind: KindArray, Name: "array", Elem: &elem}, nil
		}
		return ItemType{Kind: KindPrimitive, Name: ref.Value.Type}, nil
	}
	return ItemType{}, &SchemaError{
		Code:       MissingTypeInfo,
		Message:    "fragment contains neither a type nor a $ref",
		SchemaPath: at,
	}
}

// pyTypeName maps an ItemType to its Python type name. Reference element
// types bypass the primitive table; an unknown primitive name is fatal.
func pyTypeName(t ItemType, at string) (string, error) {
	switch t.Kind {
	case KindReference:
		return refClassName(t.Name), nil
	case KindArray:
		elem, err := pyTypeName(*t.Elem, at+"/items")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("List[%s]", elem), nil
	default:
		if name, ok := pyPrimitives[t.Name]; ok {
			return name, nil
		}
		return "", &SchemaError{
			Code:       UnknownPrimitive,
			Message:    fmt.Sprintf("unknown primitive type %q", t.Name),
			SchemaPath: at,
		}
	}
}

// refClassName reduces a $ref pointer to its bare class name: the last path
// segment, with any dotted package-style prefix qualified away.
func refClassName(ref string) string {
	seg := ref
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	if i := strings.LastIndex(seg, "."); i >= 0 {
		seg = seg[i+1:]
	}
	return seg
}
