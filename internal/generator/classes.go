package generator

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/oaplabs/swagger2py/internal/spec"
)

// buildClasses converts the document's schema definitions into ordered class
// definitions. The second return is false when the document has no
// definitions section at all.
func (g *Generator) buildClasses(doc *spec.Document) ([]ClassDef, bool, error) {
	d := doc.Doc
	if d == nil || d.Components == nil || len(d.Components.Schemas) == 0 {
		return nil, false, nil
	}
	schemas := d.Components.Schemas

	available := make([]string, 0, len(schemas))
	for name := range schemas {
		available = append(available, name)
	}
	var declared []string
	if doc.Order != nil {
		declared = doc.Order.Definitions
	}
	order := spec.MergeOrder(declared, available)

	classes := make([]ClassDef, 0, len(order))
	for _, name := range order {
		// Only the last segment of a dotted definition name becomes the
		// class name; the prefix would be a package if packages were emitted.
		className := name
		if i := strings.LastIndex(className, "."); i >= 0 {
			className = className[i+1:]
		}

		if lit, ok := g.fixed[className]; ok {
			classes = append(classes, ClassDef{Name: className, Literal: lit})
			continue
		}

		var propOrder []string
		if doc.Order != nil {
			propOrder = doc.Order.Properties[name]
		}
		cd, err := g.buildClass(name, className, schemas[name], propOrder)
		if err != nil {
			return nil, false, err
		}
		classes = append(classes, cd)
	}
	return classes, true, nil
}

func (g *Generator) buildClass(defName, className string, sref *openapi3.SchemaRef, propOrder []string) (ClassDef, error) {
	cd := ClassDef{
		Name:    className,
		Parent:  g.parentClass,
		Aliases: AliasTable{},
	}
	basePath := "components/schemas/" + defName

	var schema *openapi3.Schema
	if sref != nil {
		schema = sref.Value
	}
	if schema == nil {
		cd.Doc = []string{"Fields:"}
		return cd, nil
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, r := range schema.Required {
		required[r] = struct{}{}
	}

	available := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		available = append(available, name)
	}
	order := spec.MergeOrder(propOrder, available)

	if desc := strings.TrimSpace(schema.Description); desc != "" {
		cd.Doc = append(cd.Doc, desc)
	}
	cd.Doc = append(cd.Doc, "Fields:")

	taken := make(map[string]string, len(order))
	var requiredFields, optionalFields []Field
	for _, propName := range order {
		at := basePath + "/properties/" + propName
		pref := schema.Properties[propName]

		it, err := resolveItemType(pref, at)
		if err != nil {
			return ClassDef{}, err
		}
		typeName, err := pyTypeName(it, at)
		if err != nil {
			return ClassDef{}, err
		}
		rendered, err := g.mangler.Mangle(propName)
		if err != nil {
			if se, ok := err.(*SchemaError); ok {
				se.SchemaPath = at
			}
			return ClassDef{}, err
		}
		if prev, clash := taken[rendered]; clash {
			return ClassDef{}, &SchemaError{
				Code:       KeywordCollisionUnresolvable,
				Message:    fmt.Sprintf("field %q renders to %q, colliding with field %q", propName, rendered, prev),
				SchemaPath: at,
			}
		}
		taken[rendered] = propName
		if rendered != propName {
			cd.Aliases[rendered] = propName
		}

		desc := ""
		if pref.Value != nil {
			desc = strings.TrimSpace(pref.Value.Description)
		}
		// Doc lines keep the wire name and declaration order.
		cd.Doc = append(cd.Doc, fmt.Sprintf("%s: %s | %s", propName, typeName, desc))

		f := Field{Name: rendered, Type: typeName, Description: desc}
		if _, isRequired := required[propName]; isRequired {
			requiredFields = append(requiredFields, f)
		} else {
			f.HasDefault = true
			optionalFields = append(optionalFields, f)
		}
	}

	cd.Fields = append(requiredFields, optionalFields...)
	return cd, nil
}
