package spec

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// DocOrder records the declaration order of the sections the generator walks.
// Parsed document maps do not preserve key order, so the order is recovered
// from the raw bytes with a yaml.Node walk. YAML and JSON inputs both parse
// through yaml.v3, so one walk covers either encoding.
type DocOrder struct {
	// Definitions lists schema definition names in declaration order.
	Definitions []string
	// Properties lists property names per definition, in declaration order.
	Properties map[string][]string
	// Paths lists path templates in declaration order.
	Paths []string
	// Methods lists lowercased HTTP methods per path, in declaration order.
	Methods map[string][]string
}

var httpMethodNames = map[string]struct{}{
	"get": {}, "post": {}, "put": {}, "delete": {},
	"patch": {}, "head": {}, "options": {}, "trace": {},
}

// indexDocOrder builds a DocOrder from raw document bytes. version selects
// where schema definitions live: "definitions" for Swagger v2,
// "components.schemas" for OpenAPI v3. A document that fails to parse yields
// an empty index; callers fall back to sorted keys.
func indexDocOrder(raw []byte, version int) *DocOrder {
	order := &DocOrder{
		Properties: make(map[string][]string),
		Methods:    make(map[string][]string),
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return order
	}
	doc := documentMapping(&root)
	if doc == nil {
		return order
	}

	var defs *yaml.Node
	if version == 2 {
		defs = mappingValue(doc, "definitions")
	} else {
		if components := mappingValue(doc, "components"); components != nil {
			defs = mappingValue(components, "schemas")
		}
	}
	if defs != nil && defs.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(defs.Content); i += 2 {
			name := defs.Content[i].Value
			order.Definitions = append(order.Definitions, name)
			if props := mappingValue(defs.Content[i+1], "properties"); props != nil && props.Kind == yaml.MappingNode {
				for j := 0; j+1 < len(props.Content); j += 2 {
					order.Properties[name] = append(order.Properties[name], props.Content[j].Value)
				}
			}
		}
	}

	if paths := mappingValue(doc, "paths"); paths != nil && paths.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(paths.Content); i += 2 {
			path := paths.Content[i].Value
			order.Paths = append(order.Paths, path)
			item := paths.Content[i+1]
			if item.Kind != yaml.MappingNode {
				continue
			}
			for j := 0; j+1 < len(item.Content); j += 2 {
				method := item.Content[j].Value
				if _, ok := httpMethodNames[method]; ok {
					order.Methods[path] = append(order.Methods[path], method)
				}
			}
		}
	}

	return order
}

func documentMapping(root *yaml.Node) *yaml.Node {
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil
	}
	return root
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// MergeOrder arranges available keys by their declared order, appending any
// keys absent from the declaration index in sorted order. The result always
// contains exactly the available keys.
func MergeOrder(declared, available []string) []string {
	present := make(map[string]struct{}, len(available))
	for _, k := range available {
		present[k] = struct{}{}
	}
	out := make([]string, 0, len(available))
	seen := make(map[string]struct{}, len(available))
	for _, k := range declared {
		if _, ok := present[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	var rest []string
	for _, k := range available {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
