package spec

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// rewriteV2ForConversion rewrites non-compliant Swagger v2 operations so that
// kin-openapi can convert them to v3. Operations declaring multiple body
// parameters are collapsed into a single body parameter whose schema is an
// object with one property per original parameter.
//
// It returns possibly-modified YAML bytes and a flag indicating whether a
// rewrite happened. On parse or serialization errors the original bytes are
// returned unmodified.
func rewriteV2ForConversion(data []byte) ([]byte, bool, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return data, false, err
	}
	paths, ok := doc["paths"].(map[string]any)
	if !ok || len(paths) == 0 {
		return data, false, nil
	}
	modified := false

	for _, pathItem := range paths {
		item, ok := pathItem.(map[string]any)
		if !ok {
			continue
		}
		for method, opAny := range item {
			if _, known := httpMethodNames[strings.ToLower(method)]; !known {
				continue
			}
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			params, ok := op["parameters"].([]any)
			if !ok || len(params) == 0 {
				continue
			}
			if countBodyParams(params) < 2 {
				continue
			}

			props := map[string]any{}
			required := make([]any, 0)
			rest := make([]any, 0, len(params))
			for _, p := range params {
				pm, _ := p.(map[string]any)
				if pm == nil {
					continue
				}
				in, _ := pm["in"].(string)
				if !strings.EqualFold(in, "body") {
					rest = append(rest, p)
					continue
				}
				name, _ := pm["name"].(string)
				if name == "" {
					name = "field"
				}
				schema := bodyParamSchema(pm)
				if schema == nil {
					schema = map[string]any{"type": "string"}
				}
				props[name] = schema
				if rb, _ := pm["required"].(bool); rb {
					required = append(required, name)
				}
			}
			bodySchema := map[string]any{"type": "object", "properties": props}
			if len(required) > 0 {
				bodySchema["required"] = required
			}
			merged := map[string]any{"in": "body", "name": "body", "schema": bodySchema}
			op["parameters"] = append([]any{merged}, rest...)
			modified = true
		}
	}

	if !modified {
		return data, false, nil
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return data, false, err
	}
	return out, true, nil
}

func countBodyParams(params []any) int {
	n := 0
	for _, p := range params {
		pm, _ := p.(map[string]any)
		if pm == nil {
			continue
		}
		if in, _ := pm["in"].(string); strings.EqualFold(in, "body") {
			n++
		}
	}
	return n
}

// bodyParamSchema returns the parameter's schema, synthesizing one from the
// inline type/items/format fields when no schema object is present.
func bodyParamSchema(pm map[string]any) map[string]any {
	if sch, ok := pm["schema"].(map[string]any); ok {
		return sch
	}
	t, _ := pm["type"].(string)
	if t == "" {
		return nil
	}
	m := map[string]any{"type": t}
	if it, ok := pm["items"].(map[string]any); ok {
		m["items"] = it
	}
	if f, ok := pm["format"].(string); ok && f != "" {
		m["format"] = f
	}
	return m
}
