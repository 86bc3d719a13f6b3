package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/oaplabs/swagger2py/internal/spec"
)

// buildClient converts the document's path/operation table into the client
// class. Operations that cannot be generated are omitted with a warning,
// never aborting the rest of the surface.
func (g *Generator) buildClient(doc *spec.Document) (*ClientClass, []SkippedOperation, error) {
	client := &ClientClass{Name: clientClassName}
	var skipped []SkippedOperation

	d := doc.Doc
	if d == nil || len(d.Paths) == 0 {
		return client, nil, nil
	}

	available := make([]string, 0, len(d.Paths))
	for p := range d.Paths {
		available = append(available, p)
	}
	var declared []string
	if doc.Order != nil {
		declared = doc.Order.Paths
	}
	pathOrder := spec.MergeOrder(declared, available)

	for _, path := range pathOrder {
		item := d.Paths[path]
		if item == nil {
			continue
		}
		ops := operationsByMethod(item)
		methodNames := make([]string, 0, len(ops))
		for m := range ops {
			methodNames = append(methodNames, m)
		}
		var declaredMethods []string
		if doc.Order != nil {
			declaredMethods = doc.Order.Methods[path]
		}
		for _, method := range spec.MergeOrder(declaredMethods, methodNames) {
			op := ops[method]
			cm, skip, err := g.buildMethod(path, method, item, op)
			if err != nil {
				return nil, nil, err
			}
			if skip != nil {
				g.logger.Warn("skipping operation",
					"method", strings.ToUpper(method),
					"path", path,
					"reason", string(skip.Reason),
					"detail", skip.Detail,
				)
				skipped = append(skipped, *skip)
				continue
			}
			client.Methods = append(client.Methods, *cm)
		}
	}
	return client, skipped, nil
}

func operationsByMethod(item *openapi3.PathItem) map[string]*openapi3.Operation {
	out := make(map[string]*openapi3.Operation, 8)
	for m, op := range map[string]*openapi3.Operation{
		"get": item.Get, "post": item.Post, "put": item.Put, "delete": item.Delete,
		"patch": item.Patch, "head": item.Head, "options": item.Options, "trace": item.Trace,
	} {
		if op != nil {
			out[m] = op
		}
	}
	return out
}

func (g *Generator) buildMethod(path, method string, item *openapi3.PathItem, op *openapi3.Operation) (*ClientMethod, *SkippedOperation, error) {
	at := "paths/" + path + "/" + method

	params, query, err := g.buildParams(at, item, op)
	if err != nil {
		return nil, nil, err
	}

	cm := &ClientMethod{
		Name:   methodName(path, method, op, len(params)),
		Method: method,
		Path:   path,
	}

	// Path placeholders must match the mangled argument names.
	for _, p := range params {
		if p.Name != p.WireName {
			cm.Path = strings.ReplaceAll(cm.Path, "{"+p.WireName+"}", "{"+p.Name+"}")
		}
	}

	// Request body for the verbs that carry one.
	if method == "post" || method == "patch" || method == "put" {
		var content openapi3.Content
		if op.RequestBody != nil && op.RequestBody.Value != nil {
			content = op.RequestBody.Value.Content
		}
		mime, ok := negotiateContent(content, g.contentType)
		if !ok {
			return nil, &SkippedOperation{
				Method: method, Path: path,
				Reason: SkipUnsupportedContentType,
				Detail: fmt.Sprintf("request body has no %s content", g.contentType),
			}, nil
		}
		it, err := resolveItemType(content[mime].Schema, at+"/requestBody")
		if err != nil {
			return nil, nil, err
		}
		typeName, err := pyTypeName(it, at+"/requestBody")
		if err != nil {
			return nil, nil, err
		}
		cm.Data = &Param{Name: "data", WireName: "data", Type: typeName, Required: true}
	}

	skip, err := g.resolveReturn(cm, at, path, method, op)
	if err != nil {
		return nil, nil, err
	}
	if skip != nil {
		return nil, skip, nil
	}

	// Required parameters precede optional ones, each group keeping its
	// declaration order.
	for _, p := range params {
		if p.Required {
			cm.Params = append(cm.Params, p)
		}
	}
	for _, p := range params {
		if !p.Required {
			cm.Params = append(cm.Params, p)
		}
	}
	cm.Query = query
	return cm, nil, nil
}

// buildParams merges path-item parameters with operation parameters
// (operation entries override by location and name), keeps the path- and
// query-located ones, and mangles their names. The first return lists path
// parameters then query parameters in declaration order; the second lists
// the query subset.
func (g *Generator) buildParams(at string, item *openapi3.PathItem, op *openapi3.Operation) ([]Param, []Param, error) {
	merged := make([]*openapi3.Parameter, 0, len(item.Parameters)+len(op.Parameters))
	add := func(refs openapi3.Parameters) {
		for _, pref := range refs {
			if pref == nil || pref.Value == nil {
				continue
			}
			p := pref.Value
			replaced := false
			for i, prev := range merged {
				if prev.In == p.In && prev.Name == p.Name {
					merged[i] = p
					replaced = true
					break
				}
			}
			if !replaced {
				merged = append(merged, p)
			}
		}
	}
	add(item.Parameters)
	add(op.Parameters)

	var pathParams, queryParams []Param
	taken := make(map[string]string, len(merged))
	for _, p := range merged {
		if p.In != "path" && p.In != "query" {
			continue
		}
		paramAt := at + "/parameters/" + p.Name
		it, err := resolveItemType(p.Schema, paramAt)
		if err != nil {
			return nil, nil, err
		}
		typeName, err := pyTypeName(it, paramAt)
		if err != nil {
			return nil, nil, err
		}
		rendered, err := g.mangler.Mangle(p.Name)
		if err != nil {
			if se, ok := err.(*SchemaError); ok {
				se.SchemaPath = paramAt
			}
			return nil, nil, err
		}
		if prev, clash := taken[rendered]; clash {
			return nil, nil, &SchemaError{
				Code:       KeywordCollisionUnresolvable,
				Message:    fmt.Sprintf("parameter %q renders to %q, colliding with parameter %q", p.Name, rendered, prev),
				SchemaPath: paramAt,
			}
		}
		taken[rendered] = p.Name

		param := Param{Name: rendered, WireName: p.Name, Type: typeName, Required: p.Required}
		if p.In == "path" {
			pathParams = append(pathParams, param)
		} else {
			queryParams = append(queryParams, param)
		}
	}
	return append(pathParams, queryParams...), queryParams, nil
}

// resolveReturn decides the return typing and deserialization statement, or
// reports a recoverable skip.
func (g *Generator) resolveReturn(cm *ClientMethod, at, path, method string, op *openapi3.Operation) (*SkippedOperation, error) {
	if method == "delete" || method == "put" || op.Responses["204"] != nil {
		cm.Return = ReturnNone
		cm.ReturnType = "None"
		return nil, nil
	}

	resp200 := op.Responses["200"]
	if resp200 == nil || resp200.Value == nil {
		return &SkippedOperation{
			Method: method, Path: path,
			Reason: SkipNoSupportedResponse,
			Detail: "no 200 or 204 response declared",
		}, nil
	}
	if len(resp200.Value.Content) == 0 {
		// A bare 200 keeps the method, typed opaquely.
		cm.Return = ReturnNone
		cm.ReturnType = "Any"
		return nil, nil
	}

	mime, ok := negotiateContent(resp200.Value.Content, g.contentType)
	if !ok {
		return &SkippedOperation{
			Method: method, Path: path,
			Reason: SkipUnsupportedContentType,
			Detail: fmt.Sprintf("200 response has no %s content", g.contentType),
		}, nil
	}

	respAt := at + "/responses/200"
	it, err := resolveItemType(resp200.Value.Content[mime].Schema, respAt)
	if err != nil {
		return nil, err
	}
	typeName, err := pyTypeName(it, respAt)
	if err != nil {
		return nil, err
	}

	switch {
	case typeName == "str":
		cm.Return = ReturnText
		cm.ReturnType = "str"
	case it.Kind == KindArray:
		elem, err := pyTypeName(*it.Elem, respAt+"/items")
		if err != nil {
			return nil, err
		}
		cm.Return = ReturnList
		cm.ReturnType = typeName
		cm.ElemType = elem
	default:
		cm.Return = ReturnObject
		cm.ReturnType = typeName
	}
	return nil, nil
}

// methodName uses the operation's explicit identifier when present, otherwise
// synthesizes verb + the last static path segment. A parameterless GET is
// named as a listing.
func methodName(path, method string, op *openapi3.Operation, paramCount int) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	verb := method
	if method == "get" && paramCount == 0 {
		verb = "list"
	}
	lastStatic := ""
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, "{") {
			break
		}
		lastStatic = seg
	}
	return verb + lastStatic
}

// negotiateContent matches a declared media-type key against the configured
// content type: exact match preferred, then the first key (in sorted order)
// of which the configured type is a prefix. One contract serves both request
// bodies and responses.
func negotiateContent(content openapi3.Content, want string) (string, bool) {
	if len(content) == 0 {
		return "", false
	}
	if _, ok := content[want]; ok {
		return want, true
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.HasPrefix(k, want) {
			return k, true
		}
	}
	return "", false
}

