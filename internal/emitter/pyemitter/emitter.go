// Package pyemitter renders the Program Model to Python source text.
// Rendering is deterministic: the same model always produces byte-identical
// output.
package pyemitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oaplabs/swagger2py/internal/generator"
)

const indent = "    "

// Render produces the generated source document: import preamble, one data
// class per class definition, and the API client when the model carries one.
func Render(m *generator.Model) []byte {
	var b strings.Builder

	b.WriteString("from __future__ import annotations\n")
	b.WriteString("from typing import List, Dict, Any\n")
	b.WriteString("from dataclasses import dataclass, field\n")
	if m.ParentClass != "" {
		if m.ParentPackage != "" {
			fmt.Fprintf(&b, "from %s import %s\n", m.ParentPackage, m.ParentClass)
		} else {
			fmt.Fprintf(&b, "import %s\n", m.ParentClass)
		}
	}

	for _, cd := range m.Classes {
		b.WriteString("\n\n")
		writeClass(&b, cd)
	}

	if m.Client != nil {
		b.WriteString("\n\n")
		writeClient(&b, m.Client)
	}

	b.WriteString("\n")
	return []byte(b.String())
}

func writeClass(b *strings.Builder, cd generator.ClassDef) {
	if cd.Literal != "" {
		b.WriteString(strings.TrimRight(cd.Literal, "\n"))
		return
	}

	b.WriteString("@dataclass\n")
	if cd.Parent != "" {
		fmt.Fprintf(b, "class %s(%s):\n", cd.Name, cd.Parent)
	} else {
		fmt.Fprintf(b, "class %s:\n", cd.Name)
	}

	b.WriteString(indent + "\"\"\"\n")
	for _, line := range cd.Doc {
		b.WriteString(indent + line + "\n")
	}
	b.WriteString(indent + "\"\"\"\n")

	if len(cd.Fields) == 0 && len(cd.Aliases) == 0 {
		b.WriteString("\n" + indent + "pass")
		return
	}

	b.WriteString("\n")
	for i, f := range cd.Fields {
		if i > 0 {
			b.WriteString("\n")
		}
		if f.HasDefault {
			fmt.Fprintf(b, "%s%s: %s = field(default=None)", indent, f.Name, f.Type)
		} else {
			fmt.Fprintf(b, "%s%s: %s", indent, f.Name, f.Type)
		}
	}
	if len(cd.Aliases) > 0 {
		if len(cd.Fields) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(indent + "_keyword_aliases = " + renderAliases(cd.Aliases))
	}
}

func renderAliases(t generator.AliasTable) string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%q: %q", k, t[k]))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

func writeClient(b *strings.Builder, c *generator.ClientClass) {
	b.WriteString("######################################\n")
	b.WriteString("# API from paths\n")
	b.WriteString("######################################\n")
	b.WriteString("import requests\n")
	b.WriteString("\n\n")
	fmt.Fprintf(b, "class %s:\n\n", c.Name)
	b.WriteString(indent + "def __init__(self, host: str, request_headers: dict):\n")
	b.WriteString(indent + indent + "self.host = host\n")
	b.WriteString(indent + indent + "self.request_headers = request_headers")

	for _, m := range c.Methods {
		b.WriteString("\n\n")
		writeMethod(b, m)
	}
}

func writeMethod(b *strings.Builder, m generator.ClientMethod) {
	args := []string{"self"}
	if m.Data != nil {
		args = append(args, fmt.Sprintf("%s: %s", m.Data.Name, m.Data.Type))
	}
	for _, p := range m.Params {
		if p.Required {
			args = append(args, fmt.Sprintf("%s: %s", p.Name, p.Type))
		} else {
			args = append(args, fmt.Sprintf("%s: %s = None", p.Name, p.Type))
		}
	}
	fmt.Fprintf(b, "%sdef %s(%s) -> %s:\n", indent, m.Name, strings.Join(args, ", "), m.ReturnType)

	// Continuation lines align with the opening parenthesis of the call.
	call := fmt.Sprintf("response = requests.%s(", m.Method)
	cont := strings.Repeat(" ", len(indent+indent)+len(call))
	fmt.Fprintf(b, "%s%sf'{self.host}%s',\n", indent+indent, call, m.Path)
	b.WriteString(cont + "headers=self.request_headers,\n")

	query := make([]string, 0, len(m.Query))
	for _, q := range m.Query {
		query = append(query, fmt.Sprintf("%q: %s", q.WireName, q.Name))
	}
	if m.Data != nil {
		fmt.Fprintf(b, "%sparams={%s},\n", cont, strings.Join(query, ", "))
		b.WriteString(cont + "data=data.asdict())\n")
	} else {
		fmt.Fprintf(b, "%sparams={%s})\n", cont, strings.Join(query, ", "))
	}

	b.WriteString(indent + indent + "try:\n")
	b.WriteString(indent + indent + indent + returnStatement(m) + "\n")
	b.WriteString(indent + indent + "except Exception as e:\n")
	b.WriteString(indent + indent + indent + "print(f'Bad response: {response.json()}')\n")
	b.WriteString(indent + indent + indent + "raise e")
}

func returnStatement(m generator.ClientMethod) string {
	switch m.Return {
	case generator.ReturnText:
		return "return response.text"
	case generator.ReturnList:
		return fmt.Sprintf("return [%s.load(item) for item in response.json()]", m.ElemType)
	case generator.ReturnObject:
		return fmt.Sprintf("return %s.load(response.json())", m.ReturnType)
	default:
		return "pass"
	}
}
