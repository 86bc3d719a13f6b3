package generator

import (
	"fmt"
	"strings"
)

// pythonKeywords is the reserved-word set of the target language.
var pythonKeywords = []string{
	"False", "None", "True",
	"and", "as", "assert", "async", "await",
	"break", "class", "continue", "def", "del",
	"elif", "else", "except", "finally", "for", "from",
	"global", "if", "import", "in", "is", "lambda",
	"nonlocal", "not", "or", "pass", "raise", "return",
	"try", "while", "with", "yield",
}

// reservedExtras are not keywords but appear in every generated signature, so
// a field shadowing them would corrupt the generated module.
var reservedExtras = []string{"field", "List", "Dict", "Any"}

// Mangler rewrites identifiers that collide with the reserved set. Reserved
// words map to their upper-cased form; everything else passes through
// unchanged. The mapping is a bijection: the builder records every rewrite in
// a per-class AliasTable so the wire name can be recovered without case
// heuristics.
type Mangler struct {
	reserved map[string]struct{}
}

func NewMangler() *Mangler {
	m := &Mangler{reserved: make(map[string]struct{}, len(pythonKeywords)+len(reservedExtras))}
	for _, w := range pythonKeywords {
		m.reserved[w] = struct{}{}
	}
	for _, w := range reservedExtras {
		m.reserved[w] = struct{}{}
	}
	return m
}

func (m *Mangler) IsReserved(word string) bool {
	_, ok := m.reserved[word]
	return ok
}

// Mangle returns a collision-free rendering of word. An upper-cased reserved
// word that is itself reserved cannot be disambiguated and is fatal.
func (m *Mangler) Mangle(word string) (string, error) {
	if !m.IsReserved(word) {
		return word, nil
	}
	up := strings.ToUpper(word)
	if m.IsReserved(up) {
		return "", &SchemaError{
			Code:    KeywordCollisionUnresolvable,
			Message: fmt.Sprintf("reserved word %q has no collision-free rendering", word),
		}
	}
	return up, nil
}

// AliasTable maps rendered identifiers back to original wire names. One table
// is computed per class and stored on its ClassDef; rendering and
// de-rendering both consult the same table.
type AliasTable map[string]string

// Demangle restores the wire name for a rendered identifier. Identifiers that
// were never mangled pass through unchanged.
func (t AliasTable) Demangle(rendered string) string {
	if orig, ok := t[rendered]; ok {
		return orig
	}
	return rendered
}
