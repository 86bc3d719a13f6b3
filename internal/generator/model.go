package generator

// Program Model: the intermediate, language-agnostic representation built
// from the document before any text rendering. Owned exclusively by one
// generation run.

// Model is the Program Model root.
type Model struct {
	Classes []ClassDef
	// Client is nil for definitions-only runs.
	Client *ClientClass
	// ParentClass and ParentPackage configure the import preamble and the
	// base class of every generated data class.
	ParentClass   string
	ParentPackage string
}

// ClassDef is one generated data class. When Literal is non-empty the class
// was replaced verbatim by a caller-supplied fixed definition and every other
// field is ignored.
type ClassDef struct {
	Name    string
	Parent  string
	Doc     []string // doc block lines: description, then one line per field
	Fields  []Field
	Aliases AliasTable
	Literal string
}

// Field is one data-class field. HasDefault is set for fields outside the
// schema's required list; they render with an explicit empty default.
type Field struct {
	Name        string
	Type        string
	Description string
	HasDefault  bool
}

// Param is one client-method parameter derived from a path- or
// query-located parameter entry. Name is the (possibly mangled) Python
// identifier; WireName is the name the API declares.
type Param struct {
	Name     string
	WireName string
	Type     string
	Required bool
}

// ReturnKind drives the deserialization statement emitted for a method.
type ReturnKind string

const (
	// ReturnNone emits no return statement.
	ReturnNone ReturnKind = "none"
	// ReturnText returns the raw textual body.
	ReturnText ReturnKind = "text"
	// ReturnList loads each element of the JSON body through ElemType.
	ReturnList ReturnKind = "list"
	// ReturnObject loads the JSON body through ReturnType.
	ReturnObject ReturnKind = "object"
)

// ClientMethod is one generated API method.
type ClientMethod struct {
	Name   string
	Method string // lowercased HTTP verb
	Path   string // path template; placeholders already use mangled names
	// Data is the synthesized body parameter for POST/PATCH/PUT, always
	// first in the signature when present.
	Data *Param
	// Params holds path and query parameters, required before optional,
	// preserving declaration order within each group.
	Params []Param
	// Query lists the query-located parameters in declaration order, for the
	// params= mapping of the emitted request.
	Query []Param
	// Return selects the deserialization statement; ReturnType is the
	// annotated Python type ("None" and "Any" included).
	Return     ReturnKind
	ReturnType string
	// ElemType is the element type of list returns.
	ElemType string
}

// ClientClass is the single API client of a generation run.
type ClientClass struct {
	Name    string
	Methods []ClientMethod
}
