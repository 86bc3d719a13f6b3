package generator

import (
	"log/slog"

	"github.com/oaplabs/swagger2py/internal/spec"
)

// Defaults applied by New.
const (
	DefaultParentClass         = "YamlDataClass"
	DefaultParentPackage       = "generator"
	DefaultResponseContentType = "application/json"
	clientClassName            = "Api"
)

// Generator builds the Program Model for one or more documents. A Generator
// is cheap and stateless across calls; each Build owns its model exclusively.
type Generator struct {
	parentClass   string
	parentPackage string
	fixed         map[string]string
	contentType   string
	logger        *slog.Logger
	mangler       *Mangler
}

// GenOption mutates a Generator under construction.
type GenOption func(*Generator)

// WithParentClass sets the base class of generated data classes. An empty
// name drops the parent entirely.
func WithParentClass(name string) GenOption {
	return func(g *Generator) { g.parentClass = name }
}

// WithParentClassPackage sets the import source of the parent class.
func WithParentClassPackage(pkg string) GenOption {
	return func(g *Generator) { g.parentPackage = pkg }
}

// WithFixedClassDefinitions supplies literal class bodies that replace
// generated definitions, keyed by class name.
func WithFixedClassDefinitions(defs map[string]string) GenOption {
	return func(g *Generator) { g.fixed = defs }
}

// WithResponseContentType sets the media type negotiated for request bodies
// and responses.
func WithResponseContentType(ct string) GenOption {
	return func(g *Generator) { g.contentType = ct }
}

// WithLogger sets the reporting channel for skip warnings and notices.
func WithLogger(l *slog.Logger) GenOption {
	return func(g *Generator) { g.logger = l }
}

// New builds a Generator. Setting a parent package while clearing the parent
// class name is a configuration error.
func New(opts ...GenOption) (*Generator, error) {
	g := &Generator{
		parentClass:   DefaultParentClass,
		parentPackage: DefaultParentPackage,
		contentType:   DefaultResponseContentType,
		mangler:       NewMangler(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.parentPackage != "" && g.parentClass == "" {
		return nil, &ConfigError{
			Code:    InvalidParentBinding,
			Message: "parent class name must be set when a parent class package is used",
		}
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g, nil
}

// SkipReason categorizes recoverable per-operation skips.
type SkipReason string

const (
	SkipUnsupportedContentType SkipReason = "UnsupportedContentType"
	SkipNoSupportedResponse    SkipReason = "NoSupportedResponse"
)

// SkippedOperation records one operation omitted from the output.
type SkippedOperation struct {
	Method string
	Path   string
	Reason SkipReason
	Detail string
}

// Build produces the full Program Model: one class per schema definition and
// the client class. A document without a definitions section yields a nil
// model after notifying through the logger; operations that cannot be
// generated are skipped with a warning and returned for the caller's summary.
func (g *Generator) Build(doc *spec.Document) (*Model, []SkippedOperation, error) {
	classes, ok, err := g.buildClasses(doc)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		g.logger.Warn("no definitions section found in the OpenAPI specification")
		return nil, nil, nil
	}

	client, skipped, err := g.buildClient(doc)
	if err != nil {
		return nil, nil, err
	}

	return &Model{
		Classes:       classes,
		Client:        client,
		ParentClass:   g.parentClass,
		ParentPackage: g.parentPackage,
	}, skipped, nil
}

// BuildDefinitions produces a definitions-only model with no client class.
func (g *Generator) BuildDefinitions(doc *spec.Document) (*Model, error) {
	classes, ok, err := g.buildClasses(doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		g.logger.Warn("no definitions section found in the OpenAPI specification")
		return nil, nil
	}
	return &Model{
		Classes:       classes,
		ParentClass:   g.parentClass,
		ParentPackage: g.parentPackage,
	}, nil
}
