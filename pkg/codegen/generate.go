// Package codegen is the public pipeline driver: it loads an OpenAPI
// document, builds the Program Model, and renders it to Python source.
package codegen

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/oaplabs/swagger2py/internal/emitter/pyemitter"
	"github.com/oaplabs/swagger2py/internal/generator"
	"github.com/oaplabs/swagger2py/internal/spec"
)

// Result is the outcome of one generation run. Source is empty when the
// document has no definitions section (the run is a no-op, reported through
// the logger). Skipped lists the operations omitted with a warning.
type Result struct {
	Source  []byte
	Skipped []generator.SkippedOperation
}

type config struct {
	genOpts  []generator.GenOption
	httpOpts []spec.Option
}

// Option configures a generation run.
type Option func(*config)

// WithParentClass sets the base class of generated data classes.
func WithParentClass(name string) Option {
	return func(c *config) { c.genOpts = append(c.genOpts, generator.WithParentClass(name)) }
}

// WithParentClassPackage sets the import source of the parent class.
func WithParentClassPackage(pkg string) Option {
	return func(c *config) { c.genOpts = append(c.genOpts, generator.WithParentClassPackage(pkg)) }
}

// WithFixedClassDefinitions supplies literal class bodies that replace
// generated definitions, keyed by class name.
func WithFixedClassDefinitions(defs map[string]string) Option {
	return func(c *config) { c.genOpts = append(c.genOpts, generator.WithFixedClassDefinitions(defs)) }
}

// WithResponseContentType sets the negotiated request/response media type.
func WithResponseContentType(ct string) Option {
	return func(c *config) { c.genOpts = append(c.genOpts, generator.WithResponseContentType(ct)) }
}

// WithLogger sets the reporting channel for warnings and notices.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.genOpts = append(c.genOpts, generator.WithLogger(l)) }
}

// WithHTTPTimeout bounds each request of FromURL.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *config) { c.httpOpts = append(c.httpOpts, spec.WithHTTPTimeout(d)) }
}

// WithMaxRetries sets the retry budget of FromURL.
func WithMaxRetries(n int) Option {
	return func(c *config) { c.httpOpts = append(c.httpOpts, spec.WithMaxRetries(n)) }
}

// FromReader generates from an already-open stream.
func FromReader(ctx context.Context, r io.Reader, opts ...Option) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := apply(opts)
	doc, err := spec.LoadReader(r)
	if err != nil {
		return nil, err
	}
	return run(doc, cfg)
}

// FromURL fetches the document over http/https and behaves as FromReader.
func FromURL(ctx context.Context, rawURL string, opts ...Option) (*Result, error) {
	cfg := apply(opts)
	doc, err := spec.LoadURL(ctx, rawURL, cfg.httpOpts...)
	if err != nil {
		return nil, err
	}
	return run(doc, cfg)
}

// FromDocument generates from an already-loaded document. Useful when the
// caller wants to inspect the document between loading and generation.
func FromDocument(doc *spec.Document, opts ...Option) (*Result, error) {
	if doc == nil {
		return nil, &spec.SpecError{Code: spec.InputError, Message: "spec: nil document"}
	}
	return run(doc, apply(opts))
}

// FromText generates data classes only, with no client class, from an
// in-memory document.
func FromText(text string, opts ...Option) (*Result, error) {
	cfg := apply(opts)
	doc, err := spec.LoadBytes([]byte(strings.TrimSpace(text)))
	if err != nil {
		return nil, err
	}
	g, err := generator.New(cfg.genOpts...)
	if err != nil {
		return nil, err
	}
	model, err := g.BuildDefinitions(doc)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return &Result{}, nil
	}
	return &Result{Source: pyemitter.Render(model)}, nil
}

func apply(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func run(doc *spec.Document, cfg *config) (*Result, error) {
	g, err := generator.New(cfg.genOpts...)
	if err != nil {
		return nil, err
	}
	model, skipped, err := g.Build(doc)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return &Result{Skipped: skipped}, nil
	}
	return &Result{Source: pyemitter.Render(model), Skipped: skipped}, nil
}
