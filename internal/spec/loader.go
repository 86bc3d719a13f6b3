package spec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	openapi2 "github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	invyaml "github.com/invopop/yaml"
	"gopkg.in/yaml.v3"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	NetworkError    ErrorCode = "NetworkError"
	ParseError      ErrorCode = "ParseError"
	VersionError    ErrorCode = "VersionError"
	ConversionError ErrorCode = "ConversionError"
)

// SpecError is a structured error with an optional location (file path or URL).
type SpecError struct {
	Code     ErrorCode
	Message  string
	Location string
	Cause    error
}

func (e *SpecError) Error() string { return e.Message }
func (e *SpecError) Unwrap() error { return e.Cause }

// Settings configures loader behavior for remote inputs.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries for transient HTTP failures (>=500, 429, or network errors).
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 200 * time.Millisecond,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option            { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }

// Document is the parsed view of one OpenAPI input: the v3 document (Swagger
// v2 inputs are converted up front), the detected source version, and the
// declaration order recovered from the raw bytes. The raw bytes are retained
// so callers can re-inspect constructs the conversion may have reshaped.
type Document struct {
	Doc     *openapi3.T
	Order   *DocOrder
	Version int // 2 or 3
	Raw     []byte
}

// LoadReader reads the full stream and behaves as LoadBytes.
func LoadReader(r io.Reader) (*Document, error) {
	if r == nil {
		return nil, &SpecError{Code: InputError, Message: "spec: nil reader"}
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("spec: read input: %v", err), Cause: err}
	}
	return LoadBytes(raw)
}

// LoadBytes parses an OpenAPI document (JSON or YAML) from memory. Swagger
// v2.0 inputs are converted to v3 via kin-openapi openapi2conv; a missing or
// unrecognized version marker is fatal.
func LoadBytes(raw []byte) (*Document, error) {
	if len(raw) == 0 {
		return nil, &SpecError{Code: InputError, Message: "spec: input is empty"}
	}

	version, err := detectSpecVersion(raw)
	if err != nil {
		return nil, err
	}

	switch version {
	case 3:
		loader := openapi3.NewLoader()
		doc, lerr := loader.LoadFromData(raw)
		if lerr != nil {
			return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("spec: parse v3 document: %v", lerr), Cause: lerr}
		}
		return &Document{Doc: doc, Order: indexDocOrder(raw, 3), Version: 3, Raw: raw}, nil
	case 2:
		// Rewrite incompatible v2 constructs to improve conversion success.
		// The declaration-order index reads the original bytes: the rewrite
		// round-trips through maps and loses key order.
		converted := raw
		if fixed, changed, _ := rewriteV2ForConversion(raw); changed {
			converted = fixed
		}
		v3doc, cerr := convertV2ToV3(converted)
		if cerr != nil {
			return nil, &SpecError{Code: ConversionError, Message: fmt.Sprintf("spec: convert v2 to v3: %v", cerr), Cause: cerr}
		}
		loader := openapi3.NewLoader()
		// Unresolved refs are tolerated here; the generator reports them per
		// schema site with more context.
		_ = loader.ResolveRefsIn(v3doc, nil)
		return &Document{Doc: v3doc, Order: indexDocOrder(raw, 2), Version: 2, Raw: raw}, nil
	default:
		return nil, &SpecError{Code: VersionError, Message: "spec: unknown or unsupported OpenAPI/Swagger version"}
	}
}

// LoadURL fetches the document over http/https with retries and behaves as
// LoadBytes. Other URL schemes are rejected.
func LoadURL(ctx context.Context, rawURL string, opts ...Option) (*Document, error) {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	u, uerr := url.Parse(rawURL)
	if uerr != nil || u.Scheme == "" || u.Host == "" {
		return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("spec: invalid URL %q", rawURL), Location: rawURL, Cause: uerr}
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("spec: unsupported URL scheme %q (only http/https allowed)", scheme), Location: rawURL}
	}

	raw, fetchErr := fetchWithRetry(ctx, rawURL, settings)
	if fetchErr != nil {
		return nil, &SpecError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", rawURL, fetchErr), Location: rawURL, Cause: fetchErr}
	}

	doc, err := LoadBytes(raw)
	if err != nil {
		var se *SpecError
		if errors.As(err, &se) && se.Location == "" {
			se.Location = rawURL
		}
		return nil, err
	}
	return doc, nil
}

// detectSpecVersion returns 3 for OpenAPI v3, 2 for Swagger v2, else an error.
func detectSpecVersion(data []byte) (int, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return 0, &SpecError{Code: ParseError, Message: fmt.Sprintf("spec: parse document: %v", err), Cause: err}
	}
	if v, ok := root["openapi"]; ok {
		if s, _ := v.(string); strings.HasPrefix(strings.TrimSpace(s), "3") {
			return 3, nil
		}
	}
	if v, ok := root["swagger"]; ok {
		if s, _ := v.(string); strings.TrimSpace(s) == "2.0" {
			return 2, nil
		}
	}
	return 0, &SpecError{Code: VersionError, Message: "spec: missing or unknown version (expected 'openapi: 3.x' or 'swagger: \"2.0\"')"}
}

func convertV2ToV3(data []byte) (*openapi3.T, error) {
	// kin-openapi types only implement custom JSON unmarshalling; decode
	// YAML through the library's JSON-routing YAML package so schema refs
	// and values are populated.
	var v2 openapi2.T
	if err := invyaml.Unmarshal(data, &v2); err != nil {
		return nil, err
	}
	return openapi2conv.ToV3(&v2)
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := &http.Client{Timeout: settings.HTTPTimeout}
	var lastErr error
	backoff := settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode < 300 {
			defer resp.Body.Close()
			return io.ReadAll(resp.Body)
		}
		if err != nil {
			lastErr = err
		} else {
			defer resp.Body.Close()
			if resp.StatusCode >= 500 || resp.StatusCode == 429 {
				lastErr = fmt.Errorf("transient http error %d", resp.StatusCode)
			} else {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
				return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, lastErr
}
