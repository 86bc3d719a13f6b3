package generator

import "fmt"

// ErrorCode categorizes fatal generator errors.
type ErrorCode string

const (
	// MissingTypeInfo: a schema fragment carries neither $ref nor type.
	MissingTypeInfo ErrorCode = "MissingTypeInfo"
	// UnknownPrimitive: a type keyword outside the fixed primitive set.
	UnknownPrimitive ErrorCode = "UnknownPrimitive"
	// KeywordCollisionUnresolvable: mangling cannot produce a safe identifier.
	KeywordCollisionUnresolvable ErrorCode = "KeywordCollisionUnresolvable"
	// InvalidParentBinding: parent class package set without a class name.
	InvalidParentBinding ErrorCode = "InvalidParentBinding"
)

// SchemaError is a fatal defect in the document's schema content. SchemaPath
// locates the offending fragment (e.g. "components/schemas/User/properties/id"
// or "paths//books/get").
type SchemaError struct {
	Code       ErrorCode
	Message    string
	SchemaPath string
	Cause      error
}

func (e *SchemaError) Error() string {
	if e.SchemaPath != "" {
		return fmt.Sprintf("%s at %s: %s", e.Code, e.SchemaPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// ConfigError reports an invalid generator configuration at construction time.
type ConfigError struct {
	Code    ErrorCode
	Message string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
