// Package verr defines the engine's error taxonomy: a small set of typed
// errors distinguished by Category, each carrying a stable machine Code and
// enough context (component, model, operation, field) for a caller to act
// on it programmatically instead of parsing a message string.
package verr

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the coarse error kind named in the engine's error taxonomy.
type Category string

const (
	CategorySchema     Category = "schema"
	CategoryValidation Category = "validation"
	CategoryFeature    Category = "feature"
	CategoryRecord     Category = "record"
	CategoryConstraint Category = "constraint"
	CategoryCache      Category = "cache"
	CategoryInternal   Category = "internal"
)

// Standard sentinel errors, kept for errors.Is compatibility with callers
// that only care about the coarse outcome.
var (
	// ErrRecordNotFound is returned by the …OrThrow operation family and by
	// find/aggregate paths that require at least one matching row.
	ErrRecordNotFound = errors.New("viborm: record not found")

	// ErrNotSingular is returned when findUnique-style semantics observe
	// more than one matching row.
	ErrNotSingular = errors.New("viborm: record not singular")

	// ErrTxStarted is returned when a nested transaction is requested
	// outside of the savepoint machinery (i.e. misuse of the API).
	ErrTxStarted = errors.New("viborm: cannot start a transaction within a transaction")
)

// Error is the engine's general-purpose structured error. Every error the
// engine raises in normal operation is either an *Error or wraps one.
type Error struct {
	Code        string   // stable machine code, e.g. "RECORD_NOT_FOUND"
	Category    Category
	Component   string // originating component, e.g. "engine/plan", "cache"
	Model       string
	Operation   string
	Field       string
	Suggestions []string
	Err         error // underlying cause, if any
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("viborm: ")
	sb.WriteString(e.Code)
	if e.Model != "" {
		fmt.Fprintf(&sb, " model=%s", e.Model)
	}
	if e.Operation != "" {
		fmt.Fprintf(&sb, " op=%s", e.Operation)
	}
	if e.Field != "" {
		fmt.Fprintf(&sb, " field=%s", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, ErrRecordNotFound) (etc.) to match structured
// errors of the corresponding category without requiring every caller to
// type-assert *Error.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrRecordNotFound:
		return e.Category == CategoryRecord && e.Code == CodeRecordNotFound
	case ErrNotSingular:
		return e.Category == CategoryRecord && e.Code == CodeNotSingular
	}
	return false
}

// Stable machine codes. Only a representative, named subset — new codes
// are added alongside the feature that raises them.
const (
	CodeUnknownModel        = "UNKNOWN_MODEL"
	CodeUnknownField        = "UNKNOWN_FIELD"
	CodeUnknownRelation     = "UNKNOWN_RELATION"
	CodeMalformedPayload    = "MALFORMED_PAYLOAD"
	CodeInvalidFilterShape  = "INVALID_FILTER_SHAPE"
	CodeTypeMismatch        = "TYPE_MISMATCH"
	CodeUnsupportedOp       = "UNSUPPORTED_OPERATION_FOR_FIELD"
	CodeSelectIncludeOlap   = "SELECT_INCLUDE_OVERLAP"
	CodeFeatureNotSupported = "FEATURE_NOT_SUPPORTED"
	CodeRecordNotFound      = "RECORD_NOT_FOUND"
	CodeNotSingular         = "NOT_SINGULAR"
	CodeUniqueViolation     = "UNIQUE_VIOLATION"
	CodeFKViolation         = "FOREIGN_KEY_VIOLATION"
	CodeNotNullViolation    = "NOT_NULL_VIOLATION"
	CodeInvalidTTL          = "CACHE_INVALID_TTL"
	CodeInvalidCacheKey     = "CACHE_INVALID_KEY"
	CodeUncacheableValue    = "CACHE_UNCACHEABLE_VALUE"
	CodeOperationNotCache   = "CACHE_OPERATION_NOT_CACHEABLE"
	CodeQueryComplexity     = "QUERY_COMPLEXITY"
	CodeNotImplemented      = "NOT_IMPLEMENTED"
	CodeUnexpected          = "UNEXPECTED"
)

// --- Schema ---

func UnknownModel(name string) *Error {
	return &Error{Code: CodeUnknownModel, Category: CategorySchema, Component: "schema", Model: name,
		Suggestions: []string{"check the model name against the registered schema"}}
}

func UnknownField(model, field string) *Error {
	return &Error{Code: CodeUnknownField, Category: CategorySchema, Component: "schema", Model: model, Field: field}
}

func UnknownRelation(model, relation string) *Error {
	return &Error{Code: CodeUnknownRelation, Category: CategorySchema, Component: "schema", Model: model, Field: relation}
}

// --- Validation ---

func Validation(component, code, model, field string, cause error) *Error {
	return &Error{Code: code, Category: CategoryValidation, Component: component, Model: model, Field: field, Err: cause}
}

func MalformedPayload(component, model string, cause error) *Error {
	return Validation(component, CodeMalformedPayload, model, "", cause)
}

func InvalidFilterShape(component, model, field string, cause error) *Error {
	return Validation(component, CodeInvalidFilterShape, model, field, cause)
}

func TypeMismatch(component, model, field string, cause error) *Error {
	return Validation(component, CodeTypeMismatch, model, field, cause)
}

func UnsupportedOperation(component, model, field, op string) *Error {
	return &Error{Code: CodeUnsupportedOp, Category: CategoryValidation, Component: component,
		Model: model, Field: field, Operation: op}
}

func SelectIncludeOverlap(model, field string) *Error {
	return &Error{Code: CodeSelectIncludeOlap, Category: CategoryValidation, Component: "validate",
		Model: model, Field: field, Suggestions: []string{"choose either select or include for this relation, not both"}}
}

// --- Feature ---

// FeatureNotSupported reports that a dialect's adapter lacks the named
// method group or capability. Adapters invoke this from their
// "not supported" sentinel implementations rather than panicking.
func FeatureNotSupported(dialect, feature string) *Error {
	return &Error{
		Code:      CodeFeatureNotSupported,
		Category:  CategoryFeature,
		Component: "dialect/" + dialect,
		Operation: feature,
		Suggestions: []string{
			fmt.Sprintf("%s does not support %s; gate this code path on the adapter's capability flags", dialect, feature),
		},
	}
}

// --- Record ---

func RecordNotFound(model, operation string) *Error {
	return &Error{Code: CodeRecordNotFound, Category: CategoryRecord, Component: "engine/parse", Model: model, Operation: operation}
}

func NotSingular(model, operation string, count int) *Error {
	return &Error{Code: CodeNotSingular, Category: CategoryRecord, Component: "engine/parse", Model: model, Operation: operation,
		Suggestions: []string{fmt.Sprintf("expected exactly one row, observed %d", count)}}
}

// --- Constraint ---

func Constraint(code, model string, cause error) *Error {
	return &Error{Code: code, Category: CategoryConstraint, Component: "driver", Model: model, Err: cause}
}

// --- Cache ---

func InvalidTTL(ttl string) *Error {
	return &Error{Code: CodeInvalidTTL, Category: CategoryCache, Component: "cache",
		Suggestions: []string{fmt.Sprintf("ttl %q must be a positive duration (e.g. \"1 hour\", 5000)", ttl)}}
}

func InvalidCacheKey(key string) *Error {
	return &Error{Code: CodeInvalidCacheKey, Category: CategoryCache, Component: "cache", Field: key}
}

func UncacheableValue(reason string) *Error {
	return &Error{Code: CodeUncacheableValue, Category: CategoryCache, Component: "cache", Suggestions: []string{reason}}
}

func OperationNotCacheable(operation string) *Error {
	return &Error{Code: CodeOperationNotCache, Category: CategoryCache, Component: "cache", Operation: operation}
}

// --- Internal ---

func QueryComplexity(model string, depth int) *Error {
	return &Error{Code: CodeQueryComplexity, Category: CategoryInternal, Component: "engine/load", Model: model,
		Suggestions: []string{fmt.Sprintf("include/select tree exceeded the maximum relation depth (%d)", depth)}}
}

func NotImplemented(component, what string) *Error {
	return &Error{Code: CodeNotImplemented, Category: CategoryInternal, Component: component, Operation: what}
}

func Unexpected(component string, cause error) *Error {
	return &Error{Code: CodeUnexpected, Category: CategoryInternal, Component: component, Err: cause}
}

// --- Predicates ---

func Is(err error, category Category) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Category == category
	}
	return false
}

func IsRecordNotFound(err error) bool { return errors.Is(err, ErrRecordNotFound) }
func IsNotSingular(err error) bool    { return errors.Is(err, ErrNotSingular) }
func IsFeatureNotSupported(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeFeatureNotSupported
}
