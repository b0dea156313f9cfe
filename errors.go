// Package sqla holds the error taxonomy shared by every sql-aide package.
//
// Construction errors (unsupported types, unresolved domain identities,
// invalid references) abort rendering and are returned to the caller.
// Quality problems never abort rendering; they are collected as lint
// diagnostics by the emission context instead.
package sqla

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors.
var (
	// ErrConstruction is matched by every error that aborts rendering.
	ErrConstruction = errors.New("sqla: construction failed")

	// ErrUnsupportedType is returned when a field descriptor has a base type
	// with no domain builder.
	ErrUnsupportedType = errors.New("sqla: unsupported type")

	// ErrUnresolvedIdentity is returned when a domain is rendered while its
	// identity is still a sentinel.
	ErrUnresolvedIdentity = errors.New("sqla: unresolved domain identity")

	// ErrInvalidReference is returned when a foreign key targets a column that
	// is neither the primary key nor a unique column of its table.
	ErrInvalidReference = errors.New("sqla: invalid reference")

	// ErrInvalidConfig is returned by option and loader validation.
	ErrInvalidConfig = errors.New("sqla: invalid configuration")
)

// ConstructionError describes a malformed entity or statement.
type ConstructionError struct {
	Entity  string // Table, view or statement owner
	Column  string // Column name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	var b strings.Builder
	b.WriteString("sqla: construction error")
	if e.Entity != "" {
		b.WriteString(" on ")
		b.WriteString(e.Entity)
	}
	if e.Column != "" {
		b.WriteString(".")
		b.WriteString(e.Column)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrConstruction.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}

// NewConstructionError returns a new ConstructionError.
func NewConstructionError(entity, column, message string, cause error) *ConstructionError {
	return &ConstructionError{Entity: entity, Column: column, Message: message, Cause: cause}
}

// IsConstructionError returns true if the error aborts rendering.
func IsConstructionError(err error) bool {
	return err != nil && errors.Is(err, ErrConstruction)
}

// UnsupportedTypeError is returned when no domain can be built for a type.
type UnsupportedTypeError struct {
	Type string   // Base type name
	Path []string // Wrapper layers peeled before the base type was reached
}

// Error returns the error string.
func (e *UnsupportedTypeError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("sqla: unable to map type %s (via %s) to SQL domain", e.Type, strings.Join(e.Path, " > "))
	}
	return fmt.Sprintf("sqla: unable to map type %s to SQL domain", e.Type)
}

// Is reports whether the target is ErrUnsupportedType or ErrConstruction.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType || target == ErrConstruction
}

// NewUnsupportedTypeError returns a new UnsupportedTypeError.
func NewUnsupportedTypeError(typ string, path ...string) *UnsupportedTypeError {
	return &UnsupportedTypeError{Type: typ, Path: path}
}

// IsUnsupportedType returns true if the error is an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedTypeError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedType)
}

// UnresolvedIdentityError is returned when a domain without a name is rendered.
type UnresolvedIdentityError struct {
	State string // Sentinel the identity was left in
	Type  string // Base type of the domain
}

// Error returns the error string.
func (e *UnresolvedIdentityError) Error() string {
	return fmt.Sprintf("sqla: %s domain rendered with unresolved identity (%s)", e.Type, e.State)
}

// Is reports whether the target is ErrUnresolvedIdentity or ErrConstruction.
func (e *UnresolvedIdentityError) Is(target error) bool {
	return target == ErrUnresolvedIdentity || target == ErrConstruction
}

// NewUnresolvedIdentityError returns a new UnresolvedIdentityError.
func NewUnresolvedIdentityError(state, typ string) *UnresolvedIdentityError {
	return &UnresolvedIdentityError{State: state, Type: typ}
}

// IsUnresolvedIdentity returns true if the error is an UnresolvedIdentityError.
func IsUnresolvedIdentity(err error) bool {
	if err == nil {
		return false
	}
	var e *UnresolvedIdentityError
	return errors.As(err, &e) || errors.Is(err, ErrUnresolvedIdentity)
}

// ReferenceError describes an invalid foreign key.
type ReferenceError struct {
	Table        string // Referencing table
	Column       string // Referencing column
	Target       string // Referenced table
	TargetColumn string // Referenced column
	Message      string
}

// Error returns the error string.
func (e *ReferenceError) Error() string {
	return fmt.Sprintf("sqla: invalid reference %s.%s -> %s.%s: %s",
		e.Table, e.Column, e.Target, e.TargetColumn, e.Message)
}

// Is reports whether the target is ErrInvalidReference or ErrConstruction.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrInvalidReference || target == ErrConstruction
}

// NewReferenceError returns a new ReferenceError.
func NewReferenceError(table, column, target, targetColumn, message string) *ReferenceError {
	return &ReferenceError{
		Table:        table,
		Column:       column,
		Target:       target,
		TargetColumn: targetColumn,
		Message:      message,
	}
}

// IsReferenceError returns true if the error is a ReferenceError.
func IsReferenceError(err error) bool {
	if err == nil {
		return false
	}
	var e *ReferenceError
	return errors.As(err, &e)
}

// ConfigError represents an invalid option or loader input.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("sqla: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("sqla: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// AggregateError holds the findings of a schema validation pass, one
// error per finding.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "sqla: %d errors:", len(e.Errors))
	for _, err := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes every finding to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError drops nil errors. It returns nil for none, the error
// itself for one, and an *AggregateError otherwise.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
