package table

import (
	"fmt"
	"strings"

	sqla "github.com/secret-point/sql-aide"
)

// ValidationError is a structural problem of a table definition.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of a validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err returns nil, the single construction error, or an
// *sqla.AggregateError holding one construction error per finding.
func (r *ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = sqla.NewConstructionError(e.Table, e.Column, e.Message, nil)
	}
	return sqla.NewAggregateError(errs...)
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	write := func(title string, items []*ValidationError) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(title)
		sb.WriteString(":\n")
		for _, e := range items {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	write("Errors", r.Errors)
	write("Warnings", r.Warnings)
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

func (r *ValidationResult) merge(other *ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Validate checks a single table definition.
func (t *Table) Validate() *ValidationResult {
	result := &ValidationResult{}
	if t.pk == nil {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.name,
			Message: "table has no primary key",
		})
	}
	for _, c := range t.columns {
		if c.dom.IsPrimaryKey() && c.dom.IsNullable() && !c.dom.IsAutoIncrement() {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   t.name,
				Column:  c.name,
				Message: "nullable primary key",
			})
		}
		if c.ref == nil {
			continue
		}
		owner := c.ref.target
		if c.ref.self {
			owner = t
		}
		if target, ok := owner.byName[c.ref.column]; ok && target.dom.Type() != c.dom.Type() {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.name,
				Column:  c.name,
				Message: "column type differs from referenced column",
			})
		}
	}
	return result
}

// ValidateSchema validates a set of tables together: duplicate table names
// and foreign keys to tables outside the set are errors.
func ValidateSchema(tables []*Table) *ValidationResult {
	result := &ValidationResult{}
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		if _, ok := byName[t.name]; ok {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.name,
				Message: "duplicate table name",
			})
		}
		byName[t.name] = t
		result.merge(t.Validate())
	}
	for _, t := range tables {
		for _, c := range t.columns {
			if c.ref == nil || c.ref.self {
				continue
			}
			target, ok := byName[c.ref.table]
			if !ok {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.name,
					Column:  c.name,
					Message: fmt.Sprintf("foreign key references non-existent table %q", c.ref.table),
				})
				continue
			}
			if _, ok := target.byName[c.ref.column]; !ok {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.name,
					Column:  c.name,
					Message: fmt.Sprintf("foreign key references non-existent column %q.%q", c.ref.table, c.ref.column),
				})
			}
		}
	}
	return result
}
