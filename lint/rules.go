package lint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"
)

// wildcardRe matches "SELECT *", "SELECT DISTINCT t.*" and ", *" projections.
// COUNT(*) does not match.
var wildcardRe = regexp.MustCompile(`(?i)(\bselect\s+(?:all\s+|distinct\s+)?|,\s*)(?:[\w"]+\.)?\*`)

// Defaults returns the built-in rules.
func Defaults() []Rule {
	return []Rule{
		WildcardSelect(),
		MissingPrimaryKey(),
		MissingAuditColumns(),
		SingularTableName(),
	}
}

// WildcardSelect flags views whose body projects "*". One diagnostic per view.
func WildcardSelect() Rule {
	return RuleFunc(func(fragment string, meta Metadata) []Diagnostic {
		if meta.Kind != KindView || !wildcardRe.MatchString(fragment) {
			return nil
		}
		return []Diagnostic{{
			Code:    CodeWildcardSelect,
			Message: "view body selects *; list columns explicitly",
			Subject: meta.Name,
		}}
	})
}

// MissingPrimaryKey flags tables without a primary key.
func MissingPrimaryKey() Rule {
	return RuleFunc(func(_ string, meta Metadata) []Diagnostic {
		if meta.Kind != KindTable || len(meta.PrimaryKeys) > 0 {
			return nil
		}
		return []Diagnostic{{
			Code:     CodeMissingPrimaryKey,
			Message:  "table has no primary key",
			Severity: Error,
			Subject:  meta.Name,
		}}
	})
}

// MissingAuditColumns flags mutable tables without updated_at/updated_by and
// deletable tables without deleted_at/deleted_by.
func MissingAuditColumns() Rule {
	return RuleFunc(func(_ string, meta Metadata) []Diagnostic {
		if meta.Kind != KindTable {
			return nil
		}
		var missing []string
		if meta.Mutable {
			for _, c := range []string{"updated_at", "updated_by"} {
				if !meta.HasColumn(c) {
					missing = append(missing, c)
				}
			}
		}
		if meta.Deletable {
			for _, c := range []string{"deleted_at", "deleted_by"} {
				if !meta.HasColumn(c) {
					missing = append(missing, c)
				}
			}
		}
		if len(missing) == 0 {
			return nil
		}
		return []Diagnostic{{
			Code:    CodeMissingAuditColumns,
			Message: fmt.Sprintf("missing audit columns %s", strings.Join(missing, ", ")),
			Subject: meta.Name,
		}}
	})
}

// SingularTableName flags tables whose last name segment is a plural noun.
func SingularTableName() Rule {
	return RuleFunc(func(_ string, meta Metadata) []Diagnostic {
		if meta.Kind != KindTable || !IsPlural(meta.Name) {
			return nil
		}
		return []Diagnostic{{
			Code:    CodePluralTableName,
			Message: fmt.Sprintf("table name should be singular (%s)", Singular(meta.Name)),
			Subject: meta.Name,
		}}
	})
}

// IsPlural reports if the last "_" separated segment of name is plural: it
// singularizes to a different word and is left alone by pluralization.
func IsPlural(name string) bool {
	word := lastSegment(name)
	return inflect.Singularize(word) != word && inflect.Pluralize(word) == word
}

// Singular returns name with its last segment singularized.
func Singular(name string) string {
	word := lastSegment(name)
	return strings.TrimSuffix(name, word) + inflect.Singularize(word)
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '_'); i >= 0 {
		return name[i+1:]
	}
	return name
}
