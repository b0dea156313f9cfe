package emit

import (
	"fmt"
	"strings"

	"github.com/secret-point/sql-aide/lint"
)

// PersistMarkerPrefix starts the comment emitted in place of a persisted
// fragment.
const PersistMarkerPrefix = "-- encountered persistence request for "

type persistRequest struct {
	s   Supplier
	tag string
}

// Persist returns a supplier that renders s, hands the fragment to the
// context's Persister under "<n>_<tag>" (n is the 1-based request ordinal)
// and emits a marker comment instead of the fragment. The hooks of s do not
// run, so s is not declared twice when it also appears in the script.
func Persist(s Supplier, tag string) Supplier {
	return persistRequest{s: s, tag: tag}
}

// SQL implements Supplier.
func (p persistRequest) SQL(ctx *Context) (string, error) {
	fragment, err := p.s.SQL(ctx)
	if err != nil {
		return "", err
	}
	req := PersistRequest{
		Index:    len(ctx.persisted) + 1,
		Tag:      p.tag,
		Fragment: fragment,
	}
	req.IndexedTag = fmt.Sprintf("%d_%s", req.Index, p.tag)
	if ctx.persister != nil {
		if err := ctx.persister.Persist(fragment, req.IndexedTag); err != nil {
			return "", fmt.Errorf("emit: persist %s: %w", req.IndexedTag, err)
		}
	}
	ctx.persisted = append(ctx.persisted, req)
	ctx.logger.Debug("persistence request", "tag", req.IndexedTag, "bytes", len(fragment))
	return PersistMarkerPrefix + req.IndexedTag, nil
}

type lintSummary struct {
	origin lint.Origin
	label  string
}

// LintSummary returns a deferred supplier summarizing the diagnostics of one
// origin. With no diagnostics it emits "-- no <label>".
func LintSummary(origin lint.Origin, label string) Supplier {
	return lintSummary{origin: origin, label: label}
}

// Deferred implements Deferrer.
func (lintSummary) Deferred() bool { return true }

// SQL implements Supplier.
func (s lintSummary) SQL(ctx *Context) (string, error) {
	diags := ctx.Issues(s.origin)
	if len(diags) == 0 {
		return "-- no " + s.label, nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "-- %d %s", len(diags), s.label)
	for _, d := range diags {
		b.WriteString("\n-- * ")
		b.WriteString(d.String())
	}
	return b.String(), nil
}
