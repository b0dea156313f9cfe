package dialect

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ISO8601 is the layout used for time literals.
const ISO8601 = "2006-01-02T15:04:05.000Z07:00"

// Raw is a literal emitted verbatim, e.g. an expression like CURRENT_TIMESTAMP.
type Raw string

// Literal renders a Go value as a SQL literal of the dialect.
func (d *Dialect) Literal(v any) (string, error) {
	q := d.Quoter
	if q == nil {
		q = ANSIQuoter{}
	}
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case Raw:
		return string(v), nil
	case string:
		return q.QuoteLiteral(v), nil
	case bool:
		if v {
			return d.True, nil
		}
		return d.False, nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", v), nil
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case *big.Float:
		if v == nil {
			return "NULL", nil
		}
		return v.Text('g', -1), nil
	case []float64:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return q.QuoteLiteral("{" + strings.Join(parts, ",") + "}"), nil
	case time.Time:
		return q.QuoteLiteral(v.UTC().Format(ISO8601)), nil
	case uuid.UUID:
		return q.QuoteLiteral(v.String()), nil
	case json.RawMessage:
		return q.QuoteLiteral(string(v)), nil
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("dialect: marshal literal: %w", err)
		}
		return q.QuoteLiteral(string(b)), nil
	case fmt.Stringer:
		return q.QuoteLiteral(v.String()), nil
	default:
		return "", fmt.Errorf("dialect: unsupported literal type %T", v)
	}
}
