// internal/parametric/coercion.go
package parametric

import (
	"strconv"
	"strings"

	"github.com/solatis/parametrix/internal/types"
)

/*
 * Type coercion for parameter literals and constraint contexts.
 *
 * Two directions with different strictness:
 *
 *   - CoerceNumber: literal -> float64 for number/angle parameters.
 *     Strict about booleans (a boolean literal on a numeric parameter is a
 *     definition error), lenient about numeric strings because YAML and
 *     form inputs often carry "24" rather than 24. Whitespace-only strings
 *     are not numbers.
 *
 *   - ContextValue: evaluated value -> constraint context entry.
 *     Numbers pass through, booleans become 1/0, everything else (text,
 *     material references) is excluded so a constraint that needs it fails
 *     to evaluate and is skipped.
 *
 * nil coerces to 0 without error: a numeric parameter with neither value
 * nor formula is simply unset.
 */

// CoerceNumber converts a literal parameter value to float64.
// Returns types.ErrCoercionFailed for impossible coercions.
func CoerceNumber(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, types.ErrCoercionFailed
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, types.ErrCoercionFailed
		}
		return f, nil
	default:
		return 0, types.ErrCoercionFailed
	}
}

// ContextValue converts an evaluated value for use in a constraint
// expression. ok is false for values that must stay out of the context.
func ContextValue(value any) (float64, bool) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string, nil:
		return 0, false
	default:
		f, err := CoerceNumber(v)
		if err != nil {
			return 0, false
		}
		return f, true
	}
}
