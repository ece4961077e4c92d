package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/onflow/cadence"
)

var paramExpr = regexp.MustCompile(`(\w+)\((.*)\)`)

// ParseArgument parses an explicitly typed command-line parameter of the
// form Type(Value) into a Cadence value, which the shape-based encoder then
// passes through untouched. The explicit form is for callers that need to
// force a decimal-looking string to stay text, or similar. Parameters that
// do not match the Type(Value) form are returned as-is for shape inference.
func ParseArgument(param string) (interface{}, error) {

	parts := paramExpr.FindStringSubmatch(param)
	if len(parts) != 3 {
		return param, nil
	}
	typ := parts[1]
	val := parts[2]

	switch typ {

	case "Bool":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("could not parse boolean: %w", err)
		}
		return cadence.NewBool(b), nil

	case "Int", "Int64":
		v, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse integer: %w", err)
		}
		return cadence.NewInt64(v), nil

	case "UInt64":
		v, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse unsigned integer: %w", err)
		}
		return cadence.NewUInt64(v), nil

	case "UFix64":
		value, err := fix64FromDecimal(ensureDecimal(val))
		if err != nil {
			return nil, fmt.Errorf("could not parse fixed-point value: %w", err)
		}
		return value, nil

	case "Address":
		value, err := AddressValue(val)
		if err != nil {
			return nil, fmt.Errorf("could not parse address: %w", err)
		}
		return value, nil

	case "String":
		return cadence.String(val), nil

	default:
		return nil, fmt.Errorf("unsupported parameter type (%s)", typ)
	}
}

func ensureDecimal(s string) string {
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
