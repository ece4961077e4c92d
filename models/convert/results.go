package convert

import (
	"github.com/onflow/cadence"

	"github.com/agfarms/flow-custodian/models/custody"
)

// Result decodes a Cadence script return value into a plain host value.
// Fixed-point amounts come back as floating-point numbers in whole tokens,
// which is what every consumer of balance scripts expects.
func Result(value cadence.Value) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case cadence.UFix64:
		return float64(v) / custody.UFix64Factor
	case cadence.Fix64:
		return float64(v) / custody.UFix64Factor
	case cadence.String:
		return string(v)
	case cadence.Bool:
		return bool(v)
	case cadence.Address:
		return v.String()
	case cadence.UInt8:
		return uint8(v)
	case cadence.UInt64:
		return uint64(v)
	case cadence.Int:
		return v.Int()
	case cadence.Optional:
		if v.Value == nil {
			return nil
		}
		return Result(v.Value)
	case cadence.Array:
		values := make([]interface{}, 0, len(v.Values))
		for _, element := range v.Values {
			values = append(values, Result(element))
		}
		return values
	case cadence.Struct:
		// Composite results collapse to their first field, which carries the
		// payload for the single-value structs our scripts return.
		if len(v.Fields) > 0 {
			return Result(v.Fields[0])
		}
		return v.String()
	default:
		return value.String()
	}
}
