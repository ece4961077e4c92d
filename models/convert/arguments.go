package convert

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/onflow/cadence"

	"github.com/agfarms/flow-custodian/models/custody"
	"github.com/agfarms/flow-custodian/models/failure"
)

// Values encodes a heterogeneous list of host values into Cadence values,
// preserving order. Order is the positional argument order of the target
// script and is semantically meaningful.
func Values(args []interface{}) ([]cadence.Value, error) {
	values := make([]cadence.Value, 0, len(args))
	for i, arg := range args {
		value, err := Value(arg)
		if err != nil {
			return nil, failure.EncodingError{
				Description: failure.NewDescription("could not encode argument value",
					failure.WithErr(err),
				),
				Index: i,
			}
		}
		values = append(values, value)
	}
	return values, nil
}

// Value encodes a single host value into a Cadence value, inferring the type
// from its shape. There is no declared schema for script arguments, so the
// inference is heuristic: an address-shaped string becomes an address, a
// decimal-shaped string or any number becomes a UFix64, everything else
// becomes text.
func Value(arg interface{}) (cadence.Value, error) {
	switch a := arg.(type) {
	case cadence.Value:
		return a, nil
	case []byte:
		values := make([]cadence.Value, 0, len(a))
		for _, b := range a {
			values = append(values, cadence.NewUInt8(b))
		}
		return cadence.NewArray(values), nil
	case string:
		return stringValue(a)
	case int:
		return fix64FromInt(int64(a))
	case int64:
		return fix64FromInt(a)
	case uint64:
		return fix64FromUint(a)
	case float32:
		return fix64FromFloat(float64(a))
	case float64:
		return fix64FromFloat(a)
	case nil:
		return nil, fmt.Errorf("cannot encode nil argument")
	default:
		return cadence.String(fmt.Sprint(arg)), nil
	}
}

func stringValue(s string) (cadence.Value, error) {
	if isAddress(s) {
		return AddressValue(s)
	}
	if isDecimal(s) {
		value, err := fix64FromDecimal(s)
		if err == nil {
			return value, nil
		}
		// Fall through to text for decimal-shaped strings that do not fit
		// the fixed-point range, matching permissive inference.
	}
	return cadence.String(s), nil
}

// AddressValue encodes a hex address string, with or without the 0x prefix,
// as a Cadence address. Both forms encode identically.
func AddressValue(s string) (cadence.Value, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	bytes, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("could not decode address hex: %w", err)
	}
	return cadence.BytesToAddress(bytes), nil
}

func isAddress(s string) bool {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(trimmed) != custody.AddressHexLength {
		return false
	}
	_, err := hex.DecodeString(trimmed)
	return err == nil
}

// isDecimal reports whether the string looks like a decimal number: it
// contains a decimal point and stripping the point and a leading minus sign
// leaves only digits.
func isDecimal(s string) bool {
	if !strings.Contains(s, ".") {
		return false
	}
	stripped := strings.TrimPrefix(s, "-")
	stripped = strings.Replace(stripped, ".", "", 1)
	if stripped == "" {
		return false
	}
	for _, c := range stripped {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// fix64FromDecimal parses a decimal string into a UFix64 using integer math,
// rounding the ninth fractional digit to the nearest tick. Going through
// floating point here would silently drift for large amounts.
func fix64FromDecimal(s string) (cadence.Value, error) {
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("fixed-point value cannot be negative: %s", s)
	}

	parts := strings.SplitN(s, ".", 2)
	wholePart := parts[0]
	if wholePart == "" {
		wholePart = "0"
	}
	whole, err := strconv.ParseUint(wholePart, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("could not parse whole part: %w", err)
	}

	frac := parts[1]
	roundUp := false
	if len(frac) > 8 {
		roundUp = frac[8] >= '5'
		frac = frac[:8]
	}
	for len(frac) < 8 {
		frac += "0"
	}
	fracVal, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("could not parse fractional part: %w", err)
	}
	if roundUp {
		fracVal++
	}

	// The scaled sum must fit in 64 bits, fractional ticks included.
	if whole > (math.MaxUint64-fracVal)/custody.UFix64Factor {
		return nil, fmt.Errorf("fixed-point value out of range: %s", s)
	}

	return cadence.UFix64(whole*custody.UFix64Factor + fracVal), nil
}

func fix64FromInt(v int64) (cadence.Value, error) {
	if v < 0 {
		return nil, fmt.Errorf("fixed-point value cannot be negative: %d", v)
	}
	return fix64FromUint(uint64(v))
}

func fix64FromUint(v uint64) (cadence.Value, error) {
	if v > math.MaxUint64/custody.UFix64Factor {
		return nil, fmt.Errorf("fixed-point value out of range: %d", v)
	}
	return cadence.UFix64(v * custody.UFix64Factor), nil
}

func fix64FromFloat(v float64) (cadence.Value, error) {
	if v < 0 {
		return nil, fmt.Errorf("fixed-point value cannot be negative: %f", v)
	}
	if v > float64(math.MaxUint64/custody.UFix64Factor) {
		return nil, fmt.Errorf("fixed-point value out of range: %f", v)
	}
	return cadence.UFix64(uint64(math.Round(v * custody.UFix64Factor))), nil
}
