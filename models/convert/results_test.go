package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onflow/cadence"

	"github.com/agfarms/flow-custodian/models/convert"
)

func TestResult(t *testing.T) {
	t.Parallel()

	address := cadence.BytesToAddress([]byte{0xf8, 0xd6, 0xe0, 0x58, 0x6b, 0x0a, 0x20, 0xc7})

	tests := []struct {
		name  string
		value cadence.Value
		want  interface{}
	}{
		{
			name:  "fixed-point amount decodes as whole tokens",
			value: cadence.UFix64(1_250_000_000),
			want:  12.5,
		},
		{
			name:  "string decodes as text",
			value: cadence.String("hello"),
			want:  "hello",
		},
		{
			name:  "boolean decodes as boolean",
			value: cadence.NewBool(true),
			want:  true,
		},
		{
			name:  "address decodes as hex string",
			value: address,
			want:  address.String(),
		},
		{
			name:  "empty optional decodes as nil",
			value: cadence.NewOptional(nil),
			want:  nil,
		},
		{
			name:  "filled optional unwraps",
			value: cadence.NewOptional(cadence.UFix64(100_000_000)),
			want:  1.0,
		},
		{
			name:  "array decodes element-wise",
			value: cadence.NewArray([]cadence.Value{cadence.String("a"), cadence.NewBool(false)}),
			want:  []interface{}{"a", false},
		},
		{
			name:  "unsigned integer decodes natively",
			value: cadence.NewUInt64(42),
			want:  uint64(42),
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := convert.Result(test.value)

			assert.Equal(t, test.want, got)
		})
	}
}
