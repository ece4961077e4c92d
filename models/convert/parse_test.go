package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/cadence"

	"github.com/agfarms/flow-custodian/models/convert"
)

func TestParseArgument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		param string
		want  interface{}
	}{
		{
			name:  "untyped parameter passes through for inference",
			param: "hello",
			want:  "hello",
		},
		{
			name:  "typed string keeps a decimal-looking value as text",
			param: "String(12.5)",
			want:  cadence.String("12.5"),
		},
		{
			name:  "typed boolean",
			param: "Bool(true)",
			want:  cadence.NewBool(true),
		},
		{
			name:  "typed integer",
			param: "Int64(-7)",
			want:  cadence.NewInt64(-7),
		},
		{
			name:  "typed unsigned integer",
			param: "UInt64(42)",
			want:  cadence.NewUInt64(42),
		},
		{
			name:  "typed fixed-point accepts a whole number",
			param: "UFix64(12)",
			want:  cadence.UFix64(1_200_000_000),
		},
		{
			name:  "typed address",
			param: "Address(0xf8d6e0586b0a20c7)",
			want:  cadence.BytesToAddress([]byte{0xf8, 0xd6, 0xe0, 0x58, 0x6b, 0x0a, 0x20, 0xc7}),
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := convert.ParseArgument(test.param)

			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}

	t.Run("unsupported type is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := convert.ParseArgument("Word256(1)")

		assert.Error(t, err)
	})

	t.Run("malformed value is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := convert.ParseArgument("Bool(yes please)")

		assert.Error(t, err)
	})
}
