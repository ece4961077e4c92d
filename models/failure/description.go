package failure

import (
	"fmt"
	"strconv"
	"strings"

	sdk "github.com/onflow/flow-go-sdk"
)

// Description is a human-readable failure description with a set of typed
// context fields attached.
type Description struct {
	Text   string
	Fields Fields
}

// NewDescription creates a description from the given text and field options.
func NewDescription(text string, fields ...FieldFunc) Description {
	d := Description{
		Text:   text,
		Fields: []Field{},
	}
	for _, field := range fields {
		field(&d.Fields)
	}
	return d
}

func (d Description) String() string {
	if len(d.Fields) == 0 {
		return d.Text
	}
	return fmt.Sprintf("%s (%s)", d.Text, d.Fields)
}

// Field is a single key-value pair of failure context.
type Field struct {
	Key string
	Val interface{}
}

// Fields is a list of failure context fields.
type Fields []Field

func (f Fields) String() string {
	parts := make([]string, 0, len(f))
	for _, field := range f {
		part := fmt.Sprintf("%s: %v", field.Key, field.Val)
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// FieldFunc adds a context field to a description.
type FieldFunc func(*Fields)

// WithErr adds an underlying error as a context field.
func WithErr(err error) FieldFunc {
	return func(f *Fields) {
		field := Field{Key: "error", Val: err.Error()}
		*f = append(*f, field)
	}
}

// WithString adds a string context field.
func WithString(key string, val string) FieldFunc {
	return func(f *Fields) {
		field := Field{Key: key, Val: val}
		*f = append(*f, field)
	}
}

// WithInt adds an integer context field.
func WithInt(key string, val int) FieldFunc {
	return func(f *Fields) {
		field := Field{Key: key, Val: strconv.FormatInt(int64(val), 10)}
		*f = append(*f, field)
	}
}

// WithUint64 adds an unsigned integer context field.
func WithUint64(key string, val uint64) FieldFunc {
	return func(f *Fields) {
		field := Field{Key: key, Val: strconv.FormatUint(val, 10)}
		*f = append(*f, field)
	}
}

// WithAddress adds a Flow address context field in canonical prefixed form.
func WithAddress(key string, val sdk.Address) FieldFunc {
	return func(f *Fields) {
		field := Field{Key: key, Val: "0x" + val.Hex()}
		*f = append(*f, field)
	}
}
