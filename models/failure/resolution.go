package failure

import (
	"fmt"
)

// ResolutionError is the error for a symbolic role value that could not be
// mapped to an address and key. It is surfaced before any network call.
type ResolutionError struct {
	Description Description
	Role        string
	Value       string
}

// Error implements the error interface.
func (r ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve account (role: %s, value: %s): %s", r.Role, r.Value, r.Description)
}

// EncodingError is the error for an argument that could not be encoded into
// a Cadence value. It is treated as a resolution-class error: no network
// call is attempted.
type EncodingError struct {
	Description Description
	Index       int
}

// Error implements the error interface.
func (e EncodingError) Error() string {
	return fmt.Sprintf("could not encode argument (index: %d): %s", e.Index, e.Description)
}
