package failure

import (
	"fmt"
)

// TransportError is the error for a network call that failed to complete:
// connection refused, DNS failure, malformed response. It carries no on-chain
// meaning and the engine does not retry it; retry policy belongs to callers.
type TransportError struct {
	Description Description
	Operation   string
}

// Error implements the error interface.
func (t TransportError) Error() string {
	return fmt.Sprintf("network call failed (operation: %s): %s", t.Operation, t.Description)
}
