package failure

import (
	"fmt"
	"time"
)

// RejectionError is the error for a transaction that the network accepted
// and then terminally rejected on-chain. The transaction identifier is
// always populated so callers can look up the details later.
type RejectionError struct {
	Description   Description
	TransactionID string
	Status        string
}

// Error implements the error interface.
func (r RejectionError) Error() string {
	return fmt.Sprintf("transaction rejected on-chain (transaction: %s, status: %s): %s", r.TransactionID, r.Status, r.Description)
}

// TimeoutError is the error for a transaction that did not reach finality
// within the configured wait. It is distinct from an on-chain rejection: the
// transaction may still seal later, so callers should treat the outcome as
// unknown and reconcile using the transaction identifier.
type TimeoutError struct {
	Description   Description
	TransactionID string
	Wait          time.Duration
}

// Error implements the error interface.
func (t TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for transaction to seal (transaction: %s, waited: %s): %s", t.TransactionID, t.Wait, t.Description)
}
