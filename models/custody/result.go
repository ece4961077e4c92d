package custody

// Result is the uniform outcome record returned by every engine operation.
// Callers branch on Success and, where needed, inspect ErrorMessage; they
// never see errors from individual pipeline stages.
//
// TransactionID is populated as soon as a transaction has been submitted,
// even when sealing later fails or times out, so that callers can reconcile
// the outcome manually.
type Result struct {
	Success       bool        `json:"success"`
	TransactionID string      `json:"transaction_id,omitempty"`
	Data          interface{} `json:"data,omitempty"`
	ErrorMessage  string      `json:"error_message,omitempty"`
	ExecutionTime float64     `json:"execution_time"`
}
