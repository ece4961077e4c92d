package custody

// Call is a closed set of logical operations the engine can execute against
// the network: a read-only script or a state-changing transaction. Using a
// tagged variant instead of command strings keeps dispatch explicit.
type Call interface {
	isCall()
}

// ScriptCall executes the Cadence script at the given path read-only, with
// positional arguments encoded by shape.
type ScriptCall struct {
	Path string
	Args []interface{}
}

// TransactionCall submits the Cadence transaction at the given path, signed
// according to the role set. Keys optionally maps addresses to plaintext
// private key material already decrypted by the caller; entries there take
// precedence over every other key source.
type TransactionCall struct {
	Path  string
	Args  []interface{}
	Roles RoleSet
	Keys  map[string]string
}

func (ScriptCall) isCall()      {}
func (TransactionCall) isCall() {}
