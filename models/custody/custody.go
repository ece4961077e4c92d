package custody

import (
	"time"
)

// Constants shared across the custody engine. The fixed-point factor and gas
// ceiling match what the Flow network and our Cadence templates expect.
const (
	// UFix64Factor is the scaling factor of the Cadence UFix64 fixed-point
	// type, which carries exactly eight fractional digits.
	UFix64Factor = 100_000_000

	// AddressHexLength is the number of hexadecimal characters in a Flow
	// address, once any 0x prefix has been stripped.
	AddressHexLength = 16

	// DefaultGasLimit is a generous compute ceiling applied to every
	// transaction. It is not tuned per call.
	DefaultGasLimit = 9999

	// DefaultPollInterval and DefaultFinalityTimeout bound the wait for a
	// submitted transaction to seal.
	DefaultPollInterval    = 1 * time.Second
	DefaultFinalityTimeout = 120 * time.Second

	// DefaultReadRate and DefaultWriteRate are client-side pacing limits, in
	// requests per second, to stay below access node throttling.
	DefaultReadRate  = 5.0
	DefaultWriteRate = 50.0
)

// Network identifies a Flow network environment.
type Network string

// Available Flow networks.
const (
	Mainnet  Network = "mainnet"
	Testnet  Network = "testnet"
	Emulator Network = "emulator"
)

// AccessAPI returns the gRPC address of the access node for the given
// network. Unknown networks fall through to the local emulator.
func (n Network) AccessAPI() string {
	switch n {
	case Mainnet:
		return "access.mainnet.nodes.onflow.org:9000"
	case Testnet:
		return "access.devnet.nodes.onflow.org:9000"
	default:
		return "127.0.0.1:3569"
	}
}
