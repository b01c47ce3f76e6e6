package address

// Kind is what a user-supplied string turned out to name
type Kind string

const (
	KindToken       Kind = "token"
	KindWallet      Kind = "wallet"
	KindTransaction Kind = "transaction"
	KindInvalid     Kind = "invalid"
)

// Result is the outcome of classifying one input.
// IsValid implies Kind != KindInvalid; Error is set only when IsValid is false.
type Result struct {
	IsValid bool   `json:"isValid"`
	Kind    Kind   `json:"kind"`
	Error   string `json:"error,omitempty"`
}

// Valid builds a successful classification
func Valid(kind Kind) Result {
	return Result{IsValid: true, Kind: kind}
}

// Invalid builds a failed classification carrying msg
func Invalid(msg string) Result {
	return Result{IsValid: false, Kind: KindInvalid, Error: msg}
}
