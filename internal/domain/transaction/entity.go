package transaction

// Account is one account referenced by a transaction
type Account struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

// Instruction is a parsed instruction, or an opaque one with Type "Binary"
type Instruction struct {
	ProgramID string  `json:"programId"`
	Type      string  `json:"type"`
	Info      any     `json:"info,omitempty"`
	Data      *string `json:"data,omitempty"`
}

// TypeBinary marks instructions the node could not parse
const TypeBinary = "Binary"

// Details is a formatted view of one confirmed transaction
type Details struct {
	Signature    string        `json:"signature"`
	BlockTime    *string       `json:"blockTime"`
	Status       string        `json:"status"`
	Fee          *float64      `json:"fee"`
	Slot         uint64        `json:"slot"`
	Accounts     []Account     `json:"accounts"`
	Instructions []Instruction `json:"instructions"`
	Error        *string       `json:"error"`
	Logs         []string      `json:"logs"`
}

// TypeUnknown marks parsed instructions without a type tag
const TypeUnknown = "Unknown"

// Transaction statuses
const (
	StatusSuccess = "Success"
	StatusFailed  = "Failed"
)
