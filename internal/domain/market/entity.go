package market

// ChainInfo is the current state of the Solana cluster
type ChainInfo struct {
	BlockHeight      uint64 `json:"blockHeight"`
	CurrentEpoch     uint64 `json:"currentEpoch"`
	AbsoluteSlot     uint64 `json:"absoluteSlot"`
	TransactionCount uint64 `json:"transactionCount"`
}

// ChainInfoResponse always carries Data; it is zero-filled when Success is false
type ChainInfoResponse struct {
	Success bool      `json:"success"`
	Data    ChainInfo `json:"data"`
	Error   string    `json:"error,omitempty"`
}
