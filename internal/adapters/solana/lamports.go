package solana

import (
	"github.com/shopspring/decimal"
)

// LamportsPerSOL is the number of lamports in one SOL
const LamportsPerSOL = 1_000_000_000

var lamportsPerSOL = decimal.NewFromInt(LamportsPerSOL)

// LamportsToSOL converts a lamport amount to SOL without intermediate float rounding
func LamportsToSOL(lamports uint64) float64 {
	return decimal.NewFromUint64(lamports).Div(lamportsPerSOL).InexactFloat64()
}
