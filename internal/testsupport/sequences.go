package testsupport

import (
	"crypto/rand"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
)

var (
	// Global counter for generating unique sequential IDs in tests
	testSequence uint64

	// Base timestamp to make names shorter
	baseTimestamp = time.Now().UnixNano()
)

func init() {
	// Initialize with current timestamp to ensure uniqueness across test runs
	testSequence = uint64(baseTimestamp % 1000000)
}

// NextSequence returns next unique sequence number
func NextSequence() uint64 {
	return atomic.AddUint64(&testSequence, 1)
}

// UniqueName generates a unique name with given prefix
// Example: UniqueName("pair") -> "pair_123456"
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, NextSequence())
}

// NewPublicKey returns a fresh random Solana public key
func NewPublicKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

// NewSignature returns a random transaction signature
func NewSignature() solana.Signature {
	var sig solana.Signature
	if _, err := rand.Read(sig[:]); err != nil {
		panic(err)
	}
	return sig
}
