package classifier

import (
	"context"
	"regexp"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	solanarpc "solsight/internal/adapters/solana"
	"solsight/internal/domain/address"
	"solsight/internal/metrics"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
)

const (
	msgEmpty             = "Address cannot be empty"
	msgEthereum          = "Ethereum addresses are not supported. Please enter a Solana address."
	msgSignatureNotFound = "Transaction signature not found on-chain"
	msgInvalidFormat     = "Invalid Solana address format"
)

var (
	ethereumAddress = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	signatureShape  = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{85,}$`)
)

// RPC is the part of the Solana access layer the classifier needs
type RPC interface {
	GetParsedTransaction(ctx context.Context, sig solana.Signature) (*rpc.GetParsedTransactionResult, error)
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	GetTokenLargestAccounts(ctx context.Context, mint solana.PublicKey) (*rpc.GetTokenLargestAccountsResult, error)
}

// Service decides whether an input names a token, a wallet or a transaction
type Service struct {
	rpc RPC
	log *logger.Logger
}

// NewService creates a classifier backed by rpc
func NewService(rpc RPC, log *logger.Logger) *Service {
	return &Service{
		rpc: rpc,
		log: log.With("service", "classifier"),
	}
}

// Classify never returns an error: every failure becomes an invalid result
func (s *Service) Classify(ctx context.Context, input string) address.Result {
	res := s.classify(ctx, strings.TrimSpace(input))
	metrics.RecordClassification(string(res.Kind))
	return res
}

func (s *Service) classify(ctx context.Context, input string) address.Result {
	if input == "" {
		return address.Invalid(msgEmpty)
	}

	if ethereumAddress.MatchString(input) {
		return address.Invalid(msgEthereum)
	}

	// Anything shaped like a signature stays a transaction-or-invalid
	if signatureShape.MatchString(input) {
		return s.classifySignature(ctx, input)
	}

	pk, err := solana.PublicKeyFromBase58(input)
	if err != nil {
		return address.Invalid(msgInvalidFormat)
	}

	account, err := s.rpc.GetAccountInfo(ctx, pk)
	if errors.Is(err, rpc.ErrNotFound) {
		// Fresh wallets have no on-chain footprint yet
		return address.Valid(address.KindWallet)
	}
	if err != nil {
		s.log.FromContext(ctx).Warnw("Account lookup failed", "address", input, "error", err)
		return address.Invalid(solanarpc.Describe(err))
	}
	if account == nil || account.Value == nil {
		return address.Valid(address.KindWallet)
	}

	if account.Value.Owner.Equals(solana.TokenProgramID) {
		return address.Valid(address.KindToken)
	}

	if s.isMint(ctx, pk) {
		return address.Valid(address.KindToken)
	}
	return address.Valid(address.KindWallet)
}

func (s *Service) classifySignature(ctx context.Context, input string) address.Result {
	sig, err := solana.SignatureFromBase58(input)
	if err != nil {
		return address.Invalid(msgSignatureNotFound)
	}

	tx, err := s.rpc.GetParsedTransaction(ctx, sig)
	if err != nil || tx == nil || tx.Transaction == nil {
		if err != nil && !errors.Is(err, rpc.ErrNotFound) {
			s.log.FromContext(ctx).Debugw("Signature lookup failed", "signature", input, "error", err)
		}
		return address.Invalid(msgSignatureNotFound)
	}

	return address.Valid(address.KindTransaction)
}

// isMint probes pk as a token mint. Ordinary wallets make the node error out,
// which is expected and swallowed.
func (s *Service) isMint(ctx context.Context, pk solana.PublicKey) bool {
	largest, err := s.rpc.GetTokenLargestAccounts(ctx, pk)
	if err != nil {
		s.log.FromContext(ctx).Debugw("Largest accounts probe failed", "address", pk.String(), "error", err)
		return false
	}
	return largest != nil && len(largest.Value) > 0
}
