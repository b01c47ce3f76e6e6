package wallet

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/sync/errgroup"

	solanarpc "solsight/internal/adapters/solana"
	"solsight/internal/domain/wallet"
	"solsight/pkg/upstream"
)

// overviewSignatureLimit bounds the activity sample of an overview
const overviewSignatureLimit = 25

// GetOverview combines the risk score and sanction flag with the SOL balance
// and recent activity of address. Every part is best effort.
func (s *Service) GetOverview(ctx context.Context, address string) (*wallet.Overview, error) {
	pk, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	var (
		risk     upstream.Result[json.RawMessage]
		sanction upstream.Result[json.RawMessage]
		lamports uint64
		sigs     []*rpc.TransactionSignature
		balErr   error
		sigErr   error
	)

	var g errgroup.Group
	g.Go(func() error {
		risk = s.risk.GetRisk(ctx, address)
		return nil
	})
	g.Go(func() error {
		sanction = s.risk.GetSanctioned(ctx, address)
		return nil
	})
	g.Go(func() error {
		lamports, balErr = s.rpc.GetBalance(ctx, pk)
		return nil
	})
	g.Go(func() error {
		sigs, sigErr = s.rpc.GetSignaturesForAddress(ctx, pk, overviewSignatureLimit)
		return nil
	})
	_ = g.Wait()

	out := &wallet.Overview{
		Address:  address,
		Risk:     risk.Payload(),
		Sanction: sanction.Payload(),
	}

	log := s.log.FromContext(ctx)

	if balErr != nil {
		log.Warnw("Balance lookup failed", "address", address, "error", balErr)
		out.BalanceError = solanarpc.Describe(balErr)
	} else {
		out.Lamports = lamports
		out.SOLBalance = solanarpc.LamportsToSOL(lamports)
	}

	if sigErr != nil {
		log.Warnw("Activity lookup failed", "address", address, "error", sigErr)
		out.ActivityError = solanarpc.Describe(sigErr)
	} else {
		applyActivity(out, sigs)
	}

	return out, nil
}

func applyActivity(out *wallet.Overview, sigs []*rpc.TransactionSignature) {
	var last *time.Time
	for _, sig := range sigs {
		if sig == nil {
			continue
		}
		out.RecentTransactions++
		if sig.Err != nil {
			out.FailedTransactions++
		}
		if t := blockTime(sig.BlockTime); t != nil && (last == nil || t.After(*last)) {
			last = t
		}
	}
	out.LastActivity = last
}
