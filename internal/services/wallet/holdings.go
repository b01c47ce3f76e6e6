package wallet

import (
	"context"
	"encoding/json"

	solanarpc "solsight/internal/adapters/solana"
	"solsight/internal/domain/wallet"
)

// tokenAccountData is the jsonParsed layout of an SPL token account
type tokenAccountData struct {
	Parsed struct {
		Info struct {
			Mint        string `json:"mint"`
			TokenAmount struct {
				UIAmount *float64 `json:"uiAmount"`
				Decimals uint8    `json:"decimals"`
			} `json:"tokenAmount"`
		} `json:"info"`
	} `json:"parsed"`
}

// GetHoldings lists SPL token accounts of address with a non-zero balance
func (s *Service) GetHoldings(ctx context.Context, address string) (*wallet.Holdings, error) {
	owner, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	res, err := s.rpc.GetParsedTokenAccountsByOwner(ctx, owner)
	if err != nil {
		s.log.FromContext(ctx).Errorw("Failed to fetch token accounts", "address", address, "error", err)
		return nil, solanarpc.Failure("Failed to fetch wallet tokens", err)
	}

	holdings := &wallet.Holdings{Address: address, Tokens: []wallet.TokenHolding{}}
	if res == nil {
		return holdings, nil
	}

	for _, acc := range res.Value {
		if acc == nil || acc.Account.Data == nil {
			continue
		}

		var data tokenAccountData
		if err := json.Unmarshal(acc.Account.Data.GetRawJSON(), &data); err != nil {
			s.log.FromContext(ctx).Debugw("Skipping undecodable token account", "account", acc.Pubkey.String(), "error", err)
			continue
		}

		amount := data.Parsed.Info.TokenAmount.UIAmount
		if amount == nil || *amount <= 0 {
			continue
		}

		holdings.Tokens = append(holdings.Tokens, wallet.TokenHolding{
			TokenAccount: acc.Pubkey.String(),
			Mint:         data.Parsed.Info.Mint,
			Amount:       *amount,
			Decimals:     data.Parsed.Info.TokenAmount.Decimals,
		})
	}

	return holdings, nil
}
