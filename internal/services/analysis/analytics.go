package analysis

import (
	"sort"

	"solsight/internal/domain/token"
)

// Risk score thresholds. Lower scores mean lower risk.
const (
	maxRiskScore = 5
	minRiskScore = 1

	liquidityTierOne = 100_000.0
	liquidityTierTwo = 1_000_000.0
	minActivePools   = 3
	minExchanges     = 3
)

// DeriveAnalytics computes liquidity, volume, pool and exchange figures over all pairs
func DeriveAnalytics(pairs []token.Pair) token.Analytics {
	a := token.Analytics{
		Exchanges:           uniqueExchanges(pairs),
		LiquidityByExchange: make(map[string]float64),
	}

	for _, p := range pairs {
		a.TotalLiquidity += p.LiquidityUSD
		a.TotalVolume += p.Volume24hrUSD
		a.LiquidityByExchange[p.ExchangeName] += p.LiquidityUSD
		if p.InactivePair {
			a.InactivePools++
		} else {
			a.ActivePools++
		}
	}

	a.RiskScore = RiskScore(a.TotalLiquidity, a.ActivePools, len(a.LiquidityByExchange))
	return a
}

// RiskScore starts at 5 and takes one point off per met threshold, clamped to [1, 5]
func RiskScore(totalLiquidity float64, activePools, exchangeCount int) int {
	score := maxRiskScore

	if totalLiquidity > liquidityTierOne {
		score--
	}
	if totalLiquidity > liquidityTierTwo {
		score--
	}
	if activePools >= minActivePools {
		score--
	}
	if exchangeCount >= minExchanges {
		score--
	}

	return max(minRiskScore, min(maxRiskScore, score))
}

// ExtractTokenInfo takes identity and price from the deepest pair when the
// queried address is one of its legs. Returns nil otherwise.
func ExtractTokenInfo(pairs []token.Pair, address string) *token.Info {
	if len(pairs) == 0 {
		return nil
	}

	sorted := make([]token.Pair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LiquidityUSD > sorted[j].LiquidityUSD
	})

	top := sorted[0]
	for _, leg := range top.Pair {
		if leg.TokenAddress != address {
			continue
		}

		info := &token.Info{
			Address:        leg.TokenAddress,
			Name:           leg.TokenName,
			Symbol:         leg.TokenSymbol,
			Logo:           leg.TokenLogo,
			Decimals:       leg.TokenDecimals,
			Price:          top.USDPrice,
			PriceChange24h: top.USDPrice24hrPercentChange,
			Exchanges:      uniqueExchanges(pairs),
		}
		for _, p := range pairs {
			info.Volume24h += p.Volume24hrUSD
			info.LiquidityUSD += p.LiquidityUSD
			if !p.InactivePair {
				info.ActivePairs++
			}
		}
		return info
	}

	return nil
}

// uniqueExchanges keeps first-appearance order
func uniqueExchanges(pairs []token.Pair) []string {
	seen := make(map[string]struct{}, len(pairs))
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if _, ok := seen[p.ExchangeName]; ok {
			continue
		}
		seen[p.ExchangeName] = struct{}{}
		out = append(out, p.ExchangeName)
	}
	return out
}
