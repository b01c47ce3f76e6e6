package seeds

import (
	"solsight/internal/domain/token"
)

// USDCMint is the quote leg used by default
const USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

// PairBuilder provides a fluent API for creating token.Pair values
type PairBuilder struct {
	entity token.Pair
}

// NewPairBuilder creates an active Raydium pair of mint against USDC
func NewPairBuilder(mint string) *PairBuilder {
	return &PairBuilder{
		entity: token.Pair{
			ExchangeName:  "Raydium",
			PairAddress:   "pair-" + mint,
			PairLabel:     "TOKEN/USDC",
			USDPrice:      1.0,
			LiquidityUSD:  10000,
			Volume24hrUSD: 1000,
			BaseToken:     mint,
			QuoteToken:    USDCMint,
			Pair: []token.PairToken{
				{TokenAddress: mint, TokenName: "Token", TokenSymbol: "TOKEN", TokenDecimals: "9", PairTokenType: "token0"},
				{TokenAddress: USDCMint, TokenName: "USD Coin", TokenSymbol: "USDC", TokenDecimals: "6", PairTokenType: "token1"},
			},
		},
	}
}

// WithExchange sets the exchange name
func (b *PairBuilder) WithExchange(name string) *PairBuilder {
	b.entity.ExchangeName = name
	return b
}

// WithLiquidity sets pair liquidity in USD
func (b *PairBuilder) WithLiquidity(usd float64) *PairBuilder {
	b.entity.LiquidityUSD = usd
	return b
}

// WithVolume sets 24h volume in USD
func (b *PairBuilder) WithVolume(usd float64) *PairBuilder {
	b.entity.Volume24hrUSD = usd
	return b
}

// WithPrice sets the USD price and its 24h change in percent
func (b *PairBuilder) WithPrice(usd, change24h float64) *PairBuilder {
	b.entity.USDPrice = usd
	b.entity.USDPrice24hrPercentChange = change24h
	return b
}

// WithSymbol renames the listed token leg
func (b *PairBuilder) WithSymbol(name, symbol string) *PairBuilder {
	b.entity.Pair[0].TokenName = name
	b.entity.Pair[0].TokenSymbol = symbol
	return b
}

// WithLogo sets the listed token's logo
func (b *PairBuilder) WithLogo(url string) *PairBuilder {
	b.entity.Pair[0].TokenLogo = &url
	return b
}

// Inactive marks the pair inactive
func (b *PairBuilder) Inactive() *PairBuilder {
	b.entity.InactivePair = true
	return b
}

// QuoteFirst puts the quote leg before the listed token
func (b *PairBuilder) QuoteFirst() *PairBuilder {
	legs := b.entity.Pair
	b.entity.Pair = []token.PairToken{legs[1], legs[0]}
	return b
}

// WithoutLegs drops the token legs
func (b *PairBuilder) WithoutLegs() *PairBuilder {
	b.entity.Pair = nil
	return b
}

// Build returns the pair
func (b *PairBuilder) Build() token.Pair {
	p := b.entity
	p.Pair = append([]token.PairToken(nil), b.entity.Pair...)
	return p
}

// PairsPageBuilder provides a fluent API for creating token.PairsPage values
type PairsPageBuilder struct {
	entity token.PairsPage
}

// NewPairsPageBuilder creates an empty first page
func NewPairsPageBuilder() *PairsPageBuilder {
	return &PairsPageBuilder{
		entity: token.PairsPage{Pairs: []token.Pair{}, PageSize: 50, Page: 1},
	}
}

// With appends pairs
func (b *PairsPageBuilder) With(pairs ...*PairBuilder) *PairsPageBuilder {
	for _, p := range pairs {
		b.entity.Pairs = append(b.entity.Pairs, p.Build())
	}
	return b
}

// Build returns the page
func (b *PairsPageBuilder) Build() token.PairsPage {
	return b.entity
}
