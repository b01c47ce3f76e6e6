package token

import "encoding/json"

// PairToken is one leg of a two-sided market
type PairToken struct {
	TokenAddress  string  `json:"tokenAddress"`
	TokenName     string  `json:"tokenName"`
	TokenSymbol   string  `json:"tokenSymbol"`
	TokenLogo     *string `json:"tokenLogo"`
	TokenDecimals string  `json:"tokenDecimals"`
	PairTokenType string  `json:"pairTokenType"`
	LiquidityUSD  float64 `json:"liquidityUsd"`
}

// Pair is one exchange's listing of a token
type Pair struct {
	ExchangeAddress           string      `json:"exchangeAddress"`
	ExchangeName              string      `json:"exchangeName"`
	ExchangeLogo              string      `json:"exchangeLogo"`
	PairAddress               string      `json:"pairAddress"`
	PairLabel                 string      `json:"pairLabel"`
	USDPrice                  float64     `json:"usdPrice"`
	USDPrice24hrPercentChange float64     `json:"usdPrice24hrPercentChange"`
	USDPrice24hrUSDChange     float64     `json:"usdPrice24hrUsdChange"`
	Volume24hrNative          float64     `json:"volume24hrNative"`
	Volume24hrUSD             float64     `json:"volume24hrUsd"`
	LiquidityUSD              float64     `json:"liquidityUsd"`
	BaseToken                 string      `json:"baseToken"`
	QuoteToken                string      `json:"quoteToken"`
	InactivePair              bool        `json:"inactivePair"`
	Pair                      []PairToken `json:"pair"`
}

// PairsPage is the pairs listing for one token as returned by the DEX indexer
type PairsPage struct {
	Pairs    []Pair  `json:"pairs"`
	PageSize int     `json:"pageSize"`
	Page     int     `json:"page"`
	Cursor   *string `json:"cursor"`
}

// Info summarises a token from its deepest pair
type Info struct {
	Address        string   `json:"address"`
	Name           string   `json:"name"`
	Symbol         string   `json:"symbol"`
	Logo           *string  `json:"logo"`
	Decimals       string   `json:"decimals"`
	Price          float64  `json:"price"`
	PriceChange24h float64  `json:"priceChange24h"`
	Volume24h      float64  `json:"volume24h"`
	LiquidityUSD   float64  `json:"liquidityUsd"`
	Exchanges      []string `json:"exchanges"`
	ActivePairs    int      `json:"activePairs"`
}

// Analytics is derived from the full pair list on every request
type Analytics struct {
	TotalLiquidity      float64            `json:"totalLiquidity"`
	TotalVolume         float64            `json:"totalVolume"`
	ActivePools         int                `json:"activePools"`
	InactivePools       int                `json:"inactivePools"`
	Exchanges           []string           `json:"exchanges"`
	LiquidityByExchange map[string]float64 `json:"liquidityByExchange"`
	RiskScore           int                `json:"riskScore"`
}

// IdentifiedSupply is the share of supply held by known entities
type IdentifiedSupply struct {
	PercentInCEXs      float64 `json:"percent_in_cexs"`
	PercentInContracts float64 `json:"percent_in_contracts"`
}

// Decentralization is the holder-map metadata for a token. Raw keeps the
// upstream body so fields not modelled here still reach clients.
type Decentralization struct {
	Status                string           `json:"status"`
	DecentralisationScore *float64         `json:"decentralisation_score"`
	IdentifiedSupply      IdentifiedSupply `json:"identified_supply"`
	DTUpdate              string           `json:"dt_update,omitempty"`
	TSUpdate              int64            `json:"ts_update,omitempty"`
	Raw                   json.RawMessage  `json:"-"`
}

// MarshalJSON emits the upstream body when one was kept
func (d Decentralization) MarshalJSON() ([]byte, error) {
	if len(d.Raw) > 0 {
		return d.Raw, nil
	}
	type plain Decentralization
	return json.Marshal(plain(d))
}

// DexPaidStatus reports whether the token paid for DEX listing features.
// Error, Status and Details are filled on soft failures.
type DexPaidStatus struct {
	IsPaid  bool            `json:"isPaid"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
	Error   string          `json:"error,omitempty"`
	Status  int             `json:"status,omitempty"`
}

// Dex paid messages
const (
	MessagePaid         = "DEX paid"
	MessageNotPaid      = "DEX not paid"
	MessageNotAvailable = "Information not available"
	MessageNoDexPayment = "Token has not paid for DEX features"
)

// AnalysisResponse is the aggregate returned for a token address.
// Decentralization and DexVerification hold either data or an embedded error object.
type AnalysisResponse struct {
	TokenInfo        *Info     `json:"tokenInfo"`
	Pairs            []Pair    `json:"pairs"`
	Analytics        Analytics `json:"analytics"`
	Decentralization any       `json:"decentralization"`
	DexVerification  any       `json:"dexVerification"`
	PageSize         int       `json:"pageSize"`
	Page             int       `json:"page"`
	Cursor           *string   `json:"cursor"`
}
