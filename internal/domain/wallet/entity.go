package wallet

import (
	"encoding/json"
	"time"
)

// Transaction statuses
const (
	StatusSuccess = "Success"
	StatusFailed  = "Failed"
)

// Transaction types inferred from program logs
const (
	TypeTransfer        = "Transfer"
	TypeSwap            = "Swap"
	TypeStake           = "Stake"
	TypeAccountCreation = "Account Creation"
	TypeAccountClose    = "Account Close"
	TypeUnknown         = "Unknown"
)

// TokenHolding is one SPL token account with a non-zero balance
type TokenHolding struct {
	TokenAccount string  `json:"tokenAccount"`
	Mint         string  `json:"mint"`
	Amount       float64 `json:"amount"`
	Decimals     uint8   `json:"decimals"`
}

// Holdings lists the token balances of a wallet
type Holdings struct {
	Address string         `json:"address"`
	Tokens  []TokenHolding `json:"tokens"`
}

// Transaction is a summary of one recent transaction
type Transaction struct {
	Signature string   `json:"signature"`
	Timestamp *string  `json:"timestamp"`
	Status    string   `json:"status"`
	Type      string   `json:"type"`
	Fee       float64  `json:"fee"`
	Amount    *float64 `json:"amount"`
	Symbol    string   `json:"symbol"`
}

// Transactions lists recent transactions of a wallet
type Transactions struct {
	Address      string        `json:"address"`
	Transactions []Transaction `json:"transactions"`
}

// FlowQuery narrows a transaction-flow graph
type FlowQuery struct {
	Limit     int
	Start     time.Time
	End       time.Time
	MinAmount float64
}

// FlowNode is an account taking part in SOL transfers
type FlowNode struct {
	ID           string  `json:"id"`
	Transactions int     `json:"transactions"`
	Volume       float64 `json:"volume"`
	Label        string  `json:"label"`
}

// FlowEdge is one SOL transfer between two accounts
type FlowEdge struct {
	Source    string     `json:"source"`
	Target    string     `json:"target"`
	Amount    float64    `json:"amount"`
	Signature string     `json:"signature"`
	Timestamp *time.Time `json:"timestamp"`
	Type      string     `json:"type"`
}

// DateRange bounds a flow graph
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Flow is the node/edge graph of SOL transfers around a wallet
type Flow struct {
	Address   string     `json:"address"`
	Nodes     []FlowNode `json:"nodes"`
	Edges     []FlowEdge `json:"edges"`
	DateRange DateRange  `json:"dateRange"`
}

// AddressInfo is the on-chain profile part of a risk report
type AddressInfo struct {
	Balance           float64 `json:"balance"`
	TransactionCount  int     `json:"transaction_count"`
	HasNoBalance      bool    `json:"has_no_balance"`
	HasNoTransactions bool    `json:"has_no_transactions"`
	AutomatedTrading  bool    `json:"automated_trading"`
	WashTrading       bool    `json:"wash_trading"`
	IsSpamSNS         bool    `json:"is_spam_sns"`
	TimeFirstTx       string  `json:"time_1st_tx,omitempty"`
	TimeVerifiedAgo   string  `json:"time_verified_ago,omitempty"`
}

// RiskDetails groups the detailed findings of a risk report
type RiskDetails struct {
	AddressInfo                AddressInfo     `json:"address_info"`
	DevLaunchedTokensIn24Hours json.RawMessage `json:"dev_launched_tokens_in_24_hours,omitempty"`
}

// RiskDetailsReport is the external wallet risk score.
// OverallRisk is on a 0-100 scale.
type RiskDetailsReport struct {
	OverallRisk *float64        `json:"overallRisk"`
	Issues      json.RawMessage `json:"issues,omitempty"`
	Details     RiskDetails     `json:"details"`
}

// SanctionReport is the external sanctions screening result
type SanctionReport struct {
	IsSanctioned *bool `json:"is_sanctioned"`
}

// Overview combines the external risk score and sanction flag with
// balance and activity facts read from the chain. Risk and Sanction hold
// either the report or an embedded error object.
type Overview struct {
	Address            string     `json:"address"`
	Risk               any        `json:"risk"`
	Sanction           any        `json:"sanction"`
	Lamports           uint64     `json:"lamports"`
	SOLBalance         float64    `json:"solBalance"`
	RecentTransactions int        `json:"recentTransactions"`
	FailedTransactions int        `json:"failedTransactions"`
	LastActivity       *time.Time `json:"lastActivity"`
	BalanceError       string     `json:"balanceError,omitempty"`
	ActivityError      string     `json:"activityError,omitempty"`
}
