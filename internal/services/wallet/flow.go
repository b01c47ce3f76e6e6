package wallet

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go/rpc"

	solanarpc "solsight/internal/adapters/solana"
	"solsight/internal/domain/wallet"
)

const (
	DefaultFlowLimit  = 10
	DefaultFlowWindow = 30 * 24 * time.Hour

	transferInstruction = "transfer"
)

// GetFlow builds the graph of successful SOL transfers in the recent
// transactions of address
func (s *Service) GetFlow(ctx context.Context, address string, q wallet.FlowQuery) (*wallet.Flow, error) {
	pk, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	q = s.withFlowDefaults(q)

	sigs, err := s.rpc.GetSignaturesForAddress(ctx, pk, q.Limit)
	if err != nil {
		s.log.FromContext(ctx).Errorw("Failed to fetch signatures", "address", address, "error", err)
		return nil, solanarpc.Failure(solanarpc.Describe(err), err)
	}

	inRange := make([]*rpc.TransactionSignature, 0, len(sigs))
	for _, sig := range sigs {
		if sig == nil {
			continue
		}
		t := blockTime(sig.BlockTime)
		if t == nil || t.Before(q.Start) || t.After(q.End) {
			continue
		}
		inRange = append(inRange, sig)
	}

	txs, err := s.fetchTransactions(ctx, inRange)
	if err != nil {
		s.log.FromContext(ctx).Errorw("Failed to fetch transactions", "address", address, "error", err)
		return nil, solanarpc.Failure(solanarpc.Describe(err), err)
	}

	g := newFlowGraph(address)
	for _, tx := range txs {
		g.addTransaction(tx, q.MinAmount)
	}

	return &wallet.Flow{
		Address:   address,
		Nodes:     g.nodeList(),
		Edges:     g.edges,
		DateRange: wallet.DateRange{Start: q.Start, End: q.End},
	}, nil
}

func (s *Service) withFlowDefaults(q wallet.FlowQuery) wallet.FlowQuery {
	now := s.now()
	if q.Limit <= 0 {
		q.Limit = DefaultFlowLimit
	}
	q.Limit = min(q.Limit, MaxTransactionLimit)
	if q.End.IsZero() {
		q.End = now
	}
	if q.Start.IsZero() {
		q.Start = now.Add(-DefaultFlowWindow)
	}
	return q
}

// flowGraph keeps nodes in first-seen order
type flowGraph struct {
	index map[string]int
	nodes []wallet.FlowNode
	edges []wallet.FlowEdge
}

func newFlowGraph(center string) *flowGraph {
	g := &flowGraph{index: make(map[string]int), edges: []wallet.FlowEdge{}}
	g.node(center)
	return g
}

func (g *flowGraph) node(id string) *wallet.FlowNode {
	if i, ok := g.index[id]; ok {
		return &g.nodes[i]
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, wallet.FlowNode{ID: id, Label: shortLabel(id)})
	return &g.nodes[len(g.nodes)-1]
}

func (g *flowGraph) nodeList() []wallet.FlowNode {
	return g.nodes
}

func (g *flowGraph) addTransaction(tx *rpc.GetParsedTransactionResult, minAmount float64) {
	if tx.Meta == nil || tx.Meta.Err != nil || tx.Transaction == nil {
		return
	}

	signature := firstSignature(tx)
	timestamp := blockTime(tx.BlockTime)

	for _, ix := range tx.Transaction.Message.Instructions {
		parsed, ok := solanarpc.ParseInstruction(ix)
		if !ok || parsed.Type != transferInstruction {
			continue
		}

		source, _ := parsed.Info["source"].(string)
		destination, _ := parsed.Info["destination"].(string)
		lamports, ok := toLamports(parsed.Info["lamports"])
		if source == "" || destination == "" || !ok || lamports == 0 {
			continue
		}

		amount := solanarpc.LamportsToSOL(lamports)
		if amount < minAmount {
			continue
		}

		for _, id := range []string{source, destination} {
			n := g.node(id)
			n.Transactions++
			n.Volume += amount
		}

		g.edges = append(g.edges, wallet.FlowEdge{
			Source:    source,
			Target:    destination,
			Amount:    amount,
			Signature: signature,
			Timestamp: timestamp,
			Type:      wallet.TypeTransfer,
		})
	}
}

// toLamports reads a lamport amount from a decoded instruction info value
func toLamports(v any) (uint64, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case json.Number:
		u, err := strconv.ParseUint(n.String(), 10, 64)
		return u, err == nil
	case uint64:
		return n, true
	case int64:
		return uint64(n), n >= 0
	case int:
		return uint64(n), n >= 0
	case string:
		u, err := strconv.ParseUint(n, 10, 64)
		return u, err == nil
	default:
		return 0, false
	}
}

// shortLabel abbreviates an address as first4...last4
func shortLabel(address string) string {
	if len(address) <= 8 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}
