package solana

import (
	"bytes"
	"encoding/json"

	"github.com/gagliardetto/solana-go/rpc"
)

// ParsedInfo is the jsonParsed form of an instruction: a type tag plus
// free-form info
type ParsedInfo struct {
	Type string         `json:"type"`
	Info map[string]any `json:"info"`
}

// ParseInstruction extracts the parsed type and info of ix. ok is false for
// instructions the node could not parse, which carry raw data instead.
// Numbers in Info decode as json.Number.
func ParseInstruction(ix *rpc.ParsedInstruction) (ParsedInfo, bool) {
	if ix == nil || ix.Parsed == nil {
		return ParsedInfo{}, false
	}

	raw, err := json.Marshal(ix.Parsed)
	if err != nil || len(raw) == 0 || raw[0] != '{' {
		return ParsedInfo{}, false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out ParsedInfo
	if err := dec.Decode(&out); err != nil || out.Type == "" {
		return ParsedInfo{}, false
	}
	return out, true
}
