package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Sovereign-Labs/amethyst/types"
)

// bundleFile is the on-disk shape the harness reads: a sequence of
// transactions, each carrying the host channel's canned answers for that
// transaction's queries and the post-state changes to commit. This
// stands in for the bundle wire-format and host channel, both external
// collaborators left to the surrounding pipeline; the harness's own
// encoding here is a convenience for driving the core
// end to end, not part of the core's public artifact.
type bundleFile struct {
	ChainID      uint64     `json:"chainId"`
	BlockNumber  uint64     `json:"blockNumber"`
	Coinbase     string     `json:"coinbase"`
	Transactions []bundleTx `json:"transactions"`
}

type bundleTx struct {
	ID       string              `json:"id"`
	To       string              `json:"to"`
	Value    uint64              `json:"value"`
	Accounts map[string]rawAcct  `json:"hostAccounts"`
	Storage  map[string]string   `json:"hostStorage"` // "addr:slot" -> word hex
	Blocks   map[string]string   `json:"hostBlockHashes"`
	Commit   []commitChange      `json:"commit"`
}

type rawAcct struct {
	Nonce       uint64 `json:"nonce"`
	Balance     uint64 `json:"balance"`
	CodeHash    string `json:"codeHash"`
	StorageRoot string `json:"storageRoot"`
	Code        string `json:"code"` // non-empty triggers UnverifiedBytecode
}

type commitChange struct {
	Address   string          `json:"address"`
	Destroyed bool            `json:"destroyed"`
	Nonce     uint64          `json:"nonce"`
	Balance   uint64          `json:"balance"`
	CodeHash  string          `json:"codeHash"`
	Storage   []commitStorage `json:"storage"`
}

type commitStorage struct {
	Slot  string `json:"slot"`
	Value string `json:"value"`
}

func loadBundle(path string) (*bundleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle file: %w", err)
	}
	var b bundleFile
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing bundle file: %w", err)
	}
	return &b, nil
}

func hexWord(s string) types.Word {
	if s == "" {
		return types.ZeroWord
	}
	return types.WordFromBytes(fromHex(s))
}

func fromHex(s string) []byte {
	h := types.HexToHash(s)
	return h[:]
}
