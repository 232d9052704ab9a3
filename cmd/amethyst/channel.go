package main

import (
	"strings"

	"github.com/Sovereign-Labs/amethyst/hostdb"
	"github.com/Sovereign-Labs/amethyst/types"
)

// txChannel adapts one bundleTx's canned host answers to hostdb.HostChannel.
type txChannel struct {
	accounts map[types.Address]*hostdb.RawAccount
	storage  map[types.Address]map[types.Hash]types.Word
	blocks   map[uint64]types.Hash
}

func newTxChannel(tx bundleTx) *txChannel {
	c := &txChannel{
		accounts: map[types.Address]*hostdb.RawAccount{},
		storage:  map[types.Address]map[types.Hash]types.Word{},
		blocks:   map[uint64]types.Hash{},
	}
	for addrHex, a := range tx.Accounts {
		var code []byte
		if a.Code != "" {
			code = fromHex(a.Code)
		}
		c.accounts[types.HexToAddress(addrHex)] = &hostdb.RawAccount{
			Nonce:       a.Nonce,
			Balance:     types.WordFromUint64(a.Balance),
			CodeHash:    types.HexToHash(a.CodeHash),
			StorageRoot: types.HexToHash(a.StorageRoot),
			Code:        code,
		}
	}
	// tx.Storage keys are "addr:slot" hex pairs; this convenience format
	// is a harness detail, not a wire protocol (see bundle.go).
	for key, valueHex := range tx.Storage {
		parts := strings.SplitN(key, ":", 2)
		if len(parts) != 2 {
			continue
		}
		c.SetStorage(types.HexToAddress(parts[0]), types.HexToHash(parts[1]), hexWord(valueHex))
	}
	for number, hashHex := range tx.Blocks {
		c.blocks[parseBlockNumber(number)] = types.HexToHash(hashHex)
	}
	return c
}

func (c *txChannel) SetStorage(addr types.Address, slot types.Hash, value types.Word) {
	m, ok := c.storage[addr]
	if !ok {
		m = map[types.Hash]types.Word{}
		c.storage[addr] = m
	}
	m[slot] = value
}

func (c *txChannel) ReadAccount(addr types.Address) (*hostdb.RawAccount, bool) {
	a, ok := c.accounts[addr]
	return a, ok
}

func (c *txChannel) ReadCode(hash types.Hash) []byte { return nil }

func (c *txChannel) ReadStorage(addr types.Address, slot types.Hash) (types.Word, bool) {
	m, ok := c.storage[addr]
	if !ok {
		return types.Word{}, false
	}
	w, ok := m[slot]
	return w, ok
}

func (c *txChannel) ReadBlockHash(number uint64) (types.Hash, bool) {
	h, ok := c.blocks[number]
	return h, ok
}

func parseBlockNumber(s string) uint64 {
	var n uint64
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + uint64(r-'0')
	}
	return n
}
