package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	amlog "github.com/Sovereign-Labs/amethyst/log"
	"github.com/Sovereign-Labs/amethyst/metrics"
	"github.com/Sovereign-Labs/amethyst/txtree"
	"github.com/Sovereign-Labs/amethyst/types"
)

func testLogger() *amlog.Logger {
	return amlog.NewWithHandler(slog.NewJSONHandler(io.Discard, nil))
}

func TestExecuteOneProducesLoggedLeaf(t *testing.T) {
	btx := bundleTx{
		ID: "0x01",
		To: "0x02",
		Accounts: map[string]rawAcct{
			"0x02": {Nonce: 0, Balance: 1000},
		},
		Commit: []commitChange{
			{Address: "0x02", Nonce: 1, Balance: 900},
		},
	}
	env := types.BlockEnv{ChainID: 1}
	reg := metrics.NewRegistry(prometheus.NewRegistry())

	tree, err := executeOne(btx, env, reg, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Change.Kind != txtree.KindLogged {
		t.Fatalf("expected Logged transition, got %v", tree.Change.Kind)
	}
	if len(tree.Includes) != 1 || tree.Includes[0].ID() != types.HexToHash("0x01") {
		t.Fatalf("unexpected includes: %+v", tree.Includes)
	}
}

func TestExecuteOneRejectsInlineCode(t *testing.T) {
	btx := bundleTx{
		ID: "0x01",
		Accounts: map[string]rawAcct{
			"0x02": {Code: "0x6000"},
		},
	}
	env := types.BlockEnv{ChainID: 1}
	reg := metrics.NewRegistry(prometheus.NewRegistry())

	if _, err := executeOne(btx, env, reg, testLogger()); err == nil {
		t.Fatalf("expected error for inline code")
	}
}
