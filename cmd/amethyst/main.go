// Command amethyst is the prover host harness for the verifiable-execution
// core: it reads a transaction bundle, drives each transaction's
// HostDB/VSAL pair against the bundle's canned host answers, composes the
// resulting per-transaction TxTrees into a single aggregate, and prints a
// JSON summary of the result (the number of included transactions and the
// aggregate's transition kind).
//
// Usage:
//
//	amethyst [flags]
//
// Flags:
//
//	--bundle          Path to the transaction bundle to prove (required)
//	--chainid         Chain id, validated as non-zero; not compared against the bundle (default: 1)
//	--metrics.addr    Address to serve Prometheus metrics on (default: disabled)
//	--verbosity       Log level 0-5 (default: 3)
//	--max-inclusions  Validated as positive; the aggregate carries every bundle transaction regardless
//	--version         Print version and exit
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Sovereign-Labs/amethyst/crypto"
	"github.com/Sovereign-Labs/amethyst/hostdb"
	amlog "github.com/Sovereign-Labs/amethyst/log"
	"github.com/Sovereign-Labs/amethyst/metrics"
	"github.com/Sovereign-Labs/amethyst/txtree"
	"github.com/Sovereign-Labs/amethyst/types"
	"github.com/Sovereign-Labs/amethyst/vsal"
)

var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, exit, code := parseFlags(args)
	if exit {
		return code
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		return 1
	}

	amlog.SetDefault(amlog.New(verbosityToLevel(cfg.Verbosity)))
	logger := amlog.Default().Module(amlog.ModuleCmd)

	promReg := prometheus.NewRegistry()
	reg := metrics.NewRegistry(promReg)
	if cfg.MetricsAddr != "" {
		http.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
		logger.Info("serving metrics", "addr", cfg.MetricsAddr)
	}

	bundle, err := loadBundle(cfg.BundleFile)
	if err != nil {
		logger.Error("failed to load bundle", "err", err)
		return 1
	}

	env := types.BlockEnv{
		ChainID:  bundle.ChainID,
		Number:   bundle.BlockNumber,
		Coinbase: types.HexToAddress(bundle.Coinbase),
		GasLimit: 30_000_000,
	}

	type leaf = txtree.TxTree[types.Hash, types.Transaction, *vsal.SealedLog, types.BlockEnv]
	var aggregate *leaf

	for _, btx := range bundle.Transactions {
		tree, err := executeOne(btx, env, reg, logger)
		if err != nil {
			logger.Error("transaction execution failed", "id", btx.ID, "err", err)
			return 1
		}
		if aggregate == nil {
			aggregate = tree
			continue
		}
		aggregate, err = aggregate.Merge(tree)
		if err != nil {
			logger.Error("tree merge failed", "err", err)
			return 1
		}
		reg.TreeMerges.Inc()
	}

	if aggregate == nil {
		logger.Info("empty bundle, nothing to prove")
		return 0
	}

	summary := map[string]any{
		"includes": len(aggregate.Includes),
		"kind":     aggregate.Change.Kind.String(),
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))
	return 0
}

// executeOne builds a leaf TxTree for one bundle transaction: a fresh
// VSAL and HostDB driven by that transaction's canned host answers,
// committed per its declared post-state, sealed and wrapped in a Logged
// transition.
func executeOne(
	btx bundleTx,
	env types.BlockEnv,
	reg *metrics.Registry,
	logger *amlog.Logger,
) (*txtree.TxTree[types.Hash, types.Transaction, *vsal.SealedLog, types.BlockEnv], error) {
	log := metrics.Instrument(vsal.New(), reg)
	db := hostdb.New(newTxChannel(btx), log, func(b []byte) types.Hash { return crypto.Keccak256Hash(b) })

	for addrHex := range btx.Accounts {
		if _, err := db.Basic(types.HexToAddress(addrHex)); err != nil {
			return nil, err
		}
	}
	for number := range btx.Blocks {
		if _, err := db.BlockHash(parseBlockNumber(number)); err != nil {
			return nil, err
		}
	}

	changes := make([]hostdb.AccountChange, 0, len(btx.Commit))
	for _, c := range btx.Commit {
		deltas := make([]hostdb.StorageDelta, 0, len(c.Storage))
		for _, s := range c.Storage {
			deltas = append(deltas, hostdb.StorageDelta{
				Slot:  types.HexToHash(s.Slot),
				Value: hexWord(s.Value),
			})
		}
		changes = append(changes, hostdb.AccountChange{
			Address:   types.HexToAddress(c.Address),
			Destroyed: c.Destroyed,
			Info: types.AccountInfo{
				Nonce:    c.Nonce,
				Balance:  types.WordFromUint64(c.Balance),
				CodeHash: types.HexToHash(c.CodeHash),
			},
			Storage: deltas,
		})
	}
	// HostDB.Commit does not re-sort: present changes by address, and
	// each account's storage by slot.
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Address.Less(changes[j].Address) })
	for _, c := range changes {
		sort.SliceStable(c.Storage, func(i, j int) bool { return c.Storage[i].Slot.Less(c.Storage[j].Slot) })
	}
	db.Commit(changes)

	tx := types.Transaction{Value: types.WordFromUint64(btx.Value)}.WithID(types.HexToHash(btx.ID))
	if btx.To != "" {
		to := types.HexToAddress(btx.To)
		tx.To = &to
	}

	sealed := log.Seal()
	logger.Module(amlog.ModuleVSAL).Debug("sealed transaction log", "id", btx.ID, "accounts", len(sealed.Accounts), "storage", len(sealed.Storage))

	transition := txtree.Logged[types.Hash, *vsal.SealedLog](sealed)
	return txtree.New[types.Hash, types.Transaction, *vsal.SealedLog, types.BlockEnv](tx, env, transition), nil
}

func verbosityToLevel(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelError + 4
	case v == 1:
		return slog.LevelError
	case v == 2:
		return slog.LevelWarn
	case v == 3:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
