package main

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/Sovereign-Labs/amethyst/config"
)

// flagSet wraps flag.FlagSet to add support for uint64 flags, which the
// standard library's flag package lacks.
type flagSet struct {
	*flag.FlagSet
}

func newCustomFlagSet(name string) *flagSet {
	return &flagSet{FlagSet: flag.NewFlagSet(name, flag.ContinueOnError)}
}

func (fs *flagSet) Uint64Var(p *uint64, name string, value uint64, usage string) {
	fs.FlagSet.Var(&uint64Value{p: p}, name, usage)
	*p = value
}

type uint64Value struct{ p *uint64 }

func (v *uint64Value) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatUint(*v.p, 10)
}

func (v *uint64Value) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid uint64 value %q", s)
	}
	*v.p = n
	return nil
}

// newFlagSet creates a flag.FlagSet that binds all CLI flags to cfg.
func newFlagSet(cfg *config.Config) *flagSet {
	fs := newCustomFlagSet("amethyst")
	fs.StringVar(&cfg.BundleFile, "bundle", cfg.BundleFile, "path to the serialized transaction bundle to prove")
	fs.Uint64Var(&cfg.ChainID, "chainid", cfg.ChainID, "chain id (must be non-zero; not compared against the bundle)")
	fs.StringVar(&cfg.MetricsAddr, "metrics.addr", cfg.MetricsAddr, "address to serve Prometheus metrics on (empty disables)")
	fs.IntVar(&cfg.Verbosity, "verbosity", cfg.Verbosity, "log level 0-5 (0=silent, 4 and 5=debug)")
	fs.IntVar(&cfg.MaxProofInclusions, "max-inclusions", cfg.MaxProofInclusions, "must be positive; the aggregate TxTree is not split by it")
	return fs
}

// parseFlags parses CLI arguments into a Config. Returns the config,
// whether the caller should exit immediately, and the exit code.
func parseFlags(args []string) (config.Config, bool, int) {
	cfg := config.DefaultConfig()
	showVersion := false

	fs := newFlagSet(&cfg)
	fs.BoolVar(&showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Println(err)
		return cfg, true, 2
	}
	if showVersion {
		fmt.Printf("amethyst %s (commit %s)\n", version, commit)
		return cfg, true, 0
	}
	return cfg, false, 0
}
