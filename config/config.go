// Package config holds the configuration for the prover host harness: the
// process that wires a host channel, a VSAL/HostDB pair, and the TxTree
// aggregation step together into a running proving task.
package config

import (
	"errors"
	"fmt"
)

// Config holds all configuration for a single proving-task invocation.
type Config struct {
	// BundleFile is the path to the JSON transaction bundle to execute
	// (see loadBundle in cmd/amethyst).
	BundleFile string

	// ChainID must be non-zero (see Validate). The harness does not
	// compare it against the bundle's or any transaction's chain id.
	ChainID uint64

	// MetricsAddr, if non-empty, serves a Prometheus /metrics endpoint on
	// this address for the duration of the run.
	MetricsAddr string

	// Verbosity controls numeric log level (0=silent, 1=error, 2=warn,
	// 3=info, 4 and 5=debug).
	Verbosity int

	// MaxProofInclusions must be positive (see Validate). The harness
	// does not read it: the aggregate TxTree carries every transaction in
	// the bundle, and no intermediate Apply is performed.
	MaxProofInclusions int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChainID:            1,
		Verbosity:          3,
		MaxProofInclusions: 256,
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.BundleFile == "" {
		return errors.New("config: bundle file must not be empty")
	}
	if c.ChainID == 0 {
		return errors.New("config: chain id must be non-zero")
	}
	if c.Verbosity < 0 || c.Verbosity > 5 {
		return fmt.Errorf("config: verbosity must be 0-5, got %d", c.Verbosity)
	}
	if c.MaxProofInclusions <= 0 {
		return fmt.Errorf("config: max proof inclusions must be positive, got %d", c.MaxProofInclusions)
	}
	return nil
}
