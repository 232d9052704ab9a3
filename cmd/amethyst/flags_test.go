package main

import "testing"

func TestParseFlagsDefaults(t *testing.T) {
	cfg, exit, code := parseFlags([]string{"--bundle", "testdata/bundle.json"})
	if exit {
		t.Fatalf("unexpected exit with code %d", code)
	}
	if cfg.ChainID != 1 {
		t.Fatalf("expected default chain id 1, got %d", cfg.ChainID)
	}
	if cfg.BundleFile != "testdata/bundle.json" {
		t.Fatalf("got bundle file %q", cfg.BundleFile)
	}
}

func TestParseFlagsVersion(t *testing.T) {
	_, exit, code := parseFlags([]string{"--version"})
	if !exit || code != 0 {
		t.Fatalf("expected clean exit on --version, got exit=%v code=%d", exit, code)
	}
}

func TestParseFlagsOverridesChainID(t *testing.T) {
	cfg, _, _ := parseFlags([]string{"--bundle", "x.json", "--chainid", "5"})
	if cfg.ChainID != 5 {
		t.Fatalf("expected chain id 5, got %d", cfg.ChainID)
	}
}
