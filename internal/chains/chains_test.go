package chains

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestHomeIsCelo(t *testing.T) {
	home := Home()
	if home.Name != "celo" {
		t.Fatalf("expected celo as home chain, got %q", home.Name)
	}
	if !home.Home {
		t.Fatalf("home flag not set on %q", home.Name)
	}
	if home.Bridge == (common.Address{}) {
		t.Fatalf("home chain has no bridge address")
	}
}

func TestByName(t *testing.T) {
	cfg, err := ByName("  Base ")
	if err != nil {
		t.Fatalf("ByName failed: %v", err)
	}
	if cfg.Name != "base" || cfg.ChainID != 8453 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if _, err := ByName("polygon"); err == nil {
		t.Fatalf("expected error for unknown chain")
	}
}

func TestSelect(t *testing.T) {
	all, err := Select(nil)
	if err != nil {
		t.Fatalf("Select(nil) failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 chains, got %d", len(all))
	}

	subset, err := Select([]string{"celo", "avalanche"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(subset) != 2 || subset[0].Name != "celo" || subset[1].Name != "avalanche" {
		t.Fatalf("unexpected subset: %+v", subset)
	}

	if _, err := Select([]string{"celo", "solana"}); err == nil {
		t.Fatalf("expected error for unknown chain in selection")
	}
}
