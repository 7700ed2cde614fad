package chains

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Selectors for the wrapper contract calls. These appear both in packed call
// data built by the orchestrator and in explorer records during history
// classification.
const (
	WrapSelector   = "0x3c7580e6" // wrap(uint32,address,uint256)
	UnwrapSelector = "0x39f47693" // unwrap(address,uint256)
)

// Config is the static per-chain configuration. Not mutated at runtime.
type Config struct {
	Name        string
	ChainID     uint64
	DomainID    uint32
	Home        bool
	Token       common.Address
	Bridge      common.Address
	Mailbox     common.Address
	TokenSymbol string
	ExplorerURL string
	PageSize    int
}

// Default returns the supported chain set. Celo is the home chain: cCOP is
// locked there and minted as wcCOP everywhere else.
func Default() []Config {
	return []Config{
		{
			Name:        "celo",
			ChainID:     42220,
			DomainID:    42220,
			Home:        true,
			Token:       common.HexToAddress("0x8A567e2aE79CA692Bd748aB832081C45de4041eA"),
			Bridge:      common.HexToAddress("0x5C7a2cB1e6bDfAE1e7A4a4cF3A2b0dE4c1F2b9a0"),
			Mailbox:     common.HexToAddress("0x50da3B3907A08a24fe4999F4Dcf337E8dC7954bb"),
			TokenSymbol: "cCOP",
			ExplorerURL: "https://api.celoscan.io/api",
			PageSize:    10000,
		},
		{
			Name:        "base",
			ChainID:     8453,
			DomainID:    8453,
			Token:       common.HexToAddress("0x2F25deB3848C207fc8E0c34035B3Ba7fC157602B"),
			Mailbox:     common.HexToAddress("0xeA87ae93Fa0019a82A727bfd3eBd1cFCa8f64f1D"),
			TokenSymbol: "wcCOP",
			ExplorerURL: "https://api.basescan.org/api",
			PageSize:    10000,
		},
		{
			Name:        "arbitrum",
			ChainID:     42161,
			DomainID:    42161,
			Token:       common.HexToAddress("0x34A1D3fff3958843C43aD80F30b94c510645C316"),
			Mailbox:     common.HexToAddress("0x979Ca5202784112f4738403dBec5D0F3B9daabB9"),
			TokenSymbol: "wcCOP",
			ExplorerURL: "https://api.arbiscan.io/api",
			PageSize:    10000,
		},
		{
			Name:        "optimism",
			ChainID:     10,
			DomainID:    10,
			Token:       common.HexToAddress("0x9e1028F5F1D5eDE59748FFceE5532509976840E0"),
			Mailbox:     common.HexToAddress("0xd4C1905BB1D26BC93DAC913e13CaCC278CdCC80D"),
			TokenSymbol: "wcCOP",
			ExplorerURL: "https://api-optimistic.etherscan.io/api",
			PageSize:    10000,
		},
		{
			Name:        "avalanche",
			ChainID:     43114,
			DomainID:    43114,
			Token:       common.HexToAddress("0x63682bDC5f875e9bF69E201550658492C9763F89"),
			Mailbox:     common.HexToAddress("0xFf06aFcaABaDDd1fb08371f9ccA15D73D51FeBD6"),
			TokenSymbol: "wcCOP",
			// Snowtrace caps history pages well below the etherscan family.
			ExplorerURL: "https://api.snowtrace.io/api",
			PageSize:    1000,
		},
	}
}

// ByName looks up a chain by its lowercase name.
func ByName(name string) (Config, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, cfg := range Default() {
		if cfg.Name == name {
			return cfg, nil
		}
	}
	return Config{}, fmt.Errorf("unknown chain: %s", name)
}

// Home returns the home (lock/mint origin) chain.
func Home() Config {
	for _, cfg := range Default() {
		if cfg.Home {
			return cfg
		}
	}
	// Default() always contains exactly one home chain.
	return Config{}
}

// Select resolves a list of chain names, or the full set when empty.
func Select(names []string) ([]Config, error) {
	if len(names) == 0 {
		return Default(), nil
	}
	out := make([]Config, 0, len(names))
	for _, name := range names {
		cfg, err := ByName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}
