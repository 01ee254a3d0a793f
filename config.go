package ppmac

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/jgbyrne/ppmac/internal/harness"
)

// fileConfig mirrors the on-disk TOML shape:
//
//	[codec]
//	k = 5
//	n = 256
//	w = 32
//
//	[[seed]]
//	symbol = 32
//	count = 120
type fileConfig struct {
	Codec struct {
		K int   `toml:"k"`
		N int32 `toml:"n"`
		W uint  `toml:"w"`
	} `toml:"codec"`
	Seed []struct {
		Symbol int32  `toml:"symbol"`
		Count  uint32 `toml:"count"`
	} `toml:"seed"`
}

// SeedEntry is one order-0 seed count loaded from a config file.
type SeedEntry struct {
	Symbol int32
	Count  uint32
}

// LoadConfig reads a [codec]/[[seed]] TOML file and returns the
// decoded Config plus any seed entries to apply via Model.Seed before
// the first Encode/Decode call.
func LoadConfig(path string) (Config, []SeedEntry, error) {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return Config{}, nil, fmt.Errorf("ppmac: loading config %s: %w", path, err)
	}
	cfg := Config{K: fc.Codec.K, N: fc.Codec.N, W: fc.Codec.W}
	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}
	seeds := make([]SeedEntry, 0, len(fc.Seed))
	for _, s := range fc.Seed {
		seeds = append(seeds, SeedEntry{Symbol: s.Symbol, Count: s.Count})
	}
	return cfg, seeds, nil
}

// LoadCountsFile seeds model from a counts file (one non-negative
// integer per line, as parsed by internal/harness.ParseCounts), one
// line per symbol starting at 0.
func LoadCountsFile(m *Model, cfg Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ppmac: opening counts file %s: %w", path, err)
	}
	defer f.Close()

	counts, err := harness.ParseCounts(f, int(cfg.N))
	if err != nil {
		return err
	}
	for i, c := range counts {
		if c == 0 {
			continue
		}
		m.Seed(int32(i), c)
	}
	return nil
}
