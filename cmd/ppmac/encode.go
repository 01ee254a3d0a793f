package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jgbyrne/ppmac"
	"github.com/jgbyrne/ppmac/internal/harness"
)

func newEncodeCmd() *cobra.Command {
	var (
		k           int
		n           int32
		w           uint
		countsPath  string
		configPath  string
		shrink      bool
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "encode <input> [inputs...]",
		Short: "Compress one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ppmac.Config{K: k, N: n, W: w}
			if shrink {
				cfg = ppmac.ShrinkConfig()
			}
			var seeds []ppmac.SeedEntry
			if configPath != "" {
				loaded, loadedSeeds, err := ppmac.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
				seeds = loadedSeeds
			}

			return harness.ProcessFiles(context.Background(), args, parallelism, func(ctx context.Context, path string) error {
				logger.Printf("encoding %s", path)
				return encodeFile(cfg, seeds, countsPath, shrink, path)
			})
		},
	}

	cmd.Flags().IntVar(&k, "k", 5, "maximum PPM context order")
	cmd.Flags().Int32Var(&n, "n", 256, "alphabet size (excluding EOF/ESC)")
	cmd.Flags().UintVar(&w, "w", 32, "arithmetic coder precision in bits")
	cmd.Flags().StringVar(&countsPath, "counts", "", "seed order-0 counts from this file")
	cmd.Flags().StringVar(&configPath, "config", "", "load K/N/W and seeds from a TOML config file")
	cmd.Flags().BoolVar(&shrink, "shrink", false, "use the 66-symbol shift-coded byte alphabet")
	cmd.Flags().IntVar(&parallelism, "parallelism", 4, "maximum number of files encoded concurrently")

	return cmd
}

func encodeFile(cfg ppmac.Config, seeds []ppmac.SeedEntry, countsPath string, shrink bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	m, err := ppmac.NewModel(cfg)
	if err != nil {
		return err
	}

	for _, s := range seeds {
		m.Seed(s.Symbol, s.Count)
	}
	if countsPath != "" {
		if err := ppmac.LoadCountsFile(m, cfg, countsPath); err != nil {
			return err
		}
	}

	enc, err := ppmac.NewEncoder(cfg, m)
	if err != nil {
		return err
	}

	if shrink {
		var symbols []int32
		for _, b := range data {
			symbols = ppmac.ShrinkSymbols(symbols, b)
		}
		for _, sym := range symbols {
			if err := enc.Encode(sym); err != nil {
				return err
			}
		}
	} else {
		for _, b := range data {
			if err := enc.Encode(int32(b)); err != nil {
				return err
			}
		}
	}
	if err := enc.Encode(cfg.EOF()); err != nil {
		return err
	}
	out := enc.Conclude()

	stem := strings.TrimSuffix(path, filepath.Ext(path))
	return os.WriteFile(stem+".lz", out, 0o644)
}
