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

func newDecodeCmd() *cobra.Command {
	var (
		k           int
		n           int32
		w           uint
		configPath  string
		shrink      bool
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "decode <input.lz> [inputs...]",
		Short: "Decompress one or more files",
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
				logger.Printf("decoding %s", path)
				return decodeFile(cfg, seeds, shrink, path)
			})
		},
	}

	cmd.Flags().IntVar(&k, "k", 5, "maximum PPM context order")
	cmd.Flags().Int32Var(&n, "n", 256, "alphabet size (excluding EOF/ESC)")
	cmd.Flags().UintVar(&w, "w", 32, "arithmetic coder precision in bits")
	cmd.Flags().StringVar(&configPath, "config", "", "load K/N/W and seeds from a TOML config file")
	cmd.Flags().BoolVar(&shrink, "shrink", false, "assume the 66-symbol shift-coded byte alphabet")
	cmd.Flags().IntVar(&parallelism, "parallelism", 4, "maximum number of files decoded concurrently")

	return cmd
}

func decodeFile(cfg ppmac.Config, seeds []ppmac.SeedEntry, shrink bool, path string) error {
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

	dec, err := ppmac.NewDecoder(cfg, m, data)
	if err != nil {
		return err
	}

	var out []byte
	unshift := ppmac.NewShrinkUnshifter()
	for {
		sym, err := dec.Decode()
		if err != nil {
			return err
		}
		if sym == cfg.EOF() {
			break
		}
		if shrink {
			if b, ok := unshift.Feed(sym); ok {
				out = append(out, b)
			}
			continue
		}
		out = append(out, byte(sym))
	}

	stem := strings.TrimSuffix(path, filepath.Ext(path))
	return os.WriteFile(stem+"-decoded", out, 0o644)
}
