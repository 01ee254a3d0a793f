package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// logger is shared by all subcommands; by default it discards
// everything and only writes somewhere when --debug-log names a file.
var logger = log.New(io.Discard, "ppmac: ", log.LstdFlags)

func newRootCmd() *cobra.Command {
	var debugLog string

	root := &cobra.Command{
		Use:           "ppmac",
		Short:         "PPM + arithmetic coding entropy codec",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debugLog == "" {
				return nil
			}
			f, err := os.OpenFile(debugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return err
			}
			logger.SetOutput(f)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&debugLog, "debug-log", "", "write diagnostic logging to this file")

	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())
	return root
}
