package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/observability"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether the local AI fallback is usable",
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadClientConfig(configPath, os.Getenv)
	if err != nil {
		return err
	}

	capability := newProber(cfg, slog.Default()).Probe(cmd.Context())
	if capability.Client != nil {
		defer func() { _ = capability.Client.Close() }()
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintCapability(capability.SDKPresent, capability.ModelReady, capability.Reason)
	return nil
}
