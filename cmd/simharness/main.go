// Command simharness generates Shadow-style simulation host manifests
// from an experiment-description config, and analyzes the resulting
// per-node daemon logs after a run completes.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rootCmd := &cobra.Command{Use: "simharness"}
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(serveCmd())
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("simharness: command failed")
		os.Exit(1)
	}
}
