package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/dynakv/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dynakv",
	Short: "dynakv - durable ordered key-value storage adapter",
	Long: `dynakv drives a DynamoDB-compatible backend as an ordered,
crash-safe key-value store, journaling writes that exceed a single
backend transaction so a batch of any size commits atomically.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("dynakv version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("table", "", "Table name (overrides config file)")
	rootCmd.PersistentFlags().String("region", "", "Backend region (overrides config file)")
	rootCmd.PersistentFlags().String("endpoint", "", "Backend endpoint override, for a local emulator")
	rootCmd.PersistentFlags().String("db", "", "Use a local bbolt file instead of DynamoDB (dev/test mode)")
	rootCmd.PersistentFlags().Int("cache-size", 0, "Wrap reads in an LRU cache of this many entries (0 disables caching)")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(clearJournalCmd)
	rootCmd.AddCommand(serveMetricsCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
