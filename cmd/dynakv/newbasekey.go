package main

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var newBaseKeyCmd = &cobra.Command{
	Use:   "new-base-key",
	Short: "Print a fresh random base key, hex-encoded, for use with put/clear-journal",
	Long: `new-base-key generates a random 16-byte base key from a UUIDv4,
for callers that don't derive their base key from an existing naming
scheme (e.g. a one-off script or an ad-hoc migration) and just need a
namespace for journal bookkeeping that won't collide with another
region's.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id := uuid.New()
		fmt.Println(hex.EncodeToString(id[:]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newBaseKeyCmd)
}
