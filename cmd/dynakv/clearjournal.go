package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearJournalCmd = &cobra.Command{
	Use:   "clear-journal <base-key-hex>",
	Short: "Drain and apply any outstanding journal found under base-key-hex",
	Long: `clear-journal replays any journal header and block entries found
under base-key-hex to completion, applying every block's operations, then
removes the journal. It is a no-op if the region has no outstanding
journal. WriteBatch already does this before every write; run it directly
to make a region consistent ahead of a read, or as an explicit startup
step before serving traffic against a table that may have been left
mid-write.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseKey, err := decodeHex(args[0])
		if err != nil {
			return fmt.Errorf("base key: %w", err)
		}

		client, closeFn, err := buildClient(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		return client.ClearJournal(cmd.Context(), baseKey)
	},
}
