package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/dynakv/pkg/store"
)

var putCmd = &cobra.Command{
	Use:   "put <base-key-hex> <key> <value>",
	Short: "Write a single key in one batch, after draining any journal under base-key-hex",
	Long: `put stages a single put operation and commits it through
WriteBatch, which first drains any outstanding journal under
base-key-hex. A single put always fits in one transaction, so it is never
journaled itself — pass the same base key for every batch touching a
related set of keys so recovery can find their journal.`,
	Args: cobra.ExactArgs(3),
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

		batch := store.NewBatch().Put([]byte(args[1]), []byte(args[2]))
		return client.WriteBatch(cmd.Context(), baseKey, batch)
	},
}
