package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <prefix>",
	Short: "List every key/value pair whose key starts with prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeFn, err := buildClient(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		prefix := []byte(args[0])
		pairs, err := client.FindKeyValuesByPrefix(cmd.Context(), prefix)
		if err != nil {
			return err
		}
		for pairs.Next() {
			key, value, err := pairs.KeyValue()
			if err != nil {
				return err
			}
			fmt.Printf("%s%s\t%s\n", prefix, key, value)
		}
		return nil
	},
}
