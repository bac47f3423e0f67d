package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read a single key's value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeFn, err := buildClient(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		value, err := client.ReadKeyBytes(cmd.Context(), []byte(args[0]))
		if err != nil {
			return err
		}
		if value == nil {
			fmt.Println("(not found)")
			return nil
		}
		fmt.Println(string(value))
		return nil
	},
}
