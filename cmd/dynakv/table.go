package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/dynakv/pkg/config"
	"github.com/cuemby/dynakv/pkg/store"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage the backing table",
}

var tableCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the backing table if it does not already exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, _ := cmd.Flags().GetString("table")
		region, _ := cmd.Flags().GetString("region")
		endpoint, _ := cmd.Flags().GetString("endpoint")
		if table == "" {
			return fmt.Errorf("--table is required")
		}
		if err := store.ValidateTableName(table); err != nil {
			return err
		}

		cfg := config.Config{Table: table, Region: region, Endpoint: endpoint}
		api, err := config.NewDynamoDBClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		status, err := store.EnsureTable(cmd.Context(), api, table)
		if err != nil {
			return err
		}
		fmt.Printf("table %q %s\n", table, status)
		return nil
	},
}

func init() {
	tableCmd.AddCommand(tableCreateCmd)
}
