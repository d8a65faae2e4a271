package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/untoldecay/Catnip/internal/config"
	"github.com/untoldecay/Catnip/internal/storage/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.GetString("db")
		store, err := sqlite.New(cmd.Context(), dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		fmt.Printf("schema applied: %s\n", store.Path())
		return nil
	},
}
