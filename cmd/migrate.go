package cmd

import (
	"careerlink/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.ConnectDb(cfg)
		if err != nil {
			return err
		}
		return database.Migrate(db)
	},
}
