package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"courses-backend/config"
	"courses-backend/database"
)

var fresh bool

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and seed initial data",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		db, err := database.InitDB(cfg)
		if err != nil {
			color.Red("Cannot connect to database: %v", err)
			os.Exit(1)
		}

		if fresh {
			if err := database.Reset(db); err != nil {
				color.Red("Reset failed: %v", err)
				os.Exit(1)
			}
			color.Green("Database reset and migrated")
			return
		}

		if err := database.Migrate(db); err != nil {
			color.Red("Migration failed: %v", err)
			os.Exit(1)
		}
		color.Green("Database migrated")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().BoolVar(&fresh, "fresh", false, "Drop all tables before migrating (default: false)")
}
