package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"moodjournal/internal/db"
	"moodjournal/internal/logger"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:   "journalctl",
	Short: "Operator tooling for the mood journal database",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(true, "")
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func openDB() (*sqlx.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database url is required (--database-url or DATABASE_URL)")
	}
	return db.Open(databaseURL, 2)
}

func main() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")
	rootCmd.AddCommand(migrateCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
