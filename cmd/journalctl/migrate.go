package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moodjournal/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply, roll back or inspect schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()
		return db.RunMigrations(conn.DB)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()
		return db.MigrateDown(conn.DB)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations have been applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()
		return db.MigrationStatus(conn.DB)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo users and entries",
	Long:  `Creates john@example.com and jane@example.com (password "password123") with sample entries. Safe to rerun.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := db.Seed(cmd.Context(), conn); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "seed data inserted")
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}
