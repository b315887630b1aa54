package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/dossier/internal/config"
	"github.com/JaimeStill/dossier/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newMigrator resolves the database URL from --dsn or the loaded config.
// The caller must close the returned migrator.
func newMigrator(cmd *cobra.Command) (*migrate.Migrate, error) {
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		dsn = cfg.Database.URL()
	}
	return migrations.New(dsn)
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Apply dossier database migrations",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := ignoreNoChange(m.Up()); err != nil {
			return fmt.Errorf("running up migrations: %w", err)
		}
		fmt.Println("migrations applied successfully")
		return nil
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := ignoreNoChange(m.Down()); err != nil {
			return fmt.Errorf("running down migrations: %w", err)
		}
		fmt.Println("migrations reverted successfully")
		return nil
	},
}

var stepsCmd = &cobra.Command{
	Use:   "steps N",
	Short: "Apply N migrations (negative N reverts)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("steps must be an integer: %w", err)
		}

		m, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := ignoreNoChange(m.Steps(n)); err != nil {
			return fmt.Errorf("running %d steps: %w", n, err)
		}
		fmt.Printf("applied %d migration steps\n", n)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer m.Close()

		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading version: %w", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", v, dirty)
		return nil
	},
}

var forceCmd = &cobra.Command{
	Use:   "force VERSION",
	Short: "Force the recorded version without running migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("version must be an integer: %w", err)
		}

		m, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Force(v); err != nil {
			return fmt.Errorf("forcing version: %w", err)
		}
		fmt.Printf("forced to version %d\n", v)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("dsn", "", "postgres:// URL (defaults to the loaded config)")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(forceCmd)
}
