// Command worker consumes evidence jobs from the shared queue and runs
// maintenance against the evidence tables.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/dossier/internal/api"
	"github.com/JaimeStill/dossier/internal/config"
	"github.com/JaimeStill/dossier/internal/infrastructure"
	"github.com/JaimeStill/dossier/pkg/queue"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	domain *api.Domain
}

func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := infra.Start(); err != nil {
		return nil, err
	}
	infra.Lifecycle.WaitForStartup()

	return &app{
		cfg:    cfg,
		infra:  infra,
		domain: api.NewDomain(api.NewRuntime(cfg, infra)),
	}, nil
}

var rootCmd = &cobra.Command{
	Use:          "worker",
	Short:        "Background job processing for dossier",
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Consume queued jobs until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		logger := a.infra.Logger

		cfg := a.cfg.Queue.Config
		if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
			cfg.Workers = n
		}

		if requeue, _ := cmd.Flags().GetBool("recover"); requeue {
			n, err := a.infra.Queue.Recover(a.infra.Lifecycle.Context())
			if err != nil {
				return fmt.Errorf("recovering jobs: %w", err)
			}
			logger.Info("recovered unacknowledged jobs", "count", n)
		}

		queue.NewPool(a.infra.Queue, a.domain.Jobs(), &cfg, logger).Start(a.infra.Lifecycle)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("initiating shutdown")
		return a.infra.Lifecycle.Shutdown(a.cfg.ShutdownTimeoutDuration())
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Mark evidence stuck in pending or processing as failed",
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")
		if olderThan <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.infra.Lifecycle.Shutdown(a.cfg.ShutdownTimeoutDuration())

		n, err := a.domain.Evidence.Reconcile(cmd.Context(), olderThan)
		if err != nil {
			return fmt.Errorf("reconciling evidence: %w", err)
		}

		fmt.Printf("marked %d evidence rows failed\n", n)
		return nil
	},
}

func init() {
	runCmd.Flags().Int("workers", 0, "Concurrent consumers (defaults to the queue config)")
	runCmd.Flags().Bool("recover", true, "Requeue unacknowledged jobs before consuming")
	reconcileCmd.Flags().Duration("older-than", time.Hour, "Age after which an unfinished evidence row is failed")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reconcileCmd)
}
