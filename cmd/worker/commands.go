package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talenta-backend/internal/domains/ordering"
	"talenta-backend/pkg/container"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type runOptions struct {
	concurrency  int
	healthAddr   string
	noScheduler  bool
	shutdownWait time.Duration
}

func newRunCommand() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process queued tasks and run the maintenance scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.concurrency, "concurrency", 0, "worker concurrency (defaults to WORKER_CONCURRENCY)")
	flags.StringVar(&opts.healthAddr, "health-addr", ":9999", "listen address of the health endpoint")
	flags.BoolVar(&opts.noScheduler, "no-scheduler", false, "do not register periodic jobs")
	flags.DurationVar(&opts.shutdownWait, "shutdown-timeout", 30*time.Second, "time to wait for running tasks on shutdown")
	return cmd
}

func run(opts runOptions) error {
	c, err := container.NewContainer()
	if err != nil {
		return fmt.Errorf("initialize container: %w", err)
	}
	defer c.Cleanup()

	if opts.concurrency <= 0 {
		opts.concurrency = c.Config.Queue.Concurrency
	}

	handlers := initializeHandlers(c)
	srv := setupAsynqServer(c, opts, handlers)

	var scheduler *asynqScheduler
	if !opts.noScheduler {
		if scheduler, err = setupScheduler(c); err != nil {
			srv.Shutdown()
			return err
		}
	}

	if err := startServices(c, opts.healthAddr); err != nil {
		srv.Shutdown()
		if scheduler != nil {
			scheduler.Shutdown()
		}
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Worker shutting down")
	if scheduler != nil {
		scheduler.Shutdown()
	}
	srv.Shutdown()
	return nil
}

func newDensifyCommand() *cobra.Command {
	var tables []string

	cmd := &cobra.Command{
		Use:   "densify",
		Short: "Renumber every gapped sibling collection 1..N",
		RunE: func(cmd *cobra.Command, _ []string) error {
			selected, err := selectTables(tables)
			if err != nil {
				return err
			}

			c, err := container.NewContainer()
			if err != nil {
				return fmt.Errorf("initialize container: %w", err)
			}
			defer c.Cleanup()

			return densify(cmd.Context(), c.Ordering, selected)
		},
	}

	cmd.Flags().StringSliceVar(&tables, "table", nil, "tables to repair (chapters, audio_chapters, audio_parts); all when empty")
	return cmd
}

var orderedTables = []ordering.Table{ordering.Chapters, ordering.AudioChapters, ordering.AudioParts}

func selectTables(names []string) ([]ordering.Table, error) {
	if len(names) == 0 {
		return orderedTables, nil
	}

	var out []ordering.Table
	for _, name := range names {
		found := false
		for _, t := range orderedTables {
			if t.Name == name {
				out = append(out, t)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown table %q", name)
		}
	}
	return out, nil
}

// densifier is satisfied by *ordering.Store.
type densifier interface {
	DensifyAll(ctx context.Context, t ordering.Table) (int, error)
}

func densify(ctx context.Context, store densifier, tables []ordering.Table) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, t := range tables {
		n, err := store.DensifyAll(ctx, t)
		if err != nil {
			return fmt.Errorf("densify %s: %w", t.Name, err)
		}
		log.Info().Str("table", t.Name).Int("parents", n).Msg("Densify completed")
	}
	return nil
}
