package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/baharkarakas/finflow-backend/internal/app"
	"github.com/baharkarakas/finflow-backend/internal/config"
	"github.com/baharkarakas/finflow-backend/internal/logger"
	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/report"
	"github.com/baharkarakas/finflow-backend/internal/repository"
	"github.com/baharkarakas/finflow-backend/internal/seed"
	"github.com/baharkarakas/finflow-backend/internal/services"
	"github.com/baharkarakas/finflow-backend/internal/worker"
)

type rootOpts struct {
	configFile string
	store      string
}

// openFunc is swapped in tests.
type openFunc func(ctx context.Context, cfg config.Config) (repository.Set, func(), error)

func newRootCmd() *cobra.Command {
	return buildRoot(app.OpenStore)
}

func buildRoot(open openFunc) *cobra.Command {
	opts := &rootOpts{}
	root := &cobra.Command{
		Use:           "finflowctl",
		Short:         "Inspect and seed finflow transaction stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (overrides CONFIG_FILE)")
	root.PersistentFlags().StringVar(&opts.store, "store", "", "store mode: memory|mongodb|postgres|dynamodb")

	root.AddCommand(
		seedCmd(opts, open),
		transactionsCmd(opts, open),
		summaryCmd(opts, open),
	)
	return root
}

func (o *rootOpts) load(ctx context.Context, open openFunc) (config.Config, repository.Set, func(), error) {
	path := o.configFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return cfg, repository.Set{}, nil, err
	}
	if o.store != "" {
		cfg.StoreMode = o.store
	}
	slog.SetDefault(logger.NewWithWriter(cfg.Env, os.Stderr))
	set, closeFn, err := open(ctx, cfg)
	if err != nil {
		return cfg, repository.Set{}, nil, err
	}
	return cfg, set, closeFn, nil
}

func seedCmd(opts *rootOpts, open openFunc) *cobra.Command {
	var random int
	var rngSeed uint64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo user, accounts and transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, set, closeFn, err := opts.load(cmd.Context(), open)
			if err != nil {
				return err
			}
			defer closeFn()

			wp := worker.NewPool(cfg.Workers)
			defer wp.Stop()
			rep, err := seed.Load(cmd.Context(), set, seed.Demo(time.Now(), random, rngSeed), wp)
			fmt.Fprintf(cmd.OutOrStdout(), "user %s: %d users, %d accounts, %d transactions, %d failed\n",
				seed.DemoUserID, rep.Users, rep.Accounts, rep.Transactions, rep.Failed)
			return err
		},
	}
	cmd.Flags().IntVar(&random, "random", seed.DefaultRandom, "number of random transactions")
	cmd.Flags().Uint64Var(&rngSeed, "seed", 1, "random generator seed")
	return cmd
}

func transactionsCmd(opts *rootOpts, open openFunc) *cobra.Command {
	var (
		userID string
		q      models.TransactionQuery
		typ    string
		rng    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List transactions newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, set, closeFn, err := opts.load(cmd.Context(), open)
			if err != nil {
				return err
			}
			defer closeFn()

			q.Type = models.TypeFilter(typ)
			q.DateRange = models.DateRange(rng)
			page := services.NewTransactionService(set.Transactions, time.Now).List(cmd.Context(), userID, q)
			if asJSON {
				return report.JSON(cmd.OutOrStdout(), page)
			}
			report.TransactionTable(cmd.OutOrStdout(), page)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&userID, "user", seed.DemoUserID, "user scope")
	f.StringVar(&q.AccountID, "account", "", "account scope")
	f.StringVar(&q.Search, "search", "", "search description, counterparty and category")
	f.StringVar(&q.Category, "category", "", "exact category")
	f.StringVar(&typ, "type", "all", "all|credit|debit")
	f.StringVar(&rng, "range", "all", "all|week|month|year")
	f.IntVar(&q.Page, "page", models.DefaultPage, "page number")
	f.IntVar(&q.Limit, "limit", models.DefaultLimit, "page size")
	f.BoolVar(&asJSON, "json", false, "print the envelope as JSON")
	return cmd
}

func summaryCmd(opts *rootOpts, open openFunc) *cobra.Command {
	var (
		userID    string
		accountID string
		months    int
		chartPath string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Monthly income and expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, set, closeFn, err := opts.load(cmd.Context(), open)
			if err != nil {
				return err
			}
			defer closeFn()

			rows, err := services.NewTransactionService(set.Transactions, time.Now).
				MonthlySummary(cmd.Context(), userID, accountID, months)
			if err != nil {
				return err
			}
			if asJSON {
				err = report.JSON(cmd.OutOrStdout(), rows)
			} else {
				report.SummaryTable(cmd.OutOrStdout(), rows)
			}
			if err != nil || chartPath == "" {
				return err
			}

			f, err := os.Create(chartPath)
			if err != nil {
				return fmt.Errorf("create chart file: %w", err)
			}
			defer f.Close()
			if err := report.SummaryChart(f, rows); err != nil {
				return fmt.Errorf("render chart: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chart saved to %s\n", chartPath)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&userID, "user", seed.DemoUserID, "user scope")
	f.StringVar(&accountID, "account", "", "account scope")
	f.IntVar(&months, "months", services.DefaultSummaryMonths, "number of months")
	f.StringVar(&chartPath, "chart", "", "write a PNG chart to this path")
	f.BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
