// Command batch-update applies a device, site and activity job file to one
// tenant.
//
//	batch-update jobs/relocate.yaml
//	batch-update --tenant kcca --concurrency 4 jobs/relocate.json
//	batch-update --dry-run jobs/relocate.yaml
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/airqo/platform/api/internal/batch"
	"github.com/airqo/platform/api/internal/config"
	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/repository"
	"github.com/airqo/platform/api/internal/tenant"
	"github.com/spf13/cobra"
)

type options struct {
	tenant      string
	concurrency int
	dryRun      bool
	verbose     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "batch-update <job-file>",
		Short:        "Apply device, site and activity updates from a job file",
		Long:         "Reads a YAML or JSON job file and applies each {filter, update} item to the tenant's registry with bounded concurrency.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.tenant, "tenant", "", "tenant to update (overrides the job file)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "items applied at once (overrides the job file)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "validate and print the items without applying them")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every item")
	return cmd
}

func run(ctx context.Context, out io.Writer, path string, opts options) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	job, err := batch.LoadJob(path)
	if err != nil {
		return err
	}
	if opts.tenant != "" {
		job.Tenant = opts.tenant
	}
	concurrency := cfg.Batch.Concurrency
	if job.Concurrency > 0 {
		concurrency = job.Concurrency
	}
	if opts.concurrency > 0 {
		concurrency = opts.concurrency
	}

	resolver, err := tenant.NewResolver(cfg.Tenancy.Default, cfg.Tenancy.Allowed)
	if err != nil {
		return err
	}
	t, err := resolver.Resolve(job.Tenant)
	if err != nil {
		return err
	}

	items := job.Items()
	if opts.dryRun {
		return printPlan(out, t, items)
	}

	pool := database.NewPool(database.PoolConfig{
		Base: database.Config{
			Host:      cfg.Database.Host,
			Port:      cfg.Database.Port,
			User:      cfg.Database.User,
			Password:  cfg.Database.Password,
			Namespace: cfg.Database.Namespace,
		},
		Migrate: cfg.Database.Migrate,
	})
	defer func() { _ = pool.Close() }()

	runner := batch.NewRunner(batch.RunnerConfig{
		Modifiers: map[model.RegistryKind]batch.Modifier{
			model.KindDevice:   batch.ModifyFunc(repository.NewDeviceRepository(pool).Modify),
			model.KindSite:     batch.ModifyFunc(repository.NewSiteRepository(pool).Modify),
			model.KindActivity: batch.ModifyFunc(repository.NewActivityRepository(pool).Modify),
		},
		Concurrency: concurrency,
		Logger:      logger,
	})

	logger.Info("batch started", "tenant", t, "items", len(items), "concurrency", concurrency)
	report, err := runner.Run(ctx, t, items)
	fmt.Fprintln(out, report)
	for _, o := range report.Failures() {
		fmt.Fprintf(out, "  %s %s: %v\n", o.Status(), o.Item, o.Err)
	}
	if err != nil {
		return fmt.Errorf("%d of %d items not applied", report.Counts.Total()-report.Counts.Updated, report.Counts.Total())
	}
	return nil
}

// printPlan lists the translated items. Invalid items fail the run.
func printPlan(out io.Writer, t tenant.ID, items []batch.Item) error {
	invalid := 0
	fmt.Fprintf(out, "tenant %s: %d items\n", t, len(items))
	for _, item := range items {
		filter, update, errs := item.Kind.Translate(item.BatchItem)
		if len(errs) > 0 {
			invalid++
			fmt.Fprintf(out, "  invalid %s: %v\n", item, model.FieldErrors(errs))
			continue
		}
		fmt.Fprintf(out, "  %s: where %v set %v\n", item, map[string]interface{}(filter), update.Set)
	}
	if invalid > 0 {
		return fmt.Errorf("%d invalid items", invalid)
	}
	return nil
}
