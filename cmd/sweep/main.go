package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/BruksfildServices01/clinic-scheduler/internal/app"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// sweep is the cron entry point: cancel unpaid requests past their deadline
// and complete appointments whose slot has passed.
func main() {
	dryRun := pflag.Bool("dry-run", false, "report what would change without writing")
	force := pflag.Bool("force", false, "run even if another sweep ran within the interval")
	timeout := pflag.Duration("timeout", 2*time.Minute, "give up after this long")
	pflag.Parse()

	cfg := config.Load()
	logger.Init(os.Stderr, cfg.LogLevel)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.Fatal("database unavailable", "error", err)
	}

	a := app.New(cfg, db)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	code := run(ctx, os.Stdout, a.Sweep, a.Gate, *dryRun, *force)
	cancel()
	a.Close()
	os.Exit(code)
}

type sweeper interface {
	Preview(ctx context.Context) (ucAppointment.SweepPreview, error)
	Execute(ctx context.Context) (ucAppointment.SweepResult, error)
}

type gate interface {
	Run(ctx context.Context) (bool, ucAppointment.SweepResult, error)
}

// run returns the process exit code. Any sweep or marker failure is 1 so
// cron sees it.
func run(ctx context.Context, out io.Writer, sw sweeper, g gate, dryRun, force bool) int {
	if dryRun {
		preview, err := sw.Preview(ctx)
		if err != nil {
			logger.Error("sweep preview failed", "error", err)
			return 1
		}
		for _, ap := range preview.Cancel {
			fmt.Fprintf(out, "would cancel   #%d (deadline %s)\n", ap.ID, ap.PaymentDeadline.Format(time.RFC3339))
		}
		for _, ap := range preview.Complete {
			fmt.Fprintf(out, "would complete #%d\n", ap.ID)
		}
		fmt.Fprintf(out, "dry run: %d to cancel, %d to complete\n", len(preview.Cancel), len(preview.Complete))
		return 0
	}

	var (
		res ucAppointment.SweepResult
		err error
	)
	if force {
		res, err = sw.Execute(ctx)
	} else {
		var ran bool
		ran, res, err = g.Run(ctx)
		if err == nil && !ran {
			fmt.Fprintln(out, "sweep skipped: ran within the interval")
			return 0
		}
	}
	if err != nil {
		logger.Error("sweep failed", "error", err)
		return 1
	}

	fmt.Fprintf(out, "cancelled %d, completed %d\n", res.Cancelled, res.Completed)
	return 0
}
