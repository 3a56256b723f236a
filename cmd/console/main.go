package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/hris-admin-console/internal/config"
	"github.com/cmlabs-hris/hris-admin-console/internal/datasource"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/leave"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/report"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/logger"
	leaveService "github.com/cmlabs-hris/hris-admin-console/internal/service/leave"
	reportService "github.com/cmlabs-hris/hris-admin-console/internal/service/report"
	"github.com/spf13/cobra"
)

// app is filled in by the root command's PersistentPreRunE. Commands that
// need the data source call open; fields already set are kept.
type app struct {
	cfg        *config.Config
	logLevel   string
	jwtService jwt.Service

	repos      *datasource.Repositories
	reconciler leave.LeaveReconciler
	exporter   report.ReportExporter
}

func (a *app) open(ctx context.Context) error {
	if a.reconciler != nil {
		return nil
	}
	repos, err := datasource.Open(ctx, a.cfg)
	if err != nil {
		return err
	}
	a.repos = repos
	a.reconciler = leaveService.NewReconciler(repos.Leaves, nil, leaveService.Options{
		TransitionNoticeTTL: a.cfg.Notice.TransitionTTL,
		CleanupNoticeTTL:    a.cfg.Notice.CleanupTTL,
	})
	a.exporter = reportService.NewExporter(repos.Reports)
	return nil
}

func (a *app) close() {
	if a.repos != nil {
		a.repos.Close()
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "console",
		Short:         "HRIS admin console: leave reconciliation and report export",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg == nil {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				a.cfg = cfg
			}
			if a.jwtService == nil {
				a.jwtService = jwt.NewJWTService(a.cfg.JWT.Secret)
			}
			slog.SetDefault(logger.New(cmd.ErrOrStderr(), a.logLevel, a.cfg.App.Env))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(newLeavesCmd(a))
	cmd.AddCommand(newReportsCmd(a))
	cmd.AddCommand(newTokenCmd(a))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	defer a.close()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		a.close()
		os.Exit(1)
	}
}
