package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/config"
	"github.com/cmlabs-hris/hris-admin-console/internal/datasource"
	appHTTP "github.com/cmlabs-hris/hris-admin-console/internal/handler/http"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notice"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/sse"
	leaveService "github.com/cmlabs-hris/hris-admin-console/internal/service/leave"
	reportService "github.com/cmlabs-hris/hris-admin-console/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel, cfg.App.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := datasource.Open(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open data source", "error", err)
		os.Exit(1)
	}
	defer repos.Close()

	board := notice.NewBoard()
	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	sessions := leaveService.NewSessions(repos.Leaves, board, leaveService.Options{
		TransitionNoticeTTL: cfg.Notice.TransitionTTL,
		CleanupNoticeTTL:    cfg.Notice.CleanupTTL,
	}, cfg.Session.IdleTTL)
	exporter := reportService.NewExporter(repos.Reports)

	scheduler := cron.NewScheduler()
	cron.NewNoticeJobs(board, cfg.Notice.SweepInterval).RegisterJobs(scheduler)
	cron.NewSessionJobs(sessions, cfg.Session.EvictInterval).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	leaveHandler := appHTTP.NewLeaveHandler(sessions)
	reportHandler := appHTTP.NewReportHandler(exporter)
	noticeHandler := appHTTP.NewNoticeHandler(board, hub, JWTService)

	router := appHTTP.NewRouter(
		log,
		cfg.App.FrontendURL,
		JWTService,
		leaveHandler,
		reportHandler,
		noticeHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "data_source", cfg.DataSource)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
