package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/stahnma/puppet-dashboard/internal/api"
	"github.com/stahnma/puppet-dashboard/internal/config"
	"github.com/stahnma/puppet-dashboard/internal/db"
	"github.com/stahnma/puppet-dashboard/internal/logging"
	"github.com/stahnma/puppet-dashboard/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}
	logger := logging.New(cfg.Env, cfg.LogLevel, cfg.LogJSON)

	resolver := version.NewResolver()
	resolver.Describer = version.GitDescriber{Binary: cfg.GitBinary}
	resolver.Timeout = cfg.DescribeTimeout
	resolver.Logger = logger
	appVersion := version.NewOnce(resolver, cfg.RootDir).Get(context.Background())

	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Println(appVersion.String())
		return
	}
	logger.Info("dashboard version", "version", appVersion.String(), "source", appVersion.Source, "root", cfg.RootDir)

	gdb, err := db.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to init db", "error", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := db.RecordBoot(ctx, gdb, appVersion); err != nil {
		logger.Error("failed to record boot", "error", err)
	}

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.HttpPort,
		Handler:           api.Router(appVersion, gdb, logger),
		ReadHeaderTimeout: 15 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("server stopping")
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Fatal("server error", "error", err)
	}
}
