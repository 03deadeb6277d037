package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/logger"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	fs := flag.NewFlagSet("raytracer-web", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Parse(os.Args[1:])

	cfg, err := flags.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webServer := server.NewServer(cfg, logger.Named("web"))
	logger.Info("whitted raytracer web server", zap.String("addr", cfg.Server.Addr), zap.String("scenes", cfg.Scene.Dir))

	if err := webServer.Start(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
