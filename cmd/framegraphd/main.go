package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danmuck/framegraph/internal/auth"
	"github.com/danmuck/framegraph/internal/config"
	"github.com/danmuck/framegraph/internal/framegraph"
	"github.com/danmuck/framegraph/internal/geom"
	"github.com/danmuck/framegraph/internal/logging"
	"github.com/danmuck/framegraph/internal/observability"
	"github.com/danmuck/framegraph/internal/plugins"
	"github.com/danmuck/framegraph/internal/server"
	"github.com/rs/zerolog/log"
)

func main() {
	logging.ConfigureRuntime()

	configPath := flag.String("config", "configs/framegraphd.toml", "path to a framegraphd TOML config file")
	flag.Parse()

	cfg := config.DefaultServerConfig()
	if loaded, err := config.LoadServerConfig(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("no usable config file, running with defaults")
	} else {
		cfg = loaded
	}

	graph := framegraph.New()
	validator := validatorFor(cfg)

	srv := server.New(graph, validator, cfg.CorsOrigins, observability.Logger())

	registry := plugins.NewRegistry()
	odomSrc, err := wireOdometrySource(graph, registry, cfg.Odometry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to wire odometry source")
	}
	if odomSrc != nil {
		odomDone := make(chan struct{})
		go driveOdometrySource(odomSrc, odomDone)
		defer close(odomDone)
	}

	pump := plugins.NewPump(graph, registry, observability.Logger())
	pumpDone := make(chan struct{})
	go pump.Run(pumpDone, 100*time.Millisecond)
	defer close(pumpDone)

	httpServer := &http.Server{Addr: cfg.Addr, Handler: srv.Router()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("framegraphd listening")
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("framegraphd stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("framegraphd shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
			os.Exit(1)
		}
	}
}

func validatorFor(cfg config.ServerConfig) auth.Validator {
	if cfg.AdminToken == "" {
		return auth.NoAuth{}
	}
	return auth.StaticToken{Token: cfg.AdminToken}
}

// wireOdometrySource seeds a frame for cfg.Frame under root and
// registers a DiffDriveOdometry-backed PoseSource driving it into
// registry. It returns nil, nil if cfg.Frame is empty.
func wireOdometrySource(graph *framegraph.FrameGraph, registry *plugins.Registry, cfg config.OdometryConfig) (*plugins.OdometrySource, error) {
	if cfg.Frame == "" {
		return nil, nil
	}
	if _, err := graph.AddFrame("/", cfg.Frame, geom.IdentityPose3); err != nil {
		return nil, err
	}

	odometry := geom.NewDiffDriveOdometry(cfg.WindowSize)
	odometry.SetWheelParams(cfg.WheelSeparation, cfg.LeftWheelRadius, cfg.RightWheelRadius)
	odometry.Init(time.Now())

	src := plugins.NewOdometrySource("/"+cfg.Frame, odometry)
	registry.Register(src)
	return src, nil
}

// driveOdometrySource feeds a steady differential wheel motion into
// src until done is closed, standing in for a real wheel encoder feed.
func driveOdometrySource(src *plugins.OdometrySource, done <-chan struct{}) {
	const (
		tick      = 50 * time.Millisecond
		leftRate  = 1.0 // radians/second
		rightRate = 1.05
	)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var leftPos, rightPos float64
	for {
		select {
		case <-done:
			return
		case t := <-ticker.C:
			leftPos += leftRate * tick.Seconds()
			rightPos += rightRate * tick.Seconds()
			src.Update(leftPos, rightPos, t)
		}
	}
}
