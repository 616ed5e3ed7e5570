// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"go.autosurface.dev/render/chooser"
	"go.autosurface.dev/render/config"
	"go.autosurface.dev/render/core"
	"go.autosurface.dev/render/egl/softegl"
	"go.autosurface.dev/render/host"
	"go.autosurface.dev/render/logging"
	"go.autosurface.dev/render/rapi"
	"go.autosurface.dev/render/surfacerenderer"
)

type options struct {
	LogLevel       string        `long:"log-level" description:"log level, overrides the config file"`
	Config         string        `long:"config" description:"TOML config file"`
	WriteConfig    string        `long:"write-config" description:"write the effective config to this file and exit"`
	Addr           string        `long:"addr" description:"control API listen address"`
	Width          int           `long:"width" description:"initial surface width"`
	Height         int           `long:"height" description:"initial surface height"`
	Mode           string        `long:"mode" description:"render mode: continuous or when-dirty"`
	RenderInterval time.Duration `long:"render-interval" description:"request a frame at this interval in when-dirty mode"`
}

func main() {
	opts := getCLIArgs()
	cfg := getConfig(opts)
	if err := logging.SetLogLevel(cfg.LogLevel); err != nil {
		log.WithError(err).Fatal("Failed to set log level")
	}

	if opts.WriteConfig != "" {
		if err := cfg.Write(opts.WriteConfig); err != nil {
			log.WithError(err).Fatal("Failed to write config")
		}
		return
	}

	controller := host.NewController(softegl.New(), cfg.ContextVersion, cfg.Mode(),
		surfacerenderer.WithRenderer(&spinner{}),
		surfacerenderer.WithConfigChooser(chooser.NewComponentSizeChooser(
			cfg.Buffer.Red, cfg.Buffer.Green, cfg.Buffer.Blue, cfg.Buffer.Alpha,
			cfg.Buffer.Depth, cfg.Buffer.Stencil)),
		surfacerenderer.WithPreserveContextOnPause(cfg.PreserveContextOnPause),
		surfacerenderer.WithDebugFlags(cfg.DebugFlags()))
	sim := host.NewSimulator(controller)

	server := newServer(cfg.Address, sim)
	if err := server.Listen(); err != nil {
		log.WithError(err).Fatal("Failed to listen")
	}
	if err := sim.Attach(cfg.Width, cfg.Height); err != nil {
		log.WithError(err).Fatal("Failed to attach surface")
	}
	log.Infof("Control API available at %s", server.URL("/state"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(ctx)
	})
	if opts.RenderInterval > 0 {
		g.Go(func() error {
			requestFrames(ctx, sim, opts.RenderInterval)
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("Control API Server failed")
	}
	if err := sim.Detach(); err != nil && !errors.Is(err, host.ErrNoSurface) {
		log.WithError(err).Warn("Failed to detach surface")
	}
	if err := controller.Err(); err != nil {
		log.WithError(err).Error("Renderer stopped with error")
		os.Exit(1)
	}
}

func getCLIArgs() options {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(os.Args[1:]); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}
	return opts
}

// getConfig loads the config file, if any, and applies the flags over it.
func getConfig(opts options) config.Config {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			log.WithError(err).Fatal("Failed to load config")
		}
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.Addr != "" {
		cfg.Address = opts.Addr
	}
	if opts.Width != 0 {
		cfg.Width = opts.Width
	}
	if opts.Height != 0 {
		cfg.Height = opts.Height
	}
	if opts.Mode != "" {
		cfg.RenderMode = opts.Mode
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	return cfg
}

func newServer(address string, sim *host.Simulator) *rapi.Server {
	h, p, err := net.SplitHostPort(address)
	if err != nil {
		log.WithError(err).Fatalf("Invalid address %q", address)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		log.WithError(err).Fatalf("Invalid port %q", p)
	}
	return rapi.NewServer(h, port, sim)
}

// requestFrames drives a when-dirty renderer until ctx is done.
func requestFrames(ctx context.Context, sim *host.Simulator, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r := sim.ActiveRenderer()
			if r == nil || r.RenderMode() != core.WhenDirty {
				continue
			}
			if err := r.RequestRender(); err != nil {
				log.WithError(err).Debug("RequestRender")
			}
		}
	}
}
