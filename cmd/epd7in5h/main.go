// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// epd7in5h paints a text layout on a Waveshare 7.5 inch (H) e-paper panel.
//
// The panel is updated once, or at every -interval until interrupted. With
// -preview the layout is printed to the terminal instead, and -http serves a
// live copy of what the panel shows.
//
// Usage:
//
//	epd7in5h [-config epd.yaml] [-interval 15m] [-preview] [-http :8080]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/epaper/canvas"
	"github.com/GermanBionicSystems/epaper/mirror"
	"github.com/GermanBionicSystems/epaper/screen2d"
	"github.com/GermanBionicSystems/epaper/waveshare7in5h"
	"github.com/GermanBionicSystems/epaper/waveshare7in5h/image2bit"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, errDumped) {
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "epd7in5h: %v\n", err)
		os.Exit(2)
	}

	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logrus.SetLevel(level)

	if err := mainImpl(cfg, logrus.StandardLogger()); err != nil {
		logrus.WithError(err).Fatal("epd7in5h failed")
	}
}

func mainImpl(cfg *config, log logrus.FieldLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	painter, err := canvas.New(cfg.layout())
	if err != nil {
		return err
	}

	bounds := image.Rect(0, 0, waveshare7in5h.EPD7in5h.Width, waveshare7in5h.EPD7in5h.Height)

	var m *mirror.Mirror
	if cfg.HTTP != "" {
		m = mirror.New(&mirror.Options{Width: bounds.Dx(), Height: bounds.Dy(), Logger: log})
		srv := &http.Server{Addr: cfg.HTTP, Handler: m}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("Mirror server failed")
			}
		}()
		defer func() {
			_ = m.Halt()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
		log.WithField("addr", cfg.HTTP).Info("Serving mirror")
	}

	var update func() error
	if cfg.Preview {
		update, err = previewUpdater(cfg, bounds, painter, m, nil)
	} else {
		var closer func()
		update, closer, err = panelUpdater(cfg, painter, m, log)
		if closer != nil {
			defer closer()
		}
	}
	if err != nil {
		return err
	}

	return run(ctx, cfg.Interval, update, log)
}

// previewUpdater paints into a framebuffer of the panel's size and prints it
// to w, stdout when nil.
func previewUpdater(cfg *config, bounds image.Rectangle, painter *canvas.Painter, m *mirror.Mirror, w io.Writer) (func() error, error) {
	screen, err := screen2d.New(&screen2d.Opts{Width: bounds.Dx(), Height: bounds.Dy(), Scale: cfg.Scale, W: w})
	if err != nil {
		return nil, err
	}
	fb := image2bit.New(bounds)
	return func() error {
		painter.Paint(fb)
		if m != nil {
			if err := m.Draw(bounds, fb, image.Point{}); err != nil {
				return err
			}
		}
		return screen.Draw(bounds, fb, image.Point{})
	}, nil
}

// panelUpdater opens the SPI port and pins and returns a function updating
// the panel. closer releases the port and the watchdog.
func panelUpdater(cfg *config, painter *canvas.Painter, m *mirror.Mirror, log logrus.FieldLogger) (update func() error, closer func(), err error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}

	p, err := spireg.Open(cfg.SPI)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() { p.Close() }}
	closer = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if err != nil {
			closer()
			closer = nil
		}
	}()

	dc, err := lookupPin(cfg.DC, true)
	if err != nil {
		return nil, closer, err
	}
	cs, err := lookupPin(cfg.CS, false)
	if err != nil {
		return nil, closer, err
	}
	rst, err := lookupPin(cfg.Reset, false)
	if err != nil {
		return nil, closer, err
	}
	busy, err := lookupPin(cfg.Busy, true)
	if err != nil {
		return nil, closer, err
	}

	opts := waveshare7in5h.EPD7in5h
	opts.Writer = painter.Paint
	opts.BusyTimeout = cfg.BusyTimeout
	opts.UpdateInterval = cfg.Interval
	opts.Logger = log

	if cfg.Watchdog != "" {
		wd, err := openWatchdog(cfg.Watchdog, log)
		if err != nil {
			return nil, closer, err
		}
		closers = append(closers, func() {
			if err := wd.Close(); err != nil {
				log.WithError(err).Warn("Disarming watchdog failed")
			}
		})
		opts.Watchdog = wd
	}

	// A nil gpio.PinIO must not end up in a non-nil gpio.PinOut.
	var csOut, rstOut gpio.PinOut
	if cs != nil {
		csOut = cs
	}
	if rst != nil {
		rstOut = rst
	}

	dev, err := waveshare7in5h.New(p, dc, csOut, rstOut, busy, &opts)
	if err != nil {
		return nil, closer, err
	}
	if err := dev.Init(); err != nil {
		return nil, closer, err
	}
	dev.LogConfig()

	return func() error {
		if err := dev.Update(); err != nil {
			return err
		}
		if m != nil {
			return m.Draw(dev.Bounds(), dev, image.Point{})
		}
		return nil
	}, closer, nil
}

// lookupPin finds a pin by name. An empty name is only accepted when the pin
// is optional, in which case nil is returned.
func lookupPin(name string, required bool) (gpio.PinIO, error) {
	if name == "" {
		if required {
			return nil, errors.New("missing required pin name")
		}
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

// run calls update once, then at every interval until ctx is done. A zero
// interval runs update only once.
func run(ctx context.Context, interval time.Duration, update func() error, log logrus.FieldLogger) error {
	if err := update(); err != nil {
		return err
	}
	if interval <= 0 {
		return nil
	}

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping")
			return nil
		case <-t.C:
		}
		if err := update(); err != nil {
			return err
		}
	}
}
