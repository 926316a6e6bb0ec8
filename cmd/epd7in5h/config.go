// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/epaper/canvas"
)

// config is read from an optional YAML file, then overridden by the flags
// given on the command line.
type config struct {
	SPI   string `yaml:"spi"`
	DC    string `yaml:"dc"`
	CS    string `yaml:"cs"`
	Reset string `yaml:"reset"`
	Busy  string `yaml:"busy"`

	Interval    time.Duration `yaml:"interval"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
	Watchdog    string        `yaml:"watchdog"`

	Title    string   `yaml:"title"`
	Lines    []string `yaml:"lines"`
	Footer   string   `yaml:"footer"`
	FontSize float64  `yaml:"font_size"`
	Border   bool     `yaml:"border"`

	Preview bool   `yaml:"preview"`
	Scale   int    `yaml:"scale"`
	HTTP    string `yaml:"http"`

	LogLevel string `yaml:"log_level"`
}

func defaultConfig() *config {
	// Pins of the Waveshare e-Paper HAT.
	return &config{
		DC:       "GPIO25",
		CS:       "GPIO8",
		Reset:    "GPIO17",
		Busy:     "GPIO24",
		Title:    "periph",
		Lines:    []string{"Hello from periph!"},
		Footer:   "2006-01-02 15:04",
		Scale:    10,
		LogLevel: "info",
	}
}

// load merges the YAML document read from r into c. Unknown keys are
// rejected to catch typos.
func (c *config) load(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *config) validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", c.Interval)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("busy_timeout must not be negative, got %s", c.BusyTimeout)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %d", c.Scale)
	}
	if !c.Preview && (c.DC == "" || c.Busy == "") {
		return errors.New("the dc and busy pins are required")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c *config) layout() *canvas.Layout {
	return &canvas.Layout{
		Title:    c.Title,
		Lines:    c.Lines,
		Footer:   c.Footer,
		FontSize: c.FontSize,
		Border:   c.Border,
	}
}

// String returns the config as YAML.
func (c *config) String() string {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err.Error()
	}
	_ = enc.Close()
	return buf.String()
}

// parseConfig builds the configuration from the command line arguments.
// Flags take precedence over the file named by -config.
func parseConfig(args []string, output io.Writer) (*config, error) {
	c := defaultConfig()

	fs := flag.NewFlagSet("epd7in5h", flag.ContinueOnError)
	fs.SetOutput(output)

	path := fs.String("config", "", "YAML configuration file")
	text := fs.String("text", "", "Body text, lines separated by |")
	dump := fs.Bool("dump-config", false, "Print the effective configuration and exit")
	fs.StringVar(&c.SPI, "spi", c.SPI, "SPI port to use (default: first available)")
	fs.StringVar(&c.DC, "dc", c.DC, "Data/Command GPIO pin")
	fs.StringVar(&c.CS, "cs", c.CS, "Chip select GPIO pin, empty when driven by the SPI port")
	fs.StringVar(&c.Reset, "reset", c.Reset, "Reset GPIO pin, empty when not wired")
	fs.StringVar(&c.Busy, "busy", c.Busy, "Busy GPIO pin")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "Update the panel at this interval, 0 updates once")
	fs.DurationVar(&c.BusyTimeout, "busy-timeout", c.BusyTimeout, "Give up waiting on the busy line after this long, 0 waits forever")
	fs.StringVar(&c.Watchdog, "watchdog", c.Watchdog, "Watchdog device fed during updates, e.g. /dev/watchdog")
	fs.StringVar(&c.Title, "title", c.Title, "Title printed on a red band")
	fs.StringVar(&c.Footer, "footer", c.Footer, "Time layout printed in the bottom right corner")
	fs.Float64Var(&c.FontSize, "font-size", c.FontSize, "Body font size in points")
	fs.BoolVar(&c.Border, "border", c.Border, "Draw a yellow border")
	fs.BoolVar(&c.Preview, "preview", c.Preview, "Print to the terminal instead of driving the panel")
	fs.IntVar(&c.Scale, "scale", c.Scale, "Pixels per terminal cell in preview mode")
	fs.StringVar(&c.HTTP, "http", c.HTTP, "Serve a live copy of the panel on this address, e.g. :8080")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if *path != "" {
		f, err := os.Open(*path)
		if err != nil {
			return nil, err
		}
		err = c.load(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", *path, err)
		}
		// Parse again so that the flags win.
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
	}

	if *text != "" {
		c.Lines = strings.Split(*text, "|")
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	if *dump {
		fmt.Fprint(output, c)
		return nil, errDumped
	}
	return c, nil
}

// errDumped stops the program after -dump-config.
var errDumped = errors.New("configuration dumped")
