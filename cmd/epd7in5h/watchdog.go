// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// devWatchdog feeds a Linux watchdog device. Any write keeps the timer
// alive; writing 'V' before closing disarms it.
type devWatchdog struct {
	w   io.WriteCloser
	log logrus.FieldLogger
	err error
}

func openWatchdog(path string, log logrus.FieldLogger) (*devWatchdog, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return &devWatchdog{w: f, log: log.WithField("watchdog", path)}, nil
}

// Feed implements waveshare7in5h.Watchdog. Only the first failure is logged.
func (d *devWatchdog) Feed() {
	if _, err := d.w.Write([]byte{0}); err != nil && d.err == nil {
		d.err = err
		d.log.WithError(err).Warn("Feeding watchdog failed")
	}
}

// Close disarms the watchdog.
func (d *devWatchdog) Close() error {
	if _, err := d.w.Write([]byte("V")); err != nil {
		d.w.Close()
		return err
	}
	return d.w.Close()
}
