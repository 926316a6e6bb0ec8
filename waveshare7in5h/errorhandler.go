// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5h

import (
	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil || eh.d.rst == nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) cTx(w []byte) {
	for eh.err == nil && len(w) > 0 {
		n := min(len(w), eh.d.maxTxSize)
		eh.err = eh.d.c.Tx(w[:n], nil)
		w = w[n:]
	}
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) csOut(l gpio.Level) {
	if eh.err != nil || eh.d.cs == nil {
		return
	}
	eh.err = eh.d.cs.Out(l)
}

func (eh *errorHandler) busyIn() {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.busy.In(gpio.PullNoChange, gpio.NoEdge)
}

// waitUntilIdle blocks while the panel holds the busy line low. Without a
// BusyTimeout it never gives up.
func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}

	limit := int((eh.d.opts.BusyTimeout + busyPollInterval - 1) / busyPollInterval)

	for polls := 0; eh.d.busy.Read() == gpio.Low; polls++ {
		if limit > 0 && polls >= limit {
			eh.err = ErrBusyTimeout
			return
		}
		eh.d.sleep(busyPollInterval)
		eh.feedWatchdog()
	}
}

func (eh *errorHandler) feedWatchdog() {
	if w := eh.d.opts.Watchdog; w != nil {
		w.Feed()
	}
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{cmd})
	eh.csOut(gpio.High)
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	eh.cTx(data)
	eh.csOut(gpio.High)
}
