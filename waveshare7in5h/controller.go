// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5h

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	waitUntilIdle()
	feedWatchdog()
}

// frameChunk is the number of framebuffer bytes sent between two watchdog
// feeds.
const frameChunk = 512

func initDisplay(ctrl controller, opts *Opts) {
	ctrl.sendCommand(panelSetting)
	ctrl.sendData([]byte{0x0F, 0x29})

	ctrl.sendCommand(boosterSoftStart)
	ctrl.sendData([]byte{0x0F, 0x8B, 0x93, 0xA1})

	ctrl.sendCommand(temperatureSensorEnable)
	ctrl.sendData([]byte{0x00})

	ctrl.sendCommand(vcomAndDataInterval)
	ctrl.sendData([]byte{0x37})

	ctrl.sendCommand(tconSetting)
	ctrl.sendData([]byte{0x02, 0x02})

	ctrl.sendCommand(resolutionSetting)
	ctrl.sendData([]byte{
		byte(opts.Width / 256),
		byte(opts.Width % 256),
		byte(opts.Height / 256),
		byte(opts.Height % 256),
	})

	// Undocumented command used in vendor example code.
	ctrl.sendCommand(0x62)
	ctrl.sendData([]byte{0x98, 0x98, 0x98, 0x75, 0xCA, 0xB2, 0x98, 0x7E})

	ctrl.sendCommand(gateSourceStart)
	ctrl.sendData([]byte{0x00, 0x00, 0x00, 0x00})

	// Undocumented command used in vendor example code.
	ctrl.sendCommand(0xE7)
	ctrl.sendData([]byte{0x1C})

	ctrl.sendCommand(powerSaving)
	ctrl.sendData([]byte{0x00})

	// Undocumented command used in vendor example code.
	ctrl.sendCommand(0xE9)
	ctrl.sendData([]byte{0x01})

	ctrl.sendCommand(pllControl)
	ctrl.sendData([]byte{0x08})

	ctrl.sendCommand(powerOn)
	ctrl.waitUntilIdle()
}

// sendFrame streams the packed framebuffer into display RAM.
func sendFrame(ctrl controller, pix []byte) {
	ctrl.sendCommand(dataStartTransmission)

	for len(pix) > 0 {
		n := min(len(pix), frameChunk)
		ctrl.sendData(pix[:n])
		ctrl.feedWatchdog()
		pix = pix[n:]
	}
}

// refreshDisplay drives the panel with the content of display RAM.
func refreshDisplay(ctrl controller) {
	ctrl.sendCommand(displayRefresh)
	ctrl.sendData([]byte{0x00})
	ctrl.waitUntilIdle()
}

// enterDeepSleep powers the panel off. Only a hardware reset wakes it up
// again.
func enterDeepSleep(ctrl controller) {
	ctrl.sendCommand(powerOff)
	ctrl.sendData([]byte{0x00})
	ctrl.waitUntilIdle()

	ctrl.sendCommand(deepSleep)
	ctrl.sendData([]byte{deepSleepCheckCode})
}
