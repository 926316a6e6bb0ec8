// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mirror

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"net/textproto"
	"strconv"
)

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

func (m *Mirror) frameChangedLocked() {
	m.snapshot = nil

	for c := range m.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
}

func (m *Mirror) terminateClientsLocked() {
	for c := range m.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
}

// grabSnapshot returns the encoded current frame. The encoding is cached
// until the next Draw, the returned slice must not be modified.
func (m *Mirror) grabSnapshot() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshot == nil {
		var buf bytes.Buffer
		if err := encodeFrame(&buf, m.frame); err != nil {
			return nil, err
		}
		m.snapshot = buf.Bytes()
	}

	return m.snapshot, nil
}

// WritePNG writes the current frame to w as a PNG image.
func (m *Mirror) WritePNG(w io.Writer) error {
	b, err := m.grabSnapshot()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// ServeHTTP handles HTTP GET requests and sends a stream of PNG images
// representing the framebuffer in response. With "?once=1" a single image is
// sent instead.
func (m *Mirror) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		m.log.WithError(err).Warn("Closing request body failed")
	}

	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	once := false
	if v := r.URL.Query().Get("once"); v != "" {
		var err error
		if once, err = strconv.ParseBool(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if once {
		payload, err := m.grabSnapshot()
		if err != nil {
			m.log.WithError(err).Error("Encoding frame failed")
			http.Error(w, "", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
		return
	}

	fw := newFrameWriter(w)

	w.Header().Set("Content-Type",
		mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
			"boundary": fw.boundary,
		}))

	c := &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}

	m.mu.Lock()
	m.clients[c] = struct{}{}
	m.mu.Unlock()

	m.log.WithField("remote", r.RemoteAddr).Debug("Client connected")

	defer func() {
		m.mu.Lock()
		delete(m.clients, c)
		m.mu.Unlock()
		m.log.WithField("remote", r.RemoteAddr).Debug("Client disconnected")
	}()

	partHeaders := make(textproto.MIMEHeader)
	partHeaders.Set("Content-Type", "image/png")
	partHeaders.Set("Content-Transfer-Encoding", "binary")

	for {
		payload, err := m.grabSnapshot()
		if err != nil {
			m.log.WithError(err).Error("Encoding frame failed")
			return
		}

		// Errors silently end the request, there is no way to report them
		// within an image stream.
		if err := fw.writeFrame(partHeaders, payload); err != nil {
			return
		}

		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		select {
		case <-c.refresh:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}
