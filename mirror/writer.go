// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mirror

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/textproto"
	"sort"
	"strconv"
)

// newBoundary returns a random MIME multipart boundary, within the 70
// character limit of RFC 2046 section 5.1.1.
func newBoundary() string {
	var buf [32]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf[:])
}

// frameWriter writes a never ending multipart body, one frame per part.
// mime/multipart.Writer only emits the boundary of a part when the next one
// starts, which would hold every frame back until the following one.
type frameWriter struct {
	w        io.Writer
	boundary string
	started  bool
	buf      bytes.Buffer
}

func newFrameWriter(w io.Writer) *frameWriter {
	return &frameWriter{w: w, boundary: newBoundary()}
}

// writeFrame sends body as a single part followed by the boundary line, so
// that the client can show it right away. A Content-Length header is added
// to header.
func (f *frameWriter) writeFrame(header textproto.MIMEHeader, body []byte) error {
	header.Set("Content-Length", strconv.Itoa(len(body)))

	f.buf.Reset()
	if !f.started {
		fmt.Fprintf(&f.buf, "--%s\r\n", f.boundary)
		f.started = true
	}

	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range header[k] {
			fmt.Fprintf(&f.buf, "%s: %s\r\n", k, v)
		}
	}
	f.buf.WriteString("\r\n")
	f.buf.Write(body)
	fmt.Fprintf(&f.buf, "\r\n--%s\r\n", f.boundary)

	_, err := f.buf.WriteTo(f.w)
	return err
}
