// Package sse decodes the run backend's event stream: a line-oriented
// protocol where an "event:" line names a frame, a "data:" line carries its
// JSON payload, and a blank line terminates it.
package sse

import (
	"bytes"
	"strings"
)

// doneSentinel is the literal data payload that ends the logical stream
// without itself becoming a frame.
const doneSentinel = "[DONE]"

// Frame is one decoded (event-name, payload) unit from the transport.
type Frame struct {
	Name string
	Data []byte
}

// Decoder splits raw chunks into frames. Chunks may arrive at arbitrary
// boundaries; a partial trailing line is held back until the next Feed.
// The zero value is ready to use.
type Decoder struct {
	buf  []byte
	name string
}

// Feed appends chunk to the pending buffer and returns the frames it
// completes, in arrival order. A frame is emitted when its data line
// arrives; no frame is ever split or duplicated across chunk boundaries.
func (d *Decoder) Feed(chunk []byte) []Frame {
	d.buf = append(d.buf, chunk...)

	var frames []Frame
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			return frames
		}
		line := strings.TrimSuffix(string(d.buf[:i]), "\r")
		d.buf = d.buf[i+1:]

		switch {
		case strings.HasPrefix(line, "event: "):
			d.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data := strings.TrimPrefix(line, "data: ")
			name := d.name
			d.name = ""
			if data == doneSentinel {
				continue
			}
			frames = append(frames, Frame{Name: name, Data: []byte(data)})
		}
		// Blank lines and unknown fields are ignored.
	}
}
