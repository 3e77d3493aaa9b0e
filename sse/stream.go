package sse

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/SethBurkart123/runstream"
)

// readChunkSize is the transport read granularity. Frames routinely span
// read boundaries; the Decoder reassembles them.
const readChunkSize = 4096

// Interface compliance check.
var _ runstream.Source = (*Stream)(nil)

// Stream adapts an io.ReadCloser carrying the wire protocol into a
// runstream.Source. Malformed frames are logged and skipped; only
// transport failures surface through Next.
type Stream struct {
	body    io.ReadCloser
	dec     Decoder
	queue   []Frame
	readBuf []byte
	readErr error
	closed  bool
}

// NewStream wraps body, which the Stream owns: Close releases it.
func NewStream(body io.ReadCloser) *Stream {
	return &Stream{
		body:    body,
		readBuf: make([]byte, readChunkSize),
	}
}

// Next returns the next decoded event. It returns io.EOF when the
// transport ends; any other error is a transport failure fatal to the run.
// Frames with malformed payloads and event names outside the assembler's
// vocabulary are skipped without surfacing an error.
func (s *Stream) Next() (runstream.Event, error) {
	if s.closed {
		return nil, runstream.ErrSourceClosed
	}
	for {
		for len(s.queue) > 0 {
			f := s.queue[0]
			s.queue = s.queue[1:]
			evt, err := ParseEvent(f)
			if err != nil {
				logrus.Debugf("sse: skipping frame: %v", err)
				continue
			}
			if evt == nil {
				continue
			}
			return evt, nil
		}

		if s.readErr != nil {
			if s.readErr == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("sse: read: %w", s.readErr)
		}

		n, err := s.body.Read(s.readBuf)
		if n > 0 {
			s.queue = append(s.queue, s.dec.Feed(s.readBuf[:n])...)
		}
		if err != nil {
			// Drain any frames completed by the final chunk before
			// surfacing the error on the next pass.
			s.readErr = err
		}
	}
}

// Close releases the underlying transport. Safe to call more than once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}
