// Package mock provides test doubles for runstream interfaces.
package mock

import (
	"io"

	"github.com/SethBurkart123/runstream"
)

// Interface compliance check.
var _ runstream.Source = (*Source)(nil)

// Source is a test double for runstream.Source.
// Set NextFn for the calls you need; it panics when nil to catch missing
// setup. CloseFn is nil-safe (no-op) because test code commonly calls
// defer src.Close(). CloseCalls counts Close invocations so tests can
// assert the transport was released.
type Source struct {
	NextFn     func() (runstream.Event, error)
	CloseFn    func() error
	CloseCalls int
}

// Next delegates to NextFn.
func (s *Source) Next() (runstream.Event, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Source) Close() error {
	s.CloseCalls++
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Script returns a Source that replays events in order, then io.EOF.
func Script(events ...runstream.Event) *Source {
	i := 0
	s := &Source{}
	s.NextFn = func() (runstream.Event, error) {
		if i >= len(events) {
			return nil, io.EOF
		}
		evt := events[i]
		i++
		return evt, nil
	}
	return s
}
