package runstream

// Source is a pull-based iterator over the decoded events of one run.
//
// Next returns io.EOF when the stream completes normally. Any other error
// is a transport or protocol failure fatal to the run; callers needing a
// distinct "cancelled" content block inject it themselves via the
// error-block path. Close releases the underlying transport and is safe to
// call more than once.
type Source interface {
	Next() (Event, error)
	Close() error
}
