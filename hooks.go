package runstream

// Hooks receives out-of-band notifications raised synchronously from
// Transcript.Apply, from within the transition that first observes the
// corresponding condition. All fields are optional; nil hooks are skipped.
type Hooks struct {
	// OnSessionID fires when a RunStarted frame carries a session identifier.
	OnSessionID func(id string)

	// OnMessageID fires when the backend announces the assistant message id.
	OnMessageID func(id string)

	// OnThinkTag fires at most once per run, when the in-band think-tag
	// marker first appears in accumulated text.
	OnThinkTag func()
}
