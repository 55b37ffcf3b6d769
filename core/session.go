package core

import "log/slog"

// Session is a capture session: it listens for key presses while capturing
// and assembles them into an accelerator.
//
// A session holds at most one listener. It is acquired when capturing
// starts and released on every way out of capturing: commit, Clear and
// Close. A session is not safe for concurrent use.
type Session struct {
	source   KeySource
	listener Listener
	altGr    bool
	state    State

	updateSignal chan Signal
}

type SessionOption func(*Session)

// WithAltGr makes the AltGraph key count as the AltGr modifier.
func WithAltGr(enabled bool) SessionOption {
	return func(s *Session) {
		s.altGr = enabled
	}
}

// WithSignalBuffer sets the capacity of the signal channel. Default is 16.
func WithSignalBuffer(size int) SessionOption {
	return func(s *Session) {
		s.updateSignal = make(chan Signal, max(size, 0))
	}
}

// NewSession creates an idle session that listens on source while capturing.
// A nil source is allowed; the host then feeds HandleKey itself.
func NewSession(source KeySource, opts ...SessionOption) *Session {
	s := &Session{
		source:       source,
		state:        InitialState(),
		updateSignal: make(chan Signal, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a new capture, discarding anything accumulated or committed
// before. Calling it while already capturing restarts the capture on the
// same listener.
func (s *Session) Start() {
	s.state = State{Status: StatusCapturing}

	if s.listener == nil && s.source != nil {
		s.listener = s.source.Listen(s.HandleKey)
	}

	s.dispatchSignal(CaptureStartedSignal{})
}

// HandleKey processes one key press. It reports whether the event was
// consumed, which is true for every event received while capturing.
func (s *Session) HandleKey(e KeyEvent) bool {
	if !s.state.IsCapturing() {
		return false
	}
	if e.Key == "" {
		return true
	}

	token := NormalizeKey(e.Key)

	if mod, ok := LookupModifier(token, s.altGr); ok {
		s.handleModifier(mod)
		return true
	}

	s.state = State{
		Status:     StatusCommitted,
		Expression: s.state.Expression.withKey(token),
	}
	s.release()

	slog.Debug("[capture] accelerator committed", "accelerator", s.state.Expression.String())
	s.dispatchSignal(CommittedSignal{accelerator: s.state.Expression})

	return true
}

func (s *Session) handleModifier(mod Modifier) {
	existing := s.state.Expression.modifiers

	// Shift+Shift is meaningless and more than two modifiers is not
	// supported: start over from the key just pressed.
	sameSingle := len(existing) == 1 && existing[0] == mod
	if sameSingle || len(existing) >= MaxModifiers {
		s.state.Expression = NewAccelerator("", mod)
		slog.Debug("[capture] modifier combination restarted", "modifier", mod)
		s.dispatchSignal(RestartSignal{modifier: mod})
		return
	}

	s.state.Expression = s.state.Expression.withModifier(mod)
	s.dispatchSignal(ModifierSignal{partial: s.state.Expression})
}

// Clear returns the session to idle with nothing accumulated, from any state.
func (s *Session) Clear() {
	s.release()
	s.state = InitialState()
	s.dispatchSignal(ClearedSignal{})
}

// Close releases the listener. A capture in progress is abandoned; a
// committed accelerator is kept.
func (s *Session) Close() {
	s.release()
	if s.state.IsCapturing() {
		s.state = InitialState()
	}
}

func (s *Session) release() {
	if s.listener == nil {
		return
	}
	s.listener.Stop()
	s.listener = nil
}

func (s *Session) State() State {
	return s.state
}

// Accelerator returns what has been accumulated so far.
func (s *Session) Accelerator() Accelerator {
	return s.state.Expression
}

func (s *Session) IsCapturing() bool {
	return s.state.IsCapturing()
}

// IsListening reports whether the session currently holds a listener.
func (s *Session) IsListening() bool {
	return s.listener != nil
}

// Commit returns the committed accelerator, if any.
func (s *Session) Commit() (string, bool) {
	if !s.state.IsCommitted() {
		return "", false
	}
	return s.state.Expression.String(), true
}

// Signals returns the channel session notifications are sent on.
// Sends never block; signals are dropped when the channel is full.
func (s *Session) Signals() <-chan Signal {
	return s.updateSignal
}
