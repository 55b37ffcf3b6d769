package core

import "log/slog"

type Signal any

type CaptureStartedSignal struct{}

// ModifierSignal reports the modifiers held after a modifier press.
type ModifierSignal struct {
	partial Accelerator
}

func (m ModifierSignal) Value() Accelerator {
	return m.partial
}

// RestartSignal reports a duplicate or overflowing modifier that restarted
// the combination.
type RestartSignal struct {
	modifier Modifier
}

func (r RestartSignal) Value() Modifier {
	return r.modifier
}

type CommittedSignal struct {
	accelerator Accelerator
}

func (c CommittedSignal) Value() Accelerator {
	return c.accelerator
}

type ClearedSignal struct{}

func (s *Session) dispatchSignal(signal Signal) {
	select {
	case s.updateSignal <- signal:
	default:
		slog.Debug("[capture] signal channel is full, dropping signal")
	}
}
