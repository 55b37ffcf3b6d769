package core

// Status is the phase of a capture session.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusCapturing Status = "capturing"
	StatusCommitted Status = "committed"
)

// State is the observable state of a capture session:
// Idle, Capturing (Expression holds the partial combination) or
// Committed (Expression holds the frozen accelerator).
type State struct {
	Status     Status
	Expression Accelerator
}

// InitialState creates the idle state
func InitialState() State {
	return State{Status: StatusIdle}
}

func (s State) IsIdle() bool      { return s.Status == StatusIdle }
func (s State) IsCapturing() bool { return s.Status == StatusCapturing }
func (s State) IsCommitted() bool { return s.Status == StatusCommitted }
