package executor

// State is the executor's position in a pass.
type State uint8

const (
	Idle State = iota
	Ordering
	CycleDetected
	Executing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ordering:
		return "ordering"
	case CycleDetected:
		return "cycle_detected"
	case Executing:
		return "executing"
	}
	return "unknown"
}

// PassKind tells observers which entry point started a pass.
type PassKind string

const (
	PassFull       PassKind = "full"
	PassPartial    PassKind = "partial"
	PassInvalidate PassKind = "invalidate"
)
