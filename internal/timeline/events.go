package timeline

// EventKind names a timeline notification.
type EventKind uint8

const (
	TimeChanged EventKind = iota
	KeyframeAdded
	KeyframeRemoved
	PlayStateChanged
)

func (k EventKind) String() string {
	switch k {
	case TimeChanged:
		return "time_changed"
	case KeyframeAdded:
		return "keyframe_added"
	case KeyframeRemoved:
		return "keyframe_removed"
	case PlayStateChanged:
		return "play_state_changed"
	}
	return "unknown"
}

// Event carries the state after the change. Key and KeyTime are set for
// keyframe events only.
type Event struct {
	Kind    EventKind
	Time    float64
	Playing bool
	Key     string
	KeyTime float64
}

// Listener receives timeline events.
type Listener func(Event)

// Subscribe registers fn and returns a function that removes it.
func (tl *Timeline) Subscribe(fn Listener) (unsubscribe func()) {
	id := tl.nextListener
	tl.nextListener++
	tl.listeners[id] = fn
	return func() { delete(tl.listeners, id) }
}

func (tl *Timeline) notify(e Event) {
	e.Time, e.Playing = tl.current, tl.playing
	for id := 0; id < tl.nextListener; id++ {
		if fn, ok := tl.listeners[id]; ok {
			fn(e)
		}
	}
}
