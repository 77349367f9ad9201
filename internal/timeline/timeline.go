package timeline

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/specialistvlad/fxgraph/internal/animation"
	"github.com/specialistvlad/fxgraph/internal/nodeid"
	"github.com/specialistvlad/fxgraph/internal/value"
)

// Settings are the persisted clock parameters.
type Settings struct {
	Duration float64
	FPS      float64
	Speed    float64
	Loop     bool
}

// DefaultSettings returns a ten second, 30 fps looping timeline.
func DefaultSettings() Settings {
	return Settings{Duration: 10, FPS: 30, Speed: 1, Loop: true}
}

// Validate reports settings the clock cannot run with.
func (s Settings) Validate() error {
	if s.Duration <= 0 {
		return fmt.Errorf("timeline duration must be positive, got %g", s.Duration)
	}
	if s.FPS <= 0 {
		return fmt.Errorf("timeline fps must be positive, got %g", s.FPS)
	}
	return nil
}

// Timeline is the animation clock and property registry. It is not safe for
// concurrent use.
type Timeline struct {
	settings Settings
	current  float64
	playing  bool
	props    map[string]*animation.Property

	listeners    map[int]Listener
	nextListener int
}

// New creates a paused timeline at time zero.
func New(s Settings) (*Timeline, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Timeline{
		settings:  s,
		props:     make(map[string]*animation.Property),
		listeners: make(map[int]Listener),
	}, nil
}

// Settings returns the clock parameters.
func (tl *Timeline) Settings() Settings { return tl.settings }

// Configure replaces the clock parameters and clamps the current time into
// the new duration.
func (tl *Timeline) Configure(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	tl.settings = s
	if tl.current > s.Duration {
		tl.current = s.Duration
		tl.notify(Event{Kind: TimeChanged})
	}
	return nil
}

func (tl *Timeline) CurrentTime() float64 { return tl.current }
func (tl *Timeline) Duration() float64    { return tl.settings.Duration }
func (tl *Timeline) FPS() float64         { return tl.settings.FPS }
func (tl *Timeline) Playing() bool        { return tl.playing }

// Update advances the clock by dt seconds of wall time scaled by the
// playback speed. It does nothing while paused.
func (tl *Timeline) Update(dt float64) {
	if !tl.playing {
		return
	}
	d := tl.settings.Duration
	t := tl.current + dt*tl.settings.Speed
	paused := false
	switch {
	case t > d && tl.settings.Loop:
		t = math.Mod(t, d)
	case t > d:
		t, paused = d, true
	case t < 0 && tl.settings.Loop:
		t = math.Mod(t, d) + d
	case t < 0:
		t, paused = 0, true
	}
	tl.current = t
	if paused {
		tl.playing = false
	}
	tl.notify(Event{Kind: TimeChanged})
	if paused {
		tl.notify(Event{Kind: PlayStateChanged})
	}
}

// Play starts playback.
func (tl *Timeline) Play() { tl.setPlaying(true) }

// Pause stops playback at the current time.
func (tl *Timeline) Pause() { tl.setPlaying(false) }

// Stop pauses and rewinds to zero.
func (tl *Timeline) Stop() {
	tl.setPlaying(false)
	tl.SetTime(0)
}

func (tl *Timeline) setPlaying(p bool) {
	if tl.playing == p {
		return
	}
	tl.playing = p
	tl.notify(Event{Kind: PlayStateChanged})
}

// SetTime moves the clock to t clamped into [0, duration].
func (tl *Timeline) SetTime(t float64) {
	tl.current = math.Max(0, math.Min(t, tl.settings.Duration))
	tl.notify(Event{Kind: TimeChanged})
}

// SetFrame moves the clock to the start of frame f.
func (tl *Timeline) SetFrame(f int) {
	tl.SetTime(tl.FrameToTime(f))
}

// TimeToFrame snaps t to the nearest frame.
func (tl *Timeline) TimeToFrame(t float64) int {
	return int(math.Round(t * tl.settings.FPS))
}

// FrameToTime returns the time of frame f.
func (tl *Timeline) FrameToTime(f int) float64 {
	return float64(f) / tl.settings.FPS
}

// CurrentFrame returns the frame at the current time.
func (tl *Timeline) CurrentFrame() int { return tl.TimeToFrame(tl.current) }

// TotalFrames returns the index of the last frame.
func (tl *Timeline) TotalFrames() int { return tl.TimeToFrame(tl.settings.Duration) }

// Key returns the registry key of a node property.
func Key(nodeID, property string) string { return nodeid.Key(nodeID, property) }

// AddKeyframe stores a keyframe for key, creating the property track of
// the given kind on first use.
func (tl *Timeline) AddKeyframe(key string, t float64, v value.Value, kind value.Kind, interp animation.Interpolation) error {
	return tl.InsertKeyframe(key, kind, animation.Keyframe{Time: t, Value: v, Interpolation: interp})
}

// InsertKeyframe is AddKeyframe for a fully populated keyframe.
func (tl *Timeline) InsertKeyframe(key string, kind value.Kind, k animation.Keyframe) error {
	prop, created := tl.props[key], false
	if prop == nil {
		addr, err := nodeid.Parse(key)
		if err != nil {
			return fmt.Errorf("animated property key: %w", err)
		}
		prop, created = animation.NewProperty(addr.Member, kind), true
	}
	if err := prop.AddKeyframe(k); err != nil {
		return err
	}
	if created {
		tl.props[key] = prop
	}
	tl.notify(Event{Kind: KeyframeAdded, Key: key, KeyTime: k.Time})
	return nil
}

// RemoveKeyframe removes the keyframe of node.property at t within the
// default tolerance. It reports whether one was removed.
func (tl *Timeline) RemoveKeyframe(nodeID, property string, t float64) bool {
	return tl.RemoveKeyframeWithin(nodeID, property, t, animation.DefaultTolerance)
}

// RemoveKeyframeWithin is RemoveKeyframe with an explicit tolerance.
func (tl *Timeline) RemoveKeyframeWithin(nodeID, property string, t, tolerance float64) bool {
	key := Key(nodeID, property)
	prop, ok := tl.props[key]
	if !ok {
		return false
	}
	k, ok := prop.RemoveKeyframeAt(t, tolerance)
	if !ok {
		return false
	}
	tl.notify(Event{Kind: KeyframeRemoved, Key: key, KeyTime: k.Time})
	return true
}

// GetAnimatedValue evaluates node.property at the current time. ok is false
// when the property is not animated.
func (tl *Timeline) GetAnimatedValue(nodeID, property string) (value.Value, bool) {
	prop, ok := tl.props[Key(nodeID, property)]
	if !ok {
		return value.Value{}, false
	}
	return prop.Evaluate(tl.current), true
}

// Property returns the track registered under key.
func (tl *Timeline) Property(key string) (*animation.Property, bool) {
	p, ok := tl.props[key]
	return p, ok
}

// Properties returns the registered keys in sorted order.
func (tl *Timeline) Properties() []string {
	keys := make([]string, 0, len(tl.props))
	for k := range tl.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RemoveProperty drops the track registered under key.
func (tl *Timeline) RemoveProperty(key string) bool {
	if _, ok := tl.props[key]; !ok {
		return false
	}
	delete(tl.props, key)
	return true
}

// RemoveNode drops every track of the node and returns how many were removed.
func (tl *Timeline) RemoveNode(nodeID string) int {
	prefix := nodeID + "."
	removed := 0
	for key := range tl.props {
		if strings.HasPrefix(key, prefix) {
			delete(tl.props, key)
			removed++
		}
	}
	return removed
}
