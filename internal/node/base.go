package node

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
)

// ErrNoInput is returned by compute functions when a required input carries no data.
var ErrNoInput = errors.New("required input has no data")

// Base implements the shared part of the Node interface. Concrete nodes
// embed it and call Setup from their constructor.
type Base struct {
	id       string
	name     string
	position value.Vec2
	role     Role

	self    Node
	inputs  []*Slot
	outputs []*Slot
	sealed  bool

	executed  bool
	executing bool
	cache     map[string]value.Value
	targets   map[string]*render.Texture
	warnings  int
}

// Setup binds the base to its concrete node, assigns a fresh id and declares
// the node's slots. It must be called exactly once.
func (b *Base) Setup(self Node, name string) {
	if b.self != nil {
		panic("node: Setup called twice")
	}
	b.self = self
	b.id = uuid.NewString()
	b.name = name
	b.cache = make(map[string]value.Value)
	b.targets = make(map[string]*render.Texture)
	self.InitializeSlots()
	b.sealed = true
}

// SetRole marks the node as the graph's output node. Only valid before the
// node joins a graph.
func (b *Base) SetRole(r Role) { b.role = r }

func (b *Base) ID() string               { return b.id }
func (b *Base) SetID(id string)          { b.id = id }
func (b *Base) Name() string             { return b.name }
func (b *Base) SetName(name string)      { b.name = name }
func (b *Base) Role() Role               { return b.role }
func (b *Base) Position() value.Vec2     { return b.position }
func (b *Base) SetPosition(p value.Vec2) { b.position = p }
func (b *Base) Inputs() []*Slot          { return b.inputs }
func (b *Base) Outputs() []*Slot         { return b.outputs }
func (b *Base) Executed() bool           { return b.executed }
func (b *Base) Warnings() int            { return b.warnings }

// AddInput declares an input slot. Only valid inside InitializeSlots.
func (b *Base) AddInput(id, name string, t value.DataType) *Slot {
	return b.addSlot(id, name, Input, t)
}

// AddOutput declares an output slot. Only valid inside InitializeSlots.
func (b *Base) AddOutput(id, name string, t value.DataType) *Slot {
	return b.addSlot(id, name, Output, t)
}

func (b *Base) addSlot(id, name string, d Direction, t value.DataType) *Slot {
	if b.sealed {
		panic(fmt.Sprintf("node: slot %q declared after construction", id))
	}
	if b.InputSlot(id) != nil || b.OutputSlot(id) != nil {
		panic(fmt.Sprintf("node: duplicate slot id %q", id))
	}
	s := &Slot{ID: id, Name: name, Direction: d, Type: t, owner: b.self}
	if d == Input {
		b.inputs = append(b.inputs, s)
	} else {
		b.outputs = append(b.outputs, s)
	}
	return s
}

// InputSlot returns the input slot with the given id, or nil.
func (b *Base) InputSlot(id string) *Slot {
	for _, s := range b.inputs {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// OutputSlot returns the output slot with the given id, or nil.
func (b *Base) OutputSlot(id string) *Slot {
	for _, s := range b.outputs {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// ResetExecution clears the executed flag and the output cache.
func (b *Base) ResetExecution() {
	b.executed = false
	clear(b.cache)
}

// Output returns the cached value of an output slot.
func (b *Base) Output(slotID string) (value.Value, bool) {
	v, ok := b.cache[slotID]
	return v, ok
}

// SetOutput stores a computed value for an output slot.
func (b *Base) SetOutput(slotID string, v value.Value) {
	b.cache[slotID] = v
}

// Run is the body of every concrete Execute. It skips nodes that already
// ran this pass, runs compute, and converts errors and panics into warnings
// with an empty output cache. The node is always marked executed afterwards.
func (b *Base) Run(ctx context.Context, env *Env, compute func(ctx context.Context, env *Env) error) {
	if b.executed {
		return
	}
	logger := ctxlog.FromContext(ctx).With("node_id", b.id, "node_type", b.self.TypeName())
	if b.executing {
		logger.Warn("Node re-entered while executing, dependency cycle suspected.")
		return
	}
	b.executing = true
	defer func() { b.executing = false }()

	start := time.Now()
	err := b.safeCompute(ctx, env, compute)
	if err != nil {
		logger.Warn("Node execution fell back to defaults.", "error", err)
		b.warnings++
		clear(b.cache)
	}
	b.executed = true
	if env != nil && env.OnExecuted != nil {
		env.OnExecuted(b.self, time.Since(start), err)
	}
}

func (b *Base) safeCompute(ctx context.Context, env *Env, compute func(ctx context.Context, env *Env) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during execution: %v", r)
		}
	}()
	return compute(ctx, env)
}

// Pull returns the value delivered to input slot id as type want. It
// executes the upstream node first when it has not run this pass. ok is
// false when the slot is unconnected, upstream produced nothing, or the
// value could not be coerced; v is then the default of want.
func (b *Base) Pull(ctx context.Context, env *Env, id string, want value.DataType) (v value.Value, ok bool) {
	s := b.InputSlot(id)
	if s == nil || s.source == nil {
		return want.Default(), false
	}
	src := s.source
	upstream := src.owner
	if !upstream.Executed() {
		upstream.Execute(ctx, env)
	}
	got, ok := upstream.Output(src.ID)
	if !ok || got.IsNone() {
		return want.Default(), false
	}
	return b.coerce(ctx, env, id, got, src.Type, want)
}

// coerce converts a value declared as type from into type want.
// Texture to color samples the center pixel; color to texture renders a
// uniform fill of the default texture size. Other mismatches yield the
// default of want and a warning.
func (b *Base) coerce(ctx context.Context, env *Env, slotID string, v value.Value, from, want value.DataType) (value.Value, bool) {
	if from == want {
		return v, true
	}
	logger := ctxlog.FromContext(ctx)
	switch {
	case from == value.TypeTexture && want == value.TypeColor:
		if tex, ok := v.Texture(); ok {
			return value.Color(tex.Center()), true
		}
	case from == value.TypeColor && want == value.TypeTexture:
		c, ok := v.Color()
		if !ok || env == nil || env.Backend == nil {
			break
		}
		target := b.target(env, "coerce:"+slotID, render.DefaultTextureSize, render.DefaultTextureSize)
		params := render.NewParams()
		params.Colors["color"] = c
		if err := env.Backend.RunEffect(ctx, render.EffectSolid, params, target); err != nil {
			target.Fill(c)
		}
		return value.Texture(target), true
	}
	logger.Warn("Unsupported input coercion, using default.", "node_id", b.id, "slot", slotID, "from", from.String(), "to", want.String())
	b.warnings++
	return want.Default(), false
}

// PullFloat returns the float delivered to slot id, or fallback when the
// slot is unconnected or carries no data.
func (b *Base) PullFloat(ctx context.Context, env *Env, id string, fallback float64) float64 {
	v, ok := b.Pull(ctx, env, id, value.TypeFloat)
	if !ok {
		return fallback
	}
	f, _ := v.Float()
	return f
}

// PullTexture returns the texture delivered to slot id, or nil.
func (b *Base) PullTexture(ctx context.Context, env *Env, id string) *render.Texture {
	v, ok := b.Pull(ctx, env, id, value.TypeTexture)
	if !ok {
		return nil
	}
	tex, _ := v.Texture()
	return tex
}

// RenderTarget returns the node's reusable render target for key, sized for env.
func (b *Base) RenderTarget(env *Env, key string) *render.Texture {
	w, h := env.Size()
	return b.target(env, key, w, h)
}

func (b *Base) target(env *Env, key string, w, h int) *render.Texture {
	if t, ok := b.targets[key]; ok {
		if t.Width() == w && t.Height() == h {
			return t
		}
		env.Backend.Release(t)
	}
	t := env.Backend.NewTexture(w, h)
	b.targets[key] = t
	return t
}

// ReleaseTargets hands every render target the node allocated back to the backend.
func (b *Base) ReleaseTargets(backend render.Backend) {
	for key, t := range b.targets {
		backend.Release(t)
		delete(b.targets, key)
	}
}

// Effect runs a backend effect into the node's render target for output
// slot outID and caches the result as that output.
func (b *Base) Effect(ctx context.Context, env *Env, outID, effect string, params render.Params) error {
	if env == nil || env.Backend == nil {
		return errors.New("no rendering backend")
	}
	target := b.RenderTarget(env, outID)
	if err := env.Backend.RunEffect(ctx, effect, params, target); err != nil {
		return err
	}
	b.SetOutput(outID, value.Texture(target))
	return nil
}

// TargetReleaser is implemented by nodes that own render targets.
type TargetReleaser interface {
	ReleaseTargets(backend render.Backend)
}
