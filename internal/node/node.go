// Package node defines the unit of computation in the compositor graph.
//
// A Node owns a fixed set of input and output slots, caches the values it
// produced during the current execution pass, and pulls its inputs from
// upstream nodes on demand. Concrete node types embed Base, which provides
// the slot bookkeeping, the executed flag, the output cache and the recursive
// pull-with-coercion logic; they only supply InitializeSlots, Execute,
// TypeName and Properties.
//
// Execution never fails from the caller's point of view. Missing inputs,
// unsupported coercions and backend failures are logged as warnings and the
// node falls back to an empty output cache, so downstream consumers see
// default values.
package node

import (
	"context"
	"time"

	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
)

// Role distinguishes the terminal output node from every other node.
type Role uint8

const (
	RoleStandard Role = iota
	RoleOutput
)

// Node is the contract shared by all node types. Everything except
// TypeName, InitializeSlots, Execute and Properties is provided by Base.
type Node interface {
	ID() string
	SetID(id string)
	Name() string
	SetName(name string)
	TypeName() string
	Role() Role
	Position() value.Vec2
	SetPosition(p value.Vec2)

	Inputs() []*Slot
	Outputs() []*Slot
	InputSlot(id string) *Slot
	OutputSlot(id string) *Slot

	// InitializeSlots declares the node's slots. It is called exactly once, by Setup.
	InitializeSlots()
	// Execute computes the node's outputs once per pass. Calls after the
	// node has executed are no-ops until ResetExecution.
	Execute(ctx context.Context, env *Env)
	ResetExecution()
	Executed() bool
	Output(slotID string) (value.Value, bool)

	Properties() []Property
}

// Env carries what a pass needs besides the graph itself.
type Env struct {
	Backend render.Backend
	// Time and Frame are the timeline position this pass renders.
	Time  float64
	Frame int
	// Width and Height size the render targets nodes allocate.
	Width, Height int
	// OnExecuted, when set, is called after every node finishes executing,
	// including nodes executed through an upstream pull.
	OnExecuted func(n Node, elapsed time.Duration, err error)
}

// Size returns the render target size, falling back to the default texture size.
func (e *Env) Size() (int, int) {
	w, h := e.Width, e.Height
	if w <= 0 {
		w = render.DefaultTextureSize
	}
	if h <= 0 {
		h = render.DefaultTextureSize
	}
	return w, h
}
