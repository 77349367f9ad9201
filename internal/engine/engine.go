package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/executor"
	"github.com/specialistvlad/fxgraph/internal/graph"
	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/nodeid"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/timeline"
	"github.com/specialistvlad/fxgraph/internal/value"
)

// ErrNoOutput is returned when the graph has no output node to read from.
var ErrNoOutput = errors.New("graph has no output node")

// Resulter is implemented by output nodes.
type Resulter interface {
	Result() *render.Texture
}

// Engine ties a graph, a timeline and an executor together.
type Engine struct {
	graph    *graph.Graph
	timeline *timeline.Timeline
	exec     *executor.Executor
	backend  render.Backend

	unsubscribe func()
}

// New wires an engine. Options are passed to the executor.
func New(g *graph.Graph, tl *timeline.Timeline, backend render.Backend, opts ...executor.Option) *Engine {
	e := &Engine{
		graph:    g,
		timeline: tl,
		exec:     executor.New(g, backend, opts...),
		backend:  backend,
	}
	e.unsubscribe = g.Subscribe(func(ev graph.Event) {
		if ev.Kind == graph.NodeRemoved {
			release(ev.Node, backend)
		}
	})
	return e
}

func release(n node.Node, backend render.Backend) {
	if r, ok := n.(node.TargetReleaser); ok {
		r.ReleaseTargets(backend)
	}
}

func (e *Engine) Graph() *graph.Graph          { return e.graph }
func (e *Engine) Timeline() *timeline.Timeline { return e.timeline }
func (e *Engine) Executor() *executor.Executor { return e.exec }
func (e *Engine) Backend() render.Backend      { return e.backend }

// ApplyAnimation writes the current value of every animated property into
// its node. Tracks of nodes that are not in the graph are skipped. It
// returns how many properties were written.
func (e *Engine) ApplyAnimation(ctx context.Context) int {
	logger := ctxlog.FromContext(ctx)
	applied := 0
	for _, key := range e.timeline.Properties() {
		addr, err := nodeid.Parse(key)
		if err != nil {
			continue
		}
		n, ok := e.graph.Node(addr.Node)
		if !ok {
			logger.Debug("Animated property of a missing node skipped.", "key", key)
			continue
		}
		v, _ := e.timeline.GetAnimatedValue(addr.Node, addr.Member)
		if err := node.SetProperty(n, addr.Member, v); err != nil {
			logger.Warn("Animated value not applied.", "key", key, "error", err)
			continue
		}
		applied++
	}
	return applied
}

// Evaluate applies animation at the current time and runs a full pass.
func (e *Engine) Evaluate(ctx context.Context) error {
	e.ApplyAnimation(ctx)
	e.exec.SetClock(e.timeline.CurrentTime(), e.timeline.CurrentFrame())
	return e.exec.Execute(ctx)
}

// Tick advances the timeline by dt seconds and evaluates the graph.
func (e *Engine) Tick(ctx context.Context, dt float64) error {
	e.timeline.Update(dt)
	return e.Evaluate(ctx)
}

// RenderFrame scrubs to frame, evaluates the graph and returns the output
// node's texture. The texture belongs to the output's upstream node and is
// overwritten by the next pass.
func (e *Engine) RenderFrame(ctx context.Context, frame int) (*render.Texture, error) {
	e.timeline.SetFrame(frame)
	if err := e.Evaluate(ctx); err != nil {
		return nil, fmt.Errorf("frame %d: %w", frame, err)
	}
	return e.Result()
}

// Result returns the texture the output node produced in the last pass.
// It is nil without error when the output node received nothing.
func (e *Engine) Result() (*render.Texture, error) {
	out := e.graph.OutputNode()
	if out == nil {
		return nil, ErrNoOutput
	}
	r, ok := out.(Resulter)
	if !ok {
		return nil, fmt.Errorf("output node type %q: %w", out.TypeName(), ErrNoOutput)
	}
	return r.Result(), nil
}

// SetProperty edits a node property and re-runs only what the edit affects.
func (e *Engine) SetProperty(ctx context.Context, nodeID, name string, v value.Value) error {
	n, ok := e.graph.Node(nodeID)
	if !ok {
		return fmt.Errorf("node '%s': %w", nodeID, graph.ErrNodeNotFound)
	}
	if err := node.SetProperty(n, name, v); err != nil {
		return err
	}
	return e.exec.Invalidate(ctx, executor.Affected(e.graph, n))
}

// Close detaches the engine from the graph and releases every node's render
// targets.
func (e *Engine) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	for _, n := range e.graph.Nodes() {
		release(n, e.backend)
	}
}
