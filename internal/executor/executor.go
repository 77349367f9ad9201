package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/graph"
	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/render"
)

// Executor runs passes over one graph.
type Executor struct {
	graph     *graph.Graph
	backend   render.Backend
	width     int
	height    int
	time      float64
	frame     int
	state     State
	observers []Observer
}

// Option configures an Executor.
type Option func(*Executor)

// WithObserver adds an observer.
func WithObserver(o Observer) Option {
	return func(e *Executor) { e.observers = append(e.observers, o) }
}

// WithSize sets the size of the render targets nodes allocate.
func WithSize(width, height int) Option {
	return func(e *Executor) { e.width, e.height = width, height }
}

// New creates an executor for g that renders through backend.
func New(g *graph.Graph, backend render.Backend, opts ...Option) *Executor {
	e := &Executor{graph: g, backend: backend}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the graph the executor runs.
func (e *Executor) Graph() *graph.Graph { return e.graph }

// Backend returns the rendering backend handed to nodes.
func (e *Executor) Backend() render.Backend { return e.backend }

// State returns the current state. Outside a pass it is always Idle.
func (e *Executor) State() State { return e.state }

// SetClock sets the timeline position handed to nodes on the next pass.
func (e *Executor) SetClock(t float64, frame int) {
	e.time, e.frame = t, frame
}

// Size returns the configured render target size.
func (e *Executor) Size() (int, int) { return e.width, e.height }

func (e *Executor) setState(s State) {
	e.state = s
	for _, o := range e.observers {
		o.StateChanged(s)
	}
}

func (e *Executor) env() *node.Env {
	return &node.Env{
		Backend: e.backend,
		Time:    e.time,
		Frame:   e.frame,
		Width:   e.width,
		Height:  e.height,
		OnExecuted: func(n node.Node, elapsed time.Duration, err error) {
			for _, o := range e.observers {
				o.NodeExecuted(n, elapsed, err)
			}
		},
	}
}

func (e *Executor) finish(kind PassKind, executed int, start time.Time, err error) {
	e.setState(Idle)
	for _, o := range e.observers {
		o.PassFinished(kind, executed, time.Since(start), err)
	}
}

// Execute runs a full pass. A cycle aborts the pass before any node runs.
func (e *Executor) Execute(ctx context.Context) (err error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	executed := 0
	defer func() { e.finish(PassFull, executed, start, err) }()

	e.setState(Ordering)
	if err := e.graph.DetectCycle(); err != nil {
		e.setState(CycleDetected)
		logger.Error("Full pass aborted.", "error", err)
		return err
	}
	nodes := e.graph.Nodes()
	order, err := topoOrder(e.graph, e.graph.SinkNodes(), nil)
	if err != nil {
		e.setState(CycleDetected)
		logger.Error("Full pass aborted.", "error", err)
		return err
	}
	if len(order) != len(nodes) {
		e.setState(CycleDetected)
		return fmt.Errorf("%w: %d of %d nodes reachable from sinks", graph.ErrCycle, len(order), len(nodes))
	}

	for _, n := range nodes {
		n.ResetExecution()
	}
	e.setState(Executing)
	logger.Debug("Full pass started.", "nodes", len(order))
	executed, err = e.run(ctx, order)
	return err
}

// ExecuteNode re-runs target and its transitive dependencies. Nodes outside
// that set keep their execution state and cached outputs.
func (e *Executor) ExecuteNode(ctx context.Context, target node.Node) (err error) {
	start := time.Now()
	executed := 0
	defer func() { e.finish(PassPartial, executed, start, err) }()

	if !e.graph.Contains(target) {
		return fmt.Errorf("execute node: %w", graph.ErrNodeNotFound)
	}
	e.setState(Ordering)
	subset := map[node.Node]bool{target: true}
	for _, n := range e.graph.Upstream(target) {
		subset[n] = true
	}
	order, err := topoOrder(e.graph, []node.Node{target}, subset)
	if err != nil {
		e.setState(CycleDetected)
		ctxlog.FromContext(ctx).Error("Partial pass aborted.", "node_id", target.ID(), "error", err)
		return err
	}
	for _, n := range order {
		n.ResetExecution()
	}
	e.setState(Executing)
	executed, err = e.run(ctx, order)
	return err
}

// Invalidate resets the affected nodes and re-runs them in dependency order.
// Upstream nodes that are not affected keep their caches; ones that never
// ran are executed on demand.
func (e *Executor) Invalidate(ctx context.Context, affected []node.Node) (err error) {
	start := time.Now()
	executed := 0
	defer func() { e.finish(PassInvalidate, executed, start, err) }()

	e.setState(Ordering)
	var roots []node.Node
	reset := make(map[node.Node]bool)
	for _, n := range affected {
		if n == nil || reset[n] || !e.graph.Contains(n) {
			continue
		}
		reset[n] = true
		roots = append(roots, n)
	}
	order, err := topoOrder(e.graph, roots, nil)
	if err != nil {
		e.setState(CycleDetected)
		ctxlog.FromContext(ctx).Error("Invalidation aborted.", "error", err)
		return err
	}
	for n := range reset {
		n.ResetExecution()
	}
	e.setState(Executing)
	executed, err = e.run(ctx, order)
	return err
}

// Affected returns the nodes to invalidate after a topology change at n:
// n, everything downstream of it, and every sink.
func Affected(g *graph.Graph, n node.Node) []node.Node {
	var res []node.Node
	if g.Contains(n) {
		res = g.Downstream(n)
	}
	return append(res, g.SinkNodes()...)
}

// run executes order, skipping nodes that already ran through a pull. It
// returns how many nodes of order have executed when it stops.
func (e *Executor) run(ctx context.Context, order []node.Node) (int, error) {
	env := e.env()
	var err error
	for _, n := range order {
		if err = ctx.Err(); err != nil {
			break
		}
		if !n.Executed() {
			n.Execute(ctx, env)
		}
	}
	count := 0
	for _, n := range order {
		if n.Executed() {
			count++
		}
	}
	return count, err
}
