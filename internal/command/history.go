package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/executor"
	"github.com/specialistvlad/fxgraph/internal/node"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultLimit is the undo depth used when NewHistory is given zero.
const DefaultLimit = 100

// History is the undo manager. It is not safe for concurrent use.
type History struct {
	limit int
	undo  []Command
	redo  []Command
	exec  *executor.Executor
}

// NewHistory creates a history keeping at most limit undo steps. When exec
// is not nil, every step re-runs the nodes it affected.
func NewHistory(limit int, exec *executor.Executor) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit, exec: exec}
}

// Execute runs cmd and records it. A new command discards the redo stack.
func (h *History) Execute(ctx context.Context, cmd Command) error {
	if err := cmd.Do(ctx); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	h.undo = append(h.undo, cmd)
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
	ctxlog.FromContext(ctx).Debug("Command executed.", "command", cmd.Name(), "undo_depth", len(h.undo))
	return h.refresh(ctx, cmd)
}

// Undo reverts the most recent command.
func (h *History) Undo(ctx context.Context) error {
	if len(h.undo) == 0 {
		return ErrNothingToUndo
	}
	cmd := h.undo[len(h.undo)-1]
	if err := cmd.Undo(ctx); err != nil {
		return fmt.Errorf("undo %s: %w", cmd.Name(), err)
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, cmd)
	ctxlog.FromContext(ctx).Debug("Command undone.", "command", cmd.Name())
	return h.refresh(ctx, cmd)
}

// Redo re-applies the most recently undone command.
func (h *History) Redo(ctx context.Context) error {
	if len(h.redo) == 0 {
		return ErrNothingToRedo
	}
	cmd := h.redo[len(h.redo)-1]
	if err := cmd.Do(ctx); err != nil {
		return fmt.Errorf("redo %s: %w", cmd.Name(), err)
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, cmd)
	ctxlog.FromContext(ctx).Debug("Command redone.", "command", cmd.Name())
	return h.refresh(ctx, cmd)
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo, h.redo = nil, nil
}

func (h *History) refresh(ctx context.Context, cmd Command) error {
	if h.exec == nil {
		return nil
	}
	g := h.exec.Graph()
	var affected []node.Node
	for _, n := range cmd.Touched() {
		affected = append(affected, executor.Affected(g, n)...)
	}
	return h.exec.Invalidate(ctx, affected)
}
