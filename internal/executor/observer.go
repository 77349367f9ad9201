package executor

import (
	"time"

	"github.com/specialistvlad/fxgraph/internal/node"
)

// Observer is notified about pass progress.
type Observer interface {
	StateChanged(s State)
	NodeExecuted(n node.Node, elapsed time.Duration, err error)
	PassFinished(kind PassKind, executed int, elapsed time.Duration, err error)
}

// NopObserver implements Observer with no-ops, for embedding.
type NopObserver struct{}

func (NopObserver) StateChanged(State)                               {}
func (NopObserver) NodeExecuted(node.Node, time.Duration, error)     {}
func (NopObserver) PassFinished(PassKind, int, time.Duration, error) {}
