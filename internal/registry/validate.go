package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/node"
)

// Validate performs a parity check between registered names and the nodes
// their constructors build: the type name must match and property names
// must be unique.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	outputs := 0
	for _, name := range r.Types() {
		n := r.constructors[name]()
		if n == nil {
			errs = append(errs, fmt.Sprintf("node type '%s': constructor returned nil", name))
			continue
		}
		if n.TypeName() != name {
			errs = append(errs, fmt.Sprintf("node type '%s': constructor builds a node reporting type '%s'", name, n.TypeName()))
		}
		if n.Role() == node.RoleOutput {
			outputs++
		}

		seen := make(map[string]struct{})
		for _, p := range n.Properties() {
			if _, dup := seen[p.Name]; dup {
				errs = append(errs, fmt.Sprintf("node type '%s': duplicate property '%s'", name, p.Name))
			}
			seen[p.Name] = struct{}{}
		}
		if len(n.Inputs())+len(n.Outputs()) == 0 {
			logger.Warn("Node type declares no slots.", "type", name)
		}
	}
	if outputs > 1 {
		errs = append(errs, fmt.Sprintf("%d node types claim the output role, expected at most one", outputs))
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
