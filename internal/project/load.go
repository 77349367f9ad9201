package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/fxgraph/internal/animation"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/graph"
	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/nodeid"
	"github.com/specialistvlad/fxgraph/internal/registry"
	"github.com/specialistvlad/fxgraph/internal/timeline"
	"github.com/specialistvlad/fxgraph/internal/value"
)

// ErrInvalidProject marks structural problems that abort a load.
var ErrInvalidProject = errors.New("invalid project")

// Load reads and decodes the project file at path.
func Load(ctx context.Context, path string, reg *registry.Registry) (*Project, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file %s: %w", path, err)
	}
	p, err := Parse(ctx, src, path, reg)
	if err != nil {
		return nil, err
	}
	p.Path = path
	return p, nil
}

// Parse decodes project source. filename is only used in messages.
// Structural problems (syntax, unknown node types, bad ids, connections that
// cannot be made) return an error wrapping ErrInvalidProject. Unknown
// properties, bad property values and unknown interpolation names are
// logged and skipped.
func Parse(ctx context.Context, src []byte, filename string, reg *registry.Registry) (*Project, error) {
	logger := ctxlog.FromContext(ctx).With("file", filename)
	logger.Debug("Project decoding started.")

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse HCL file %s: %w", ErrInvalidProject, filename, diags)
	}
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode HCL file %s: %w", ErrInvalidProject, filename, diags)
	}

	p, err := newFromBlock(root.Project)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidProject, filename, err)
	}
	d := &decoder{ctx: ctx, logger: logger, reg: reg, p: p}
	for _, nb := range root.Nodes {
		if err := d.node(nb); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidProject, filename, err)
		}
	}
	for _, cb := range root.Connections {
		if err := d.connection(cb); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidProject, filename, err)
		}
	}
	for _, ab := range root.Animations {
		d.animation(ab)
	}
	if err := p.applyCurrentTime(root.Project); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidProject, filename, err)
	}

	logger.Debug("Project decoding complete.",
		"nodes", len(p.Graph.Nodes()),
		"connections", len(p.Graph.Connections()),
		"animated_properties", len(p.Timeline.Properties()),
		"warnings", d.warnings)
	return p, nil
}

func newFromBlock(b *projectBlock) (*Project, error) {
	p := New("")
	if b == nil {
		return p, nil
	}
	p.Name, p.Graph.Name = b.Name, b.Name
	s := p.Timeline.Settings()
	if b.FPS != nil {
		s.FPS = *b.FPS
	}
	if b.Duration != nil {
		s.Duration = *b.Duration
	}
	if b.Loop != nil {
		s.Loop = *b.Loop
	}
	if b.Speed != nil {
		s.Speed = *b.Speed
	}
	if err := p.Timeline.Configure(s); err != nil {
		return nil, err
	}
	if b.Width != nil {
		p.Width = *b.Width
	}
	if b.Height != nil {
		p.Height = *b.Height
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("texture size must be positive, got %dx%d", p.Width, p.Height)
	}
	return p, nil
}

func (p *Project) applyCurrentTime(b *projectBlock) error {
	if b == nil || b.CurrentTime == nil {
		return nil
	}
	if *b.CurrentTime < 0 {
		return fmt.Errorf("current_time must not be negative, got %g", *b.CurrentTime)
	}
	p.Timeline.SetTime(*b.CurrentTime)
	return nil
}

type decoder struct {
	ctx      context.Context
	logger   *slog.Logger
	reg      *registry.Registry
	p        *Project
	warnings int
}

func (d *decoder) warn(msg string, args ...any) {
	d.warnings++
	d.logger.Warn(msg, args...)
}

func (d *decoder) node(b *nodeBlock) error {
	if !nodeid.ValidNodeID(b.ID) {
		return fmt.Errorf("node %q: invalid id", b.ID)
	}
	n, err := d.reg.Create(b.Type)
	if err != nil {
		return fmt.Errorf("node %q: %w", b.ID, err)
	}
	n.SetID(b.ID)
	if b.Name != nil {
		n.SetName(*b.Name)
	}
	if b.Position != nil {
		pos, err := vec2(b.Position)
		if err != nil {
			return fmt.Errorf("node %q position: %w", b.ID, err)
		}
		n.SetPosition(pos)
	}
	if b.Properties != nil {
		d.properties(n, b.Properties)
	}
	return d.p.Graph.AddNode(d.ctx, n)
}

func (d *decoder) properties(n node.Node, b *propertiesBlock) {
	attrs, diags := b.Body.JustAttributes()
	if diags.HasErrors() {
		d.warn("Node properties block ignored.", "node_id", n.ID(), "error", diags.Error())
		return
	}
	for name, attr := range attrs {
		prop, ok := node.FindProperty(n, name)
		if !ok {
			d.warn("Unknown property ignored.", "node_id", n.ID(), "node_type", n.TypeName(), "property", name)
			continue
		}
		raw, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			d.warn("Property value ignored.", "node_id", n.ID(), "property", name, "error", diags.Error())
			continue
		}
		v, err := toValue(raw, prop.Kind)
		if err != nil {
			d.warn("Property value ignored.", "node_id", n.ID(), "property", name, "error", err)
			continue
		}
		prop.Set(v)
	}
}

func (d *decoder) connection(b *connectionBlock) error {
	out, err := d.slot(b.From, true)
	if err != nil {
		return fmt.Errorf("connection from: %w", err)
	}
	in, err := d.slot(b.To, false)
	if err != nil {
		return fmt.Errorf("connection to: %w", err)
	}
	_, err = d.p.Graph.ConnectSlots(d.ctx, out, in)
	return err
}

func (d *decoder) slot(raw string, output bool) (*node.Slot, error) {
	addr, err := nodeid.Parse(raw)
	if err != nil {
		return nil, err
	}
	n, ok := d.p.Graph.Node(addr.Node)
	if !ok {
		return nil, fmt.Errorf("node '%s': %w", addr.Node, graph.ErrNodeNotFound)
	}
	var s *node.Slot
	if output {
		s = n.OutputSlot(addr.Member)
	} else {
		s = n.InputSlot(addr.Member)
	}
	if s == nil {
		return nil, fmt.Errorf("node '%s' has no slot '%s': %w", addr.Node, addr.Member, graph.ErrInvalidConnection)
	}
	return s, nil
}

func (d *decoder) animation(b *animationBlock) {
	key := timeline.Key(b.Node, b.Property)
	kind, ok := d.trackKind(b)
	if !ok {
		return
	}
	def := animation.Linear
	if b.Interpolation != nil {
		def = d.interpolation(key, *b.Interpolation, animation.Linear)
	}
	for _, kb := range b.Keyframes {
		v, err := toValue(kb.Value, kind)
		if err != nil {
			d.warn("Keyframe ignored.", "key", key, "time", kb.Time, "error", err)
			continue
		}
		k := animation.Keyframe{Time: kb.Time, Value: v, Interpolation: def}
		if kb.Interpolation != nil {
			k.Interpolation = d.interpolation(key, *kb.Interpolation, def)
		}
		if t, err := vec2(kb.InTangent); err == nil {
			k.InTangent = t
		}
		if t, err := vec2(kb.OutTangent); err == nil {
			k.OutTangent = t
		}
		if err := d.p.Timeline.InsertKeyframe(key, kind, k); err != nil {
			d.warn("Keyframe ignored.", "key", key, "time", kb.Time, "error", err)
		}
	}
	if prop, ok := d.p.Timeline.Property(key); ok {
		prop.Interpolation = def
	}
}

// trackKind prefers the node's property schema and falls back to the kind
// stored in the file, which keeps tracks of nodes that are not in the graph.
func (d *decoder) trackKind(b *animationBlock) (value.Kind, bool) {
	key := timeline.Key(b.Node, b.Property)
	if n, ok := d.p.Graph.Node(b.Node); ok {
		if prop, ok := node.FindProperty(n, b.Property); ok {
			return prop.Kind, true
		}
		d.warn("Animation of unknown property ignored.", "key", key, "node_type", n.TypeName())
		return value.KindNone, false
	}
	if b.Kind == nil {
		d.warn("Animation of a missing node without kind ignored.", "key", key)
		return value.KindNone, false
	}
	kind, err := value.ParseKind(*b.Kind)
	if err != nil {
		d.warn("Animation ignored.", "key", key, "error", err)
		return value.KindNone, false
	}
	return kind, true
}

func (d *decoder) interpolation(key, raw string, fallback animation.Interpolation) animation.Interpolation {
	interp, err := animation.ParseInterpolation(raw)
	if err != nil {
		d.warn("Unknown interpolation, using default.", "key", key, "interpolation", raw, "default", fallback.String())
		return fallback
	}
	return interp
}
