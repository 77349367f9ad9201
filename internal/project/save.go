package project

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/fxgraph/internal/animation"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/fsutil"
	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// Save writes the project to path and remembers path on success.
func (p *Project) Save(ctx context.Context, path string) error {
	if err := fsutil.WriteFileAtomic(path, p.Encode(), 0o644); err != nil {
		return fmt.Errorf("failed to save project %s: %w", path, err)
	}
	p.Path = path
	ctxlog.FromContext(ctx).Info("Project saved.", "path", path, "nodes", len(p.Graph.Nodes()))
	return nil
}

// Encode renders the project as HCL source. Nodes and connections keep the
// graph's order; animations are sorted by key.
func (p *Project) Encode() []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	s := p.Timeline.Settings()
	pb := root.AppendNewBlock("project", []string{p.Name}).Body()
	pb.SetAttributeValue("fps", cty.NumberFloatVal(s.FPS))
	pb.SetAttributeValue("duration", cty.NumberFloatVal(s.Duration))
	pb.SetAttributeValue("loop", cty.BoolVal(s.Loop))
	pb.SetAttributeValue("speed", cty.NumberFloatVal(s.Speed))
	pb.SetAttributeValue("current_time", cty.NumberFloatVal(p.Timeline.CurrentTime()))
	pb.SetAttributeValue("width", cty.NumberIntVal(int64(p.Width)))
	pb.SetAttributeValue("height", cty.NumberIntVal(int64(p.Height)))

	for _, n := range p.Graph.Nodes() {
		root.AppendNewline()
		encodeNode(root.AppendNewBlock("node", []string{n.TypeName(), n.ID()}).Body(), n)
	}
	for _, c := range p.Graph.Connections() {
		root.AppendNewline()
		cb := root.AppendNewBlock("connection", nil).Body()
		cb.SetAttributeValue("from", cty.StringVal(nodeid.Key(c.From.Owner().ID(), c.From.ID)))
		cb.SetAttributeValue("to", cty.StringVal(nodeid.Key(c.To.Owner().ID(), c.To.ID)))
	}
	for _, key := range p.Timeline.Properties() {
		prop, _ := p.Timeline.Property(key)
		addr, err := nodeid.Parse(key)
		if err != nil {
			continue
		}
		root.AppendNewline()
		encodeAnimation(root.AppendNewBlock("animation", []string{addr.Node, addr.Member}).Body(), prop)
	}
	return f.Bytes()
}

func encodeNode(b *hclwrite.Body, n node.Node) {
	b.SetAttributeValue("name", cty.StringVal(n.Name()))
	pos := n.Position()
	b.SetAttributeValue("position", floats(pos.X, pos.Y))
	props := n.Properties()
	if len(props) == 0 {
		return
	}
	pb := b.AppendNewBlock("properties", nil).Body()
	for _, prop := range props {
		if v, ok := toCty(prop.Get()); ok {
			pb.SetAttributeValue(prop.Name, v)
		}
	}
}

func encodeAnimation(b *hclwrite.Body, prop *animation.Property) {
	b.SetAttributeValue("kind", cty.StringVal(prop.Kind.String()))
	b.SetAttributeValue("interpolation", cty.StringVal(prop.Interpolation.String()))
	for _, k := range prop.Keyframes() {
		v, ok := toCty(k.Value)
		if !ok {
			continue
		}
		kb := b.AppendNewBlock("keyframe", nil).Body()
		kb.SetAttributeValue("time", cty.NumberFloatVal(k.Time))
		kb.SetAttributeValue("value", v)
		kb.SetAttributeValue("interpolation", cty.StringVal(k.Interpolation.String()))
		if k.Interpolation == animation.Bezier {
			kb.SetAttributeValue("in_tangent", floats(k.InTangent.X, k.InTangent.Y))
			kb.SetAttributeValue("out_tangent", floats(k.OutTangent.X, k.OutTangent.Y))
		}
	}
}
