package nodes

import (
	"context"

	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
)

const resultKey = "result"

// Output is the terminal node of a graph. It has no outputs; the texture
// input wins over the color input, which is promoted to a solid texture.
type Output struct {
	node.Base
}

func NewOutput() *Output {
	n := &Output{}
	n.SetRole(node.RoleOutput)
	n.Setup(n, "Output")
	return n
}

func (n *Output) TypeName() string { return TypeOutput }

func (n *Output) InitializeSlots() {
	n.AddInput("color", "Color", value.TypeColor)
	n.AddInput("texture", "Texture", value.TypeTexture)
}

func (n *Output) Properties() []node.Property { return nil }

func (n *Output) Execute(ctx context.Context, env *node.Env) {
	n.Run(ctx, env, func(ctx context.Context, env *node.Env) error {
		if tex := n.PullTexture(ctx, env, "texture"); tex != nil {
			n.SetOutput(resultKey, value.Texture(tex))
			return nil
		}
		if v, ok := n.Pull(ctx, env, "color", value.TypeTexture); ok {
			n.SetOutput(resultKey, v)
		}
		return nil
	})
}

// Result returns the texture produced by the last pass, or nil when neither
// input delivered data.
func (n *Output) Result() *render.Texture {
	v, ok := n.Output(resultKey)
	if !ok {
		return nil
	}
	tex, _ := v.Texture()
	return tex
}
