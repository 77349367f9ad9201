package nodes

import (
	"context"
	"errors"

	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/node"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/value"
)

// solidOr runs effect into the output slot and, when the backend lacks the
// effect, fills the target with c instead.
func solidOr(ctx context.Context, env *node.Env, b *node.Base, outID, effect string, params render.Params, c render.Color) error {
	err := b.Effect(ctx, env, outID, effect, params)
	if !errors.Is(err, render.ErrEffectUnavailable) {
		return err
	}
	ctxlog.FromContext(ctx).Warn("Effect unavailable, using solid fill.", "node_id", b.ID(), "effect", effect)
	target := b.RenderTarget(env, outID)
	target.Fill(c)
	b.SetOutput(outID, value.Texture(target))
	return nil
}

// passthroughOr runs effect into the output slot and, when the backend lacks
// the effect, copies in to the output unchanged.
func passthroughOr(ctx context.Context, env *node.Env, b *node.Base, outID, effect string, params render.Params, in *render.Texture) error {
	err := b.Effect(ctx, env, outID, effect, params)
	if !errors.Is(err, render.ErrEffectUnavailable) {
		return err
	}
	ctxlog.FromContext(ctx).Warn("Effect unavailable, passing input through.", "node_id", b.ID(), "effect", effect)
	target := b.RenderTarget(env, outID)
	target.CopyTexture(in)
	b.SetOutput(outID, value.Texture(target))
	return nil
}
