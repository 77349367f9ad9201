// Package render is the boundary between the node graph and the pixels.
//
// Nodes treat rendering as an opaque capability: they allocate render targets
// from a Backend and ask it to run a named effect with textures, floats,
// colors and strings as parameters. RunEffect is synchronous from the caller's
// point of view; once it returns, the target texture is populated.
//
// The package ships a software Backend built on gogpu/gg pixmaps, with image
// filtering delegated to bild. Texture handles are stable pointers and are
// safe to store in a node's output cache. Textures are not safe for
// concurrent use.
package render
