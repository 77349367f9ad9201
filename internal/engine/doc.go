// Package engine is the host shell around the core: it owns a graph, its
// timeline and an executor, drives them once per tick and releases render
// targets when nodes leave the graph.
//
// A tick advances the timeline, writes every animated value into its node
// property, and runs a full pass. RenderFrame does the same for an explicit
// frame and returns the output node's texture.
package engine
