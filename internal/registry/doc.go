// Package registry maps node type names to constructors.
//
// Projects refer to node types by name (e.g., "blur", "noise"). During
// application startup every Module registers its constructors here, and the
// registry is validated so that each constructor actually produces a node
// reporting the name it was registered under. Deserialization then calls
// Create to turn a type name back into a fresh node.
package registry
