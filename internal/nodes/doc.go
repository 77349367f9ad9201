// Package nodes contains the built-in node types: generators, math
// operators, image filters and the terminal output node. Module registers
// all of them with a registry under the names defined in this package.
package nodes
