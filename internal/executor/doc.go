// Package executor runs the node graph in dependency order.
//
// A full pass (Execute) refuses to start when the graph has a cycle, resets
// every node, orders the graph from its sink nodes and executes each node
// that has not already run through an upstream pull. A partial pass
// (ExecuteNode) resets and re-runs one node and its transitive
// dependencies only. Invalidate resets a set of affected nodes and re-runs
// them, reusing whatever upstream caches are still valid.
//
// The executor moves through Idle, Ordering and then either CycleDetected or
// Executing, and is Idle again when a pass returns.
package executor
