// Package graph holds the compositor's node graph: the nodes, the
// connections between their slots, and every mutation over them.
//
// # Ownership
//
// A Graph exclusively owns its nodes and its connection list. Connections are
// only created and destroyed through Graph methods, which keeps the input
// slots' source references and the connection list in agreement.
//
// # Structural errors
//
// Every mutation validates before it changes anything. A rejected call
// returns one of the sentinel errors below, logs a warning and leaves the
// graph exactly as it was:
//
//   - ErrNodeExists: the node (or its id) is already present
//   - ErrDuplicateOutput: a second output-role node
//   - ErrOutputNodeRemoval: removing the output node
//   - ErrNodeNotFound: an endpoint or node that is not a member
//   - ErrInvalidConnection: slots that fail the compatibility rules
//
// # Queries used by the executor
//
// HasCycle and DetectCycle walk the directed graph induced by connections
// (upstream owner to downstream owner) with the usual three-state depth-first
// search. SinkNodes returns the nodes none of whose outputs feed anything;
// they are the roots of a full pass. Dependencies, Dependents and Downstream
// expose the edge structure for partial passes and invalidation.
//
// # Observers
//
// Subscribe registers a listener that is told about every node addition,
// node removal, connection and disconnection. Listeners run after the
// mutation is complete.
//
// # Thread-safety
//
// A Graph is not safe for concurrent use. A single owner issues all
// mutations and execution requests.
package graph
