package graph

import "errors"

var (
	ErrNodeExists        = errors.New("node already in graph")
	ErrNodeNotFound      = errors.New("node not in graph")
	ErrDuplicateOutput   = errors.New("graph already has an output node")
	ErrOutputNodeRemoval = errors.New("output node cannot be removed")
	ErrInvalidConnection = errors.New("invalid connection")
	ErrCycle             = errors.New("cycle detected")
)
