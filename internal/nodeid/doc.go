/*
Package nodeid provides the structured form of the two-segment addresses the
engine uses to name a member of a node, in the canonical format
`node.member`.

The member is either a slot id (for connection endpoints in project files)
or a property name (for timeline keys). Node identifiers may be UUIDs or
hand-written names; neither segment may contain a dot.
*/
package nodeid
