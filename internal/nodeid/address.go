package nodeid

// Address names one member of one node.
type Address struct {
	Node   string
	Member string
}

// New builds an address without validating it.
func New(nodeID, member string) Address {
	return Address{Node: nodeID, Member: member}
}

// String serializes the Address into its canonical `node.member` form.
func (a Address) String() string {
	if a.Node == "" && a.Member == "" {
		return ""
	}
	return a.Node + "." + a.Member
}

// IsZero reports whether the address is empty.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Key returns the canonical string form for a node id and member name.
func Key(nodeID, member string) string {
	return New(nodeID, member).String()
}
