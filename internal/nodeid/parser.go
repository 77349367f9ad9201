package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex matches a single address segment.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// isValidSegmentName rejects undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	return name != "-" && name != "_"
}

// Parse creates an Address by parsing its canonical string representation.
func Parse(raw string) (Address, error) {
	if raw == "" {
		return Address{}, fmt.Errorf("address cannot be empty")
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 2 {
		return Address{}, fmt.Errorf("address %q must have exactly two segments, got %d", raw, len(parts))
	}
	for _, segment := range parts {
		if segment == "" {
			return Address{}, fmt.Errorf("address %q contains an empty segment", raw)
		}
		if !segmentRegex.MatchString(segment) {
			return Address{}, fmt.Errorf("invalid address segment format: %q", segment)
		}
		if !isValidSegmentName(segment) {
			return Address{}, fmt.Errorf("invalid segment name: %q", segment)
		}
	}

	return Address{Node: parts[0], Member: parts[1]}, nil
}

// ValidNodeID reports whether id can be used as the node segment of an address.
func ValidNodeID(id string) bool {
	return segmentRegex.MatchString(id) && isValidSegmentName(id)
}
