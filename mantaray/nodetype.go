package mantaray

import "strings"

// NodeType is the bitmask describing a node, serialized as the first
// byte of the fork record that leads to the node.
type NodeType uint8

const (
	// TypeValue marks a node whose entry addresses content.
	TypeValue NodeType = 2
	// TypeEdge marks a node with at least one fork.
	TypeEdge NodeType = 4
	// TypeWithPathSeparator marks a node whose governing prefix
	// contains PathSeparator.
	TypeWithPathSeparator NodeType = 8
	// TypeWithMetadata marks a node carrying metadata.
	TypeWithMetadata NodeType = 16

	typeMask NodeType = 255
)

// PathSeparator is the byte separating path segments.
const PathSeparator = '/'

// IsValue reports whether the TypeValue flag is set.
func (t NodeType) IsValue() bool { return t&TypeValue == TypeValue }

// IsEdge reports whether the TypeEdge flag is set.
func (t NodeType) IsEdge() bool { return t&TypeEdge == TypeEdge }

// IsWithPathSeparator reports whether the TypeWithPathSeparator flag is set.
func (t NodeType) IsWithPathSeparator() bool {
	return t&TypeWithPathSeparator == TypeWithPathSeparator
}

// IsWithMetadata reports whether the TypeWithMetadata flag is set.
func (t NodeType) IsWithMetadata() bool { return t&TypeWithMetadata == TypeWithMetadata }

func (t NodeType) String() string {
	var flags []string
	if t.IsValue() {
		flags = append(flags, "value")
	}
	if t.IsEdge() {
		flags = append(flags, "edge")
	}
	if t.IsWithPathSeparator() {
		flags = append(flags, "separator")
	}
	if t.IsWithMetadata() {
		flags = append(flags, "metadata")
	}
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, "|")
}
