package mantaray

import (
	"bytes"
	"fmt"
	"sort"
)

// ObfuscationKeySize is the size of a node's obfuscation key.
const ObfuscationKeySize = 32

// A Fork is an edge of the trie: a non-empty path prefix and the child
// node it leads to. The fork exclusively owns its node.
type Fork struct {
	Prefix []byte
	Node   *Node
}

// Node is a Mantaray trie node.
//
// A node without a content address is dirty: it has not been persisted,
// or it was mutated after it was. Every setter and every structural
// mutation clears the content address.
type Node struct {
	nodeType       NodeType
	typeSet        bool
	obfuscationKey []byte
	contentAddress Reference
	entry          Reference
	metadata       Metadata
	forks          map[byte]*Fork
}

// New returns an empty, dirty node.
func New() *Node {
	return &Node{}
}

// Type returns the node type. It fails with ErrUninitializedField if
// the type was never set.
func (n *Node) Type() (NodeType, error) {
	if !n.typeSet {
		return 0, fmt.Errorf("%w: %q", ErrUninitializedField, "type")
	}
	return n.nodeType, nil
}

// SetType overwrites the node type.
func (n *Node) SetType(t NodeType) {
	n.nodeType = t
	n.typeSet = true
	n.makeDirty()
}

// ObfuscationKey returns the node's obfuscation key.
func (n *Node) ObfuscationKey() ([]byte, error) {
	if n.obfuscationKey == nil {
		return nil, fmt.Errorf("%w: %q", ErrUninitializedField, "obfuscationKey")
	}
	return n.obfuscationKey, nil
}

// SetObfuscationKey sets the 32-byte key used to mask the node's
// serialization. Nodes created below this one during insertion inherit it.
func (n *Node) SetObfuscationKey(key []byte) error {
	if len(key) != ObfuscationKeySize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidObfuscationKey, len(key))
	}
	n.obfuscationKey = append([]byte{}, key...)
	n.makeDirty()
	return nil
}

// Entry returns the reference addressed by the node.
func (n *Node) Entry() (Reference, error) {
	if n.entry == nil {
		return nil, fmt.Errorf("%w: %q", ErrUninitializedField, "entry")
	}
	return n.entry, nil
}

// SetEntry sets the reference addressed by the node. A non-zero entry
// makes the node a value node.
func (n *Node) SetEntry(entry Reference) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	n.entry = append(Reference{}, entry...)
	if !entry.IsZero() {
		n.makeValue()
	}
	n.makeDirty()
	return nil
}

// Metadata returns the node's metadata.
func (n *Node) Metadata() (Metadata, error) {
	if n.metadata == nil {
		return nil, fmt.Errorf("%w: %q", ErrUninitializedField, "metadata")
	}
	return n.metadata, nil
}

// SetMetadata replaces the node's metadata and sets TypeWithMetadata.
func (n *Node) SetMetadata(m Metadata) {
	n.metadata = m.Clone()
	if n.metadata == nil {
		n.metadata = Metadata{}
	}
	n.makeWithMetadata()
	n.makeDirty()
}

// ContentAddress returns the reference of the node's own serialization,
// or nil if the node is dirty.
func (n *Node) ContentAddress() Reference {
	return n.contentAddress
}

// SetContentAddress marks the node as persisted under ref.
func (n *Node) SetContentAddress(ref Reference) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	n.contentAddress = append(Reference{}, ref...)
	return nil
}

// IsDirty reports whether the node has to be serialized again before
// it can be referenced.
func (n *Node) IsDirty() bool {
	return n.contentAddress == nil
}

func (n *Node) makeDirty() {
	n.contentAddress = nil
}

// Forks returns the node's fork mapping keyed by the first byte of
// each fork's prefix. The map is owned by the node; it is nil for a
// node whose forks were never initialised.
func (n *Node) Forks() map[byte]*Fork {
	return n.forks
}

// SortedForkKeys returns the keys of the fork mapping in ascending order.
func (n *Node) SortedForkKeys() []byte {
	keys := make([]byte, 0, len(n.forks))
	for k := range n.forks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// IsValueType reports whether the node addresses content.
func (n *Node) IsValueType() bool { return n.typeSet && n.nodeType.IsValue() }

// IsEdgeType reports whether the node has forks.
func (n *Node) IsEdgeType() bool { return n.typeSet && n.nodeType.IsEdge() }

// IsWithPathSeparatorType reports whether the node's governing prefix
// contains a path separator.
func (n *Node) IsWithPathSeparatorType() bool {
	return n.typeSet && n.nodeType.IsWithPathSeparator()
}

// IsWithMetadataType reports whether the node carries metadata.
func (n *Node) IsWithMetadataType() bool { return n.typeSet && n.nodeType.IsWithMetadata() }

func (n *Node) makeType(t NodeType) {
	n.nodeType |= t
	n.typeSet = true
}

func (n *Node) makeValue() {
	n.makeType(TypeValue)
}

func (n *Node) makeEdge() {
	n.makeType(TypeEdge)
}

func (n *Node) makeWithMetadata() {
	n.makeType(TypeWithMetadata)
}

func (n *Node) makeWithPathSeparator() {
	n.makeType(TypeWithPathSeparator)
}

func (n *Node) makeNotWithPathSeparator() {
	n.nodeType &= typeMask ^ TypeWithPathSeparator
	n.typeSet = true
}

// updateWithPathSeparator sets or clears TypeWithPathSeparator
// depending on whether path contains PathSeparator. It does not
// dirty the node: the type is serialized by the parent.
func (n *Node) updateWithPathSeparator(path []byte) {
	if bytes.IndexByte(path, PathSeparator) >= 0 {
		n.makeWithPathSeparator()
	} else {
		n.makeNotWithPathSeparator()
	}
}
