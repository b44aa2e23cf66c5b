package mantaray

import (
	"bytes"
	"fmt"
)

// EqualNodes compares two trees structurally: node types, metadata,
// fork keys and fork prefixes must match at every level. Content
// addresses and entries are not compared. The returned error wraps
// ErrNodesNotEqual and names the path where the trees diverge.
func EqualNodes(a, b *Node) error {
	return equalNodes(a, b, nil)
}

func equalNodes(a, b *Node, accumulatedPrefix []byte) error {
	if a.typeSet != b.typeSet || a.nodeType != b.nodeType {
		return fmt.Errorf("%w: different type at prefix %q: %s <-> %s",
			ErrNodesNotEqual, accumulatedPrefix, a.nodeType, b.nodeType)
	}
	if !a.metadata.Equal(b.metadata) {
		return fmt.Errorf("%w: different metadata at prefix %q", ErrNodesNotEqual, accumulatedPrefix)
	}
	if len(a.forks) != len(b.forks) {
		return fmt.Errorf("%w: different fork count at prefix %q: %d <-> %d",
			ErrNodesNotEqual, accumulatedPrefix, len(a.forks), len(b.forks))
	}
	for _, k := range a.SortedForkKeys() {
		af := a.forks[k]
		bf, ok := b.forks[k]
		if !ok {
			return fmt.Errorf("%w: missing fork under key %q at prefix %q",
				ErrNodesNotEqual, k, accumulatedPrefix)
		}
		if !bytes.Equal(af.Prefix, bf.Prefix) {
			return fmt.Errorf("%w: different prefix under key %q at prefix %q",
				ErrNodesNotEqual, k, accumulatedPrefix)
		}
		next := append(append([]byte{}, accumulatedPrefix...), af.Prefix...)
		if err := equalNodes(af.Node, bf.Node, next); err != nil {
			return err
		}
	}
	return nil
}
