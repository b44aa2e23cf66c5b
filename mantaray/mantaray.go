package mantaray

import (
	"bytes"
	"fmt"

	"github.com/Solar-Punk-Ltd/mantaray-go/utils"
)

const (
	nodeForkTypeBytesSize   = 1
	nodeForkPrefixBytesSize = 1
	nodeForkHeaderSize      = nodeForkTypeBytesSize + nodeForkPrefixBytesSize // 2
	// nodeForkPreReferenceSize is the size of a fork record up to the
	// reference.
	nodeForkPreReferenceSize = 32
	// nodePrefixMaxSize is the maximum length of a fork prefix.
	nodePrefixMaxSize = nodeForkPreReferenceSize - nodeForkHeaderSize // 30
	// nodeForkMetadataBytesSize is the size of the metadata length field.
	nodeForkMetadataBytesSize = 2
)

// AddFork inserts path with its entry reference and optional metadata
// into the subtree rooted at n. An empty path sets n's own entry.
//
// Prefixes that diverge from path are split, and path segments longer
// than the maximum prefix size are chained through intermediate edge
// nodes. Every node on the insertion path is marked dirty.
func (n *Node) AddFork(path []byte, entry Reference, metadata Metadata) error {
	if len(path) == 0 {
		if err := n.SetEntry(entry); err != nil {
			return err
		}
		if len(metadata) > 0 {
			n.SetMetadata(metadata)
		}
		n.makeDirty()
		return nil
	}

	if n.IsDirty() && n.forks == nil {
		n.forks = make(map[byte]*Fork)
	}
	if n.forks == nil {
		return ErrForksUndefined
	}

	f := n.forks[path[0]]
	if f == nil {
		nn := New()
		if n.obfuscationKey != nil {
			if err := nn.SetObfuscationKey(n.obfuscationKey); err != nil {
				return err
			}
		}

		if len(path) > nodePrefixMaxSize {
			prefix := path[:nodePrefixMaxSize]
			rest := path[nodePrefixMaxSize:]
			if err := nn.AddFork(rest, entry, metadata); err != nil {
				return err
			}
			nn.updateWithPathSeparator(prefix)
			n.forks[path[0]] = &Fork{Prefix: append([]byte{}, prefix...), Node: nn}
			n.makeEdge()
			n.makeDirty()
			return nil
		}

		if err := nn.SetEntry(entry); err != nil {
			return err
		}
		if len(metadata) > 0 {
			nn.SetMetadata(metadata)
		}
		nn.updateWithPathSeparator(path)
		n.forks[path[0]] = &Fork{Prefix: append([]byte{}, path...), Node: nn}
		n.makeEdge()
		n.makeDirty()
		return nil
	}

	common := utils.CommonPrefix(f.Prefix, path)
	if len(common) == 0 {
		return fmt.Errorf("%w: fork under key %d has prefix %q",
			ErrFormat, path[0], f.Prefix)
	}
	common = append([]byte{}, common...)
	rest := f.Prefix[len(common):]
	nn := f.Node

	if len(rest) > 0 {
		// split the fork: nn takes over the common prefix and the old
		// child moves below it under the rest of the old prefix
		nn = New()
		key := n.obfuscationKey
		if key == nil {
			key = make([]byte, ObfuscationKeySize)
		}
		if err := nn.SetObfuscationKey(key); err != nil {
			return err
		}
		f.Node.updateWithPathSeparator(rest)
		nn.forks = map[byte]*Fork{
			rest[0]: {Prefix: append([]byte{}, rest...), Node: f.Node},
		}
		nn.makeEdge()
		if len(path) == len(common) {
			nn.makeValue()
		}
	}

	// the full remaining path decides the separator flag, even when
	// the existing node is reused
	nn.updateWithPathSeparator(path)
	if err := nn.AddFork(path[len(common):], entry, metadata); err != nil {
		return err
	}
	n.forks[path[0]] = &Fork{Prefix: common, Node: nn}
	n.makeEdge()
	n.makeDirty()
	return nil
}

// RemovePath deletes the fork that ends exactly at path. Neighbouring
// forks are not merged back, so a parent may keep a single child.
//
// A fork matches when its prefix occurs anywhere within the remaining
// path, not only at its start; this mirrors the reference
// implementations and keeps their trees interchangeable.
func (n *Node) RemovePath(path []byte) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	if n.forks == nil {
		return fmt.Errorf("%w: %v", ErrNotFound, ErrForksUndefined)
	}
	f := n.forks[path[0]]
	if f == nil {
		return ErrNotFound
	}
	if utils.IndexOf(path, f.Prefix) == -1 {
		return ErrNotFound
	}

	rest := path[len(f.Prefix):]
	if len(rest) == 0 {
		delete(n.forks, path[0])
		n.makeDirty()
		return nil
	}
	if err := f.Node.RemovePath(rest); err != nil {
		return err
	}
	n.makeDirty()
	return nil
}

// ForkAtPath returns the fork whose prefix consumes the last bytes of
// path, using the same prefix check as RemovePath.
func (n *Node) ForkAtPath(path []byte) (*Fork, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}
	if n.forks == nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, ErrForksUndefined)
	}
	f := n.forks[path[0]]
	if f == nil {
		return nil, ErrNotFound
	}
	if utils.IndexOf(path, f.Prefix) == -1 {
		return nil, ErrNotFound
	}
	rest := path[len(f.Prefix):]
	if len(rest) == 0 {
		return f, nil
	}
	return f.Node.ForkAtPath(rest)
}

// LookupNode returns the node that terminates exactly at path. An
// empty path returns n itself.
func (n *Node) LookupNode(path []byte) (*Node, error) {
	if len(path) == 0 {
		return n, nil
	}
	f := n.forks[path[0]]
	if f == nil || !bytes.HasPrefix(path, f.Prefix) {
		return nil, ErrNotFound
	}
	return f.Node.LookupNode(path[len(f.Prefix):])
}

// Lookup returns the entry of the value node at path.
func (n *Node) Lookup(path []byte) (Reference, error) {
	node, err := n.LookupNode(path)
	if err != nil {
		return nil, err
	}
	if !node.IsValueType() {
		return nil, ErrNotFound
	}
	return node.Entry()
}

// WalkFunc is called by Walk for every visited node with the full path
// leading to it.
type WalkFunc func(path []byte, n *Node) error

// Walk visits n and its descendants depth-first, following forks in
// ascending key order. Only forks present in memory are followed.
func (n *Node) Walk(fn WalkFunc) error {
	return n.walk(nil, fn)
}

func (n *Node) walk(path []byte, fn WalkFunc) error {
	if err := fn(path, n); err != nil {
		return err
	}
	for _, k := range n.SortedForkKeys() {
		f := n.forks[k]
		next := make([]byte, 0, len(path)+len(f.Prefix))
		next = append(append(next, path...), f.Prefix...)
		if err := f.Node.walk(next, fn); err != nil {
			return err
		}
	}
	return nil
}
