package mantaray

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// A Loader fetches the bytes stored under a reference.
type Loader interface {
	Load(ctx context.Context, ref Reference) ([]byte, error)
}

// A Saver stores bytes and returns their reference.
type Saver interface {
	Save(ctx context.Context, data []byte) (Reference, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, ref Reference) ([]byte, error)

// Load calls f(ctx, ref).
func (f LoaderFunc) Load(ctx context.Context, ref Reference) ([]byte, error) {
	return f(ctx, ref)
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(ctx context.Context, data []byte) (Reference, error)

// Save calls f(ctx, data).
func (f SaverFunc) Save(ctx context.Context, data []byte) (Reference, error) {
	return f(ctx, data)
}

// Save persists every dirty node of the subtree rooted at n and returns
// n's content address. Children are saved concurrently and n is
// serialized only once all of them succeeded. A clean node returns its
// address without touching s.
//
// On failure, descendants saved so far keep their addresses and are
// skipped by the next Save.
func (n *Node) Save(ctx context.Context, s Saver) (Reference, error) {
	if !n.IsDirty() {
		return n.contentAddress, nil
	}
	if n.forks == nil {
		n.forks = make(map[byte]*Fork)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, f := range n.forks {
		child := f.Node
		eg.Go(func() error {
			_, err := child.Save(egCtx, s)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	data, err := n.MarshalBinary()
	if err != nil {
		return nil, err
	}
	ref, err := s.Save(ctx, data)
	if err != nil {
		return nil, err
	}
	if err := n.SetContentAddress(ref); err != nil {
		return nil, err
	}
	return n.contentAddress, nil
}

// Load fetches the node stored under ref and decodes it into n. Forks
// are decoded but their nodes are not fetched; see LoadAllNodes.
func (n *Node) Load(ctx context.Context, l Loader, ref Reference) error {
	if len(ref) == 0 {
		return fmt.Errorf("%w: reference is empty", ErrInvalidReference)
	}
	ref = append(Reference{}, ref...)
	data, err := l.Load(ctx, ref)
	if err != nil {
		return err
	}
	if err := n.UnmarshalBinary(data); err != nil {
		return err
	}
	return n.SetContentAddress(ref)
}

// LoadAllNodes loads every node below n depth-first, in ascending fork
// key order, using the reference each child was decoded with.
func LoadAllNodes(ctx context.Context, l Loader, n *Node) error {
	for _, k := range n.SortedForkKeys() {
		child := n.forks[k].Node
		ref, err := child.Entry()
		if err != nil {
			return err
		}
		if err := child.Load(ctx, l, ref); err != nil {
			return err
		}
		if err := LoadAllNodes(ctx, l, child); err != nil {
			return err
		}
	}
	return nil
}
