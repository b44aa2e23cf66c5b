// Package storage provides a content addressed blob store on top of a
// kv.DB. It is the persistence collaborator for mantaray manifests:
// nodes are saved under the keccak256 hash of their serialization.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Solar-Punk-Ltd/mantaray-go/application"
	"github.com/Solar-Punk-Ltd/mantaray-go/crypto"
	"github.com/Solar-Punk-Ltd/mantaray-go/mantaray"
	"github.com/Solar-Punk-Ltd/mantaray-go/storage/kv"
)

var (
	// ErrNotFound indicates that no blob is stored under a reference.
	ErrNotFound = errors.New("[storage] Blob not found")
	// ErrRootNotFound indicates that no manifest root is stored under a name.
	ErrRootNotFound = errors.New("[storage] Root not found")
)

// Store is a content addressed blob store. It implements
// mantaray.Loader and mantaray.Saver.
type Store struct {
	db     kv.DB
	logger *application.Logger
}

var (
	_ mantaray.Loader = (*Store)(nil)
	_ mantaray.Saver  = (*Store)(nil)
)

// NewStore returns a Store backed by db. A nil logger discards all
// output.
func NewStore(db kv.DB, logger *application.Logger) *Store {
	if logger == nil {
		logger = application.NewNopLogger()
	}
	return &Store{db: db, logger: logger}
}

// Save stores data under its keccak256 hash and returns the hash as
// reference. Saving the same bytes twice writes them once.
func (s *Store) Save(ctx context.Context, data []byte) (mantaray.Reference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ref := mantaray.Reference(crypto.Keccak256(data))
	key := blobKey(ref)
	ok, err := s.db.Has(key)
	if err != nil {
		return nil, err
	}
	if ok {
		s.logger.Debug("Blob already stored", "ref", ref.String())
		return ref, nil
	}
	if err := s.db.Put(key, data); err != nil {
		return nil, err
	}
	s.logger.Debug("Stored blob", "ref", ref.String(), "size", len(data))
	return ref, nil
}

// Load returns the blob stored under ref.
func (s *Store) Load(ctx context.Context, ref mantaray.Reference) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.db.Get(blobKey(ref))
	if err == s.db.ErrNotFound() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Loaded blob", "ref", ref.String(), "size", len(data))
	return data, nil
}

// PutRoot records ref as the manifest root called name.
func (s *Store) PutRoot(name string, ref mantaray.Reference) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if err := s.db.Put(rootKey(name), ref); err != nil {
		return err
	}
	s.logger.Info("Updated manifest root", "name", name, "ref", ref.String())
	return nil
}

// Root returns the manifest root recorded under name.
func (s *Store) Root(name string) (mantaray.Reference, error) {
	ref, err := s.db.Get(rootKey(name))
	if err == s.db.ErrNotFound() {
		return nil, fmt.Errorf("%w: %q", ErrRootNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return mantaray.Reference(ref), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func blobKey(ref mantaray.Reference) []byte {
	key := make([]byte, 0, 1+len(ref))
	key = append(key, BlobIdentifier)
	key = append(key, ref...)
	return key
}

func rootKey(name string) []byte {
	key := make([]byte, 0, 1+len(name))
	key = append(key, RootIdentifier)
	key = append(key, name...)
	return key
}
