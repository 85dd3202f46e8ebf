package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/nestquery/nestquery/pkg/types"
)

const keyPrefix = "listing:"

// BadgerStore implements Store over an embedded BadgerDB catalog with JSON
// values keyed by listing ID.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens the catalog at path. An empty path opens an
// in-memory catalog, used by tests and local runs.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// FetchAttributes implements Store.
func (s *BadgerStore) FetchAttributes(ctx context.Context, listingID string) (*types.ListingAttributes, error) {
	if listingID == "" {
		return nil, types.NewValidationError("listing id cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var attrs types.ListingAttributes
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + listingID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &attrs)
		})
	})
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog read for %s: %w", listingID, err)
	}
	return &attrs, nil
}

// PutAttributes writes one listing record. Used by the indexing side and by
// test fixtures; the search path never calls it.
func (s *BadgerStore) PutAttributes(listingID string, attrs *types.ListingAttributes) error {
	if listingID == "" {
		return types.NewValidationError("listing id cannot be empty")
	}

	value, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("encode listing %s: %w", listingID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+listingID), value)
	})
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BadgerStore)(nil)
