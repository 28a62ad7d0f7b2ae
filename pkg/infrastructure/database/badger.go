package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	shared "github.com/dickravison/health-fitness-tracker/pkg"
	"github.com/dickravison/health-fitness-tracker/pkg/domain/keys"
	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// Key prefixes for BadgerDB storage
const (
	recordKeyPrefix    = "record:"
	indexKeyPrefix     = "gsi1:"
	executionKeyPrefix = "execution:"
)

// indexSep separates index key parts. It cannot occur in key segments.
const indexSep = "\x00"

// BadgerStore implements the record and execution stores on an embedded
// BadgerDB, for local runs. Every record has a primary entry and one GSI1
// entry whose key sorts by (GSI1PK, GSI1SK, primary key).
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadger opens the database at path, or an in-memory one when path is empty.
func OpenBadger(path string, logger *slog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return NewBadgerStore(db, logger), nil
}

func NewBadgerStore(db *badger.DB, logger *slog.Logger) *BadgerStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &BadgerStore{db: db, logger: logger.With("component", "badger")}
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

type badgerEnvelope struct {
	Attributes map[string]string `json:"attributes"`
	Body       json.RawMessage   `json:"body"`
}

func indexPrefix(partition string) string {
	return indexKeyPrefix + partition + indexSep
}

func (s *BadgerStore) Put(ctx context.Context, rec types.Record) error {
	key := rec.StoreKey()
	body, err := json.Marshal(rec)
	if err != nil {
		return apperrors.ErrInvalidPayload.WithCause(err)
	}
	attrs := key.Attributes()
	data, err := json.Marshal(badgerEnvelope{Attributes: attrs, Body: body})
	if err != nil {
		return apperrors.ErrInvalidPayload.WithCause(err)
	}

	primary := []byte(recordKeyPrefix + key.ID())
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(primary)
		if err == nil {
			return apperrors.ErrAlreadyExists.WithMetadata("id", key.ID())
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(primary, data); err != nil {
			return fmt.Errorf("set record: %w", err)
		}
		indexKey := indexPrefix(attrs[keys.AttrGSI1PK]) + attrs[keys.AttrGSI1SK] + indexSep + key.ID()
		if err := txn.Set([]byte(indexKey), primary); err != nil {
			return fmt.Errorf("set index: %w", err)
		}
		return nil
	})
	if err != nil && !apperrors.IsConflict(err) {
		return apperrors.ErrStorageError.WithCause(err).WithMetadata("id", key.ID())
	}
	return err
}

func (s *BadgerStore) Query(ctx context.Context, index string, partition keys.Composite, start, end string) ([]shared.StoredItem, error) {
	if index != keys.IndexGSI1 {
		return nil, apperrors.New(apperrors.CodeStorageError, fmt.Sprintf("unknown index %q", index))
	}
	prefix := []byte(indexPrefix(partition.String()))

	var items []shared.StoredItem
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek([]byte(string(prefix) + start)); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			rest := string(it.Item().Key()[len(prefix):])
			sortKey := rest
			if i := strings.Index(rest, indexSep); i >= 0 {
				sortKey = rest[:i]
			}
			if sortKey > end {
				break
			}

			primary, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			item, err := s.load(txn, primary)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.ErrStorageError.WithCause(err).WithMetadata("partition", partition.String())
	}
	return items, nil
}

func (s *BadgerStore) load(txn *badger.Txn, primary []byte) (shared.StoredItem, error) {
	entry, err := txn.Get(primary)
	if err != nil {
		return shared.StoredItem{}, fmt.Errorf("get %s: %w", primary, err)
	}
	var env badgerEnvelope
	if err := entry.Value(func(val []byte) error {
		return json.Unmarshal(val, &env)
	}); err != nil {
		return shared.StoredItem{}, fmt.Errorf("decode %s: %w", primary, err)
	}
	return shared.StoredItem{Key: keys.FromAttributes(env.Attributes), Data: env.Body}, nil
}

// --- Executions ---

func (s *BadgerStore) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal execution: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(executionKeyPrefix+record.ExecutionID), data)
	})
}

// UpdateExecution merges data into the stored execution's fields.
func (s *BadgerStore) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	key := []byte(executionKeyPrefix + id)
	return s.db.Update(func(txn *badger.Txn) error {
		fields := map[string]interface{}{}
		item, err := txn.Get(key)
		switch {
		case err == nil:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &fields)
			}); err != nil {
				return fmt.Errorf("decode execution: %w", err)
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		for k, v := range data {
			fields[k] = v
		}
		merged, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("marshal execution: %w", err)
		}
		return txn.Set(key, merged)
	})
}

// GetExecution reads back an execution record.
func (s *BadgerStore) GetExecution(ctx context.Context, id string) (*types.ExecutionRecord, error) {
	var rec types.ExecutionRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(executionKeyPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("get execution %s: %w", id, err)
	}
	return &rec, nil
}
