// Package badger implements db.Store over an embedded BadgerDB instance.
// It serves single-node deployments and tests without an external server.
package badger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// maxConflictRetries bounds read-modify-write retries on transaction conflicts.
const maxConflictRetries = 8

// Config holds BadgerDB settings.
type Config struct {
	// Path is the data directory. Empty runs fully in memory.
	Path   string
	Logger *zap.Logger
}

// Store implements db.Store via BadgerDB.
type Store struct {
	db *badger.DB
}

// NewStore opens a BadgerDB instance.
func NewStore(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}
	if cfg.Logger != nil {
		opts = opts.WithLogger(zapLogger{cfg.Logger.Sugar().Named("badger")})
	} else {
		opts.Logger = nil
	}

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: bdb}, nil
}

// Ping reports whether the database is open.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if s.db.IsClosed() {
		return &db.Error{Op: db.OpPing, Err: errors.New("database is closed")}
	}
	return nil
}

// Close closes the database. Errors are dropped to match the facade.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady returns immediately: an opened embedded store is ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}

	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return out, nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.set(ctx, badger.NewEntry([]byte(key), value))
}

// SetWithTTL stores a value with an expiration.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.set(ctx, badger.NewEntry([]byte(key), value).WithTTL(ttl))
}

func (s *Store) set(ctx context.Context, e *badger.Entry) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	if err := s.db.Update(func(txn *badger.Txn) error { return txn.SetEntry(e) }); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Del removes a key. Deleting a missing key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	if err := s.db.Update(func(txn *badger.Txn) error { return txn.Delete([]byte(key)) }); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Exists reports whether the key is present and not expired.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		var dbErr *db.Error
		if errors.As(err, &dbErr) {
			dbErr.Op = db.OpExists
		}
		return false, err
	}
	return true, nil
}

// IncrBy adds val to a decimal counter, creating it at zero. An existing expiry is kept.
func (s *Store) IncrBy(ctx context.Context, key string, val int64) error {
	return s.update(ctx, db.OpIncrBy, func(txn *badger.Txn) error {
		k := []byte(key)
		var (
			current   int64
			expiresAt uint64
		)
		item, err := txn.Get(k)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			current, err = strconv.ParseInt(string(raw), 10, 64)
			if err != nil {
				return fmt.Errorf("value is not an integer: %w", err)
			}
			expiresAt = item.ExpiresAt()
		}

		e := badger.NewEntry(k, []byte(strconv.FormatInt(current+val, 10)))
		e.ExpiresAt = expiresAt
		return txn.SetEntry(e)
	})
}

// Expire sets TTL on an existing key. When nx=true, the TTL is set only if the key has no expiry yet.
// A missing key is left alone.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	return s.update(ctx, db.OpExpire, func(txn *badger.Txn) error {
		k := []byte(key)
		item, err := txn.Get(k)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if nx && item.ExpiresAt() != 0 {
			return nil
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return txn.SetEntry(badger.NewEntry(k, raw).WithTTL(ttl))
	})
}

// update runs a read-modify-write transaction, retrying on conflicts.
func (s *Store) update(ctx context.Context, op string, fn func(txn *badger.Txn) error) error {
	for range maxConflictRetries {
		if err := ctx.Err(); err != nil {
			return &db.Error{Op: op, Err: err}
		}
		err := s.db.Update(fn)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if err != nil {
			return &db.Error{Op: op, Err: err}
		}
		return nil
	}
	return &db.Error{Op: op, Err: badger.ErrConflict}
}

// zapLogger adapts zap to badger.Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Errorf(format string, args ...any)   { l.s.Errorf(format, args...) }
func (l zapLogger) Warningf(format string, args ...any) { l.s.Warnf(format, args...) }
func (l zapLogger) Infof(format string, args ...any)    { l.s.Debugf(format, args...) }
func (l zapLogger) Debugf(format string, args ...any)   { l.s.Debugf(format, args...) }
