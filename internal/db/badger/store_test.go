package badger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(Config{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func expiresAt(t *testing.T, s *Store, key string) uint64 {
	t.Helper()
	var exp uint64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		exp = item.ExpiresAt()
		return nil
	})
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return exp
}

func TestStore_PingAndReady(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := s.WaitForReady(ctx, time.Second); err != nil {
		t.Fatalf("WaitForReady: %v", err)
	}
}

func TestStore_PingAfterClose(t *testing.T) {
	s, err := NewStore(Config{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s.Close()

	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error after close")
	}
}

func TestStore_SetGetDel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	ok, err := s.Exists(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}

	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del of missing key: %v", err)
	}
	ok, err = s.Exists(ctx, "k")
	if err != nil || ok {
		t.Fatalf("Exists after delete = %v, %v", ok, err)
	}
}

func TestStore_SetWithTTL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetWithTTL(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	if expiresAt(t, s, "k") == 0 {
		t.Fatal("expected expiry to be set")
	}
}

func TestStore_IncrBy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, n := range []int64{5, 7, -2} {
		if err := s.IncrBy(ctx, "counter", n); err != nil {
			t.Fatalf("IncrBy(%d): %v", n, err)
		}
	}
	got, err := s.Get(ctx, "counter")
	if err != nil || string(got) != "10" {
		t.Fatalf("counter = %q, %v", got, err)
	}
}

func TestStore_IncrBy_NotInteger(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Set(ctx, "k", []byte("abc"))
	err := s.IncrBy(ctx, "k", 1)
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpIncrBy {
		t.Fatalf("expected INCRBY db.Error, got %v", err)
	}
}

func TestStore_IncrBy_KeepsExpiry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.IncrBy(ctx, "counter", 1)
	_ = s.Expire(ctx, "counter", time.Hour, false)
	before := expiresAt(t, s, "counter")

	_ = s.IncrBy(ctx, "counter", 1)
	if after := expiresAt(t, s, "counter"); after != before {
		t.Fatalf("expiry changed: %d -> %d", before, after)
	}
}

func TestStore_IncrBy_Concurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				_ = s.IncrBy(ctx, "counter", 1)
			}
		}()
	}
	wg.Wait()

	got, _ := s.Get(ctx, "counter")
	if string(got) == "" {
		t.Fatal("counter missing")
	}
}

func TestStore_ExpireNX(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Set(ctx, "k", []byte("v"))
	if err := s.Expire(ctx, "k", time.Hour, true); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	first := expiresAt(t, s, "k")
	if first == 0 {
		t.Fatal("expected expiry after NX on key without TTL")
	}

	if err := s.Expire(ctx, "k", 48*time.Hour, true); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if got := expiresAt(t, s, "k"); got != first {
		t.Fatalf("NX must not reset expiry: %d -> %d", first, got)
	}

	if err := s.Expire(ctx, "k", 48*time.Hour, false); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if got := expiresAt(t, s, "k"); got <= first {
		t.Fatalf("expected later expiry without NX, got %d (was %d)", got, first)
	}
}

func TestStore_ExpireMissingKey(t *testing.T) {
	s := newTestStore(t)
	if err := s.Expire(context.Background(), "missing", time.Hour, true); err != nil {
		t.Fatalf("Expire on missing key: %v", err)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
