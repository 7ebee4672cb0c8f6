package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// Revoker remembers logged-out token ids until the tokens would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// BadgerRevoker keeps revoked ids in an embedded Badger store with per-entry TTL.
type BadgerRevoker struct {
	db  *badger.DB
	now func() time.Time
}

// OpenBadger opens the store at path, or a throwaway in-memory store when inMemory is set.
func OpenBadger(path string, inMemory bool) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1).
		WithNumGoroutines(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

func NewBadgerRevoker(db *badger.DB) *BadgerRevoker {
	return &BadgerRevoker{db: db, now: time.Now}
}

func (r *BadgerRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(revokedKeyPrefix+tokenID), []byte{1}).WithTTL(ttl)
		return txn.SetEntry(e)
	})
}

func (r *BadgerRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(revokedKeyPrefix + tokenID))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RedisRevoker shares revoked ids between instances through Redis.
type RedisRevoker struct {
	client *redis.Client
	now    func() time.Time
}

// OpenRedis connects using a redis:// URL and pings the server.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewRedisRevoker(client *redis.Client) *RedisRevoker {
	return &RedisRevoker{client: client, now: time.Now}
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
