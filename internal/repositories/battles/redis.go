package battles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
)

// IndexKey is the set of every stored battle ID
const IndexKey = "battles"

// Key returns the key a snapshot is stored under
func Key(id string) string {
	return fmt.Sprintf("battle:%s", id)
}

type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
}

// NewRedis creates a Redis backed repository
func NewRedis(client redis.UniversalClient, timeProvider TimeProvider) Repository {
	if timeProvider == nil {
		timeProvider = SystemTimeProvider()
	}
	return &redisRepo{
		client:       client,
		timeProvider: timeProvider,
	}
}

func (r *redisRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return apperr.InvalidArgument("snapshot cannot be nil")
	}
	if snap.ID == "" {
		return apperr.InvalidArgument("snapshot ID is required")
	}

	snap.UpdatedAt = r.timeProvider.Now()
	jsonData, err := json.Marshal(snap)
	if err != nil {
		return apperr.Wrap(err, "failed to marshal snapshot")
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, Key(snap.ID), string(jsonData), 0)
	pipe.SAdd(ctx, IndexKey, snap.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Wrap(err, "failed to save snapshot in Redis")
	}

	return nil
}

func (r *redisRepo) Get(ctx context.Context, id string) (*Snapshot, error) {
	jsonData, err := r.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFoundf("battle %s not found", id)
		}
		return nil, apperr.Wrap(err, "failed to get snapshot from Redis")
	}

	var snap Snapshot
	if err := json.Unmarshal(jsonData, &snap); err != nil {
		return nil, apperr.Wrap(err, "failed to unmarshal snapshot")
	}

	return &snap, nil
}

func (r *redisRepo) Delete(ctx context.Context, id string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, Key(id))
	pipe.SRem(ctx, IndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Wrap(err, "failed to delete snapshot from Redis")
	}
	return nil
}

// List fetches every indexed snapshot concurrently. Index entries whose
// snapshot is gone are skipped.
func (r *redisRepo) List(ctx context.Context) ([]*Snapshot, error) {
	ids, err := r.client.SMembers(ctx, IndexKey).Result()
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list battles from Redis")
	}
	sort.Strings(ids)

	snaps := make([]*Snapshot, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			snap, err := r.Get(gctx, id)
			if err != nil {
				if apperr.IsNotFound(err) {
					log.Printf("[BATTLES] index entry %s has no snapshot", id)
					return nil
				}
				return apperr.Wrapf(err, "failed to get battle %s", id)
			}
			snaps[i] = snap
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := snaps[:0]
	for _, snap := range snaps {
		if snap != nil {
			out = append(out, snap)
		}
	}
	return out, nil
}
