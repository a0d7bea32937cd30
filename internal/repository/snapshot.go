package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

type SnapshotRepository interface {
	CreateOrUpdate(ctx context.Context, snapshot *entity.Snapshot) error
	GetByID(ctx context.Context, id string) ([]byte, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbSnapshot struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotRepository - mirrors public session snapshots into redis under "game:<id>".
func NewSnapshotRepository(client *redis.Client, ttl time.Duration) SnapshotRepository {
	return &dbSnapshot{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbSnapshot) CreateOrUpdate(ctx context.Context, snapshot *entity.Snapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}

	err = that.client.Set(ctx, snapshotKey(snapshot.ID), snapshotJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}

	return nil
}

func (that *dbSnapshot) GetByID(ctx context.Context, id string) ([]byte, error) {
	response, err := that.client.Get(ctx, snapshotKey(id)).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot by id: %w", err)
	}

	return response, nil
}

func (that *dbSnapshot) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, snapshotKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot by id: %w", err)
	}

	if deleted == 0 {
		return ErrSnapshotNotFound
	}

	return nil
}

func snapshotKey(id string) string {
	return "game:" + id
}
