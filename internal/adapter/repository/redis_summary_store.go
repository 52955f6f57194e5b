package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/essence-team/essence-backend/internal/domain/entities"
	domainrepo "github.com/essence-team/essence-backend/internal/domain/repositories"
)

const summaryKeyPrefix = "summary:"

type redisSummaryStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSummaryStore creates a summary store backed by Redis. Records are
// stored as JSON values under summary:<id>, with no expiry: a summary stays
// cached until deleted administratively.
func NewRedisSummaryStore(client *redis.Client, logger *zap.Logger) domainrepo.SummaryStore {
	return &redisSummaryStore{client: client, logger: logger}
}

func summaryKey(id string) string {
	return summaryKeyPrefix + id
}

func (s *redisSummaryStore) Get(ctx context.Context, id string) (*entities.SummaryRecord, error) {
	raw, err := s.client.Get(ctx, summaryKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read summary %s: %w", id, err)
	}

	var record entities.SummaryRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("failed to decode summary %s: %w", id, err)
	}
	return &record, nil
}

func (s *redisSummaryStore) Add(ctx context.Context, record *entities.SummaryRecord) error {
	if record == nil {
		return entities.ErrEmptyRecord
	}
	if record.ID == "" {
		return entities.ErrMissingID
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode summary %s: %w", record.ID, err)
	}

	// SetNX keeps Add insert-only
	ok, err := s.client.SetNX(ctx, summaryKey(record.ID), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to write summary %s: %w", record.ID, err)
	}
	if !ok && s.logger != nil {
		s.logger.Info("summary already exists, not overwriting",
			zap.String("id", record.ID),
		)
	}
	return nil
}

func (s *redisSummaryStore) AddOrUpdate(ctx context.Context, record *entities.SummaryRecord) (*entities.SummaryRecord, error) {
	if record == nil {
		return nil, entities.ErrEmptyRecord
	}
	if record.ID == "" {
		return nil, entities.ErrMissingID
	}

	// Concurrent writers for the same id may interleave here; the
	// field-level merge keeps the final record well-formed either way.
	existing, err := s.Get(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	merged := record
	if existing != nil {
		merged = existing.Clone()
		merged.Merge(record)
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary %s: %w", record.ID, err)
	}
	if err := s.client.Set(ctx, summaryKey(record.ID), raw, 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to write summary %s: %w", record.ID, err)
	}
	return merged.Clone(), nil
}

func (s *redisSummaryStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, summaryKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete summary %s: %w", id, err)
	}
	return nil
}

func (s *redisSummaryStore) List(ctx context.Context) ([]*entities.SummaryRecord, error) {
	var records []*entities.SummaryRecord

	iter := s.client.Scan(ctx, 0, summaryKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read summary key %s: %w", iter.Val(), err)
		}
		var record entities.SummaryRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping undecodable summary record",
					zap.String("key", iter.Val()),
					zap.Error(err),
				)
			}
			continue
		}
		records = append(records, &record)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan summaries: %w", err)
	}
	return records, nil
}
