package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/essence-team/essence-backend/internal/domain/entities"
	domainrepo "github.com/essence-team/essence-backend/internal/domain/repositories"
)

type postgresSummaryStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPostgresSummaryStore creates a summary store backed by Postgres via
// GORM. The summaries table is managed by sql-migrate (see migrations/).
func NewPostgresSummaryStore(db *gorm.DB, logger *zap.Logger) domainrepo.SummaryStore {
	return &postgresSummaryStore{db: db, logger: logger}
}

func (s *postgresSummaryStore) Get(ctx context.Context, id string) (*entities.SummaryRecord, error) {
	var record entities.SummaryRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read summary %s: %w", id, err)
	}
	return &record, nil
}

func (s *postgresSummaryStore) Add(ctx context.Context, record *entities.SummaryRecord) error {
	if record == nil {
		return entities.ErrEmptyRecord
	}
	if record.ID == "" {
		return entities.ErrMissingID
	}

	existing, err := s.Get(ctx, record.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		if s.logger != nil {
			s.logger.Info("summary already exists, not overwriting",
				zap.String("id", record.ID),
			)
		}
		return nil
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to insert summary %s: %w", record.ID, err)
	}
	return nil
}

func (s *postgresSummaryStore) AddOrUpdate(ctx context.Context, record *entities.SummaryRecord) (*entities.SummaryRecord, error) {
	if record == nil {
		return nil, entities.ErrEmptyRecord
	}
	if record.ID == "" {
		return nil, entities.ErrMissingID
	}

	existing, err := s.Get(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
			return nil, fmt.Errorf("failed to insert summary %s: %w", record.ID, err)
		}
		return record.Clone(), nil
	}

	merged := existing.Clone()
	merged.Merge(record)
	if err := s.db.WithContext(ctx).Save(merged).Error; err != nil {
		return nil, fmt.Errorf("failed to update summary %s: %w", record.ID, err)
	}
	return merged.Clone(), nil
}

func (s *postgresSummaryStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&entities.SummaryRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete summary %s: %w", id, err)
	}
	return nil
}

func (s *postgresSummaryStore) List(ctx context.Context) ([]*entities.SummaryRecord, error) {
	var records []*entities.SummaryRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	return records, nil
}
