package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/encuentro-api/internal/domain/sentiment"
	"github.com/gravadigital/encuentro-api/internal/logger"
)

// PostgresSentimentRepository implements SentimentRepository using GORM
type PostgresSentimentRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresSentimentRepository creates a new PostgreSQL sentiment repository
func NewPostgresSentimentRepository(db *gorm.DB) *PostgresSentimentRepository {
	return &PostgresSentimentRepository{
		db:  db,
		log: logger.Repository("sentiment"),
	}
}

func (r *PostgresSentimentRepository) Create(ctx context.Context, s *sentiment.Sentiment) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		r.log.Error("failed to create sentiment record", "error", err)
		return fmt.Errorf("failed to create sentiment record: %w", err)
	}
	return nil
}

func (r *PostgresSentimentRepository) GetAll(ctx context.Context) ([]*sentiment.Sentiment, error) {
	var records []*sentiment.Sentiment
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		r.log.Error("failed to get sentiment records", "error", err)
		return nil, fmt.Errorf("failed to get sentiment records: %w", err)
	}
	return records, nil
}
