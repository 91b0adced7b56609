package services

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/encuentro-api/internal/apperror"
	"github.com/gravadigital/encuentro-api/internal/domain/sentiment"
	"github.com/gravadigital/encuentro-api/internal/logger"
	"github.com/gravadigital/encuentro-api/internal/storage/postgres"
)

// Analyzer is the external sentiment-analysis collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (sentiment.Result, error)
}

// SentimentService analyzes a message through the external API and stores
// the result.
type SentimentService struct {
	repo     postgres.SentimentRepository
	analyzer Analyzer
	log      *log.Logger
}

// NewSentimentService crea una nueva instancia del servicio de sentimiento
func NewSentimentService(repo postgres.SentimentRepository, analyzer Analyzer) *SentimentService {
	return &SentimentService{
		repo:     repo,
		analyzer: analyzer,
		log:      logger.Service("sentiment"),
	}
}

// Analyze runs the external analysis and persists the outcome.
func (s *SentimentService) Analyze(ctx context.Context, message string) (*sentiment.Sentiment, error) {
	if message == "" {
		return nil, apperror.New(apperror.KindValidationFailed, "message is required").WithFields("message")
	}

	result, err := s.analyzer.Analyze(ctx, message)
	if err != nil {
		s.log.Error("sentiment analysis failed", "error", err)
		return nil, apperror.Wrap(apperror.KindInternal, err, "sentiment analysis failed")
	}

	record := &sentiment.Sentiment{
		Message: message,
		Label:   result.Label,
		Score:   result.Score,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, apperror.Wrap(apperror.KindStoreUnavailable, err, "failed to store sentiment record")
	}

	return record, nil
}

// List returns stored records, newest first.
func (s *SentimentService) List(ctx context.Context) ([]*sentiment.Sentiment, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStoreUnavailable, err, "failed to list sentiment records")
	}
	return records, nil
}
