package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/encuentro-api/internal/apperror"
	"github.com/gravadigital/encuentro-api/internal/domain/sentiment"
)

type fakeSentimentRepo struct {
	records   []*sentiment.Sentiment
	createErr error
}

func (r *fakeSentimentRepo) Create(ctx context.Context, s *sentiment.Sentiment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, s)
	return nil
}

func (r *fakeSentimentRepo) GetAll(ctx context.Context) ([]*sentiment.Sentiment, error) {
	return r.records, nil
}

type fakeAnalyzer struct {
	result sentiment.Result
	err    error
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, text string) (sentiment.Result, error) {
	if a.err != nil {
		return sentiment.Result{}, a.err
	}
	return a.result, nil
}

func TestSentimentAnalyzeStoresResult(t *testing.T) {
	repo := &fakeSentimentRepo{}
	svc := NewSentimentService(repo, &fakeAnalyzer{result: sentiment.Result{Label: "positive", Score: 0.93}})

	record, err := svc.Analyze(context.Background(), "la feria estuvo excelente")
	require.NoError(t, err)
	assert.Equal(t, "positive", record.Label)
	assert.InDelta(t, 0.93, record.Score, 1e-9)
	require.Len(t, repo.records, 1)
	assert.Equal(t, "la feria estuvo excelente", repo.records[0].Message)
}

func TestSentimentAnalyzeRejectsEmptyMessage(t *testing.T) {
	repo := &fakeSentimentRepo{}
	svc := NewSentimentService(repo, &fakeAnalyzer{})

	_, err := svc.Analyze(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
	assert.Empty(t, repo.records)
}

func TestSentimentAnalyzeRemoteFailureIsInternal(t *testing.T) {
	repo := &fakeSentimentRepo{}
	svc := NewSentimentService(repo, &fakeAnalyzer{err: errors.New("api unreachable")})

	_, err := svc.Analyze(context.Background(), "hola")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.Empty(t, repo.records)
}

func TestHTTPAnalyzerParsesPrediction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret-key", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`{"predictions":[{"prediction":"negative","probability":0.81}]}`))
	}))
	defer srv.Close()

	analyzer := NewHTTPAnalyzer(srv.URL, "secret-key")
	result, err := analyzer.Analyze(context.Background(), "no me gustó")
	require.NoError(t, err)
	assert.Equal(t, "negative", result.Label)
	assert.InDelta(t, 0.81, result.Score, 1e-9)
}

func TestHTTPAnalyzerNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	analyzer := NewHTTPAnalyzer(srv.URL, "")
	_, err := analyzer.Analyze(context.Background(), "hola")
	assert.Error(t, err)
}
