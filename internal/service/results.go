package service

import (
	"context"
	"time"

	"github.com/ovolkov/spimexpulse/internal/domain/models"
	"github.com/ovolkov/spimexpulse/internal/storage"
)

// TradingResultsService defines read-side business logic over persisted
// results. This decouples HTTP handlers from data access.
type TradingResultsService interface {
	LastTradingDates(ctx context.Context, limit int) ([]time.Time, error)
	GetTradingResults(ctx context.Context, filter storage.ResultsFilter) ([]models.TradingResult, error)
	GetDynamics(ctx context.Context, filter storage.ResultsFilter, start, end time.Time) ([]models.TradingResult, error)
}

type tradingResultsService struct {
	repo storage.ResultsRepository
}

func NewTradingResultsService(repo storage.ResultsRepository) TradingResultsService {
	return &tradingResultsService{repo: repo}
}

func (s *tradingResultsService) LastTradingDates(ctx context.Context, limit int) ([]time.Time, error) {
	return s.repo.LastTradingDates(limit)
}

func (s *tradingResultsService) GetTradingResults(ctx context.Context, filter storage.ResultsFilter) ([]models.TradingResult, error) {
	return s.repo.GetTradingResults(filter)
}

func (s *tradingResultsService) GetDynamics(ctx context.Context, filter storage.ResultsFilter, start, end time.Time) ([]models.TradingResult, error) {
	return s.repo.GetDynamics(filter, start, end)
}
