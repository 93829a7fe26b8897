package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/model"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCoordinates = model.ErrInvalidCoordinates
	ErrInvalidYear        = errors.New("year should not be negative")
)

// Scorer provides the risk scoring call.
type Scorer interface {
	Analyze(ctx context.Context, q model.LocationQuery) (*model.RiskReport, error)
}

// AnalysisService provides location risk analysis.
type AnalysisService struct {
	scorer Scorer
}

// New creates new AnalysisService.
func New(scorer Scorer) *AnalysisService {
	return &AnalysisService{
		scorer: scorer,
	}
}

// Analyze validates the query, swapping inverted coordinates, and scores it.
func (s *AnalysisService) Analyze(ctx context.Context, q model.LocationQuery) (*model.RiskReport, error) {
	if q.Year < 0 {
		return nil, ErrInvalidYear
	}

	norm, swapped, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	if swapped {
		logger.WithFields(logrus.Fields{
			"lat": q.Latitude,
			"lon": q.Longitude,
		}).Warn("coordinates look inverted, swapping lat and lon")
	}

	report, err := s.scorer.Analyze(ctx, norm)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze location: %w", err)
	}

	return report, nil
}
