package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/model"
	"github.com/katiamach/terraguard/internal/scoring"
	"github.com/katiamach/terraguard/internal/service"
	"github.com/katiamach/terraguard/internal/tiles"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=handlers.go -destination=mock/mock.go AnalysisService,TileSource

const maxRequestBody = 1 << 16

const (
	msgInvalidBody     = "Invalid JSON body."
	msgMissingLocation = "Missing 'lat' and 'lon' in the JSON body."
	msgInternal        = "Internal server error."
)

// AnalysisService scores a location.
type AnalysisService interface {
	Analyze(ctx context.Context, q model.LocationQuery) (*model.RiskReport, error)
}

// TileSource returns map tiles.
type TileSource interface {
	Fetch(ctx context.Context, z, x, y int) (tiles.Tile, error)
}

// RiskServer serves the analysis API, the pages and the map tiles.
type RiskServer struct {
	service  AnalysisService
	tiles    TileSource
	sessions Sessions
}

// NewRiskServer creates new RiskServer.
func NewRiskServer(service AnalysisService, tiles TileSource, sessions Sessions) *RiskServer {
	return &RiskServer{
		service:  service,
		tiles:    tiles,
		sessions: sessions,
	}
}

type analyzeBody struct {
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
	Year *int     `json:"year"`
}

// AnalyzeHandler handles POST /api/analyze.
func (s *RiskServer) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	var body analyzeBody
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&body); err != nil {
		logger.Error(fmt.Errorf("failed to decode analyze request: %w", err))
		respondErr(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if body.Lat == nil || body.Lon == nil {
		respondErr(w, http.StatusBadRequest, msgMissingLocation)
		return
	}

	req := model.AnalyzeRequest{Lat: *body.Lat, Lon: *body.Lon, Year: body.Year}
	report, err := s.service.Analyze(r.Context(), req.Query())
	if err != nil {
		code, message := analyzeErrStatus(err)
		logger.WithFields(logrus.Fields{
			"lat":    req.Lat,
			"lon":    req.Lon,
			"status": code,
		}).Warn(fmt.Sprintf("analysis failed: %v", err))
		respondErr(w, code, message)
		return
	}

	respond(w, http.StatusOK, report)
}

func analyzeErrStatus(err error) (int, string) {
	var reqErr *scoring.RequestError

	switch {
	case errors.Is(err, service.ErrInvalidCoordinates), errors.Is(err, service.ErrInvalidYear):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &reqErr):
		return http.StatusBadGateway, reqErr.Message
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// HealthHandler handles GET /health.
func (s *RiskServer) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
