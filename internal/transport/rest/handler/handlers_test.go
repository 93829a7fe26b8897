package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/model"
	"github.com/katiamach/terraguard/internal/scoring"
	"github.com/katiamach/terraguard/internal/service"
	"github.com/tj/assert"

	mock "github.com/katiamach/terraguard/internal/transport/rest/handler/mock"
)

var errTest = errors.New("test error")

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	m.Run()
}

var testReport = &model.RiskReport{
	RiskPercent: 72.4,
	MetricsPercent: map[model.MetricKey]float64{
		model.MetricSeismic:       80,
		model.MetricFlood:         20,
		model.MetricHurricane:     10,
		model.MetricFire:          61,
		model.MetricPrecipitation: 30,
		model.MetricVegetation:    45,
	},
}

func TestAnalyzeHandler(t *testing.T) {
	year := 2030

	cases := []struct {
		name            string
		body            string
		query           *model.LocationQuery
		serviceReport   *model.RiskReport
		serviceErr      error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "invalid json",
			body:            `{"lat": `,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: msgInvalidBody,
		},
		{
			name:            "missing lon",
			body:            `{"lat": 19.4}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: msgMissingLocation,
		},
		{
			name:            "invalid coordinates",
			body:            `{"lat": 200, "lon": 300}`,
			query:           &model.LocationQuery{Latitude: 200, Longitude: 300},
			serviceErr:      service.ErrInvalidCoordinates,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: service.ErrInvalidCoordinates.Error(),
		},
		{
			name:            "negative year",
			body:            `{"lat": 19.4, "lon": -99.1, "year": -1}`,
			query:           &model.LocationQuery{Latitude: 19.4, Longitude: -99.1, Year: -1},
			serviceErr:      service.ErrInvalidYear,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: service.ErrInvalidYear.Error(),
		},
		{
			name:  "upstream failure",
			body:  fmt.Sprintf(`{"lat": 19.4, "lon": -99.1, "year": %d}`, year),
			query: &model.LocationQuery{Latitude: 19.4, Longitude: -99.1, Year: year},
			serviceErr: fmt.Errorf("failed to analyze location: %w", &scoring.RequestError{
				StatusCode: http.StatusInternalServerError,
				Message:    "model not loaded",
			}),
			expectedStatus:  http.StatusBadGateway,
			expectedMessage: "model not loaded",
		},
		{
			name:            "unexpected failure",
			body:            `{"lat": 19.4, "lon": -99.1}`,
			query:           &model.LocationQuery{Latitude: 19.4, Longitude: -99.1},
			serviceErr:      errTest,
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: msgInternal,
		},
		{
			name:           "ok",
			body:           `{"lat": 19.4, "lon": -99.1, "year": null}`,
			query:          &model.LocationQuery{Latitude: 19.4, Longitude: -99.1},
			serviceReport:  testReport,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mock.NewMockAnalysisService(ctrl)
			s := NewRiskServer(mockService, nil, nil)

			if tc.query != nil {
				mockService.EXPECT().
					Analyze(gomock.Any(), *tc.query).
					Return(tc.serviceReport, tc.serviceErr)
			}

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(tc.body))

			s.AnalyzeHandler(w, r)

			res := w.Result()
			defer func() {
				err := res.Body.Close()
				assert.Nil(t, err)
			}()

			assert.Equal(t, tc.expectedStatus, res.StatusCode)
			assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

			if tc.expectedStatus != http.StatusOK {
				var resBody model.ErrorResponse
				err := json.NewDecoder(res.Body).Decode(&resBody)
				assert.Nil(t, err)
				assert.Equal(t, tc.expectedMessage, resBody.Error)
				return
			}

			var report model.RiskReport
			err := json.NewDecoder(res.Body).Decode(&report)
			assert.Nil(t, err)
			assert.Equal(t, *tc.serviceReport, report)
		})
	}
}

func TestHealthHandler(t *testing.T) {
	s := NewRiskServer(nil, nil, nil)

	w := httptest.NewRecorder()
	s.HealthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAnalyzeHandlerPassesContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockAnalysisService(ctrl)
	s := NewRiskServer(mockService, nil, nil)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "request")

	mockService.EXPECT().
		Analyze(ctx, model.LocationQuery{Latitude: 1, Longitude: 2}).
		Return(testReport, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"lat": 1, "lon": 2}`)).WithContext(ctx)
	s.AnalyzeHandler(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}
