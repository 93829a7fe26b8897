package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/metrics"
	"github.com/katiamach/terraguard/internal/model"
	"github.com/tj/assert"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	m.Run()
}

func TestClientAnalyze(t *testing.T) {
	year := 2020

	cases := []struct {
		name            string
		status          int
		body            string
		query           model.LocationQuery
		expectedYear    *int
		expectedReport  *model.RiskReport
		expectedMessage string
	}{
		{
			name:   "ok",
			status: http.StatusOK,
			body:   `{"risk_percent": 42.5, "metrics_percent": {"seismic": 80, "flood": 20}}`,
			query:  model.LocationQuery{Latitude: 25.67, Longitude: -100.31, Year: 2020},
			expectedYear: &year,
			expectedReport: &model.RiskReport{
				RiskPercent:    42.5,
				MetricsPercent: map[model.MetricKey]float64{model.MetricSeismic: 80, model.MetricFlood: 20},
			},
		},
		{
			name:            "embedded error message",
			status:          http.StatusBadRequest,
			body:            `{"error":"bad coords"}`,
			query:           model.LocationQuery{Latitude: 1, Longitude: 2},
			expectedMessage: "bad coords",
		},
		{
			name:            "error without message",
			status:          http.StatusInternalServerError,
			body:            `{}`,
			query:           model.LocationQuery{Latitude: 1, Longitude: 2},
			expectedMessage: "Error 500",
		},
		{
			name:            "error page that is not json",
			status:          http.StatusBadGateway,
			body:            `<html><title>Bad Gateway</title></html>`,
			query:           model.LocationQuery{Latitude: 1, Longitude: 2},
			expectedMessage: "Error 502",
		},
		{
			name:            "malformed success body",
			status:          http.StatusOK,
			body:            `{"risk_percent": "high"`,
			query:           model.LocationQuery{Latitude: 1, Longitude: 2},
			expectedMessage: msgMalformed,
		},
		{
			name:            "null success body",
			status:          http.StatusOK,
			body:            `null`,
			query:           model.LocationQuery{Latitude: 1, Longitude: 2},
			expectedMessage: msgMalformed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var received model.AnalyzeRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Nil(t, json.NewDecoder(r.Body).Decode(&received))

				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := New(srv.URL, 0, metrics.New())
			report, err := c.Analyze(context.Background(), tc.query)

			assert.Equal(t, tc.query.Latitude, received.Lat)
			assert.Equal(t, tc.query.Longitude, received.Lon)
			assert.Equal(t, tc.expectedYear, received.Year)

			if tc.expectedMessage != "" {
				var reqErr *RequestError
				assert.True(t, errors.As(err, &reqErr))
				assert.Equal(t, tc.expectedMessage, err.Error())
				assert.Nil(t, report)
				return
			}

			assert.Nil(t, err)
			assert.Equal(t, tc.expectedReport, report)
		})
	}
}

func TestClientAnalyzeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, 0, metrics.New())
	_, err := c.Analyze(context.Background(), model.LocationQuery{Latitude: 1, Longitude: 2})

	var reqErr *RequestError
	assert.True(t, errors.As(err, &reqErr))
	assert.Equal(t, msgUnreachable, reqErr.Error())
	assert.NotNil(t, reqErr.Unwrap())
	assert.Equal(t, "network_error", outcome(err))
}

func TestYearIsSentAsNull(t *testing.T) {
	var raw map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"risk_percent": 1, "metrics_percent": {}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0, metrics.New()).Analyze(context.Background(), model.LocationQuery{Latitude: 1, Longitude: 2})
	assert.Nil(t, err)

	year, ok := raw["year"]
	assert.True(t, ok)
	assert.Nil(t, year)
}
