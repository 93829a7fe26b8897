// Package scoring talks to the external risk scoring service.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/metrics"
	"github.com/katiamach/terraguard/internal/model"
	"github.com/sirupsen/logrus"
)

// maxBodySize caps how much of a scoring response is read.
const maxBodySize = 1 << 20

// Client calls POST <url> with a model.AnalyzeRequest body.
type Client struct {
	url        string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// New creates new Client. A zero timeout means the call may wait forever.
func New(url string, timeout time.Duration, m *metrics.Metrics) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
	}
}

// Analyze sends q to the scoring service. Every failure is returned as a
// *RequestError.
func (c *Client) Analyze(ctx context.Context, q model.LocationQuery) (*model.RiskReport, error) {
	start := time.Now()

	report, err := c.analyze(ctx, q)

	c.metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	c.metrics.ScoringRequests.WithLabelValues(outcome(err)).Inc()

	fields := logrus.Fields{
		"lat":      q.Latitude,
		"lon":      q.Longitude,
		"year":     q.Year,
		"duration": time.Since(start).String(),
	}
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			fields["detail"] = reqErr.Detail()
		}
		logger.WithFields(fields).Warn("scoring request failed")
		return nil, err
	}

	logger.WithFields(fields).Info("scoring request succeeded")
	return report, nil
}

func (c *Client) analyze(ctx context.Context, q model.LocationQuery) (*model.RiskReport, error) {
	body, err := json.Marshal(q.Request())
	if err != nil {
		return nil, &RequestError{Message: msgMalformed, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Message: msgUnreachable, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Message: msgUnreachable, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: msgUnreachable, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp model.ErrorResponse
		// a body that is not JSON simply carries no message
		_ = json.Unmarshal(data, &errResp)

		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			Message:    statusMessage(resp.StatusCode, errResp.Error),
		}
	}

	var report *model.RiskReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: msgMalformed, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if report == nil {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: msgMalformed, Err: errors.New("empty response")}
	}

	return report, nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return "error"
	}

	switch {
	case reqErr.IsUpstreamStatus():
		return "status_error"
	case reqErr.Message == msgMalformed:
		return "malformed"
	default:
		return "network_error"
	}
}
