// Package model contains the location query and risk report types shared by
// the scoring client, the presenter and the transport layer.
package model

// MetricKey identifies a single hazard metric in a risk report.
type MetricKey string

// Metric keys returned by the scoring service.
const (
	MetricSeismic       MetricKey = "seismic"
	MetricFlood         MetricKey = "flood"
	MetricHurricane     MetricKey = "hurricane"
	MetricFire          MetricKey = "fire"
	MetricPrecipitation MetricKey = "precipitation"
	MetricVegetation    MetricKey = "vegetation"
)

// MetricKeys lists every metric in display order. Ties between equal
// metric values are broken by this order.
var MetricKeys = []MetricKey{
	MetricSeismic,
	MetricFlood,
	MetricHurricane,
	MetricFire,
	MetricPrecipitation,
	MetricVegetation,
}

// LocationQuery is a validated request for a risk analysis.
type LocationQuery struct {
	Latitude  float64
	Longitude float64
	Year      int // 0 means current data
}

// HasYear reports whether a target year was requested.
func (q LocationQuery) HasYear() bool {
	return q.Year != 0
}

// Request converts the query into its wire form.
func (q LocationQuery) Request() *AnalyzeRequest {
	req := &AnalyzeRequest{Lat: q.Latitude, Lon: q.Longitude}
	if q.HasYear() {
		year := q.Year
		req.Year = &year
	}

	return req
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Year *int    `json:"year"`
}

// Query converts the wire request into a query without validating it.
func (r *AnalyzeRequest) Query() LocationQuery {
	q := LocationQuery{Latitude: r.Lat, Longitude: r.Lon}
	if r.Year != nil {
		q.Year = *r.Year
	}

	return q
}

// RiskReport is the scoring service response. It is never mutated after decoding.
type RiskReport struct {
	RiskPercent    float64               `json:"risk_percent"`
	MetricsPercent map[MetricKey]float64 `json:"metrics_percent"`
}

// Metric returns the percent for key, or 0 when the service omitted it.
func (r *RiskReport) Metric(key MetricKey) float64 {
	if r == nil || r.MetricsPercent == nil {
		return 0
	}

	return r.MetricsPercent[key]
}

// ErrorResponse is the body returned by the scoring service on failure.
type ErrorResponse struct {
	Error string `json:"error,omitempty"`
}
