package presenter

import (
	"bytes"
	"html/template"

	"github.com/katiamach/terraguard/internal/model"
	"github.com/katiamach/terraguard/internal/risk"
)

// Gauge is one metric card: a percent label and a progress indicator, both
// addressed by ids derived from the metric key.
type Gauge struct {
	Key         model.MetricKey
	Name        string
	Percent     float64
	PercentText string
	Class       string
	PercentID   string
	ProgressID  string
}

// Panel is the metrics panel of the dashboard.
type Panel struct {
	OverallPercent float64
	OverallText    string
	OverallLevel   string
	OverallClass   string
	Gauges         []Gauge
	Summary        string
}

// NewPanel projects a report onto the panel. Missing metrics show 0.
func NewPanel(r *model.RiskReport) Panel {
	var overall float64
	if r != nil {
		overall = r.RiskPercent
	}
	level := risk.Classify(overall)

	panel := Panel{
		OverallPercent: overall,
		OverallText:    risk.FormatPercent(overall),
		OverallLevel:   level.Label(),
		OverallClass:   level.Class(),
		Gauges:         make([]Gauge, 0, len(model.MetricKeys)),
		Summary:        risk.Summary(r),
	}

	for _, key := range model.MetricKeys {
		v := r.Metric(key)
		panel.Gauges = append(panel.Gauges, Gauge{
			Key:         key,
			Name:        risk.MetricName(key),
			Percent:     v,
			PercentText: risk.FormatPercent(v),
			Class:       risk.Classify(v).Class(),
			PercentID:   "result-" + string(key) + "-pct",
			ProgressID:  "progress-" + string(key),
		})
	}

	return panel
}

var popupTemplate = template.Must(template.New("popup").Parse(
	`<b>Coordinates:</b> ({{.Lat}}, {{.Lon}})<br>` +
		`<b>General Risk: <span class="{{.Class}}">{{.Overall}}%</span></b><hr>` +
		`<b>Risk Metrics:</b><br>` +
		`{{range .Metrics}}{{.Name}}: {{.Value}}%<br>{{end}}`))

type popupMetric struct {
	Name  string
	Value string
}

// PopupHTML renders the marker popup for a report at q.
func PopupHTML(q model.LocationQuery, r *model.RiskReport) (string, error) {
	data := struct {
		Lat, Lon string
		Class    string
		Overall  string
		Metrics  []popupMetric
	}{
		Lat:     risk.FormatNumber(q.Latitude, 6),
		Lon:     risk.FormatNumber(q.Longitude, 6),
		Class:   risk.Classify(r.RiskPercent).Class(),
		Overall: risk.FormatNumber(r.RiskPercent, 1),
	}
	for _, key := range model.MetricKeys {
		data.Metrics = append(data.Metrics, popupMetric{
			Name:  risk.MetricName(key),
			Value: risk.FormatNumber(r.Metric(key), 1),
		})
	}

	var buf bytes.Buffer
	if err := popupTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
