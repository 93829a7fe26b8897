package risk

import (
	"fmt"
	"strings"

	"github.com/katiamach/terraguard/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// attentionThreshold is the metric percent above which a single factor is
// called out in the summary.
const attentionThreshold = 50.0

const (
	attentionAdvice = "Insurance is feasible, but adjusting the premium and considering specific clauses for this event is recommended. Periodic evaluation every 6 months."
	mediumAdvice    = "Natural event frequency parameters show moderate levels. Climatic conditions require continuous monitoring. A standard premium with annual review is recommended."
	lowAdvice       = "All parameters are within low and controlled levels. A preferential standard premium is recommended. Periodic evaluation every 12 months."
)

var upper = cases.Upper(language.English)

// HighestMetric returns the metric with the strictly highest percent.
// Iteration follows model.MetricKeys, so the first of several equal maxima
// wins. ok is false when no metric is above zero.
func HighestMetric(report *model.RiskReport) (key model.MetricKey, value float64, ok bool) {
	for _, k := range model.MetricKeys {
		if v := report.Metric(k); v > value {
			key, value, ok = k, v, true
		}
	}

	return key, value, ok
}

// Summary composes the recommendation paragraph for a report.
func Summary(report *model.RiskReport) string {
	var overall float64
	if report != nil {
		overall = report.RiskPercent
	}
	level := Classify(overall)

	var b strings.Builder
	fmt.Fprintf(&b, "The risk analysis for the property indicates a %s RISK level (%s). ",
		upper.String(level.String()), FormatPercent(overall))

	key, value, ok := HighestMetric(report)

	switch {
	case ok && value > attentionThreshold:
		fmt.Fprintf(&b, "A special attention factor has been identified: %s (%s). ", FactorName(key), FormatPercent(value))
		b.WriteString(attentionAdvice)
	case level == Medium:
		b.WriteString(mediumAdvice)
	default:
		b.WriteString(lowAdvice)
	}

	return b.String()
}
