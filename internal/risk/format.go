package risk

import (
	"math"
	"strconv"

	"github.com/katiamach/terraguard/internal/model"
)

var metricNames = map[model.MetricKey]string{
	model.MetricSeismic:       "Seismic",
	model.MetricFlood:         "Flood",
	model.MetricHurricane:     "Hurricane",
	model.MetricFire:          "Wildfire",
	model.MetricPrecipitation: "Precipitation",
	model.MetricVegetation:    "Vegetation",
}

// MetricName returns the display name of a metric, or the raw key when unknown.
func MetricName(key model.MetricKey) string {
	if name, ok := metricNames[key]; ok {
		return name
	}

	return string(key)
}

// FactorName is the metric name used when it is singled out in a summary.
func FactorName(key model.MetricKey) string {
	if _, ok := metricNames[key]; !ok {
		return string(key)
	}

	return MetricName(key) + " Risk"
}

// FormatNumber renders v with the given number of decimals, rounding half
// away from zero.
func FormatNumber(v float64, decimals int) string {
	p := math.Pow(10, float64(decimals))
	rounded := math.Round(v*p) / p
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}

	return strconv.FormatFloat(rounded, 'f', decimals, 64)
}

// FormatPercent renders v as a whole percentage, e.g. "80%".
func FormatPercent(v float64) string {
	return FormatNumber(v, 0) + "%"
}
