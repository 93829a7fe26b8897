// Package risk buckets risk percentages into levels and builds the
// human-readable texts shown next to a report.
package risk

// Level is the severity bucket of a risk percentage.
type Level int

// Risk levels, lowest first.
const (
	Low Level = iota
	Medium
	High
)

// Bucket upper bounds, inclusive.
const (
	lowMax    = 30.0
	mediumMax = 60.0
)

// Classify maps a percent in [0,100] to its level. Bucket edges belong to
// the lower bucket.
func Classify(percent float64) Level {
	switch {
	case percent <= lowMax:
		return Low
	case percent <= mediumMax:
		return Medium
	default:
		return High
	}
}

func (l Level) String() string {
	switch l {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	default:
		return "High"
	}
}

// Class is the CSS severity class used by cards and progress bars.
func (l Level) Class() string {
	switch l {
	case Low:
		return "risk-low"
	case Medium:
		return "risk-medium"
	default:
		return "risk-high"
	}
}

// Label is the level text shown on the overall card.
func (l Level) Label() string {
	return l.String() + " Level"
}
