package presenter

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/katiamach/terraguard/internal/model"
	"github.com/katiamach/terraguard/internal/scoring"
)

// Validation messages shown next to the form.
const (
	msgInvalidCoordinates = "Please enter valid coordinates."
	msgEmptyReport        = "The analysis service returned no report."
)

// ValidationError is a form value that can not become a query. It never
// leaves the presenter: it is shown inline and no request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// errEmptyReport is used when a scorer returns neither a report nor an error.
var errEmptyReport = errors.New(msgEmptyReport)

// ParseQuery turns raw form values into a normalized query.
func ParseQuery(latitude, longitude, year string) (model.LocationQuery, error) {
	lat, err := parseCoordinate(latitude)
	if err != nil {
		return model.LocationQuery{}, &ValidationError{Field: "lat", Message: msgInvalidCoordinates}
	}

	lon, err := parseCoordinate(longitude)
	if err != nil {
		return model.LocationQuery{}, &ValidationError{Field: "lon", Message: msgInvalidCoordinates}
	}

	q, _, err := model.NormalizeCoordinates(lat, lon)
	if err != nil {
		return model.LocationQuery{}, &ValidationError{Field: "lat", Message: msgInvalidCoordinates}
	}

	q.Year = parseYear(year)

	return q, nil
}

// parseYear returns 0, meaning no year, for anything but a positive integer.
func parseYear(s string) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < 0 {
		return 0
	}

	return y
}

func parseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}

	return v, nil
}

// userMessage picks the text to show for a failed analysis: the scoring
// service message when there is one, the error text otherwise.
func userMessage(err error) string {
	var reqErr *scoring.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}

	return err.Error()
}
