// Package finance holds the lending math: rate-range parsing, loan and lease
// payment formulas, and the financing-option aggregator.
package finance

import (
	"strconv"
	"strings"

	"github.com/sells-group/financing-advisor/internal/model"
)

// ParseRateRange parses a lender's free-text rate string ("1.99% - 4.99%",
// "13.49%") into a RateRange. Any input that cannot be parsed yields the
// unavailable sentinel rather than an error; callers check
// RateRange.Unavailable() to decide whether to exclude the lender.
func ParseRateRange(s string) model.RateRange {
	unavailable := model.RateRange{Min: model.UnavailableRate, Max: model.UnavailableRate}

	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	if s == "" {
		return unavailable
	}

	if strings.Contains(s, " - ") {
		var parsed []float64
		for _, part := range strings.Split(s, " - ") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return unavailable
			}
			parsed = append(parsed, v)
		}
		if len(parsed) == 0 {
			return unavailable
		}
		return model.RateRange{Min: parsed[0], Max: parsed[len(parsed)-1]}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return unavailable
	}
	return model.RateRange{Min: v, Max: v}
}
