package http

import (
	"fmt"
	"time"

	"github.com/bellezapp/backend/internal/application/dto"
)

const dateOnly = "2006-01-02"

// parseDateRange interpreta startDate/endDate. Acepta RFC3339 o fecha sola;
// una fecha sola como endDate cubre hasta el fin de ese día.
func parseDateRange(start, end string) (dto.DateRange, error) {
	var rng dto.DateRange
	if start != "" {
		t, err := parseDate(start, false)
		if err != nil {
			return rng, fmt.Errorf("startDate inválida: %w", err)
		}
		rng.From = &t
	}
	if end != "" {
		t, err := parseDate(end, true)
		if err != nil {
			return rng, fmt.Errorf("endDate inválida: %w", err)
		}
		rng.To = &t
	}
	return rng, nil
}

func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
