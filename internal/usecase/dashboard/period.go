package dashboard

import (
	"fmt"

	"github.com/simaogato/coinflow-backend/internal/domain"
)

// Period selects which records the dashboard aggregates
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod parses a period name; an empty string means PeriodAll
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodToday, PeriodMonth, PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("%w: invalid period %q, must be all, today, month or year", domain.ErrValidation, s)
	}
}

// Start returns the first calendar day included in the period
// PeriodAll returns the zero Date, which every record is on or after
func (p Period) Start(today domain.Date) domain.Date {
	switch p {
	case PeriodToday:
		return today
	case PeriodMonth:
		return today.StartOfMonth()
	case PeriodYear:
		return today.StartOfYear()
	default:
		return domain.Date{}
	}
}

// FilterByPeriod keeps the records dated on or after the period start
// Records dated in the future are kept. The input slice is not modified.
func FilterByPeriod[T domain.Record[T]](records []T, p Period, today domain.Date) []T {
	if p == PeriodAll || p == "" {
		return records
	}

	start := p.Start(today)
	filtered := make([]T, 0, len(records))
	for _, r := range records {
		if !r.RecordDate().Before(start) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
