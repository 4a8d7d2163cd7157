package model

import (
	"time"

	"github.com/google/uuid"
)

// RecurrentEvent is a recurring series: its pattern, its start date, and the
// eagerly materialized instances. The series id is distinct from every
// instance id. Instances are edited through the owning calendar; the series
// itself is only ever added or replaced whole.
type RecurrentEvent struct {
	ID        string
	Pattern   RecurrencePattern
	StartDate time.Time
	Events    []*Event
}

// NewRecurrentEvent expands the pattern from startDate (yyyy-MM-dd) and
// returns the series. Expansion errors come back untouched and no series is
// created on failure.
func NewRecurrentEvent(pattern RecurrencePattern, startDate string, tmpl SeriesTemplate) (*RecurrentEvent, error) {
	events, err := ExpandSeries(pattern, startDate, tmpl)
	if err != nil {
		return nil, err
	}
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	return &RecurrentEvent{
		ID:        uuid.NewString(),
		Pattern:   pattern,
		StartDate: start,
		Events:    events,
	}, nil
}
