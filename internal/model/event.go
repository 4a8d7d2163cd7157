package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

var (
	ErrSubjectRequired = errors.New("model: subject must not be empty")
	ErrInvalidDate     = errors.New("model: date must be in yyyy-MM-dd format")
	ErrInvalidTime     = errors.New("model: time must be in HH:mm:ss format")
	ErrEndBeforeStart  = errors.New("model: end date must not be before start date")
	ErrTimePair        = errors.New("model: start time and end time must both be set or both be absent")
	ErrEndTimeNotAfter = errors.New("model: end of event must be after its start")
)

// Event is a single calendar occurrence, either all-day (no clock times) or
// timed. Dates are naive; clock times carry no date component. The ID is a
// lookup handle only and never takes part in equality.
type Event struct {
	ID          string
	Subject     string
	StartDate   time.Time
	EndDate     time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	Public      *bool
	Description string
	Location    string
}

// EventSpec carries the raw field values used to build an Event. Dates are
// yyyy-MM-dd, times HH:mm:ss; an empty time string means absent.
type EventSpec struct {
	Subject     string
	StartDate   string
	EndDate     string
	StartTime   string
	EndTime     string
	Public      *bool
	Description string
	Location    string
}

// NewEvent parses and validates spec and returns the event with a fresh id.
func NewEvent(spec EventSpec) (*Event, error) {
	startDate, err := ParseDate(spec.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date %q", ErrInvalidDate, spec.StartDate)
	}
	endDate, err := ParseDate(spec.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end date %q", ErrInvalidDate, spec.EndDate)
	}

	var startTime, endTime *time.Time
	if spec.StartTime != "" {
		t, parseErr := ParseClock(spec.StartTime)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: start time %q", ErrInvalidTime, spec.StartTime)
		}
		startTime = &t
	}
	if spec.EndTime != "" {
		t, parseErr := ParseClock(spec.EndTime)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: end time %q", ErrInvalidTime, spec.EndTime)
		}
		endTime = &t
	}

	e := &Event{
		ID:          uuid.NewString(),
		Subject:     spec.Subject,
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   startTime,
		EndTime:     endTime,
		Public:      spec.Public,
		Description: spec.Description,
		Location:    spec.Location,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the cross-field invariants. It is called at construction
// and again by the calendar after merging an edit, so a mutated event never
// escapes in a transiently invalid state.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Subject) == "" {
		return ErrSubjectRequired
	}
	if e.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is missing", ErrInvalidDate)
	}
	if e.EndDate.IsZero() {
		return fmt.Errorf("%w: end date is missing", ErrInvalidDate)
	}
	if e.EndDate.Before(e.StartDate) {
		return ErrEndBeforeStart
	}
	if (e.StartTime == nil) != (e.EndTime == nil) {
		return ErrTimePair
	}
	if e.StartTime != nil && !e.EndInstant().After(e.StartInstant()) {
		return ErrEndTimeNotAfter
	}
	return nil
}

// AllDay reports whether the event has no clock times.
func (e *Event) AllDay() bool {
	return e.StartTime == nil
}

// MultiDay reports whether the event spans more than one date.
func (e *Event) MultiDay() bool {
	return e.EndDate.After(e.StartDate)
}

// StartInstant combines the start date and start time. For all-day events it
// is the start date at midnight.
func (e *Event) StartInstant() time.Time {
	return atClock(e.StartDate, e.StartTime)
}

// EndInstant combines the end date and end time. For all-day events it is
// the end date at midnight.
func (e *Event) EndInstant() time.Time {
	return atClock(e.EndDate, e.EndTime)
}

func (e *Event) StartDateString() string { return e.StartDate.Format(DateLayout) }
func (e *Event) EndDateString() string   { return e.EndDate.Format(DateLayout) }

// StartTimeString returns the formatted start time, or "" for all-day events.
func (e *Event) StartTimeString() string { return formatClock(e.StartTime) }

// EndTimeString returns the formatted end time, or "" for all-day events.
func (e *Event) EndTimeString() string { return formatClock(e.EndTime) }

// Key is the structural identity of an event: every user-visible field and
// no generated id. Two events with equal keys are the same event for
// duplicate detection, however they were constructed.
type Key struct {
	Subject     string
	StartDate   string
	EndDate     string
	StartTime   string
	EndTime     string
	Visibility  string
	Description string
	Location    string
}

// Key derives the structural key of the event.
func (e *Event) Key() Key {
	return Key{
		Subject:     e.Subject,
		StartDate:   e.StartDateString(),
		EndDate:     e.EndDateString(),
		StartTime:   e.StartTimeString(),
		EndTime:     e.EndTimeString(),
		Visibility:  visibilityString(e.Public),
		Description: e.Description,
		Location:    e.Location,
	}
}

// ParseDate parses a naive yyyy-MM-dd date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseClock parses a naive HH:mm:ss time of day.
func ParseClock(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

func atClock(date time.Time, clock *time.Time) time.Time {
	if clock == nil {
		return date
	}
	return date.Add(time.Duration(clock.Hour())*time.Hour +
		time.Duration(clock.Minute())*time.Minute +
		time.Duration(clock.Second())*time.Second)
}

func formatClock(clock *time.Time) string {
	if clock == nil {
		return ""
	}
	return clock.Format(TimeLayout)
}

func visibilityString(public *bool) string {
	switch {
	case public == nil:
		return ""
	case *public:
		return "public"
	default:
		return "private"
	}
}
