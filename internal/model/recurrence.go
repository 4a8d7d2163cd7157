package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidWeekday    = errors.New("model: unknown weekday")
	ErrNoWeekdays        = errors.New("model: recurrence needs at least one weekday")
	ErrInvalidCount      = errors.New("model: recurrence count must be positive")
	ErrMoreDaysThanCount = errors.New("model: recurrence has more weekdays than occurrences")
	ErrUntilBeforeStart  = errors.New("model: recurrence end date is before the series start")
)

var weekdayTokens = map[string]time.Weekday{
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
	"SUNDAY":    time.Sunday,
}

// RecurrencePattern describes which weekdays a series falls on and when it
// stops: after a fixed number of occurrences, or on an inclusive end date.
// Exactly one stop condition is set. Immutable once constructed.
type RecurrencePattern struct {
	count int
	until time.Time
	days  map[time.Weekday]bool
}

// NewCountPattern builds a pattern that stops after count occurrences.
// Weekday tokens are the uppercase English names (MONDAY .. SUNDAY).
func NewCountPattern(count int, days []string) (RecurrencePattern, error) {
	set, err := parseWeekdays(days)
	if err != nil {
		return RecurrencePattern{}, err
	}
	if count <= 0 {
		return RecurrencePattern{}, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	return RecurrencePattern{count: count, days: set}, nil
}

// NewUntilPattern builds a pattern that stops on the given yyyy-MM-dd date,
// inclusive. Whether the end date precedes the series start is only known at
// expansion time, so that check lives in ExpandSeries.
func NewUntilPattern(until string, days []string) (RecurrencePattern, error) {
	set, err := parseWeekdays(days)
	if err != nil {
		return RecurrencePattern{}, err
	}
	end, err := ParseDate(until)
	if err != nil {
		return RecurrencePattern{}, fmt.Errorf("%w: recurrence end date %q", ErrInvalidDate, until)
	}
	return RecurrencePattern{until: end, days: set}, nil
}

// Count returns the occurrence budget, or 0 for until-mode patterns.
func (p RecurrencePattern) Count() int { return p.count }

// Until returns the inclusive end date and whether the pattern is in
// end-date mode.
func (p RecurrencePattern) Until() (time.Time, bool) {
	return p.until, p.count == 0
}

// Days returns the weekday set in Monday-first order.
func (p RecurrencePattern) Days() []time.Weekday {
	out := make([]time.Weekday, 0, len(p.days))
	for d := range p.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return mondayRank(out[i]) < mondayRank(out[j])
	})
	return out
}

// DayTokens returns the weekday set as uppercase names, Monday-first.
func (p RecurrencePattern) DayTokens() []string {
	days := p.Days()
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, strings.ToUpper(d.String()))
	}
	return out
}

func (p RecurrencePattern) onDay(d time.Weekday) bool { return p.days[d] }

func parseWeekdays(days []string) (map[time.Weekday]bool, error) {
	if len(days) == 0 {
		return nil, ErrNoWeekdays
	}
	set := make(map[time.Weekday]bool, len(days))
	for _, token := range days {
		d, ok := weekdayTokens[token]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, token)
		}
		set[d] = true
	}
	return set, nil
}

// mondayRank orders weekdays Monday=0 .. Sunday=6.
func mondayRank(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// SeriesTemplate carries the fields shared by every instance of a series.
// Times are HH:mm:ss strings, both set or both empty (an all-day series).
type SeriesTemplate struct {
	Subject     string
	StartTime   string
	EndTime     string
	Public      *bool
	Description string
	Location    string
}

// ExpandSeries turns a pattern plus a series start date into the ordered,
// eagerly materialized list of single-day event instances.
//
// Count-mode walks forward from the start date. A date whose weekday is in
// the set emits one instance and spends one occurrence; the start date
// itself counts when it qualifies. From any date the cursor then jumps to
// the nearest following weekday in the set (one to seven days ahead,
// wrapping across the week). End-date mode walks every date through the end
// date inclusive and emits on membership; it may legitimately produce zero
// instances.
//
// Any precondition failure returns before a single instance is built.
func ExpandSeries(p RecurrencePattern, startDate string, tmpl SeriesTemplate) ([]*Event, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: series start %q", ErrInvalidDate, startDate)
	}
	if len(p.days) == 0 {
		return nil, ErrNoWeekdays
	}
	if p.count > 0 && len(p.days) > p.count {
		return nil, fmt.Errorf("%w: %d weekdays, %d occurrences", ErrMoreDaysThanCount, len(p.days), p.count)
	}
	if p.count == 0 && p.until.Before(start) {
		return nil, ErrUntilBeforeStart
	}
	if (tmpl.StartTime == "") != (tmpl.EndTime == "") {
		return nil, ErrTimePair
	}
	if tmpl.StartTime != "" {
		st, parseErr := ParseClock(tmpl.StartTime)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: start time %q", ErrInvalidTime, tmpl.StartTime)
		}
		et, parseErr := ParseClock(tmpl.EndTime)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: end time %q", ErrInvalidTime, tmpl.EndTime)
		}
		if !et.After(st) {
			return nil, ErrEndTimeNotAfter
		}
	}

	if p.count > 0 {
		return expandByCount(p, start, tmpl)
	}
	return expandUntil(p, start, tmpl)
}

func expandByCount(p RecurrencePattern, start time.Time, tmpl SeriesTemplate) ([]*Event, error) {
	events := make([]*Event, 0, p.count)
	cursor := start
	for remaining := p.count; remaining > 0; {
		if p.onDay(cursor.Weekday()) {
			e, err := instanceOn(cursor, tmpl)
			if err != nil {
				return nil, err
			}
			events = append(events, e)
			remaining--
		}
		cursor = cursor.AddDate(0, 0, daysToNext(p, cursor.Weekday()))
	}
	return events, nil
}

func expandUntil(p RecurrencePattern, start time.Time, tmpl SeriesTemplate) ([]*Event, error) {
	events := make([]*Event, 0)
	for cursor := start; !cursor.After(p.until); cursor = cursor.AddDate(0, 0, 1) {
		if !p.onDay(cursor.Weekday()) {
			continue
		}
		e, err := instanceOn(cursor, tmpl)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// daysToNext is the distance in days from d to the nearest following weekday
// in the pattern, always 1..7. A single-weekday pattern yields 7.
func daysToNext(p RecurrencePattern, d time.Weekday) int {
	for gap := 1; gap <= 7; gap++ {
		if p.onDay((d + time.Weekday(gap)) % 7) {
			return gap
		}
	}
	return 7
}

func instanceOn(date time.Time, tmpl SeriesTemplate) (*Event, error) {
	day := date.Format(DateLayout)
	return NewEvent(EventSpec{
		Subject:     tmpl.Subject,
		StartDate:   day,
		EndDate:     day,
		StartTime:   tmpl.StartTime,
		EndTime:     tmpl.EndTime,
		Public:      tmpl.Public,
		Description: tmpl.Description,
		Location:    tmpl.Location,
	})
}
