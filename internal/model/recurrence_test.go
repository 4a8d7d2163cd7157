package model

import (
	"errors"
	"testing"
)

func datesOf(events []*Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.StartDateString())
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCountPatternRejectsBadInput(t *testing.T) {
	_, err := NewCountPattern(0, []string{"MONDAY"})
	if !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got: %v", err)
	}

	_, err = NewCountPattern(3, []string{"MONDAY", "Funday"})
	if !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got: %v", err)
	}

	_, err = NewCountPattern(3, nil)
	if !errors.Is(err, ErrNoWeekdays) {
		t.Fatalf("expected ErrNoWeekdays, got: %v", err)
	}
}

func TestUntilPatternRejectsBadDate(t *testing.T) {
	_, err := NewUntilPattern("28-11-2025", []string{"FRIDAY"})
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got: %v", err)
	}
}

func TestExpandCountStartsOnRecurrenceDay(t *testing.T) {
	p, err := NewCountPattern(3, []string{"MONDAY"})
	if err != nil {
		t.Fatalf("building pattern: %v", err)
	}
	// 2025-11-03 is a Monday; it counts as the first occurrence.
	events, err := ExpandSeries(p, "2025-11-03", SeriesTemplate{Subject: "Gym"})
	if err != nil {
		t.Fatalf("expanding: %v", err)
	}
	want := []string{"2025-11-03", "2025-11-10", "2025-11-17"}
	if !equalStrings(datesOf(events), want) {
		t.Fatalf("unexpected dates: %v, want %v", datesOf(events), want)
	}
}

func TestExpandCountStartsOffRecurrenceDay(t *testing.T) {
	p, err := NewCountPattern(4, []string{"MONDAY", "WEDNESDAY"})
	if err != nil {
		t.Fatalf("building pattern: %v", err)
	}
	// 2025-10-31 is a Friday: the walk skips to the following Monday.
	events, err := ExpandSeries(p, "2025-10-31", SeriesTemplate{Subject: "Class"})
	if err != nil {
		t.Fatalf("expanding: %v", err)
	}
	want := []string{"2025-11-03", "2025-11-05", "2025-11-10", "2025-11-12"}
	if !equalStrings(datesOf(events), want) {
		t.Fatalf("unexpected dates: %v, want %v", datesOf(events), want)
	}
}

func TestExpandUntilInclusive(t *testing.T) {
	p, err := NewUntilPattern("2025-11-18", []string{"TUESDAY", "THURSDAY"})
	if err != nil {
		t.Fatalf("building pattern: %v", err)
	}
	events, err := ExpandSeries(p, "2025-11-04", SeriesTemplate{
		Subject:   "Lecture",
		StartTime: "18:00:00",
		EndTime:   "19:30:00",
	})
	if err != nil {
		t.Fatalf("expanding: %v", err)
	}
	want := []string{"2025-11-04", "2025-11-06", "2025-11-11", "2025-11-13", "2025-11-18"}
	if !equalStrings(datesOf(events), want) {
		t.Fatalf("unexpected dates: %v, want %v", datesOf(events), want)
	}
	for _, e := range events {
		if e.MultiDay() {
			t.Fatalf("instance on %s should be single-day", e.StartDateString())
		}
		if e.StartTimeString() != "18:00:00" || e.EndTimeString() != "19:30:00" {
			t.Fatalf("instance on %s lost its shared times", e.StartDateString())
		}
	}
}

func TestExpandUntilMayBeEmpty(t *testing.T) {
	// Only Sunday falls in the window 2025-11-03 (Mon) .. 2025-11-07 (Fri).
	p, err := NewUntilPattern("2025-11-07", []string{"SUNDAY"})
	if err != nil {
		t.Fatalf("building pattern: %v", err)
	}
	events, err := ExpandSeries(p, "2025-11-03", SeriesTemplate{Subject: "Brunch"})
	if err != nil {
		t.Fatalf("expanding: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected zero instances, got %d", len(events))
	}
}

func TestExpandPreconditions(t *testing.T) {
	p, _ := NewCountPattern(2, []string{"MONDAY", "WEDNESDAY", "FRIDAY"})
	_, err := ExpandSeries(p, "2025-11-03", SeriesTemplate{Subject: "X"})
	if !errors.Is(err, ErrMoreDaysThanCount) {
		t.Fatalf("expected ErrMoreDaysThanCount, got: %v", err)
	}

	u, _ := NewUntilPattern("2025-11-01", []string{"MONDAY"})
	_, err = ExpandSeries(u, "2025-11-03", SeriesTemplate{Subject: "X"})
	if !errors.Is(err, ErrUntilBeforeStart) {
		t.Fatalf("expected ErrUntilBeforeStart, got: %v", err)
	}

	c, _ := NewCountPattern(2, []string{"MONDAY"})
	_, err = ExpandSeries(c, "2025-11-03", SeriesTemplate{Subject: "X", StartTime: "09:00:00"})
	if !errors.Is(err, ErrTimePair) {
		t.Fatalf("expected ErrTimePair, got: %v", err)
	}
	_, err = ExpandSeries(c, "2025-11-03", SeriesTemplate{Subject: "X", StartTime: "10:00:00", EndTime: "09:00:00"})
	if !errors.Is(err, ErrEndTimeNotAfter) {
		t.Fatalf("expected ErrEndTimeNotAfter, got: %v", err)
	}
}

func TestExpandSingleWeekdayWeeklyGap(t *testing.T) {
	p, _ := NewCountPattern(2, []string{"FRIDAY"})
	events, err := ExpandSeries(p, "2025-11-07", SeriesTemplate{Subject: "Review"})
	if err != nil {
		t.Fatalf("expanding: %v", err)
	}
	want := []string{"2025-11-07", "2025-11-14"}
	if !equalStrings(datesOf(events), want) {
		t.Fatalf("unexpected dates: %v, want %v", datesOf(events), want)
	}
}

func TestNewRecurrentEventOwnsDistinctIDs(t *testing.T) {
	p, _ := NewCountPattern(3, []string{"TUESDAY"})
	series, err := NewRecurrentEvent(p, "2025-11-04", SeriesTemplate{Subject: "Sync"})
	if err != nil {
		t.Fatalf("building series: %v", err)
	}
	if series.ID == "" {
		t.Fatal("expected a series id")
	}
	seen := map[string]bool{series.ID: true}
	for _, e := range series.Events {
		if seen[e.ID] {
			t.Fatalf("duplicate id in series: %s", e.ID)
		}
		seen[e.ID] = true
	}
	if got := series.StartDate.Format(DateLayout); got != "2025-11-04" {
		t.Fatalf("unexpected series start: %s", got)
	}
}

func TestPatternAccessors(t *testing.T) {
	p, _ := NewCountPattern(6, []string{"WEDNESDAY", "MONDAY", "MONDAY"})
	tokens := p.DayTokens()
	if !equalStrings(tokens, []string{"MONDAY", "WEDNESDAY"}) {
		t.Fatalf("unexpected day tokens: %v", tokens)
	}
	if p.Count() != 6 {
		t.Fatalf("unexpected count: %d", p.Count())
	}
	if _, untilMode := p.Until(); untilMode {
		t.Fatal("count pattern should not report until-mode")
	}
}
