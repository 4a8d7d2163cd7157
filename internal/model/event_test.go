package model

import (
	"errors"
	"testing"
)

func boolPtr(v bool) *bool { return &v }

func TestNewEventAllDay(t *testing.T) {
	e, err := NewEvent(EventSpec{
		Subject:   "Conference",
		StartDate: "2025-11-01",
		EndDate:   "2025-11-03",
	})
	if err != nil {
		t.Fatalf("expected valid event, got error: %v", err)
	}
	if !e.AllDay() {
		t.Fatal("expected all-day event")
	}
	if !e.MultiDay() {
		t.Fatal("expected multi-day event")
	}
	if e.ID == "" {
		t.Fatal("expected a generated id")
	}
	if e.StartTimeString() != "" || e.EndTimeString() != "" {
		t.Fatalf("expected empty time strings, got %q/%q", e.StartTimeString(), e.EndTimeString())
	}
}

func TestNewEventTimed(t *testing.T) {
	e, err := NewEvent(EventSpec{
		Subject:   "Standup",
		StartDate: "2025-11-05",
		EndDate:   "2025-11-05",
		StartTime: "09:00:00",
		EndTime:   "09:15:00",
		Public:    boolPtr(true),
		Location:  "Room 4",
	})
	if err != nil {
		t.Fatalf("expected valid event, got error: %v", err)
	}
	if e.AllDay() {
		t.Fatal("expected timed event")
	}
	if got := e.StartInstant().Format("2006-01-02 15:04:05"); got != "2025-11-05 09:00:00" {
		t.Fatalf("unexpected start instant: %s", got)
	}
}

func TestNewEventBlankSubject(t *testing.T) {
	_, err := NewEvent(EventSpec{Subject: "   ", StartDate: "2025-11-01", EndDate: "2025-11-01"})
	if !errors.Is(err, ErrSubjectRequired) {
		t.Fatalf("expected ErrSubjectRequired, got: %v", err)
	}
}

func TestNewEventBadDates(t *testing.T) {
	_, err := NewEvent(EventSpec{Subject: "X", StartDate: "11/01/2025", EndDate: "2025-11-01"})
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got: %v", err)
	}

	_, err = NewEvent(EventSpec{Subject: "X", StartDate: "2025-11-02", EndDate: "2025-11-01"})
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got: %v", err)
	}
}

func TestNewEventTimePairRule(t *testing.T) {
	_, err := NewEvent(EventSpec{
		Subject:   "X",
		StartDate: "2025-11-01",
		EndDate:   "2025-11-01",
		StartTime: "09:00:00",
	})
	if !errors.Is(err, ErrTimePair) {
		t.Fatalf("expected ErrTimePair, got: %v", err)
	}

	_, err = NewEvent(EventSpec{
		Subject:   "X",
		StartDate: "2025-11-01",
		EndDate:   "2025-11-01",
		EndTime:   "10:00:00",
	})
	if !errors.Is(err, ErrTimePair) {
		t.Fatalf("expected ErrTimePair, got: %v", err)
	}
}

func TestNewEventEndTimeOrdering(t *testing.T) {
	_, err := NewEvent(EventSpec{
		Subject:   "X",
		StartDate: "2025-11-01",
		EndDate:   "2025-11-01",
		StartTime: "10:00:00",
		EndTime:   "10:00:00",
	})
	if !errors.Is(err, ErrEndTimeNotAfter) {
		t.Fatalf("expected ErrEndTimeNotAfter, got: %v", err)
	}

	// A timed event crossing midnight is valid when the end instant is later.
	e, err := NewEvent(EventSpec{
		Subject:   "Night shift",
		StartDate: "2025-11-01",
		EndDate:   "2025-11-02",
		StartTime: "22:00:00",
		EndTime:   "02:00:00",
	})
	if err != nil {
		t.Fatalf("expected valid midnight-spanning event, got: %v", err)
	}
	if !e.EndInstant().After(e.StartInstant()) {
		t.Fatal("end instant should be after start instant")
	}
}

func TestNewEventBadTimeFormat(t *testing.T) {
	_, err := NewEvent(EventSpec{
		Subject:   "X",
		StartDate: "2025-11-01",
		EndDate:   "2025-11-01",
		StartTime: "9am",
		EndTime:   "10:00:00",
	})
	if !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got: %v", err)
	}
}

func TestKeyIgnoresID(t *testing.T) {
	spec := EventSpec{
		Subject:     "Dentist",
		StartDate:   "2025-11-07",
		EndDate:     "2025-11-07",
		StartTime:   "14:00:00",
		EndTime:     "15:00:00",
		Public:      boolPtr(false),
		Description: "checkup",
		Location:    "Maple St",
	}
	a, err := NewEvent(spec)
	if err != nil {
		t.Fatalf("building first event: %v", err)
	}
	b, err := NewEvent(spec)
	if err != nil {
		t.Fatalf("building second event: %v", err)
	}
	if a.ID == b.ID {
		t.Fatal("independently built events must not share an id")
	}
	if a.Key() != b.Key() {
		t.Fatalf("structural keys should match: %+v vs %+v", a.Key(), b.Key())
	}

	b.Location = "Oak St"
	if a.Key() == b.Key() {
		t.Fatal("differing location should change the structural key")
	}
}

func TestKeyVisibilityTernary(t *testing.T) {
	base := EventSpec{Subject: "X", StartDate: "2025-11-01", EndDate: "2025-11-01"}

	unset, _ := NewEvent(base)
	pub := base
	pub.Public = boolPtr(true)
	public, _ := NewEvent(pub)
	priv := base
	priv.Public = boolPtr(false)
	private, _ := NewEvent(priv)

	if unset.Key() == public.Key() || unset.Key() == private.Key() || public.Key() == private.Key() {
		t.Fatal("unset, public, and private visibility must be three distinct key states")
	}
}
