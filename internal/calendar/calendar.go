package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/kvnheller/caldr/internal/model"
)

var (
	ErrDuplicateEvent  = errors.New("calendar: same event already exists in this calendar")
	ErrDuplicateSeries = errors.New("calendar: same recurring series already exists in this calendar")
	ErrConflict        = errors.New("calendar: event overlaps an existing event")
	ErrEventNotFound   = errors.New("calendar: event not found")
	ErrSeriesNotFound  = errors.New("calendar: recurring series not found")
	ErrEmptySeries     = errors.New("calendar: recurring series has no instances")
)

// Calendar owns a set of standalone events and a set of recurring series
// and keeps them free of structural duplicates and, unless conflicts are
// allowed, free of pairwise overlaps. Every mutation either commits whole
// or leaves the calendar untouched. Not safe for concurrent use; a
// concurrent host must serialize access to the whole aggregate.
type Calendar struct {
	title          string
	events         []*model.Event
	series         []*model.RecurrentEvent
	allowConflicts bool
	listeners      []Listener
}

// New creates an empty calendar. Conflicts are disallowed by default.
func New(title string) *Calendar {
	return &Calendar{title: title}
}

// Restore rebuilds a calendar from persisted state without re-running
// admission checks, so a snapshot taken with conflicts allowed loads back
// exactly as it was. Only the persistence boundary should use it.
func Restore(title string, allowConflicts bool, events []*model.Event, series []*model.RecurrentEvent) *Calendar {
	return &Calendar{
		title:          title,
		events:         events,
		series:         series,
		allowConflicts: allowConflicts,
	}
}

func (c *Calendar) Title() string            { return c.title }
func (c *Calendar) SetTitle(title string)    { c.title = title }
func (c *Calendar) AllowConflicts() bool     { return c.allowConflicts }
func (c *Calendar) SetAllowConflicts(v bool) { c.allowConflicts = v }

// Events returns the standalone events in insertion order.
func (c *Calendar) Events() []*model.Event { return c.events }

// Series returns the recurring series in insertion order.
func (c *Calendar) Series() []*model.RecurrentEvent { return c.series }

// AddEvent admits a standalone event. It is rejected if it is a structural
// duplicate of any existing event, standalone or expanded from a series, or
// if conflicts are disallowed and it overlaps any of them.
func (c *Calendar) AddEvent(e *model.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	if c.hasDuplicate(e.Key()) {
		return ErrDuplicateEvent
	}
	if !c.allowConflicts {
		if clash := c.firstConflict(e, nil); clash != nil {
			return fmt.Errorf("%w: %q on %s", ErrConflict, clash.Subject, clash.StartDateString())
		}
	}

	c.events = append(c.events, e)
	c.announceEventAdded(e)
	return nil
}

// AddRecurrentEvent admits a whole series. When conflicts are disallowed,
// every instance is checked against every standalone event and every
// instance of every committed series; the first conflict rejects the whole
// series and nothing is admitted.
func (c *Calendar) AddRecurrentEvent(s *model.RecurrentEvent) error {
	for _, existing := range c.series {
		if existing == s || existing.ID == s.ID {
			return ErrDuplicateSeries
		}
	}

	for _, instance := range s.Events {
		if c.hasDuplicate(instance.Key()) {
			return ErrDuplicateEvent
		}
		if !c.allowConflicts {
			if clash := c.firstConflict(instance, nil); clash != nil {
				return fmt.Errorf("%w: instance on %s overlaps %q", ErrConflict,
					instance.StartDateString(), clash.Subject)
			}
		}
	}

	c.series = append(c.series, s)
	c.announceSeriesAdded(s)
	return nil
}

// EventPatch carries optional replacement values for an edit. A nil field
// keeps the current value. Setting StartTime and EndTime to empty strings
// turns a timed event into an all-day one.
type EventPatch struct {
	Subject     *string
	StartDate   *string
	EndDate     *string
	StartTime   *string
	EndTime     *string
	Public      *bool
	Description *string
	Location    *string
}

// EditEvent merges patch over the event with the given id, revalidates the
// merged result, conflict-checks it against every other event, and only
// then replaces the live record in place. The edited event keeps its id.
func (c *Calendar) EditEvent(id string, patch EventPatch) error {
	target, ok := c.EventByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}

	spec := model.EventSpec{
		Subject:     target.Subject,
		StartDate:   target.StartDateString(),
		EndDate:     target.EndDateString(),
		StartTime:   target.StartTimeString(),
		EndTime:     target.EndTimeString(),
		Public:      target.Public,
		Description: target.Description,
		Location:    target.Location,
	}
	applyPatch(&spec, patch)

	candidate, err := model.NewEvent(spec)
	if err != nil {
		return err
	}

	if !c.allowConflicts {
		if clash := c.firstConflict(candidate, target); clash != nil {
			return fmt.Errorf("%w: %q on %s", ErrConflict, clash.Subject, clash.StartDateString())
		}
	}

	candidate.ID = target.ID
	*target = *candidate
	c.announceEventModified(target)
	return nil
}

// SeriesPatch carries optional replacement values shared by every instance
// of a series. Instance dates are never touched by a bulk edit.
type SeriesPatch struct {
	Subject     *string
	StartTime   *string
	EndTime     *string
	Public      *bool
	Description *string
	Location    *string
}

// EditRecurrentEvent applies patch to every instance of the series with the
// given id, using the first instance as the merge template. Each would-be
// instance is checked against all standalone events and all instances of
// other series; instances of the edited series itself are exempt. Any
// conflict rejects the whole bulk edit.
func (c *Calendar) EditRecurrentEvent(seriesID string, patch SeriesPatch) error {
	var target *model.RecurrentEvent
	for _, s := range c.series {
		if s.ID == seriesID {
			target = s
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrSeriesNotFound, seriesID)
	}
	if len(target.Events) == 0 {
		return ErrEmptySeries
	}

	first := target.Events[0]
	merged := model.EventSpec{
		Subject:     first.Subject,
		StartTime:   first.StartTimeString(),
		EndTime:     first.EndTimeString(),
		Public:      first.Public,
		Description: first.Description,
		Location:    first.Location,
	}
	applyPatch(&merged, EventPatch{
		Subject:     patch.Subject,
		StartTime:   patch.StartTime,
		EndTime:     patch.EndTime,
		Public:      patch.Public,
		Description: patch.Description,
		Location:    patch.Location,
	})

	// One candidate per instance date; all must pass before anything moves.
	candidates := make([]*model.Event, 0, len(target.Events))
	for _, instance := range target.Events {
		spec := merged
		spec.StartDate = instance.StartDateString()
		spec.EndDate = instance.EndDateString()
		candidate, err := model.NewEvent(spec)
		if err != nil {
			return err
		}
		candidates = append(candidates, candidate)
	}

	if !c.allowConflicts {
		for i, candidate := range candidates {
			for _, existing := range c.events {
				if conflicts(candidate, existing) {
					return fmt.Errorf("%w: instance on %s overlaps %q", ErrConflict,
						target.Events[i].StartDateString(), existing.Subject)
				}
			}
			for _, other := range c.series {
				if other == target {
					continue
				}
				for _, existing := range other.Events {
					if conflicts(candidate, existing) {
						return fmt.Errorf("%w: instance on %s overlaps %q", ErrConflict,
							target.Events[i].StartDateString(), existing.Subject)
					}
				}
			}
		}
	}

	for i, instance := range target.Events {
		candidates[i].ID = instance.ID
		*instance = *candidates[i]
		c.announceEventModified(instance)
	}
	return nil
}

// EventByID finds an event by id, scanning standalone events first and then
// each series' instances in order.
func (c *Calendar) EventByID(id string) (*model.Event, bool) {
	var found *model.Event
	c.eachEvent(func(e *model.Event) bool {
		if e.ID == id {
			found = e
			return false
		}
		return true
	})
	return found, found != nil
}

// FindEvent finds the first event matching the (subject, start date, start
// time) identity triple, in the same scan order as EventByID. An empty
// startTime matches all-day events.
func (c *Calendar) FindEvent(subject, startDate, startTime string) (*model.Event, bool) {
	var found *model.Event
	c.eachEvent(func(e *model.Event) bool {
		if e.Subject == subject && e.StartDateString() == startDate && e.StartTimeString() == startTime {
			found = e
			return false
		}
		return true
	})
	return found, found != nil
}

// EventsInRange returns every event, standalone or series instance, whose
// [start,end] date interval intersects the closed [from,to] range.
func (c *Calendar) EventsInRange(from, to string) ([]*model.Event, error) {
	rangeStart, err := model.ParseDate(from)
	if err != nil {
		return nil, fmt.Errorf("%w: range start %q", model.ErrInvalidDate, from)
	}
	rangeEnd, err := model.ParseDate(to)
	if err != nil {
		return nil, fmt.Errorf("%w: range end %q", model.ErrInvalidDate, to)
	}

	out := make([]*model.Event, 0)
	c.eachEvent(func(e *model.Event) bool {
		if !e.StartDate.After(rangeEnd) && !e.EndDate.Before(rangeStart) {
			out = append(out, e)
		}
		return true
	})
	return out, nil
}

// BusyAt reports whether any event occupies the given date and time. Timed
// events occupy the half-open [start, end) instant range; all-day events
// occupy their whole date span.
func (c *Calendar) BusyAt(date, clock string) (bool, error) {
	day, err := model.ParseDate(date)
	if err != nil {
		return false, fmt.Errorf("%w: %q", model.ErrInvalidDate, date)
	}
	tod, err := model.ParseClock(clock)
	if err != nil {
		return false, fmt.Errorf("%w: %q", model.ErrInvalidTime, clock)
	}
	instant := day.Add(timeOfDay(tod))

	busy := false
	c.eachEvent(func(e *model.Event) bool {
		if day.Before(e.StartDate) || day.After(e.EndDate) {
			return true
		}
		if e.AllDay() {
			busy = true
			return false
		}
		if !instant.Before(e.StartInstant()) && instant.Before(e.EndInstant()) {
			busy = true
			return false
		}
		return true
	})
	return busy, nil
}

// hasDuplicate reports whether any event in the calendar shares the given
// structural key.
func (c *Calendar) hasDuplicate(key model.Key) bool {
	dup := false
	c.eachEvent(func(existing *model.Event) bool {
		if existing.Key() == key {
			dup = true
			return false
		}
		return true
	})
	return dup
}

// firstConflict returns the first committed event that overlaps e in either
// order, skipping exempt (by pointer identity) when non-nil.
func (c *Calendar) firstConflict(e, exempt *model.Event) *model.Event {
	var clash *model.Event
	c.eachEvent(func(existing *model.Event) bool {
		if existing == exempt {
			return true
		}
		if conflicts(e, existing) {
			clash = existing
			return false
		}
		return true
	})
	return clash
}

// eachEvent visits standalone events, then every series' instances, in
// order, stopping early when visit returns false.
func (c *Calendar) eachEvent(visit func(*model.Event) bool) {
	for _, e := range c.events {
		if !visit(e) {
			return
		}
	}
	for _, s := range c.series {
		for _, e := range s.Events {
			if !visit(e) {
				return
			}
		}
	}
}

func timeOfDay(clock time.Time) time.Duration {
	return time.Duration(clock.Hour())*time.Hour +
		time.Duration(clock.Minute())*time.Minute +
		time.Duration(clock.Second())*time.Second
}

func applyPatch(spec *model.EventSpec, patch EventPatch) {
	if patch.Subject != nil {
		spec.Subject = *patch.Subject
	}
	if patch.StartDate != nil {
		spec.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		spec.EndDate = *patch.EndDate
	}
	if patch.StartTime != nil {
		spec.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		spec.EndTime = *patch.EndTime
	}
	if patch.Public != nil {
		spec.Public = patch.Public
	}
	if patch.Description != nil {
		spec.Description = *patch.Description
	}
	if patch.Location != nil {
		spec.Location = *patch.Location
	}
}
