package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kvnheller/caldr/internal/calendar"
	"github.com/kvnheller/caldr/internal/model"
)

// Planner turns calendar commits into queued alerts. Register it on the
// calendar with AddListener; every admitted event gets one alert at its
// start instant minus the lead.
type Planner struct {
	engine *Engine
	lead   time.Duration
	now    func() time.Time
	failed uint64
}

var _ calendar.Listener = (*Planner)(nil)

func NewPlanner(engine *Engine, lead time.Duration) *Planner {
	return &Planner{engine: engine, lead: lead, now: time.Now}
}

func (p *Planner) EventAdded(e *model.Event) { p.plan(e) }

func (p *Planner) EventModified(e *model.Event) {
	p.engine.Cancel(e.ID)
	p.plan(e)
}

func (p *Planner) SeriesAdded(s *model.RecurrentEvent) {
	for _, e := range s.Events {
		p.plan(e)
	}
}

// PlanCalendar queues alerts for everything already on the calendar, for
// use after loading a snapshot.
func (p *Planner) PlanCalendar(cal *calendar.Calendar) {
	for _, e := range cal.Events() {
		p.plan(e)
	}
	for _, s := range cal.Series() {
		for _, e := range s.Events {
			p.plan(e)
		}
	}
}

// Failed returns the number of alerts the engine refused to queue.
func (p *Planner) Failed() uint64 {
	return atomic.LoadUint64(&p.failed)
}

func (p *Planner) plan(e *model.Event) {
	trigger := e.StartInstant().Add(-p.lead)
	if !trigger.After(p.now().UTC()) {
		return
	}
	err := p.engine.Schedule(Alert{
		ID:        uuid.NewString(),
		EventID:   e.ID,
		Subject:   e.Subject,
		TriggerAt: trigger,
	})
	if err != nil {
		atomic.AddUint64(&p.failed, 1)
	}
}
