package calendar

import (
	"testing"

	"github.com/kvnheller/caldr/internal/model"
)

type recordingListener struct {
	added    []*model.Event
	modified []*model.Event
	series   []*model.RecurrentEvent
}

func (r *recordingListener) EventAdded(e *model.Event)           { r.added = append(r.added, e) }
func (r *recordingListener) EventModified(e *model.Event)        { r.modified = append(r.modified, e) }
func (r *recordingListener) SeriesAdded(s *model.RecurrentEvent) { r.series = append(r.series, s) }

func TestListenerNotifiedOnAdd(t *testing.T) {
	cal := New("personal")
	rec := &recordingListener{}
	cal.AddListener(rec)

	e := mustEvent(t, model.EventSpec{Subject: "One", StartDate: "2025-11-05", EndDate: "2025-11-05"})
	if err := cal.AddEvent(e); err != nil {
		t.Fatalf("adding event: %v", err)
	}
	if len(rec.added) != 1 || rec.added[0] != e {
		t.Fatal("listener must see the committed event")
	}
}

func TestListenerNotifiedOnEdit(t *testing.T) {
	cal := New("personal")
	rec := &recordingListener{}
	cal.AddListener(rec)

	e := mustEvent(t, model.EventSpec{Subject: "One", StartDate: "2025-11-05", EndDate: "2025-11-05"})
	if err := cal.AddEvent(e); err != nil {
		t.Fatalf("adding event: %v", err)
	}
	if err := cal.EditEvent(e.ID, EventPatch{Subject: strPtr("Two")}); err != nil {
		t.Fatalf("editing event: %v", err)
	}
	if len(rec.modified) != 1 || rec.modified[0] != e {
		t.Fatal("listener must see the modified event")
	}
}

func TestListenerNotifiedOnSeriesAdd(t *testing.T) {
	cal := New("personal")
	rec := &recordingListener{}
	cal.AddListener(rec)

	p, _ := model.NewCountPattern(2, []string{"TUESDAY"})
	series := mustSeries(t, p, "2025-11-04", model.SeriesTemplate{Subject: "Sync"})
	if err := cal.AddRecurrentEvent(series); err != nil {
		t.Fatalf("adding series: %v", err)
	}
	if len(rec.series) != 1 || rec.series[0] != series {
		t.Fatal("listener must see the committed series")
	}
	if len(rec.added) != 0 {
		t.Fatal("series admission announces the series, not each instance")
	}
}

func TestListenerNotNotifiedOnRejection(t *testing.T) {
	cal := New("personal")
	e := mustEvent(t, model.EventSpec{Subject: "One", StartDate: "2025-11-05", EndDate: "2025-11-05"})
	if err := cal.AddEvent(e); err != nil {
		t.Fatalf("adding event: %v", err)
	}

	rec := &recordingListener{}
	cal.AddListener(rec)

	dup := mustEvent(t, model.EventSpec{Subject: "One", StartDate: "2025-11-05", EndDate: "2025-11-05"})
	if err := cal.AddEvent(dup); err == nil {
		t.Fatal("duplicate add should fail")
	}
	if err := cal.EditEvent(e.ID, EventPatch{EndDate: strPtr("2025-11-01")}); err == nil {
		t.Fatal("invalid edit should fail")
	}
	if len(rec.added)+len(rec.modified)+len(rec.series) != 0 {
		t.Fatal("rejected operations must not notify listeners")
	}
}

func TestAddListenerIdempotent(t *testing.T) {
	cal := New("personal")
	rec := &recordingListener{}
	cal.AddListener(rec)
	cal.AddListener(rec)
	cal.AddListener(nil)

	e := mustEvent(t, model.EventSpec{Subject: "One", StartDate: "2025-11-05", EndDate: "2025-11-05"})
	if err := cal.AddEvent(e); err != nil {
		t.Fatalf("adding event: %v", err)
	}
	if len(rec.added) != 1 {
		t.Fatalf("duplicate registration must notify once, saw %d", len(rec.added))
	}
}

func TestRemoveListener(t *testing.T) {
	cal := New("personal")
	rec := &recordingListener{}
	cal.AddListener(rec)
	cal.RemoveListener(rec)

	e := mustEvent(t, model.EventSpec{Subject: "One", StartDate: "2025-11-05", EndDate: "2025-11-05"})
	if err := cal.AddEvent(e); err != nil {
		t.Fatalf("adding event: %v", err)
	}
	if len(rec.added) != 0 {
		t.Fatal("removed listener must not be notified")
	}
}

func TestBulkEditNotifiesPerInstance(t *testing.T) {
	cal := New("personal")
	p, _ := model.NewCountPattern(3, []string{"MONDAY"})
	series := mustSeries(t, p, "2025-11-03", model.SeriesTemplate{Subject: "Gym"})
	if err := cal.AddRecurrentEvent(series); err != nil {
		t.Fatalf("adding series: %v", err)
	}

	rec := &recordingListener{}
	cal.AddListener(rec)
	if err := cal.EditRecurrentEvent(series.ID, SeriesPatch{Subject: strPtr("Swim")}); err != nil {
		t.Fatalf("bulk edit: %v", err)
	}
	if len(rec.modified) != 3 {
		t.Fatalf("expected one notification per instance, saw %d", len(rec.modified))
	}
}
