package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kvnheller/caldr/internal/calendar"
	"github.com/kvnheller/caldr/internal/model"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "caldr-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func sampleCalendar(t *testing.T) *calendar.Calendar {
	t.Helper()
	cal := calendar.New("personal")

	private := false
	dentist, err := model.NewEvent(model.EventSpec{
		Subject:     "Dentist",
		StartDate:   "2025-11-07",
		EndDate:     "2025-11-07",
		StartTime:   "14:00:00",
		EndTime:     "15:00:00",
		Public:      &private,
		Description: "checkup",
		Location:    "Maple St",
	})
	if err != nil {
		t.Fatalf("build event: %v", err)
	}
	holiday, err := model.NewEvent(model.EventSpec{
		Subject: "Holiday", StartDate: "2025-11-27", EndDate: "2025-11-28",
	})
	if err != nil {
		t.Fatalf("build event: %v", err)
	}
	for _, e := range []*model.Event{dentist, holiday} {
		if err := cal.AddEvent(e); err != nil {
			t.Fatalf("add %q: %v", e.Subject, err)
		}
	}

	pattern, err := model.NewCountPattern(3, []string{"MONDAY", "WEDNESDAY"})
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	series, err := model.NewRecurrentEvent(pattern, "2025-11-03", model.SeriesTemplate{
		Subject:   "Gym",
		StartTime: "07:00:00",
		EndTime:   "08:00:00",
	})
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if err := cal.AddRecurrentEvent(series); err != nil {
		t.Fatalf("add series: %v", err)
	}
	return cal
}

func TestSaveAndLoadCalendar(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	cal := sampleCalendar(t)

	if err := repo.SaveCalendar(ctx, cal); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.LoadCalendar(ctx, "personal")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.Title() != cal.Title() || got.AllowConflicts() != cal.AllowConflicts() {
		t.Fatal("calendar header lost in round trip")
	}
	if len(got.Events()) != len(cal.Events()) {
		t.Fatalf("standalone count = %d, want %d", len(got.Events()), len(cal.Events()))
	}
	for i, want := range cal.Events() {
		have := got.Events()[i]
		if have.ID != want.ID {
			t.Fatalf("event %d id changed", i)
		}
		if have.Key() != want.Key() {
			t.Fatalf("event %d fields changed: %+v", i, have.Key())
		}
	}

	if len(got.Series()) != 1 {
		t.Fatalf("series count = %d", len(got.Series()))
	}
	s := got.Series()[0]
	want := cal.Series()[0]
	if s.ID != want.ID {
		t.Fatal("series id changed")
	}
	if s.Pattern.Count() != 3 {
		t.Fatalf("pattern count = %d", s.Pattern.Count())
	}
	if len(s.Events) != len(want.Events) {
		t.Fatalf("instance count = %d, want %d", len(s.Events), len(want.Events))
	}
	for i := range s.Events {
		if s.Events[i].ID != want.Events[i].ID || s.Events[i].Key() != want.Events[i].Key() {
			t.Fatalf("instance %d changed", i)
		}
	}
}

func TestSaveReplacesSnapshot(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	cal := sampleCalendar(t)
	if err := repo.SaveCalendar(ctx, cal); err != nil {
		t.Fatalf("first save: %v", err)
	}

	next := calendar.New("personal")
	only, err := model.NewEvent(model.EventSpec{Subject: "Only", StartDate: "2025-12-01", EndDate: "2025-12-01"})
	if err != nil {
		t.Fatalf("build event: %v", err)
	}
	if err := next.AddEvent(only); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.SaveCalendar(ctx, next); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.LoadCalendar(ctx, "personal")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Events()) != 1 || len(got.Series()) != 0 {
		t.Fatal("second save must fully replace the first snapshot")
	}
}

func TestLoadPreservesConflictingSnapshot(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	cal := calendar.New("messy")
	cal.SetAllowConflicts(true)
	for _, times := range [][2]string{{"09:00:00", "11:00:00"}, {"10:00:00", "10:30:00"}} {
		e, err := model.NewEvent(model.EventSpec{
			Subject:   "Slot " + times[0],
			StartDate: "2025-11-05",
			EndDate:   "2025-11-05",
			StartTime: times[0],
			EndTime:   times[1],
		})
		if err != nil {
			t.Fatalf("build event: %v", err)
		}
		if err := cal.AddEvent(e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if err := repo.SaveCalendar(ctx, cal); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.LoadCalendar(ctx, "messy")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Events()) != 2 {
		t.Fatal("load must not re-run conflict checks on the snapshot")
	}
}

func TestLoadUntilModeSeries(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	cal := calendar.New("personal")
	pattern, err := model.NewUntilPattern("2025-11-18", []string{"TUESDAY", "THURSDAY"})
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	series, err := model.NewRecurrentEvent(pattern, "2025-11-04", model.SeriesTemplate{Subject: "Lecture"})
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if err := cal.AddRecurrentEvent(series); err != nil {
		t.Fatalf("add series: %v", err)
	}
	if err := repo.SaveCalendar(ctx, cal); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.LoadCalendar(ctx, "personal")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s := got.Series()[0]
	until, ok := s.Pattern.Until()
	if !ok {
		t.Fatal("pattern mode lost in round trip")
	}
	if until.Format(model.DateLayout) != "2025-11-18" {
		t.Fatalf("until = %s", until.Format(model.DateLayout))
	}
	if len(s.Events) != 5 {
		t.Fatalf("instance count = %d, want 5", len(s.Events))
	}
}

func TestListAndDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for _, title := range []string{"work", "home"} {
		if err := repo.SaveCalendar(ctx, calendar.New(title)); err != nil {
			t.Fatalf("save %s: %v", title, err)
		}
	}

	titles, err := repo.ListCalendarTitles(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(titles) != 2 || titles[0] != "home" || titles[1] != "work" {
		t.Fatalf("titles = %v", titles)
	}

	if err := repo.DeleteCalendar(ctx, "home"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.LoadCalendar(ctx, "home"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
	if err := repo.DeleteCalendar(ctx, "home"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got: %v", err)
	}
}

func TestLoadMissingCalendar(t *testing.T) {
	repo := setupRepo(t)
	_, err := repo.LoadCalendar(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
