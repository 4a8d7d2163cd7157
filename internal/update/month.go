package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvnheller/caldr/internal/model"
	"github.com/kvnheller/caldr/internal/views"
)

func (m Model) handleMonthKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left":
		m.Month.FocusDate = m.Month.FocusDate.AddDate(0, -1, 0)
	case "l", "right":
		m.Month.FocusDate = m.Month.FocusDate.AddDate(0, 1, 0)
	case "t":
		m.Month.FocusDate = m.today()
	case "enter":
		// jump the agenda to the focused month
		m.Agenda.FocusDate = firstOfMonth(m.Month.FocusDate)
		m.Agenda.Cursor = 0
		m.refreshAgenda()
		m.CurrentView = ViewAgenda
	}
	return m
}

// monthGrid lays the focused month out in Monday-first weeks and marks the
// days that have at least one event.
func (m Model) monthGrid() views.MonthGridData {
	first := firstOfMonth(m.Month.FocusDate)
	last := first.AddDate(0, 1, -1)

	busy := make(map[int]bool)
	events, err := m.Calendar.EventsInRange(first.Format(model.DateLayout), last.Format(model.DateLayout))
	if err == nil {
		for _, e := range events {
			day := e.StartDate
			if day.Before(first) {
				day = first
			}
			end := e.EndDate
			if end.After(last) {
				end = last
			}
			for ; !day.After(end); day = day.AddDate(0, 0, 1) {
				busy[day.Day()] = true
			}
		}
	}

	today := m.today()
	grid := views.MonthGridData{
		Title: first.Format("January 2006"),
	}
	week := make([]views.MonthDay, 0, 7)
	for i := 0; i < mondayIndex(first.Weekday()); i++ {
		week = append(week, views.MonthDay{})
	}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		week = append(week, views.MonthDay{
			Day:       day.Day(),
			HasEvents: busy[day.Day()],
			Today:     day.Equal(today),
		})
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = make([]views.MonthDay, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, views.MonthDay{})
		}
		grid.Weeks = append(grid.Weeks, week)
	}
	return grid
}

func firstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
