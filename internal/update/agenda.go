package update

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvnheller/caldr/internal/model"
)

// refreshAgenda rebuilds the agenda window from the calendar. The window
// covers Days days starting at FocusDate; ordering is by start instant,
// all-day events first within a day.
func (m *Model) refreshAgenda() {
	from := m.Agenda.FocusDate
	to := from.AddDate(0, 0, m.Agenda.Days-1)
	events, err := m.Calendar.EventsInRange(from.Format(model.DateLayout), to.Format(model.DateLayout))
	if err != nil {
		m.LastError = err
		return
	}

	seriesMembers := make(map[string]bool)
	for _, s := range m.Calendar.Series() {
		for _, e := range s.Events {
			seriesMembers[e.ID] = true
		}
	}

	items := make([]AgendaItem, 0, len(events))
	for _, e := range events {
		kind := "event"
		if seriesMembers[e.ID] {
			kind = "series"
		}
		items = append(items, AgendaItem{
			ID:      e.ID,
			Subject: e.Subject,
			Date:    e.StartDateString(),
			Start:   e.StartTimeString(),
			End:     e.EndTimeString(),
			Kind:    kind,
			AllDay:  e.AllDay(),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].Start < items[j].Start
	})

	m.Agenda.Items = items
	if m.Agenda.Cursor >= len(items) {
		m.Agenda.Cursor = 0
	}
	m.syncSelectionToCursor()
}

func (m *Model) syncSelectionToCursor() {
	if len(m.Agenda.Items) == 0 {
		m.SelectedEventID = ""
		return
	}
	m.SelectedEventID = m.Agenda.Items[m.Agenda.Cursor].ID
}

func (m Model) handleAgendaKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		if m.Agenda.Cursor < len(m.Agenda.Items)-1 {
			m.Agenda.Cursor++
		}
	case "k", "up":
		if m.Agenda.Cursor > 0 {
			m.Agenda.Cursor--
		}
	case "h", "left":
		m.Agenda.FocusDate = m.Agenda.FocusDate.AddDate(0, 0, -m.Agenda.Days)
		m.Agenda.Cursor = 0
		m.refreshAgenda()
	case "l", "right":
		m.Agenda.FocusDate = m.Agenda.FocusDate.AddDate(0, 0, m.Agenda.Days)
		m.Agenda.Cursor = 0
		m.refreshAgenda()
	case "t":
		m.Agenda.FocusDate = m.today()
		m.Agenda.Cursor = 0
		m.refreshAgenda()
	case "enter":
		if len(m.Agenda.Items) > 0 {
			m.CurrentView = ViewDetail
		}
	}
	m.syncSelectionToCursor()
	return m
}

func (m Model) currentAgendaItem() (AgendaItem, bool) {
	if len(m.Agenda.Items) == 0 {
		return AgendaItem{}, false
	}
	return m.Agenda.Items[m.Agenda.Cursor], true
}

func eventStart(e *model.Event) string {
	if e.AllDay() {
		return e.StartDateString()
	}
	return e.StartDateString() + " " + e.StartTimeString()
}

func eventEnd(e *model.Event) string {
	if e.AllDay() {
		return e.EndDateString()
	}
	return e.EndDateString() + " " + e.EndTimeString()
}
