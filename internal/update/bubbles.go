package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/kvnheller/caldr/internal/views"
)

func (m *Model) initBubbleComponents() {
	input := textinput.New()
	input.Placeholder = "add \"Subject\" 2025-11-07 from:14:00:00 to:15:00:00"
	input.CharLimit = 256
	m.commandInput = input

	m.agendaTable = table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 10},
			{Title: "Time", Width: 17},
			{Title: "Subject", Width: 28},
		}),
		table.WithHeight(10),
	)

	m.detailViewport = viewport.New(56, 14)
	m.helpModel = help.New()
}

// syncBubbleData pushes the current agenda and selection into the bubble
// components after every update.
func (m *Model) syncBubbleData() {
	rows := make([]table.Row, 0, len(m.Agenda.Items))
	for _, item := range m.Agenda.Items {
		window := "all day"
		if !item.AllDay {
			window = fmt.Sprintf("%s-%s", item.Start, item.End)
		}
		rows = append(rows, table.Row{item.Date, window, item.Subject})
	}
	m.agendaTable.SetRows(rows)
	if m.Agenda.Cursor < len(rows) {
		m.agendaTable.SetCursor(m.Agenda.Cursor)
	}
	m.detailViewport.SetContent(m.detailContent())
}

func (m Model) detailContent() string {
	e, ok := m.Calendar.EventByID(m.SelectedEventID)
	if !ok {
		return "(no event selected)"
	}
	md := fmt.Sprintf("# %s\n\n- when: %s to %s\n- where: %s\n\n%s",
		e.Subject, eventStart(e), eventEnd(e), orDash(e.Location), e.Description)
	return views.RenderMarkdown(md)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
