package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvnheller/caldr/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler != nil {
		return waitForAlertCmd(m.Scheduler.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, m.commandInput.Focus()
		case m.Keys.Agenda:
			m.CurrentView = ViewAgenda
			m.refreshAgenda()
			return m, nil
		case m.Keys.Month:
			m.CurrentView = ViewMonth
			return m, nil
		case m.Keys.Detail:
			if m.SelectedEventID != "" {
				m.CurrentView = ViewDetail
			}
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewAgenda:
			return m.handleAgendaKey(typed), nil
		case ViewMonth:
			return m.handleMonthKey(typed), nil
		case ViewDetail:
			return m.handleDetailKey(typed), nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			if typed.View == ViewAgenda {
				m.refreshAgenda()
			}
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case AlertDueMsg:
		m.logAlert(typed.Alert)
		if m.Scheduler != nil {
			return m, waitForAlertCmd(m.Scheduler.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.CurrentView = ViewAgenda
	case "j", "down":
		m.detailViewport.LineDown(1)
	case "k", "up":
		m.detailViewport.LineUp(1)
	}
	return m
}

func (m Model) View() string {
	m.syncBubbleData()

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewAgenda:
		leftPane = m.renderAgendaView()
		rightPane = m.renderPaletteView() + m.renderHelpIfVisible()
	case ViewMonth:
		leftPane = views.RenderMonthPanel(m.monthGrid())
		rightPane = m.renderPaletteView() + m.renderHelpIfVisible()
	case ViewDetail:
		leftPane = m.renderDetailView()
		rightPane = m.renderHelpIfVisible()
	}

	notification := ""
	if len(m.AlertLog) > 0 {
		last := m.AlertLog[len(m.AlertLog)-1]
		notification = fmt.Sprintf("last-alert: %s @ %s", last.Subject, last.TriggerAt.Format("15:04:05"))
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("caldr | view: %s | calendar: %s", m.CurrentView, m.Calendar.Title()),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: notification,
		Footer: fmt.Sprintf("keys: %s agenda | %s month | %s detail | / cmd | %s help | %s quit",
			m.Keys.Agenda, m.Keys.Month, m.Keys.Detail, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderAgendaView() string {
	items := make([]views.AgendaItemData, 0, len(m.Agenda.Items))
	for _, item := range m.Agenda.Items {
		items = append(items, views.AgendaItemData{
			ID:      item.ID,
			Subject: item.Subject,
			Date:    item.Date,
			Start:   item.Start,
			End:     item.End,
			Kind:    item.Kind,
			AllDay:  item.AllDay,
		})
	}
	var selected *views.AgendaItemData
	if item, ok := m.currentAgendaItem(); ok {
		selected = &views.AgendaItemData{
			ID: item.ID, Subject: item.Subject, Date: item.Date,
			Start: item.Start, End: item.End, Kind: item.Kind, AllDay: item.AllDay,
		}
	}
	return views.RenderAgendaPanel(views.AgendaPanelData{
		From:      m.Agenda.FocusDate.Format("2006-01-02"),
		To:        m.Agenda.FocusDate.AddDate(0, 0, m.Agenda.Days-1).Format("2006-01-02"),
		TableView: m.agendaTable.View(),
		Items:     items,
		Selected:  selected,
	})
}

func (m Model) renderDetailView() string {
	e, ok := m.Calendar.EventByID(m.SelectedEventID)
	if !ok {
		return "detail:\n(no event selected)"
	}
	visibility := "unspecified"
	if e.Public != nil {
		if *e.Public {
			visibility = "public"
		} else {
			visibility = "private"
		}
	}
	return views.RenderDetailPanel(views.DetailPanelData{
		ID:           e.ID,
		Subject:      e.Subject,
		Start:        eventStart(e),
		End:          eventEnd(e),
		AllDay:       e.AllDay(),
		Visibility:   visibility,
		Location:     e.Location,
		ViewportView: m.detailViewport.View(),
	})
}

func (m Model) renderPaletteView() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func isKnownView(v View) bool {
	switch v {
	case ViewAgenda, ViewMonth, ViewDetail:
		return true
	default:
		return false
	}
}
