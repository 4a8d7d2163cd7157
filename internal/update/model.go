// Package update holds the bubbletea program state and message loop. The
// calendar aggregate is shared with the caller; the model only ever
// mutates it through its own operations.
package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/kvnheller/caldr/internal/calendar"
	"github.com/kvnheller/caldr/internal/scheduler"
)

type View string

const (
	ViewAgenda View = "Agenda"
	ViewMonth  View = "Month"
	ViewDetail View = "Detail"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Agenda string
	Month  string
	Detail string
	Help   string
	Quit   string
}

type AgendaItem struct {
	ID      string
	Subject string
	Date    string
	Start   string
	End     string
	Kind    string
	AllDay  bool
}

type AgendaState struct {
	FocusDate time.Time
	Days      int
	Items     []AgendaItem
	Cursor    int
}

type MonthState struct {
	FocusDate time.Time
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView     View
	Calendar        *calendar.Calendar
	Agenda          AgendaState
	Month           MonthState
	SelectedEventID string
	Palette         CommandPaletteState
	Scheduler       *scheduler.Engine
	AlertLog        []scheduler.Alert
	HelpVisible     bool
	Status          StatusBar
	Keys            GlobalKeyMap
	Quitting        bool
	LastError       error

	now func() time.Time

	// Bubble components used for rich TUI controls
	agendaTable    table.Model
	commandInput   textinput.Model
	detailViewport viewport.Model
	helpModel      help.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type AlertDueMsg struct {
	Alert scheduler.Alert
}

func NewModel(cal *calendar.Calendar) Model {
	if cal == nil {
		cal = calendar.New("personal")
	}
	m := Model{
		CurrentView: ViewAgenda,
		Calendar:    cal,
		Agenda: AgendaState{
			Days: 7,
		},
		Keys: GlobalKeyMap{
			Agenda: "1",
			Month:  "2",
			Detail: "3",
			Help:   "?",
			Quit:   "q",
		},
		now: func() time.Time { return time.Now().UTC() },
	}
	today := m.today()
	m.Agenda.FocusDate = today
	m.Month.FocusDate = today
	m.initBubbleComponents()
	m.refreshAgenda()
	m.syncBubbleData()
	return m
}

func NewModelWithScheduler(cal *calendar.Calendar, engine *scheduler.Engine) Model {
	m := NewModel(cal)
	m.Scheduler = engine
	return m
}

func (m Model) today() time.Time {
	n := m.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}
