package update

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvnheller/caldr/internal/calendar"
	"github.com/kvnheller/caldr/internal/commands"
	"github.com/kvnheller/caldr/internal/csvio"
	"github.com/kvnheller/caldr/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand(), nil
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add:    m.handleAddCommand,
		Series: m.handleSeriesCommand,
		Edit:   m.handleEditCommand,
		Range:  m.handleRangeCommand,
		Busy:   m.handleBusyCommand,
		Allow:  m.handleAllowCommand,
		Export: m.handleExportCommand,
		Import: m.handleImportCommand,
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.LastError = err
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
	}
	m.refreshAgenda()

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m
}

func (m *Model) handleAddCommand(a commands.AddArgs) (commands.Result, error) {
	spec := model.EventSpec{
		Subject:     a.Subject,
		StartDate:   a.StartDate,
		EndDate:     a.EndDate,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Description: a.Description,
		Location:    a.Location,
	}
	if a.HasPrivacy {
		public := !a.Private
		spec.Public = &public
	}
	e, err := model.NewEvent(spec)
	if err != nil {
		return commands.Result{}, err
	}
	if err := m.Calendar.AddEvent(e); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("added event: %s on %s", e.Subject, e.StartDateString())}, nil
}

func (m *Model) handleSeriesCommand(s commands.SeriesArgs) (commands.Result, error) {
	var pattern model.RecurrencePattern
	var err error
	if s.Count > 0 {
		pattern, err = model.NewCountPattern(s.Count, s.Days)
	} else {
		pattern, err = model.NewUntilPattern(s.Until, s.Days)
	}
	if err != nil {
		return commands.Result{}, err
	}
	series, err := model.NewRecurrentEvent(pattern, s.StartDate, model.SeriesTemplate{
		Subject:   s.Subject,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	})
	if err != nil {
		return commands.Result{}, err
	}
	if err := m.Calendar.AddRecurrentEvent(series); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("added series: %s with %d occurrence(s)", s.Subject, len(series.Events))}, nil
}

func (m *Model) handleEditCommand(e commands.EditArgs) (commands.Result, error) {
	patch := calendarPatch(e)
	if err := m.Calendar.EditEvent(e.Target, patch); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("edited event: %s", e.Target)}, nil
}

func (m *Model) handleRangeCommand(r commands.RangeArgs) (commands.Result, error) {
	events, err := m.Calendar.EventsInRange(r.From, r.To)
	if err != nil {
		return commands.Result{}, err
	}
	if from, parseErr := model.ParseDate(r.From); parseErr == nil {
		m.Agenda.FocusDate = from
		m.Agenda.Cursor = 0
	}
	return commands.Result{Message: fmt.Sprintf("%d event(s) between %s and %s", len(events), r.From, r.To)}, nil
}

func (m *Model) handleBusyCommand(b commands.BusyArgs) (commands.Result, error) {
	busy, err := m.Calendar.BusyAt(b.Date, b.Time)
	if err != nil {
		return commands.Result{}, err
	}
	if busy {
		return commands.Result{Message: fmt.Sprintf("busy at %s %s", b.Date, b.Time)}, nil
	}
	return commands.Result{Message: fmt.Sprintf("free at %s %s", b.Date, b.Time)}, nil
}

func (m *Model) handleAllowCommand(a commands.AllowArgs) (commands.Result, error) {
	m.Calendar.SetAllowConflicts(a.Enabled)
	if a.Enabled {
		return commands.Result{Message: "overlapping events are now allowed"}, nil
	}
	return commands.Result{Message: "overlapping events are now rejected"}, nil
}

func (m *Model) handleExportCommand(f commands.FileArgs) (commands.Result, error) {
	out, err := os.Create(f.Path)
	if err != nil {
		return commands.Result{}, err
	}
	defer out.Close()
	if err := csvio.Export(out, m.Calendar); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("exported calendar to %s", f.Path)}, nil
}

func (m *Model) handleImportCommand(f commands.FileArgs) (commands.Result, error) {
	in, err := os.Open(f.Path)
	if err != nil {
		return commands.Result{}, err
	}
	defer in.Close()
	imported, err := csvio.Import(in, m.Calendar.Title())
	if err != nil {
		return commands.Result{}, err
	}

	added := 0
	for _, e := range imported.Events() {
		if addErr := m.Calendar.AddEvent(e); addErr == nil {
			added++
		}
	}
	return commands.Result{Message: fmt.Sprintf("imported %d event(s) from %s", added, f.Path)}, nil
}

func calendarPatch(e commands.EditArgs) calendar.EventPatch {
	return calendar.EventPatch{
		Subject:     e.Subject,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Description: e.Description,
		Location:    e.Location,
		Public:      e.Public,
	}
}
