package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvnheller/caldr/internal/scheduler"
)

const alertLogLimit = 20

func waitForAlertCmd(ch <-chan scheduler.Alert) tea.Cmd {
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return AlertDueMsg{Alert: a}
	}
}

func (m *Model) logAlert(a scheduler.Alert) {
	m.AlertLog = append(m.AlertLog, a)
	if len(m.AlertLog) > alertLogLimit {
		m.AlertLog = m.AlertLog[len(m.AlertLog)-alertLogLimit:]
	}
	m.Status = StatusBar{Text: fmt.Sprintf("upcoming: %s", a.Subject), IsError: false}
}
