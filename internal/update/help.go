package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/kvnheller/caldr/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Agenda, Action: "switch to Agenda"},
		{Key: m.Keys.Month, Action: "switch to Month"},
		{Key: m.Keys.Detail, Action: "switch to Detail"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewAgenda:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "h/l", Action: "previous/next week"},
			{Key: "t", Action: "jump to today"},
			{Key: "enter", Action: "open event detail"},
		}
	case ViewMonth:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next month"},
			{Key: "t", Action: "jump to current month"},
			{Key: "enter", Action: "open month in agenda"},
		}
	case ViewDetail:
		return []KeyBinding{
			{Key: "j/k", Action: "scroll detail"},
			{Key: "esc", Action: "back to agenda"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
