package views

import (
	"fmt"
	"sort"
	"strings"
)

type AgendaItemData struct {
	ID      string
	Subject string
	Date    string
	Start   string
	End     string
	Kind    string
	AllDay  bool
}

type AgendaPanelData struct {
	From      string
	To        string
	TableView string
	Items     []AgendaItemData
	Selected  *AgendaItemData
}

type MonthDay struct {
	Day       int // 0 for padding cells
	HasEvents bool
	Today     bool
}

type MonthGridData struct {
	Title string
	Weeks [][]MonthDay
}

type DetailPanelData struct {
	ID           string
	Subject      string
	Start        string
	End          string
	AllDay       bool
	Visibility   string
	Location     string
	ViewportView string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderAgendaPanel(data AgendaPanelData) string {
	var b strings.Builder
	b.WriteString("agenda:\n")
	b.WriteString(fmt.Sprintf("window: %s to %s\n", data.From, data.To))
	b.WriteString("actions: [j/k]move [h/l]week [t]today [enter]detail\n")
	b.WriteString(data.TableView + "\n")

	grouped := make(map[string][]AgendaItemData)
	keys := make([]string, 0)
	for _, item := range data.Items {
		if _, ok := grouped[item.Date]; !ok {
			keys = append(keys, item.Date)
		}
		grouped[item.Date] = append(grouped[item.Date], item)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		b.WriteString("(agenda empty)")
		return b.String()
	}

	for _, day := range keys {
		b.WriteString(fmt.Sprintf("\n%s:\n", day))
		items := grouped[day]
		sort.SliceStable(items, func(i, j int) bool { return items[i].Start < items[j].Start })
		for _, item := range items {
			cursor := " "
			if data.Selected != nil && data.Selected.ID == item.ID {
				cursor = ">"
			}
			window := "all day"
			if !item.AllDay {
				window = item.Start + "-" + item.End
			}
			b.WriteString(fmt.Sprintf("%s [%s] %s %s\n", cursor, strings.ToUpper(item.Kind), window, item.Subject))
		}
	}

	if data.Selected != nil {
		b.WriteString("\nagenda-metadata:\n")
		b.WriteString(fmt.Sprintf("id: %s\n", data.Selected.ID))
		b.WriteString(fmt.Sprintf("kind: %s\n", data.Selected.Kind))
		b.WriteString(fmt.Sprintf("when: %s %s\n", data.Selected.Date, data.Selected.Start))
	}
	return strings.TrimSpace(b.String())
}

func RenderMonthPanel(data MonthGridData) string {
	var b strings.Builder
	b.WriteString("month:\n")
	b.WriteString(data.Title + "\n")
	b.WriteString("actions: [h/l]month [t]today [enter]open in agenda\n")
	b.WriteString("Mo  Tu  We  Th  Fr  Sa  Su\n")
	for _, week := range data.Weeks {
		cells := make([]string, 0, 7)
		for _, day := range week {
			cells = append(cells, renderMonthCell(day))
		}
		b.WriteString(strings.Join(cells, " ") + "\n")
	}
	b.WriteString("legend: n* has events, n# today")
	return b.String()
}

func renderMonthCell(day MonthDay) string {
	if day.Day == 0 {
		return "   "
	}
	cell := fmt.Sprintf("%2d", day.Day)
	switch {
	case day.Today:
		return cell + "#"
	case day.HasEvents:
		return cell + "*"
	default:
		return cell + " "
	}
}

func RenderDetailPanel(data DetailPanelData) string {
	var b strings.Builder
	b.WriteString("detail:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", data.ID))
	b.WriteString(fmt.Sprintf("subject: %s\n", data.Subject))
	if data.AllDay {
		b.WriteString(fmt.Sprintf("when: %s to %s (all day)\n", data.Start, data.End))
	} else {
		b.WriteString(fmt.Sprintf("when: %s to %s\n", data.Start, data.End))
	}
	b.WriteString(fmt.Sprintf("visibility: %s\n", data.Visibility))
	if data.Location != "" {
		b.WriteString(fmt.Sprintf("location: %s\n", data.Location))
	}
	b.WriteString("actions: [j/k]scroll [esc]back\n\n")
	b.WriteString(data.ViewportView)
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
