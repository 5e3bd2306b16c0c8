// # cmd/hawk/ui.go
package main

import (
	"fmt"
	"hawk/internal/symbol"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type diagEntry struct {
	URI  string
	Diag symbol.Diagnostic
}

type item struct {
	title, desc string
	isError     bool
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list          list.Model
	entries       []diagEntry
	lastUpdate    time.Time
	documentCount int
	edgeCount     int
}

type updateMsg struct {
	entries       []diagEntry
	documentCount int
	edgeCount     int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.entries = msg.entries
		m.documentCount = msg.documentCount
		m.edgeCount = msg.edgeCount
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, e := range m.entries {
			items = append(items, item{
				title: e.Diag.Severity.String(),
				desc: fmt.Sprintf("%s in %s:%d:%d",
					e.Diag.Message, e.URI, e.Diag.Pos.Line+1, e.Diag.Pos.Col+1),
				isError: e.Diag.Severity == symbol.SeverityError,
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d documents | %d includes",
		m.lastUpdate.Format("15:04:05"), m.documentCount, m.edgeCount))

	errors, warnings := 0, 0
	for _, e := range m.entries {
		switch e.Diag.Severity {
		case symbol.SeverityError:
			errors++
		case symbol.SeverityWarning:
			warnings++
		}
	}

	var summary string
	if len(m.entries) == 0 {
		summary = successStyle.Render("✅ Workspace Clean")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			errorStyle.Render(fmt.Sprintf("%d Errors", errors)),
			warningStyle.Render(fmt.Sprintf("%d Warnings", warnings)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("AWK Workspace Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Diagnostics"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
