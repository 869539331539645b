package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/contriboss/extbuild/internal/extensions"
)

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("235"))

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

const browseTitle = "Extension Modules"

type item struct {
	status extensions.ModuleStatus
}

func (i item) Title() string { return i.status.Module.ID }
func (i item) Description() string {
	return fmt.Sprintf("%s • %s", i.status.Module.SourcePath(), moduleState(i.status))
}
func (i item) FilterValue() string { return i.status.Module.ID }

type model struct {
	list        list.Model
	statuses    []extensions.ModuleStatus
	pkg         string
	searchInput textinput.Model
	searchMode  bool
	width       int
	height      int
	message     string
	quitting    bool
}

type keyMap struct {
	Info   key.Binding
	RPath  key.Binding
	Search key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Info: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "info"),
	),
	RPath: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rpath"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func initialModel(statuses []extensions.ModuleStatus, pkg string) model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedItemStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	delegate.Styles.NormalTitle = normalItemStyle

	l := list.New(toItems(statuses), delegate, 0, 0)
	l.Title = browseTitle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 50

	return model{
		list:        l,
		statuses:    statuses,
		pkg:         pkg,
		searchInput: ti,
	}
}

func toItems(statuses []extensions.ModuleStatus) []list.Item {
	items := make([]list.Item, len(statuses))
	for i, s := range statuses {
		items[i] = item{status: s}
	}
	return items
}

// filterModules keeps the statuses whose module ID contains query,
// ignoring case.
func filterModules(statuses []extensions.ModuleStatus, query string) []extensions.ModuleStatus {
	if query == "" {
		return statuses
	}
	query = strings.ToLower(query)
	var filtered []extensions.ModuleStatus
	for _, s := range statuses {
		if strings.Contains(strings.ToLower(s.Module.ID), query) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchMode(msg)
		}
		return m.handleNormalMode(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.searchMode = false
		m.searchInput.SetValue("")
		m.applyFilter("")
		return m, nil

	case tea.KeyEnter:
		m.searchMode = false
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applyFilter(m.searchInput.Value())

	return m, cmd
}

func (m model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Search):
		m.searchMode = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Info):
		if selected := m.selected(); selected != nil {
			m.message = moduleInfo(*selected)
		}
		return m, nil

	case key.Matches(msg, keys.RPath):
		if selected := m.selected(); selected != nil {
			m.message = extensions.LoaderRPath(selected.Module, m.pkg)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func moduleInfo(s extensions.ModuleStatus) string {
	info := fmt.Sprintf("%s: depth %d, %s", s.Module.ID, s.Module.Depth(), moduleState(s))
	if s.Built() {
		info += " → " + s.Binary
	}
	return info
}

func (m *model) applyFilter(query string) {
	m.list.SetItems(toItems(filterModules(m.statuses, query)))
	if query == "" {
		m.list.Title = browseTitle
		return
	}
	m.list.Title = fmt.Sprintf("%s (filter: %q)", browseTitle, query)
}

func (m *model) selected() *extensions.ModuleStatus {
	if selectedItem := m.list.SelectedItem(); selectedItem != nil {
		if i, ok := selectedItem.(item); ok {
			return &i.status
		}
	}
	return nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var view strings.Builder

	view.WriteString(m.list.View())
	view.WriteString("\n")

	if m.searchMode {
		view.WriteString("\n")
		view.WriteString(m.searchInput.View())
		view.WriteString("\n")
	}

	view.WriteString(m.renderStatusBar())

	if m.message != "" {
		view.WriteString("\n")
		view.WriteString(warnStyle.Render(m.message))
	}

	return appStyle.Render(view.String())
}

func (m model) renderStatusBar() string {
	var selectedInfo string
	if selected := m.selected(); selected != nil {
		selectedInfo = fmt.Sprintf(" %s (%s) ", selected.Module.ID, moduleState(*selected))
	}

	helpText := " / search • i info • r rpath • q quit "
	if m.searchMode {
		helpText = " Type to filter • Enter to keep • Esc to clear "
	}

	width := m.width
	if width == 0 {
		width = 80
	}

	return statusBarStyle.
		Width(width).
		Render(selectedInfo + strings.Repeat(" ", max(0, width-len(selectedInfo)-len(helpText))) + helpText)
}

// RunBrowse starts the interactive TUI for browsing modules
func RunBrowse(statuses []extensions.ModuleStatus, pkg string) error {
	if len(statuses) == 0 {
		return fmt.Errorf("no modules registered")
	}

	p := tea.NewProgram(initialModel(statuses, pkg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
