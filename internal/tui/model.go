package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/i3tags/internal/ipc"
)

const refreshEvery = 2 * time.Second

// tagItem implements list.Item for the tag sidebar.
type tagItem struct {
	tag ipc.TagInfo
}

func (i tagItem) Title() string {
	prefix := "  "
	if i.tag.Focused {
		prefix = "* "
	}
	return fmt.Sprintf("%s%s (%d)", prefix, i.tag.Name, len(i.tag.Windows))
}

func (i tagItem) Description() string { return "" }
func (i tagItem) FilterValue() string { return i.tag.Name }

// tagsMsg carries a fresh tag listing from the daemon.
type tagsMsg struct {
	tags   *ipc.TagsData
	status *ipc.StatusData
	err    error
}

// statusMsg is sent after a daemon action completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

type tickMsg struct{}

// model is the root bubbletea model.
type model struct {
	source TagSource
	list   list.Model

	tags            *ipc.TagsData
	status          *ipc.StatusData
	daemonConnected bool
	lastError       string
	statusText      string

	width  int
	height int
}

func newModel(source TagSource) model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Tags"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return model{source: source, list: l}
}

func (m model) fetch() tea.Msg {
	tags, err := m.source.GetTags()
	if err != nil {
		return tagsMsg{err: err}
	}
	status, err := m.source.GetStatus()
	return tagsMsg{tags: tags, status: status, err: err}
}

func tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(time.Time) tea.Msg { return tickMsg{} })
}

func clearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetch, tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.sidebarWidth(), m.contentHeight())
		return m, nil

	case tagsMsg:
		if msg.err != nil {
			m.daemonConnected = false
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.daemonConnected = true
		m.lastError = ""
		m.tags = msg.tags
		m.status = msg.status
		m.rebuildItems()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch, tick())

	case statusMsg:
		m.statusText = msg.text
		return m, tea.Batch(m.fetch, clearStatusLater())

	case clearStatusMsg:
		m.statusText = ""
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter", "s":
			return m, m.switchSelected()
		case "r":
			return m, m.runTokens("activate")
		case "t":
			return m, m.runTokens("retag")
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) rebuildItems() {
	selected := m.selectedName()
	items := make([]list.Item, 0, len(m.tags.Tags))
	index := 0
	for i, tag := range m.tags.Tags {
		items = append(items, tagItem{tag: tag})
		if tag.Name == selected {
			index = i
		}
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(index)
	}
}

func (m model) selectedName() string {
	item, ok := m.list.SelectedItem().(tagItem)
	if !ok {
		return ""
	}
	return item.tag.Name
}

func (m model) selectedTag() (ipc.TagInfo, bool) {
	item, ok := m.list.SelectedItem().(tagItem)
	return item.tag, ok
}

func (m model) switchSelected() tea.Cmd {
	name := m.selectedName()
	if name == "" {
		return nil
	}
	source := m.source
	return func() tea.Msg {
		if err := source.Switch(name); err != nil {
			return statusMsg{text: fmt.Sprintf("error: %v", err)}
		}
		return statusMsg{text: "switched to " + name}
	}
}

func (m model) runTokens(tokens string) tea.Cmd {
	source := m.source
	return func() tea.Msg {
		if err := source.Run(tokens, ""); err != nil {
			return statusMsg{text: fmt.Sprintf("error: %v", err)}
		}
		return statusMsg{text: "ran " + tokens}
	}
}

func (m model) sidebarWidth() int {
	// Sidebar takes ~35% of width, min 20, max 40
	sw := m.width * 35 / 100
	if sw < 20 {
		sw = 20
	}
	if sw > 40 {
		sw = 40
	}
	return sw
}

// contentHeight leaves room for the status bar and the help bar.
func (m model) contentHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.daemonConnected, m.status, m.lastError, m.width)
	helpBar := renderHelpBar(m.statusText, m.width)

	sidebar := lipgloss.NewStyle().
		Width(m.sidebarWidth()).
		Height(m.contentHeight()).
		Render(m.list.View())

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.TrimSuffix(strings.Repeat("│\n", m.contentHeight()), "\n"))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep+" ", m.renderWindows())

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, columns, helpBar)
}

func (m model) renderWindows() string {
	tag, ok := m.selectedTag()
	if !ok {
		return dimStyle.Render("no tag selected")
	}
	title := tagStyle.Render(tag.Name)
	if len(tag.Windows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, dimStyle.Render("(empty)"))
	}
	lines := []string{title}
	for _, w := range tag.Windows {
		lines = append(lines, renderWindowLine(w, true))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderStatusBar(connected bool, status *ipc.StatusData, lastError string, width int) string {
	var text string
	if connected {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " daemon connected"}
		if status != nil {
			if status.FocusedTag != "" {
				parts = append(parts, "focused:"+status.FocusedTag)
			}
			if status.PreviousTag != "" {
				parts = append(parts, "previous:"+status.PreviousTag)
			}
			parts = append(parts, fmt.Sprintf("tags:%d", status.TagCount))
		}
		text = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = dot + " daemon not running"
		if lastError != "" {
			text += "  " + lastError
		}
	}

	return lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1).
		Render(text)
}

func renderHelpBar(statusText string, width int) string {
	left := ""
	if statusText != "" {
		left = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render(statusText)
	}
	right := dimStyle.Render("enter/s:switch  r:show overlay  t:retag  /:filter  q:quit")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
