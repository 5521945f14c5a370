// Package tui provides a terminal user interface for browsing and
// editing todo and shopping lists.
package tui

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"listy/store"
)

// ListStore is the subset of store operations the TUI needs.
type ListStore interface {
	Lists(mode store.Mode) map[string]string
	CurrentListID(mode store.Mode) string
	SetCurrentListID(ctx context.Context, mode store.Mode, id string) error
	Tasks(mode store.Mode) []store.Item
	AddTask(ctx context.Context, mode store.Mode, name string, priority store.Priority, completed bool) (*store.Item, error)
	UpdateTaskStatus(ctx context.Context, mode store.Mode, name string, completed bool) error
	DeleteTask(ctx context.Context, mode store.Mode, name string) error
	MatchSuggestions(query string) []string
}

// UIMode indicates the current input mode
type UIMode int

const (
	ModeNormal UIMode = iota
	ModeAdd
	ModeHelp
	ModeConfirmDelete
)

// Model represents the TUI state
type Model struct {
	store ListStore
	ctx   context.Context

	// Data
	mode    store.Mode
	listIDs []string
	names   map[string]string
	items   []store.Item

	// Selection
	cursor int

	// Mode and input
	uiMode     UIMode
	textInput  textinput.Model
	suggestion string
	status     string

	// UI dimensions
	width  int
	height int

	// Styles
	paneStyle      lipgloss.Style
	titleStyle     lipgloss.Style
	selectedStyle  lipgloss.Style
	completedStyle lipgloss.Style
	hintStyle      lipgloss.Style
	helpStyle      lipgloss.Style
	dialogStyle    lipgloss.Style
	statusBarStyle lipgloss.Style
}

// Message types
type itemsLoadedMsg struct {
	items []store.Item
}

type itemAddedMsg struct {
	item *store.Item
}

type itemChangedMsg struct{}

type errMsg struct {
	err error
}

// New creates a new TUI model starting in the given domain.
func New(st ListStore, mode store.Mode) *Model {
	ti := textinput.New()
	ti.Placeholder = "New item..."
	ti.CharLimit = 256

	m := &Model{
		store:     st,
		ctx:       context.Background(),
		mode:      mode,
		textInput: ti,
		uiMode:    ModeNormal,
		paneStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9575CD")).
			Padding(0, 1),
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#9575CD")),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		completedStyle: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("240")),
		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		dialogStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9575CD")).
			Padding(1, 2),
		statusBarStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
	}
	m.reloadLists()
	return m
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return m.loadItems()
}

// reloadLists refreshes the list index for the current domain. IDs are
// sorted so cycling order is stable.
func (m *Model) reloadLists() {
	m.names = m.store.Lists(m.mode)
	m.listIDs = make([]string, 0, len(m.names))
	for id := range m.names {
		m.listIDs = append(m.listIDs, id)
	}
	sort.Strings(m.listIDs)
}

func (m *Model) loadItems() tea.Cmd {
	return func() tea.Msg {
		return itemsLoadedMsg{items: m.store.Tasks(m.mode)}
	}
}

func (m *Model) addItem(name string) tea.Cmd {
	return func() tea.Msg {
		item, err := m.store.AddTask(m.ctx, m.mode, name, "", false)
		if err != nil {
			return errMsg{err}
		}
		return itemAddedMsg{item}
	}
}

func (m *Model) toggleItem(item store.Item) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.UpdateTaskStatus(m.ctx, m.mode, item.Name, !item.Completed); err != nil {
			return errMsg{err}
		}
		return itemChangedMsg{}
	}
}

func (m *Model) deleteItem(name string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.DeleteTask(m.ctx, m.mode, name); err != nil {
			return errMsg{err}
		}
		return itemChangedMsg{}
	}
}

// cycleList switches the current list by the given offset (-1 or +1).
func (m *Model) cycleList(delta int) tea.Cmd {
	if len(m.listIDs) < 2 {
		return nil
	}
	current := m.store.CurrentListID(m.mode)
	pos := 0
	for i, id := range m.listIDs {
		if id == current {
			pos = i
			break
		}
	}
	next := m.listIDs[(pos+delta+len(m.listIDs))%len(m.listIDs)]
	return func() tea.Msg {
		if err := m.store.SetCurrentListID(m.ctx, m.mode, next); err != nil {
			return errMsg{err}
		}
		return itemsLoadedMsg{items: m.store.Tasks(m.mode)}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case itemsLoadedMsg:
		m.items = msg.items
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil

	case itemAddedMsg:
		if msg.item == nil {
			m.status = "already on the list"
			return m, nil
		}
		m.status = ""
		return m, m.loadItems()

	case itemChangedMsg:
		m.status = ""
		return m, m.loadItems()

	case errMsg:
		m.status = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		switch m.uiMode {
		case ModeAdd:
			return m.handleAddMode(msg)
		case ModeHelp:
			return m.handleHelpMode(msg)
		case ModeConfirmDelete:
			return m.handleConfirmDeleteMode(msg)
		}

		// Normal mode key handling
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "tab":
			if m.mode == store.ModeTodo {
				m.mode = store.ModeShopping
			} else {
				m.mode = store.ModeTodo
			}
			m.cursor = 0
			m.reloadLists()
			return m, m.loadItems()

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			return m, nil

		case "[":
			return m, m.cycleList(-1)

		case "]":
			return m, m.cycleList(1)

		case "a":
			m.uiMode = ModeAdd
			m.suggestion = ""
			m.textInput.Reset()
			m.textInput.Focus()
			return m, textinput.Blink

		case " ":
			if len(m.items) > 0 && m.cursor < len(m.items) {
				return m, m.toggleItem(m.items[m.cursor])
			}
			return m, nil

		case "d":
			if len(m.items) > 0 && m.cursor < len(m.items) {
				m.uiMode = ModeConfirmDelete
			}
			return m, nil

		case "?":
			m.uiMode = ModeHelp
			return m, nil
		}
	}

	return m, nil
}

func (m *Model) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		value := m.textInput.Value()
		m.uiMode = ModeNormal
		if value != "" {
			return m, m.addItem(value)
		}
		return m, nil

	case tea.KeyEsc:
		m.uiMode = ModeNormal
		return m, nil

	case tea.KeyTab:
		// Accept the suggestion hint.
		if m.suggestion != "" {
			m.textInput.SetValue(m.suggestion)
			m.textInput.CursorEnd()
		}
		return m, nil
	}

	m.textInput, cmd = m.textInput.Update(msg)
	m.suggestion = ""
	if m.mode == store.ModeShopping {
		if matches := m.store.MatchSuggestions(m.textInput.Value()); len(matches) > 0 {
			m.suggestion = matches[0]
		}
	}
	return m, cmd
}

func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.uiMode = ModeNormal
		return m, nil
	}
	if msg.String() == "q" {
		m.uiMode = ModeNormal
		return m, nil
	}
	return m, nil
}

func (m *Model) handleConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.uiMode = ModeNormal
		if len(m.items) > 0 && m.cursor < len(m.items) {
			name := m.items[m.cursor].Name
			if m.cursor == len(m.items)-1 && m.cursor > 0 {
				m.cursor--
			}
			return m, m.deleteItem(name)
		}
		return m, nil

	case "n", "N":
		m.uiMode = ModeNormal
		return m, nil
	}

	if msg.Type == tea.KeyEsc {
		m.uiMode = ModeNormal
	}
	return m, nil
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		m.width = 80
		m.height = 24
	}

	var b strings.Builder
	content := m.renderItems(m.width - 6)
	pane := m.paneStyle.Width(m.width - 2).Height(m.height - 4).Render(content)

	b.WriteString(pane)
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	switch m.uiMode {
	case ModeAdd:
		return m.renderAddDialog()
	case ModeHelp:
		return m.renderHelpDialog()
	case ModeConfirmDelete:
		return m.renderConfirmDeleteDialog()
	}

	return b.String()
}

func (m *Model) renderItems(width int) string {
	var b strings.Builder

	title := "Todo"
	if m.mode == store.ModeShopping {
		title = "Shopping"
	}
	if name, ok := m.names[m.store.CurrentListID(m.mode)]; ok {
		title += " · " + name
	}
	b.WriteString(m.titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(width, 1)))
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString("Nothing here. Press 'a' to add an item.\n")
		return b.String()
	}

	for i, item := range m.items {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		box := "⬜"
		if item.Completed {
			box = "✅"
		}

		name := item.Name
		if item.Completed {
			name = m.completedStyle.Render(name)
		} else if i == m.cursor {
			name = m.selectedStyle.Render(name)
		}

		line := cursor + " " + box + " " + name
		if m.mode == store.ModeTodo && item.Priority != "" && !item.Completed {
			line += " " + m.hintStyle.Render("("+string(item.Priority)+")")
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

func (m *Model) renderStatusBar() string {
	left := "tab:mode  [/]:list  a:add  space:done  d:delete"
	right := "q:quit  ?:help"
	if m.status != "" {
		left = m.status
	}

	padding := m.width - len(left) - len(right) - 2
	if padding < 1 {
		padding = 1
	}

	return m.statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m *Model) renderAddDialog() string {
	hint := ""
	if m.suggestion != "" {
		hint = m.hintStyle.Render("tab: "+m.suggestion) + "\n"
	}
	dialog := m.dialogStyle.Render(
		"Add Item\n\n" +
			m.textInput.View() + "\n" +
			hint + "\n" +
			m.helpStyle.Render("Enter: confirm  Esc: cancel"),
	)
	return m.centerDialog(dialog)
}

func (m *Model) renderHelpDialog() string {
	help := `Help - Key Bindings

Navigation:
  j/↓    Move down
  k/↑    Move up
  Tab    Switch between todo and shopping
  [ ]    Cycle through lists

Actions:
  a      Add new item
  Space  Toggle item done
  d      Delete item (with confirm)

General:
  ?      Show this help
  q      Quit

Press any key to close`

	dialog := m.dialogStyle.Render(help)
	return m.centerDialog(dialog)
}

func (m *Model) renderConfirmDeleteDialog() string {
	name := ""
	if len(m.items) > 0 && m.cursor < len(m.items) {
		name = m.items[m.cursor].Name
	}
	dialog := m.dialogStyle.Render(
		"Delete '" + name + "'?\n\n" +
			m.helpStyle.Render("y: yes  n: no"),
	)
	return m.centerDialog(dialog)
}

func (m *Model) centerDialog(dialog string) string {
	lines := strings.Split(dialog, "\n")
	dialogHeight := len(lines)
	dialogWidth := 0
	for _, line := range lines {
		if len(line) > dialogWidth {
			dialogWidth = len(line)
		}
	}

	topPad := (m.height - dialogHeight) / 2
	leftPad := (m.width - dialogWidth) / 2
	if topPad < 0 {
		topPad = 0
	}
	if leftPad < 0 {
		leftPad = 0
	}

	var b strings.Builder
	for i := 0; i < topPad; i++ {
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(strings.Repeat(" ", leftPad))
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
