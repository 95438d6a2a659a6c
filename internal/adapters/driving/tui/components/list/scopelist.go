// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docfoundry/docfoundry-cli/internal/adapters/driving/tui/styles"
)

// Item is one selectable scope entry.
type Item struct {
	ID    string
	Label string
}

// ScopeList displays one level of the scope hierarchy. The first row is
// always the "all" entry, whose ID is empty.
type ScopeList struct {
	title    string
	allLabel string
	items    []Item
	cursor   int
	active   string
	focused  bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewScopeList creates a scope list titled title. allLabel names the
// unfiltered entry.
func NewScopeList(s *styles.Styles, title, allLabel string) *ScopeList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ScopeList{
		title:    title,
		allLabel: allLabel,
		items:    []Item{{Label: allLabel}},
		styles:   s,
		width:    30,
		height:   8,
	}
}

// Init initialises the scope list.
func (l *ScopeList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *ScopeList) Update(msg tea.Msg) (*ScopeList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the scope list.
func (l *ScopeList) View() string {
	header := l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.title, len(l.items)-1))
	lines := []string{header}

	visible := l.height - 1
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.cursor >= visible {
		start = l.cursor - visible + 1
	}
	end := start + visible
	if end > len(l.items) {
		end = len(l.items)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i))
	}
	return strings.Join(lines, "\n")
}

func (l *ScopeList) renderItem(i int) string {
	item := l.items[i]

	marker := "  "
	if item.ID == l.active {
		marker = "● "
	}
	label := truncate(item.Label, l.width-4)

	if i == l.cursor && l.focused {
		return l.styles.Selected.Render("> " + label)
	}
	if item.ID == l.active {
		return l.styles.Active.Render(marker + label)
	}
	return l.styles.Normal.Render(marker + label)
}

// SetItems replaces the entries below the "all" row. The cursor follows
// the active entry when it is still present.
func (l *ScopeList) SetItems(items []Item) {
	l.items = append([]Item{{Label: l.allLabel}}, items...)
	l.cursor = l.indexOf(l.active)
}

// Items returns the entries, including the "all" row.
func (l *ScopeList) Items() []Item {
	return l.items
}

// Count returns the number of entries below the "all" row.
func (l *ScopeList) Count() int {
	return len(l.items) - 1
}

// SetActive marks id as the applied selection.
func (l *ScopeList) SetActive(id string) {
	l.active = id
	if !l.focused {
		l.cursor = l.indexOf(id)
	}
}

// Active returns the applied selection.
func (l *ScopeList) Active() string {
	return l.active
}

// Cursor returns the highlighted row.
func (l *ScopeList) Cursor() int {
	return l.cursor
}

// Highlighted returns the entry under the cursor.
func (l *ScopeList) Highlighted() Item {
	return l.items[l.cursor]
}

// MoveUp moves the cursor up.
func (l *ScopeList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// MoveDown moves the cursor down.
func (l *ScopeList) MoveDown() {
	if l.cursor < len(l.items)-1 {
		l.cursor++
	}
}

// SetFocused sets whether the list has keyboard focus.
func (l *ScopeList) SetFocused(focused bool) {
	l.focused = focused
}

// Focused returns whether the list has keyboard focus.
func (l *ScopeList) Focused() bool {
	return l.focused
}

// SetDimensions sets the list dimensions.
func (l *ScopeList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

func (l *ScopeList) indexOf(id string) int {
	for i, item := range l.items {
		if item.ID == id {
			return i
		}
	}
	return 0
}

func truncate(s string, limit int) string {
	if limit < 4 {
		limit = 4
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
