package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuItem struct {
	title string
	page  string
}

// MenuModel is the start page. It offers an offline unlock only when a
// local vault exists.
type MenuModel struct {
	ctx        context.Context
	dispatcher dispatcher

	items  []menuItem
	idx    int
	apiURL string
	loaded bool
}

func NewMenuModel(ctx context.Context, d dispatcher) *MenuModel {
	m := &MenuModel{ctx: ctx, dispatcher: d}
	m.setItems(false)
	return m
}

func (m *MenuModel) Init() tea.Cmd {
	return cmdStatus(m.ctx, m.dispatcher)
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if loaded, ok := msg.(statusLoadedMsg); ok {
		if loaded.status.Unlocked {
			return m, navigate(pageList)
		}
		m.loaded = true
		m.apiURL = loaded.status.APIURL
		m.setItems(loaded.status.HasVault)
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.idx > 0 {
			m.idx--
		}
	case "down", "j":
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case "enter":
		return m, navigate(m.items[m.idx].page)
	}

	return m, nil
}

func (m *MenuModel) View() string {
	var b strings.Builder
	idColWidth := lipgloss.Width("ID")
	itemsCountWidth := lipgloss.Width(fmt.Sprintf("%d", len(m.items)))
	if itemsCountWidth > idColWidth {
		idColWidth = itemsCountWidth
	}
	idColWidth += 2 // selection marker and space

	actionColWidth := lipgloss.Width("Action")
	for _, item := range m.items {
		if w := lipgloss.Width(item.title); w > actionColWidth {
			actionColWidth = w
		}
	}

	if m.loaded {
		b.WriteString("API: ")
		b.WriteString(valueOrDash(m.apiURL))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("%-*s │ %-*s\n", idColWidth, "ID", actionColWidth, "Action"))
	b.WriteString(strings.Repeat("─", idColWidth))
	b.WriteString("─┼─")
	b.WriteString(strings.Repeat("─", actionColWidth))
	b.WriteString("\n")

	for i, item := range m.items {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		idCell := fmt.Sprintf("%s %d", cursor, i+1)
		b.WriteString(fmt.Sprintf("%-*s │ %-*s\n", idColWidth, idCell, actionColWidth, item.title))
	}

	return renderPage("MAIN MENU", strings.TrimRight(b.String(), "\n"), "enter: select │ ↑/↓: navigate │ v: version")
}

func (m *MenuModel) setItems(hasVault bool) {
	m.items = m.items[:0]
	m.items = append(m.items, menuItem{title: "Log in", page: pageLogin})
	if hasVault {
		m.items = append(m.items, menuItem{title: "Unlock offline", page: pageUnlock})
	}
	m.items = append(m.items, menuItem{title: "API URL", page: pageSettings})

	if m.idx >= len(m.items) {
		m.idx = len(m.items) - 1
	}
}
