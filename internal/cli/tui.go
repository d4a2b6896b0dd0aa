package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Family table
// =============================================================================

// familyTable renders families as a bordered table.
func familyTable(families fonts.Catalog) string {
	rows := make([][]string, len(families))
	for i, f := range families {
		category := f.Category
		if category == "" {
			category = "—"
		}
		rows[i] = []string{f.Name, category, variantSummary(f)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Family", "Category", "Variants").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return listHeaderStyle
			case col == 0:
				return listNormalStyle
			default:
				return listDimStyle
			}
		})
	return t.Render()
}

// variantSummary lists a family's normalized variants, shortened when long.
func variantSummary(f fonts.Family) string {
	const maxShown = 6
	variants := f.NormalizedVariants()
	names := make([]string, 0, min(len(variants), maxShown))
	for i, v := range variants {
		if i == maxShown {
			break
		}
		names = append(names, string(v))
	}
	s := strings.Join(names, " ")
	if extra := len(variants) - maxShown; extra > 0 {
		s += fmt.Sprintf(" +%d", extra)
	}
	return s
}

// filterFamilies keeps families whose name contains query (case-insensitive)
// and, when category is set, whose category matches it.
func filterFamilies(c fonts.Catalog, query, category string) fonts.Catalog {
	query = strings.ToLower(query)
	var out fonts.Catalog
	for _, f := range c {
		if query != "" && !strings.Contains(strings.ToLower(f.Name), query) {
			continue
		}
		if category != "" && !strings.EqualFold(f.Category, category) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// =============================================================================
// FamilyPickerModel - Interactive family selection
// =============================================================================

// FamilyPickerModel is the bubbletea model for picking a family by typing
// part of its name.
type FamilyPickerModel struct {
	Families fonts.Catalog
	Query    string
	Cursor   int
	Offset   int
	Height   int
	Selected *fonts.Family

	matches fonts.Catalog
}

// NewFamilyPickerModel creates a picker over families.
func NewFamilyPickerModel(families fonts.Catalog) FamilyPickerModel {
	return FamilyPickerModel{
		Families: families,
		Height:   15,
		matches:  families,
	}
}

func (m FamilyPickerModel) Init() tea.Cmd {
	return nil
}

func (m FamilyPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(m.matches)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(m.matches) == 0 {
				return m, nil
			}
			f := m.matches[m.Cursor]
			m.Selected = &f
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Query != "" {
				r := []rune(m.Query)
				m = m.setQuery(string(r[:len(r)-1]))
			}
		case tea.KeyRunes, tea.KeySpace:
			m = m.setQuery(m.Query + string(msg.Runes))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m FamilyPickerModel) setQuery(q string) FamilyPickerModel {
	m.Query = q
	m.matches = filterFamilies(m.Families, q, "")
	m.Cursor, m.Offset = 0, 0
	return m
}

func (m FamilyPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Font Family"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n\n")
	b.WriteString(StyleHighlight.Render(iconInfo+" ") + m.Query)
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.matches))
	for i := m.Offset; i < end; i++ {
		f := m.matches[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = iconCursor + " "
		}
		line := fmt.Sprintf("%s%-32s %s", cursor, f.Name, listDimStyle.Render(f.Category))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if len(m.matches) == 0 {
		b.WriteString(listDimStyle.Render("  no matching families"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.matches)), len(m.matches))))
	return b.String()
}
