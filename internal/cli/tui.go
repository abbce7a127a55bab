package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/baleframe/baleframe/pkg/model"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// Issue severities shown in the browser.
const (
	severityError   = "error"
	severityWarning = "warning"
)

// issueItem is one row of the issue browser.
type issueItem struct {
	Severity string
	Issue    model.Issue
}

// issueItems flattens the model's errors and warnings into browse rows,
// errors first.
func issueItems(m *model.Model) []issueItem {
	items := make([]issueItem, 0, len(m.Errors)+len(m.Warnings))
	for _, iss := range m.Errors {
		items = append(items, issueItem{Severity: severityError, Issue: iss})
	}
	for _, iss := range m.Warnings {
		items = append(items, issueItem{Severity: severityWarning, Issue: iss})
	}
	return items
}

// browseIssues runs the interactive issue browser.
func browseIssues(m *model.Model) error {
	items := issueItems(m)
	if len(items) == 0 {
		printSuccess("No issues")
		return nil
	}

	p := tea.NewProgram(newIssueBrowser(items))
	_, err := p.Run()
	return err
}

// =============================================================================
// IssueBrowser - Interactive issue review
// =============================================================================

// IssueBrowser is the bubbletea model for interactive issue review.
type IssueBrowser struct {
	Items  []issueItem
	Cursor int
	Offset int
	Height int
	Expand bool // show the referenced element and area ids
}

// newIssueBrowser creates a new issue browser over the given rows.
func newIssueBrowser(items []issueItem) IssueBrowser {
	return IssueBrowser{Items: items, Height: 15}
}

func (m IssueBrowser) Init() tea.Cmd {
	return nil
}

func (m IssueBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Expand = !m.Expand
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m IssueBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Construction Issues"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Items) {
		end = len(m.Items)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		refs := "-"
		if n := len(it.Issue.Elements) + len(it.Issue.Areas); n > 0 {
			refs = fmt.Sprintf("%d", n)
		}

		rows = append(rows, []string{cursor, it.Severity, truncate(it.Issue.Message, 70), refs})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Severity", "Message", "Refs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actual := m.Offset + row
			if actual >= len(m.Items) {
				return lipgloss.NewStyle()
			}

			style := lipgloss.NewStyle().Foreground(colorYellow)
			if m.Items[actual].Severity == severityError {
				style = lipgloss.NewStyle().Foreground(colorRed)
			}
			if actual == m.Cursor {
				return style.Bold(true)
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.Expand && m.Cursor < len(m.Items) {
		b.WriteString(m.detailView())
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))

	return b.String()
}

// detailView renders the selected issue with its referenced ids.
func (m IssueBrowser) detailView() string {
	it := m.Items[m.Cursor]

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render(it.Issue.Message))
	b.WriteString("\n")
	for _, id := range it.Issue.Elements {
		b.WriteString(listDimStyle.Render("  element " + string(id)))
		b.WriteString("\n")
	}
	for _, id := range it.Issue.Areas {
		b.WriteString(listDimStyle.Render("  area " + string(id)))
		b.WriteString("\n")
	}
	return b.String()
}

// truncate shortens s to at most max bytes with a trailing ellipsis.
// Issue messages are plain ASCII.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
