package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hdcheng/wellannot/internal/annotation"
	"github.com/hdcheng/wellannot/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateGrid:
		content = m.viewGrid()
	case StateStats:
		content = m.viewStats()
	case StateEditing, StateGoTo:
		content = m.form.View()
	case StateConfirmClear:
		content = m.viewConfirmClear()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewFooter(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	tabTitles := []string{"Annotate", "Statistics"}
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewGrid() string {
	grid := m.session.Grid()
	current := m.session.CurrentWell()

	var rows []string
	var cells []string
	prevRow := 0
	for hole := 1; hole <= grid.Total(); hole++ {
		row, _, err := grid.RowCol(hole)
		if err != nil {
			continue
		}
		if row != prevRow {
			rows = append(rows, strings.Join(cells, " "))
			cells = nil
			prevRow = row
		}
		cells = append(cells, m.renderCell(hole, current.HoleNumber))
	}
	if len(cells) > 0 {
		rows = append(rows, strings.Join(cells, " "))
	}

	header := fmt.Sprintf("%s  hole %d/%d", m.session.PanoramicID(), current.HoleNumber, grid.Total())
	plate := strings.Join(rows, "\n")

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", plate, "", m.viewPanel()))
}

func (m Model) renderCell(hole, currentHole int) string {
	cell := fmt.Sprintf("%3d", hole)
	if hole == currentHole {
		return currentCellStyle.Render(cell)
	}
	rec, ok := m.session.Record(models.WellID{PanoramicID: m.session.PanoramicID(), HoleNumber: hole})
	if !ok {
		return unannotatedCellStyle.Render(cell)
	}
	if rec.Source == models.SourceConfigImport {
		return importedCellStyle.Render(cell)
	}
	if annotation.StateOf(rec) == annotation.EnhancedAnnotated {
		return enhancedCellStyle.Render(cell)
	}
	return basicCellStyle.Render(cell)
}

func (m Model) viewPanel() string {
	ps := m.session.Panel(m.session.CurrentWell())

	var b strings.Builder
	fmt.Fprintf(&b, "State: %s\n", ps.State)
	if ps.State == annotation.Unannotated {
		return b.String()
	}
	fmt.Fprintf(&b, "Level: %s\n", ps.Level)
	if ps.Pattern != "" {
		fmt.Fprintf(&b, "Pattern: %s\n", ps.Pattern)
	}
	if len(ps.Factors) > 0 {
		fmt.Fprintf(&b, "Interference: %s\n", strings.Join(ps.Factors, ", "))
	}
	fmt.Fprintf(&b, "Confidence: %.2f\n", ps.Confidence)
	fmt.Fprintf(&b, "Source: %s", ps.Source)
	if ps.Timestamp != nil {
		fmt.Fprintf(&b, " @ %s", *ps.Timestamp)
	}
	return b.String()
}

func (m Model) viewStats() string {
	return docStyle.Render(m.session.Summary().Report())
}

func (m Model) viewConfirmClear() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Clear annotation for %s?", m.session.CurrentWell())),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewFooter() string {
	parts := []string{statusStyle.Render(m.session.Status())}
	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}
	if m.formError != "" {
		parts = append(parts, dangerStyle.Render(m.formError))
	}
	return strings.Join(parts, "  ")
}
