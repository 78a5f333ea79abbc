package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/hdcheng/wellannot/internal/logger"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	// Handle Editing State
	if m.state == StateEditing {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.state = StateGrid
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			well := m.session.CurrentWell()
			if _, err := m.session.SaveAndAdvance(m.panelForm.Input()); err != nil {
				// Store untouched; keep the operator in the form to correct it
				m.formError = err.Error()
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			m.formError = ""
			m.statusMsg = fmt.Sprintf("Saved %s", well)
			if rec, ok := m.session.Record(well); ok {
				if err := m.store.SaveAnnotation(rec); err != nil {
					logger.Error("Failed to persist annotation", "well", well.String(), "error", err)
					m.statusMsg = fmt.Sprintf("Saved %s (persist failed: %v)", well, err)
				}
			}
			m.state = StateGrid
		case huh.StateAborted:
			m.state = StateGrid
		}
		return m, tea.Batch(cmds...)
	}

	// Handle Go To State
	if m.state == StateGoTo {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.state = StateGrid
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			hole, err := strconv.Atoi(m.gotoForm.Hole)
			if err == nil {
				if _, err := m.session.GoTo(hole); err != nil {
					m.formError = err.Error()
				}
			}
			m.state = StateGrid
		case huh.StateAborted:
			m.state = StateGrid
		}
		return m, tea.Batch(cmds...)
	}

	// Handle Confirm Clear State
	if m.state == StateConfirmClear {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "y":
				well := m.session.CurrentWell()
				m.session.Clear(well)
				if err := m.store.DeleteAnnotation(well); err != nil {
					logger.Error("Failed to delete annotation", "well", well.String(), "error", err)
				}
				m.statusMsg = fmt.Sprintf("Cleared %s", well)
				m.state = StateGrid
			case "n", "esc", "q":
				m.state = StateGrid
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.saveResumePoint()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.Tab):
			if m.state == StateGrid {
				m.state = StateStats
			} else {
				m.state = StateGrid
			}

		case key.Matches(msg, m.keys.Left):
			m.session.Prev()
			m.statusMsg = ""

		case key.Matches(msg, m.keys.Right):
			m.session.Next()
			m.statusMsg = ""

		case key.Matches(msg, m.keys.Up):
			m.moveRow(-1)

		case key.Matches(msg, m.keys.Down):
			m.moveRow(1)

		case key.Matches(msg, m.keys.SkipTo):
			if _, found := m.session.NextUnannotated(); !found {
				m.statusMsg = "Every hole is annotated"
			} else {
				m.statusMsg = ""
			}

		case key.Matches(msg, m.keys.GoTo):
			m.gotoForm = &GoToFormModel{}
			m.form = NewGoToForm(m.session.Grid().Total(), m.gotoForm)
			m.state = StateGoTo
			return m, m.form.Init()

		case key.Matches(msg, m.keys.Edit):
			ps := m.session.Panel(m.session.CurrentWell())
			m.panelForm = NewPanelFormModel(ps)
			m.form = NewPanelForm(m.vocab, m.panelForm)
			m.formError = ""
			m.state = StateEditing
			return m, m.form.Init()

		case key.Matches(msg, m.keys.QuickLevel):
			m.quickLabel(msg.String())

		case key.Matches(msg, m.keys.Clear):
			if _, ok := m.session.Record(m.session.CurrentWell()); ok {
				m.state = StateConfirmClear
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// moveRow shifts the cursor one plate row while keeping the column.
func (m *Model) moveRow(delta int) {
	grid := m.session.Grid()
	hole := m.session.CurrentWell().HoleNumber
	row, col, err := grid.RowCol(hole)
	if err != nil {
		return
	}
	target, err := grid.Number(row+delta, col)
	if err != nil {
		return
	}
	if _, err := m.session.GoTo(target); err == nil {
		m.statusMsg = ""
	}
}

// quickLabel saves a basic growth-level annotation from a number key.
func (m *Model) quickLabel(digit string) {
	idx, err := strconv.Atoi(digit)
	if err != nil || idx < 1 || idx > len(m.vocab.GrowthLevels) {
		return
	}
	well := m.session.CurrentWell()
	level := string(m.vocab.GrowthLevels[idx-1])
	if err := m.session.SaveBasic(well, level); err != nil {
		m.formError = err.Error()
		return
	}
	m.formError = ""
	m.statusMsg = fmt.Sprintf("Labeled %s %s", well, level)
	if rec, ok := m.session.Record(well); ok {
		if err := m.store.SaveAnnotation(rec); err != nil {
			logger.Error("Failed to persist annotation", "well", well.String(), "error", err)
		}
	}
	m.session.Next()
}

// saveResumePoint records the current image and hole so the next session can
// pick up where this one left off.
func (m *Model) saveResumePoint() {
	settings, err := m.store.GetSettings()
	if err != nil {
		return
	}
	settings.LastPanoramicID = m.session.PanoramicID()
	settings.LastHole = m.session.CurrentWell().HoleNumber
	if err := m.store.SaveSettings(settings); err != nil {
		logger.Error("Failed to save resume point", "error", err)
	}
}
