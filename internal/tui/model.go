package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/hdcheng/wellannot/internal/annotation"
	"github.com/hdcheng/wellannot/internal/models"
	"github.com/hdcheng/wellannot/internal/storage"
)

// SessionState identifies the active TUI view.
type SessionState int

const (
	StateGrid SessionState = iota
	StateStats
	StateEditing
	StateConfirmClear
	StateGoTo
)

// PanelFormModel backs the enhanced annotation form. Confidence is kept as
// text until save so the input can be round-tripped through huh.
type PanelFormModel struct {
	Level      string
	Pattern    string
	Factors    []string
	Confidence string
}

// GoToFormModel backs the jump-to-hole prompt.
type GoToFormModel struct {
	Hole string
}

type Model struct {
	store   storage.Provider
	session *annotation.Session
	vocab   *models.Vocabulary

	state     SessionState
	keys      KeyMap
	help      help.Model
	form      *huh.Form
	panelForm *PanelFormModel
	gotoForm  *GoToFormModel

	quitting  bool
	width     int
	height    int
	formError string
	statusMsg string
}

func NewModel(store storage.Provider, session *annotation.Session, vocab *models.Vocabulary) Model {
	return Model{
		store:   store,
		session: session,
		vocab:   vocab,
		state:   StateGrid,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Edit, m.keys.SkipTo, m.keys.Clear, m.keys.Tab, m.keys.Help, m.keys.Quit}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.SkipTo, m.keys.GoTo}
	actions := []key.Binding{m.keys.Edit, m.keys.QuickLevel, m.keys.Clear}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
