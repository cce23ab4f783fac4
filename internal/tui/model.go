package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/driftlab/blobtask/internal/app"
	"github.com/driftlab/blobtask/internal/model"
)

// deleteTransitionDelay is how long a deleted project lingers off-screen
// before the store delete is issued, so the exit transition can finish.
// Purely a presentation concern.
const deleteTransitionDelay = 400 * time.Millisecond

// Pane represents which pane is focused
type Pane int

const (
	PaneProjects Pane = iota
	PaneTasks
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeLogin
	ModeAddTask
	ModeAddProject
	ModeConfirmLogout
)

// Model is the main TUI model
type Model struct {
	app *app.App

	// UI state
	width       int
	height      int
	pane        Pane
	mode        Mode
	projCursor  int
	taskCursor  int
	colorCursor int

	// Input
	input textinput.Model

	// Projects removed from view whose store delete is still pending
	leaving map[string]bool

	message string
}

// NewModel creates the TUI model over a started app
func NewModel(a *app.App) Model {
	input := textinput.New()
	input.CharLimit = 120

	m := Model{
		app:     a,
		input:   input,
		leaving: map[string]bool{},
	}
	if a.Tree.Profile() == nil {
		m.enterLogin()
	}
	return m
}

func (m *Model) enterLogin() {
	m.mode = ModeLogin
	m.input.Placeholder = "What's your name?"
	m.input.SetValue("")
	m.input.Focus()
}

// visibleProjects is the project list minus anything mid-exit
func (m Model) visibleProjects() []model.Project {
	projects := m.app.Tree.Projects()
	if len(m.leaving) == 0 {
		return projects
	}
	kept := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if !m.leaving[p.ID] {
			kept = append(kept, p)
		}
	}
	return kept
}

// currentProject returns the project under the cursor
func (m Model) currentProject() (model.Project, bool) {
	projects := m.visibleProjects()
	if m.projCursor < 0 || m.projCursor >= len(projects) {
		return model.Project{}, false
	}
	return projects[m.projCursor], true
}

// currentTask returns the task under the cursor, in partition order:
// active tasks first, completed after.
func (m Model) currentTask(p model.Project) (model.Task, bool) {
	ordered := append(p.ActiveTasks(), p.CompletedTasks()...)
	if m.taskCursor < 0 || m.taskCursor >= len(ordered) {
		return model.Task{}, false
	}
	return ordered[m.taskCursor], true
}

// Init starts listening for state tree changes
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// stateChangedMsg is sent whenever the state tree mutates, including
// reconciliation pushes from a remote watch
type stateChangedMsg struct{}

// deferredDeleteMsg fires when a project's exit transition has finished
type deferredDeleteMsg struct{ id string }

func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.app.Tree.Changed()
		return stateChangedMsg{}
	}
}
