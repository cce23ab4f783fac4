package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/driftlab/blobtask/internal/model"
)

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateChangedMsg:
		if m.app.Tree.Profile() == nil && m.mode == ModeNormal {
			m.enterLogin()
		}
		m.clampCursors()
		return m, m.waitForChange()

	case deferredDeleteMsg:
		// Exit transition done, issue the actual delete.
		delete(m.leaving, msg.id)
		m.app.Projects.Delete(context.Background(), msg.id)
		m.clampCursors()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeLogin:
			return m.updateLogin(msg)
		case ModeAddTask, ModeAddProject:
			return m.updateInput(msg)
		case ModeConfirmLogout:
			return m.updateConfirmLogout(msg)
		default:
			return m.updateNormal(msg)
		}
	}

	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit) && m.input.Value() == "":
		return m, tea.Quit
	case key.Matches(msg, keys.Enter):
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			// Empty submissions are dropped silently.
			return m, nil
		}
		m.app.Profiles.Login(context.Background(), name)
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneProjects {
			m.pane = PaneTasks
		} else {
			m.pane = PaneProjects
		}
		return m, nil

	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, keys.Enter):
		if m.pane == PaneProjects {
			if p, ok := m.currentProject(); ok {
				m.app.Tree.Select(p.ID)
				m.pane = PaneTasks
				m.taskCursor = 0
			}
		} else if p, ok := m.currentProject(); ok {
			if t, ok := m.currentTask(p); ok {
				m.app.Projects.ToggleTask(context.Background(), p.ID, t.ID)
			}
		}
		return m, nil

	case key.Matches(msg, keys.Toggle):
		if p, ok := m.currentProject(); ok {
			if t, ok := m.currentTask(p); ok {
				m.app.Projects.ToggleTask(context.Background(), p.ID, t.ID)
			}
		}
		return m, nil

	case key.Matches(msg, keys.Add):
		if _, ok := m.currentProject(); ok {
			m.mode = ModeAddTask
			m.input.Placeholder = "Task text"
			m.input.SetValue("")
			m.input.Focus()
		}
		return m, nil

	case key.Matches(msg, keys.Project):
		m.mode = ModeAddProject
		m.colorCursor = 0
		m.input.Placeholder = "Project title"
		m.input.SetValue("")
		m.input.Focus()
		return m, nil

	case key.Matches(msg, keys.Delete):
		if m.pane == PaneTasks {
			if p, ok := m.currentProject(); ok {
				if t, ok := m.currentTask(p); ok {
					m.app.Projects.DeleteTask(context.Background(), p.ID, t.ID)
				}
			}
			return m, nil
		}
		// Two-phase project delete: drop it from the view now, write
		// the delete once the transition delay has passed.
		if p, ok := m.currentProject(); ok {
			m.leaving[p.ID] = true
			m.clampCursors()
			id := p.ID
			return m, tea.Tick(deleteTransitionDelay, func(time.Time) tea.Msg {
				return deferredDeleteMsg{id: id}
			})
		}
		return m, nil

	case key.Matches(msg, keys.Theme):
		if p := m.app.Tree.Profile(); p != nil {
			m.app.Profiles.UpdateTheme(context.Background(), !p.Theme)
		}
		return m, nil

	case key.Matches(msg, keys.Logout):
		m.mode = ModeConfirmLogout
		return m, nil
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Tab):
		if m.mode == ModeAddProject {
			m.colorCursor = (m.colorCursor + 1) % len(model.BlobColors)
		}
		return m, nil

	case key.Matches(msg, keys.Enter):
		text := m.input.Value()
		if m.mode == ModeAddTask {
			if p, ok := m.currentProject(); ok {
				m.app.Projects.AddTask(context.Background(), p.ID, text, "")
			}
		} else {
			m.app.Projects.Create(context.Background(), text, model.BlobColors[m.colorCursor])
		}
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmLogout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.app.Profiles.Logout(context.Background())
		m.enterLogin()
		return m, nil
	default:
		m.mode = ModeNormal
		return m, nil
	}
}

func (m *Model) moveCursor(delta int) {
	if m.pane == PaneProjects {
		m.projCursor += delta
		m.taskCursor = 0
	} else {
		m.taskCursor += delta
	}
	m.clampCursors()
}

func (m *Model) clampCursors() {
	projects := m.visibleProjects()
	m.projCursor = clamp(m.projCursor, 0, len(projects)-1)

	taskCount := 0
	if p, ok := m.currentProject(); ok {
		taskCount = len(p.Tasks)
	}
	m.taskCursor = clamp(m.taskCursor, 0, taskCount-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
