package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.mode == ModeLogin {
		return m.renderLogin()
	}

	sidebar := m.renderSidebar()
	tasks := m.renderTasks()
	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, tasks)

	if m.mode == ModeAddTask || m.mode == ModeAddProject {
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(),
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeConfirmLogout {
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			ModalStyle.Render("Log out and delete your profile? (y/n)"),
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, m.renderStatusBar())
}

func (m Model) renderLogin() string {
	box := ModalStyle.Render(
		HeaderStyle.Render("blobtask") + "\n\n" +
			"Pick a name to get started.\n\n" +
			m.input.View())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderSidebar() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("blobtask") + "\n")
	if p := m.app.Tree.Profile(); p != nil {
		b.WriteString(MutedStyle.Render(p.Name) + "\n")
	}
	b.WriteString(MutedStyle.Render("──────────────────") + "\n\n")

	projects := m.visibleProjects()
	if len(projects) == 0 {
		b.WriteString(MutedStyle.Render("no projects\npress p to add one"))
	}

	for i, p := range projects {
		done, total := p.Progress()
		line := fmt.Sprintf("%s %s %d/%d",
			blobColorStyle(p.BlobColor).Render("●"), p.Title, done, total)
		if i == m.projCursor && m.pane == PaneProjects {
			line = SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	return SidebarStyle.Height(m.height - 3).Render(b.String())
}

func (m Model) renderTasks() string {
	var b strings.Builder

	p, ok := m.currentProject()
	if !ok {
		return TaskPaneStyle.Render(MutedStyle.Render("Select a project"))
	}

	done, total := p.Progress()
	b.WriteString(HeaderStyle.Render(p.Title) +
		MutedStyle.Render(fmt.Sprintf("  %d/%d done", done, total)) + "\n\n")

	ordered := append(p.ActiveTasks(), p.CompletedTasks()...)
	if len(ordered) == 0 {
		b.WriteString(MutedStyle.Render("no tasks yet, press a"))
	}

	for i, t := range ordered {
		check := "[ ]"
		text := t.Text
		if t.Completed {
			check = "[x]"
			text = DoneStyle.Render(text)
		}
		line := fmt.Sprintf("%s %s", check, text)
		if i == m.taskCursor && m.pane == PaneTasks {
			line = SelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
		if t.Description != "" && !t.Completed {
			b.WriteString(MutedStyle.Render("      "+t.Description) + "\n")
		}
	}

	return TaskPaneStyle.Width(m.width - 28).Render(b.String())
}

func (m Model) renderModal() string {
	title := "New task"
	body := m.input.View()

	if m.mode == ModeAddProject {
		title = "New project"
		var swatches []string
		for i, tag := range blobColorTags() {
			dot := blobColorStyle(tag).Render("●")
			if i == m.colorCursor {
				dot = SelectedStyle.Render("[") + dot + SelectedStyle.Render("]")
			}
			swatches = append(swatches, dot)
		}
		body += "\n\n" + strings.Join(swatches, " ") + MutedStyle.Render("  tab to cycle")
	}

	return ModalStyle.Render(HeaderStyle.Render(title) + "\n\n" + body)
}

func (m Model) renderStatusBar() string {
	done, total := m.app.Tree.Progress()
	progress := ""
	if total > 0 {
		progress = fmt.Sprintf("  %d%% done overall", done*100/total)
	}
	help := "a add · x toggle · d delete · p project · t theme · L logout · q quit"
	return StatusStyle.Render(help + progress)
}
