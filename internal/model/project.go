package model

import (
	"sort"
	"time"
)

// Blob color tags for projects
const (
	ColorCoral    = "coral"
	ColorMint     = "mint"
	ColorLavender = "lavender"
	ColorHoney    = "honey"
	ColorSky      = "sky"
	ColorBlush    = "blush"
	ColorMoss     = "moss"
	ColorSlate    = "slate"
)

// BlobColors is the fixed palette of project color tags, in picker order
var BlobColors = []string{
	ColorCoral, ColorMint, ColorLavender, ColorHoney,
	ColorSky, ColorBlush, ColorMoss, ColorSlate,
}

// ButtonIcons is the fixed set of project button icon tags
var ButtonIcons = []string{"plus", "spark", "leaf", "bolt", "heart", "star"}

// Project is a named, themed container for an ordered list of tasks
type Project struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Tasks      []Task    `json:"tasks"`
	BlobColor  string    `json:"blob_color"`
	ButtonIcon string    `json:"button_icon"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewProject creates a project with an empty task sequence. Out-of-palette
// color or icon tags fall back to the first palette entry.
func NewProject(id, title, colorTag string) Project {
	if !ValidBlobColor(colorTag) {
		colorTag = BlobColors[0]
	}
	return Project{
		ID:         id,
		Title:      title,
		Tasks:      []Task{},
		BlobColor:  colorTag,
		ButtonIcon: ButtonIcons[0],
		CreatedAt:  time.Now(),
	}
}

// ValidBlobColor reports whether tag is in the fixed palette
func ValidBlobColor(tag string) bool {
	for _, c := range BlobColors {
		if c == tag {
			return true
		}
	}
	return false
}

// ActiveTasks returns the not-yet-completed tasks, newest first
func (p *Project) ActiveTasks() []Task {
	return p.partition(false)
}

// CompletedTasks returns the completed tasks, newest first
func (p *Project) CompletedTasks() []Task {
	return p.partition(true)
}

func (p *Project) partition(completed bool) []Task {
	out := []Task{}
	for _, t := range p.Tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}

// Progress returns done and total task counts
func (p *Project) Progress() (done, total int) {
	for _, t := range p.Tasks {
		if t.Completed {
			done++
		}
	}
	return done, len(p.Tasks)
}

// SortProjects orders projects newest first. Storage does not guarantee
// order, so this runs after every fetch and every subscription push.
func SortProjects(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
}
