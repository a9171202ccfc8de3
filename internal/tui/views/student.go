package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/controller"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// maxContentHeight is the maximum height for scrollable content areas.
const maxContentHeight = 15

// AssignmentsModel lists the student's assignments and opens, downloads or
// answers them.
type AssignmentsModel struct {
	list     list.Model
	count    int
	loaded   bool
	paper    *controller.AssignedPaper
	viewport viewport.Model
	prompt   *form
	target   string
	width    int
}

// NewAssignmentsModel creates an empty AssignmentsModel.
func NewAssignmentsModel(width int) AssignmentsModel {
	return AssignmentsModel{
		list:     newList("Assignments", width-8, maxContentHeight),
		viewport: viewport.New(width-8, maxContentHeight),
		width:    width,
	}
}

// SetAssignments replaces the list.
func (m *AssignmentsModel) SetAssignments(assignments []api.Assignment) tea.Cmd {
	items := make([]list.Item, len(assignments))
	for i, a := range assignments {
		items[i] = AssignmentItem{a}
	}
	m.count = len(assignments)
	m.loaded = true
	return m.list.SetItems(items)
}

// SetWidth resizes the list and the question view.
func (m *AssignmentsModel) SetWidth(width int) {
	m.width = width
	m.list.SetWidth(width - 8)
	m.viewport.Width = width - 8
}

// ShowPaper opens the question view of p.
func (m *AssignmentsModel) ShowPaper(p *controller.AssignedPaper) {
	m.paper = p
	m.viewport.SetContent(renderMarkdown(formatPaper(p), m.viewport.Width))
	m.viewport.GotoTop()
}

func (m AssignmentsModel) selected() (api.Assignment, bool) {
	item, ok := m.list.SelectedItem().(AssignmentItem)
	return item.Assignment, ok
}

// Update handles messages for the assignments section.
func (m AssignmentsModel) Update(msg tea.Msg) (AssignmentsModel, tea.Cmd) {
	var cmd tea.Cmd

	if m.prompt != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == tui.KeyEsc {
			m.prompt = nil
			return m, nil
		}
		var submitted bool
		var p form
		p, cmd, submitted = m.prompt.Update(msg)
		m.prompt = &p
		if submitted {
			id, path := m.target, m.prompt.Value(0)
			m.prompt = nil
			return m, func() tea.Msg { return tui.SubmitRequestMsg{AssignmentID: id, Path: path} }
		}
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.paper != nil && key.Matches(keyMsg, tui.DefaultKeyMap.Escape) {
			m.paper = nil
			return m, nil
		}
		a, ok := m.selected()
		switch {
		case key.Matches(keyMsg, tui.DefaultKeyMap.Refresh):
			return m, func() tea.Msg { return tui.RefreshRequestMsg{Section: nav.SectionAssignments} }
		case !ok:
		case key.Matches(keyMsg, tui.DefaultKeyMap.Enter) && m.paper == nil:
			return m, func() tea.Msg { return tui.OpenPaperRequestMsg{AssignmentID: a.ID} }
		case key.Matches(keyMsg, tui.DefaultKeyMap.Download):
			return m, func() tea.Msg { return tui.DownloadRequestMsg{AssignmentID: a.ID} }
		case key.Matches(keyMsg, tui.DefaultKeyMap.Submit):
			f := newForm(newField("Answer sheet (PDF path)", "~/answers.pdf"))
			f.SetWidth(m.width - 8)
			m.prompt = &f
			m.target = a.ID
			return m, nil
		}
	}

	if m.paper != nil {
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the assignments section.
func (m AssignmentsModel) View() string {
	var b strings.Builder
	switch {
	case m.paper != nil:
		b.WriteString(tui.TitleStyle.Render(m.paper.Detail.Title))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
	case !m.loaded:
		b.WriteString(tui.DimStyle.Render("Loading assignments..."))
	case m.count == 0:
		b.WriteString(tui.DimStyle.Render("No assignments yet."))
	default:
		b.WriteString(m.list.View())
	}

	if m.prompt != nil {
		b.WriteString("\n\n")
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render("Enter: Upload · Esc: Cancel"))
		return b.String()
	}

	b.WriteString("\n\n")
	hints := "Enter: Open · d: Download · s: Submit PDF · r: Refresh"
	if m.paper != nil {
		hints = "j/k: Scroll · d: Download · s: Submit PDF · Esc: Back"
	}
	b.WriteString(tui.DimStyle.Render(hints))
	return b.String()
}

// formatPaper renders a paper as markdown.
func formatPaper(p *controller.AssignedPaper) string {
	var b strings.Builder
	if p.Detail.Description != "" {
		b.WriteString(p.Detail.Description)
		b.WriteString("\n\n")
	}
	if p.Detail.Difficulty != "" {
		b.WriteString("*Difficulty: " + p.Detail.Difficulty + "*\n\n")
	}
	if len(p.Questions) == 0 {
		b.WriteString("_No questions in this paper._")
		return b.String()
	}
	for i, q := range p.Questions {
		fmt.Fprintf(&b, "**Q%d.** %s", i+1, q.Text)
		if q.Marks > 0 {
			fmt.Fprintf(&b, " _(%d marks)_", q.Marks)
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

// SubmissionsModel lists the student's submitted answer sheets.
type SubmissionsModel struct {
	list   list.Model
	count  int
	loaded bool
}

// NewSubmissionsModel creates an empty SubmissionsModel.
func NewSubmissionsModel(width int) SubmissionsModel {
	return SubmissionsModel{list: newList("Submissions", width-8, maxContentHeight)}
}

// SetSubmissions replaces the list.
func (m *SubmissionsModel) SetSubmissions(submissions []api.Submission) tea.Cmd {
	items := make([]list.Item, len(submissions))
	for i, s := range submissions {
		items[i] = SubmissionItem{s}
	}
	m.count = len(submissions)
	m.loaded = true
	return m.list.SetItems(items)
}

// SetWidth resizes the list.
func (m *SubmissionsModel) SetWidth(width int) { m.list.SetWidth(width - 8) }

// Update handles messages for the submissions section.
func (m SubmissionsModel) Update(msg tea.Msg) (SubmissionsModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, tui.DefaultKeyMap.Refresh) {
		return m, func() tea.Msg { return tui.RefreshRequestMsg{Section: nav.SectionSubmissions} }
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the submissions section.
func (m SubmissionsModel) View() string {
	var b strings.Builder
	switch {
	case !m.loaded:
		b.WriteString(tui.DimStyle.Render("Loading submissions..."))
	case m.count == 0:
		b.WriteString(tui.DimStyle.Render("No submissions yet."))
	default:
		b.WriteString(m.list.View())
	}
	b.WriteString("\n\n")
	b.WriteString(tui.DimStyle.Render("j/k: Move · r: Refresh"))
	return b.String()
}
