package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/controller"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// PapersModel lists the teacher's papers and grades their submissions.
type PapersModel struct {
	papers list.Model
	count  int
	loaded bool

	// Submissions of the open paper.
	paper       *api.Paper
	submissions list.Model
	subCount    int

	prompt *form
	target string
	width  int
}

// NewPapersModel creates an empty PapersModel.
func NewPapersModel(width int) PapersModel {
	return PapersModel{
		papers:      newList("Papers", width-8, maxContentHeight),
		submissions: newList("Submissions", width-8, maxContentHeight),
		width:       width,
	}
}

// SetWidth resizes both lists.
func (m *PapersModel) SetWidth(width int) {
	m.width = width
	m.papers.SetWidth(width - 8)
	m.submissions.SetWidth(width - 8)
}

// SetPapers replaces the paper list.
func (m *PapersModel) SetPapers(papers []api.Paper) tea.Cmd {
	items := make([]list.Item, len(papers))
	for i, p := range papers {
		items[i] = PaperItem{p}
	}
	m.count = len(papers)
	m.loaded = true
	return m.papers.SetItems(items)
}

// SetSubmissions opens the submissions of paperID.
func (m *PapersModel) SetSubmissions(paperID string, subs []api.PaperSubmission) tea.Cmd {
	m.paper = nil
	for _, it := range m.papers.Items() {
		if p, ok := it.(PaperItem); ok && p.ID == paperID {
			paper := p.Paper
			m.paper = &paper
		}
	}
	if m.paper == nil {
		m.paper = &api.Paper{ID: paperID, Title: paperID}
	}
	items := make([]list.Item, len(subs))
	for i, s := range subs {
		items[i] = PaperSubmissionItem{s}
	}
	m.subCount = len(subs)
	m.submissions.Title = "Submissions · " + m.paper.Title
	return m.submissions.SetItems(items)
}

// Update handles messages for the papers section.
func (m PapersModel) Update(msg tea.Msg) (PapersModel, tea.Cmd) {
	var cmd tea.Cmd

	if m.prompt != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == tui.KeyEsc {
			m.prompt = nil
			return m, nil
		}
		var (
			p         form
			submitted bool
		)
		p, cmd, submitted = m.prompt.Update(msg)
		m.prompt = &p
		if submitted {
			req := tui.GradeRequestMsg{
				PaperID:  m.paper.ID,
				AnswerID: m.target,
				Grade:    p.Value(0),
				Feedback: p.Value(1),
			}
			m.prompt = nil
			return m, func() tea.Msg { return req }
		}
		return m, cmd
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if m.paper != nil {
		if isKey {
			switch {
			case key.Matches(keyMsg, tui.DefaultKeyMap.Escape):
				m.paper = nil
				return m, nil
			case key.Matches(keyMsg, tui.DefaultKeyMap.Refresh):
				id := m.paper.ID
				return m, func() tea.Msg { return tui.PaperSubmissionsRequestMsg{PaperID: id} }
			case key.Matches(keyMsg, tui.DefaultKeyMap.Grade), key.Matches(keyMsg, tui.DefaultKeyMap.Enter):
				if s, ok := m.submissions.SelectedItem().(PaperSubmissionItem); ok {
					f := newForm(newField("Grade", "e.g. 8/10"), newField("Feedback", "optional"))
					f.SetWidth(m.width - 8)
					m.prompt = &f
					m.target = s.ID
				}
				return m, nil
			}
		}
		m.submissions, cmd = m.submissions.Update(msg)
		return m, cmd
	}

	if isKey {
		switch {
		case key.Matches(keyMsg, tui.DefaultKeyMap.Refresh):
			return m, func() tea.Msg { return tui.RefreshRequestMsg{Section: nav.SectionPapers} }
		case key.Matches(keyMsg, tui.DefaultKeyMap.Enter):
			if p, ok := m.papers.SelectedItem().(PaperItem); ok {
				return m, func() tea.Msg { return tui.PaperSubmissionsRequestMsg{PaperID: p.ID} }
			}
			return m, nil
		}
	}
	m.papers, cmd = m.papers.Update(msg)
	return m, cmd
}

// View renders the papers section.
func (m PapersModel) View() string {
	var b strings.Builder
	switch {
	case m.paper != nil && m.subCount == 0:
		b.WriteString(tui.TitleStyle.Render(m.paper.Title))
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render("No submissions yet."))
	case m.paper != nil:
		b.WriteString(m.submissions.View())
	case !m.loaded:
		b.WriteString(tui.DimStyle.Render("Loading papers..."))
	case m.count == 0:
		b.WriteString(tui.DimStyle.Render("No papers yet. Create an assignment first."))
	default:
		b.WriteString(m.papers.View())
	}
	b.WriteString("\n\n")

	switch {
	case m.prompt != nil:
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render("Enter: Next/Save · Esc: Cancel"))
	case m.paper != nil:
		b.WriteString(tui.DimStyle.Render("Enter/g: Grade · r: Refresh · Esc: Back"))
	default:
		b.WriteString(tui.DimStyle.Render("Enter: Submissions · r: Refresh"))
	}
	return b.String()
}

const (
	createTitle = iota
	createDescription
	createDifficulty
	createDeadline
	createStudents
	createQuestions
)

// CreateAssignmentModel is the form that creates and assigns a paper.
type CreateAssignmentModel struct {
	form form
	busy bool
}

// NewCreateAssignmentModel creates an empty CreateAssignmentModel.
func NewCreateAssignmentModel(width int) CreateAssignmentModel {
	f := newForm(
		newField("Title", "Midterm: Data Structures"),
		newField("Description", "optional"),
		newField("Difficulty", "easy, medium or hard"),
		newField("Deadline", "YYYY-MM-DDTHH:MM (optional)"),
		newField("Student IDs", "comma separated"),
		newAreaField("Questions", "[Q1] What is a stack? [Marks: 2]\nA) ...\n[Q2] ...", 8),
	)
	f.SetWidth(width - 8)
	return CreateAssignmentModel{form: f}
}

// SetWidth resizes the form.
func (m *CreateAssignmentModel) SetWidth(width int) { m.form.SetWidth(width - 8) }

// Done resets the form after a successful submission.
func (m *CreateAssignmentModel) Done(ok bool) {
	m.busy = false
	if ok {
		m.form.Reset()
	}
}

// Update handles messages for the create-assignment section.
func (m CreateAssignmentModel) Update(msg tea.Msg) (CreateAssignmentModel, tea.Cmd) {
	var (
		cmd       tea.Cmd
		submitted bool
	)
	m.form, cmd, submitted = m.form.Update(msg)
	if !submitted || m.busy {
		return m, cmd
	}
	m.busy = true
	f := controller.AssignmentForm{
		Title:       m.form.Value(createTitle),
		Description: m.form.Value(createDescription),
		Difficulty:  m.form.Value(createDifficulty),
		Deadline:    m.form.Value(createDeadline),
		StudentIDs:  splitList(m.form.Value(createStudents)),
		Questions:   m.form.Value(createQuestions),
	}
	return m, func() tea.Msg { return tui.CreateAssignmentRequestMsg{Form: f} }
}

// View renders the create-assignment section.
func (m CreateAssignmentModel) View() string {
	var b strings.Builder
	b.WriteString(m.form.View())
	b.WriteString("\n\n")
	if m.busy {
		b.WriteString(tui.DimStyle.Render("Creating assignment..."))
	} else {
		b.WriteString(tui.DimStyle.Render("Enter/↓: Next field · Ctrl+S: Create and assign"))
	}
	return b.String()
}
