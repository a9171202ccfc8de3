package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/controller"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/paper"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// AssistantModes are the assistant's tools in display order.
var AssistantModes = []string{nav.ModeTeach, nav.ModePaper, nav.ModeGrade}

const (
	setupSyllabus = iota
	setupPYQ
	setupResume
)

const (
	paperCount = iota
	paperDifficulty
	paperTypes
)

const (
	gradeStudent = iota
	gradeQuestion
	gradeAnswer
	gradeExpected
)

// AssistantModel is the teacher's assistant: a session setup form, then
// the teach, paper and grade tools with a rendered output pane.
type AssistantModel struct {
	mode    string
	fixed   bool
	session string
	// paperID is the last generated paper, downloadable as PDF.
	paperID string

	setup form
	teach form
	paper form
	grade form

	output   viewport.Model
	hasOut   bool
	busy     bool
	spinner  spinner.Model
	width    int
	outWidth int
}

// NewAssistantModel creates an AssistantModel. A non-empty mode pins the
// view to that tool; otherwise ctrl+n cycles through them.
func NewAssistantModel(mode string, width int) AssistantModel {
	m := AssistantModel{
		mode:  mode,
		fixed: mode != "",
		setup: newForm(
			newField("Syllabus PDF (optional)", "path/to/syllabus.pdf"),
			newField("Previous papers PDF (optional)", "path/to/pyq.pdf"),
			newField("Or resume session (optional)", "teacher_1712345678.9"),
		),
		teach: newForm(newAreaField("Question", "Ask about the loaded material...", 3)),
		paper: newForm(
			newField("Number of questions", "10"),
			newField("Difficulty", "easy, medium or hard"),
			newField("Question types", "mcq, short, long"),
		),
		grade: newForm(
			newField("Student", "name"),
			newAreaField("Question", "", 2),
			newAreaField("Answer", "", 4),
			newAreaField("Expected answer (optional)", "", 2),
		),
		output:  viewport.New(width-8, maxContentHeight),
		spinner: spinner.New(),
	}
	if m.mode == "" {
		m.mode = nav.ModeTeach
	}
	m.spinner.Spinner = spinner.Dot
	m.SetWidth(width)
	return m
}

// SetWidth resizes the forms and output pane.
func (m *AssistantModel) SetWidth(width int) {
	m.width = width
	m.outWidth = width - 8
	if m.outWidth < 20 {
		m.outWidth = 20
	}
	m.output.Width = m.outWidth
	for _, f := range []*form{&m.setup, &m.teach, &m.paper, &m.grade} {
		f.SetWidth(m.outWidth)
	}
}

// Mode returns the active tool.
func (m AssistantModel) Mode() string { return m.mode }

// Opened records a new assistant session.
func (m *AssistantModel) Opened(sessionID string) {
	m.busy = false
	if sessionID != "" {
		m.session = sessionID
		m.paperID = ""
		m.setup.Reset()
	}
}

// Reply shows a result, or clears the busy state on failure.
func (m *AssistantModel) Reply(msg tui.AssistantReplyMsg) {
	m.busy = false
	if msg.Err != nil {
		return
	}
	var md string
	switch {
	case msg.Paper != nil:
		md = FormatGeneratedPaper(msg.Paper)
		m.paperID = msg.Paper.PaperID
	case msg.Graded != nil:
		md = FormatGrading(msg.Graded)
	default:
		md = msg.Answer
	}
	m.output.SetContent(renderMarkdown(md, m.outWidth))
	m.output.GotoTop()
	m.hasOut = true
}

func (m *AssistantModel) current() *form {
	if m.session == "" {
		return &m.setup
	}
	switch m.mode {
	case nav.ModePaper:
		return &m.paper
	case nav.ModeGrade:
		return &m.grade
	default:
		return &m.teach
	}
}

// Update handles messages for the assistant section.
func (m AssistantModel) Update(msg tea.Msg) (AssistantModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.Mode) && !m.fixed:
			i := index(AssistantModes, m.mode)
			m.mode = AssistantModes[(i+1)%len(AssistantModes)]
			return m, nil
		case key.Matches(msg, tui.DefaultKeyMap.Reopen):
			m.session = ""
			return m, nil
		case key.Matches(msg, tui.DefaultKeyMap.DownloadPDF) && m.paperID != "":
			id := m.paperID
			return m, func() tea.Msg { return tui.DownloadGeneratedRequestMsg{PaperID: id} }
		case msg.String() == "pgup" || msg.String() == "pgdown":
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd
		}
	}

	f := m.current()
	next, cmd, submitted := f.Update(msg)
	*f = next
	if !submitted || m.busy {
		return m, cmd
	}

	req := m.request()
	if req == nil {
		return m, cmd
	}
	m.busy = true
	return m, tea.Batch(cmd, m.spinner.Tick, func() tea.Msg { return req })
}

// request builds the request for the active form.
func (m AssistantModel) request() tea.Msg {
	if m.session == "" {
		if id := strings.TrimSpace(m.setup.Value(setupResume)); id != "" {
			return tui.ResumeAssistantRequestMsg{SessionID: id}
		}
		return tui.OpenAssistantRequestMsg{
			SyllabusPath: m.setup.Value(setupSyllabus),
			PYQPath:      m.setup.Value(setupPYQ),
		}
	}
	switch m.mode {
	case nav.ModePaper:
		n, _ := strconv.Atoi(m.paper.Value(paperCount))
		return tui.GeneratePaperRequestMsg{Spec: controller.PaperSpec{
			NumQuestions:  n,
			Difficulty:    strings.ToLower(m.paper.Value(paperDifficulty)),
			QuestionTypes: splitList(m.paper.Value(paperTypes)),
		}}
	case nav.ModeGrade:
		return tui.GradeAnswerRequestMsg{Answer: controller.AnswerToGrade{
			StudentName:    m.grade.Value(gradeStudent),
			Question:       m.grade.Value(gradeQuestion),
			Answer:         m.grade.Value(gradeAnswer),
			ExpectedAnswer: m.grade.Value(gradeExpected),
		}}
	default:
		return tui.TeachRequestMsg{Question: m.teach.Value(0)}
	}
}

// View renders the assistant section.
func (m AssistantModel) View() string {
	var b strings.Builder

	if !m.fixed {
		rendered := make([]string, len(AssistantModes))
		for i, mode := range AssistantModes {
			if mode == m.mode {
				rendered[i] = tui.ActiveTabStyle.Render(modeTitle(mode))
			} else {
				rendered[i] = tui.InactiveTabStyle.Render(modeTitle(mode))
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
		b.WriteString("\n\n")
	}

	if m.session == "" {
		b.WriteString(tui.TitleStyle.Render("Start an assistant session"))
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render("Load course material the assistant should work from."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(tui.DimStyle.Render("Session " + m.session))
		b.WriteString("\n\n")
	}
	b.WriteString(m.current().View())
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(m.spinner.View() + " Working...")
		b.WriteString("\n\n")
	}
	if m.hasOut {
		b.WriteString(m.output.View())
		b.WriteString("\n\n")
	}

	hints := []string{"Enter/↓: Next field", "Ctrl+S: Send"}
	if m.session != "" {
		hints = append(hints, "Ctrl+O: New session")
	}
	if !m.fixed {
		hints = append(hints, "Ctrl+N: Next tool")
	}
	if m.hasOut {
		hints = append(hints, "PgUp/PgDn: Scroll output")
	}
	if m.paperID != "" {
		hints = append(hints, "Ctrl+D: Download PDF")
	}
	b.WriteString(tui.DimStyle.Render(strings.Join(hints, " · ")))
	return b.String()
}

func modeTitle(mode string) string {
	switch mode {
	case nav.ModeTeach:
		return "Teach"
	case nav.ModePaper:
		return "Paper"
	case nav.ModeGrade:
		return "Grade"
	}
	return mode
}

// FormatGeneratedPaper renders a generated paper as markdown.
func FormatGeneratedPaper(p *controller.GeneratedPaper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Generated paper\n\n*%d questions · id %s*\n\n", len(p.Questions), p.PaperID)
	if len(p.Questions) == 0 {
		b.WriteString(p.Content)
		return b.String()
	}
	for _, q := range p.Questions {
		fmt.Fprintf(&b, "**Q%d.** %s", q.Number, q.Text)
		if q.Marks > 0 {
			fmt.Fprintf(&b, " _(%d marks)_", q.Marks)
		}
		b.WriteString("\n\n")
		for _, opt := range q.Options {
			b.WriteString("- " + opt + "\n")
		}
		if len(q.Options) > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatGrading renders a grading report as markdown.
func FormatGrading(g *controller.GradedAnswer) string {
	r := g.Report
	var b strings.Builder
	fmt.Fprintf(&b, "## Score: %s\n\n", r.Score)
	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", title, body)
	}
	section("Feedback", r.Feedback)
	section("Strengths", r.Strengths)
	section("Improvements", r.Improvements)
	section("Model answer", r.CorrectAnswer)
	if r == (paper.Grading{Score: r.Score}) {
		b.WriteString(g.Raw)
	}
	return b.String()
}
