package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/nav"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// maxDashboardWidth is the maximum width for the dashboard box.
const maxDashboardWidth = 110

// DashboardModel is a role dashboard: a tab bar of sections and the view
// of the active one.
type DashboardModel struct {
	screen   nav.Screen
	sections []string
	active   string
	username string

	assignments AssignmentsModel
	submissions SubmissionsModel
	interview   InterviewModel
	learning    LearningModel
	papers      PapersModel
	create      CreateAssignmentModel
	assistant   AssistantModel

	width        int
	height       int
	ctrlCPending bool
}

// NewDashboardModel creates the dashboard of screen with the given
// section order.
func NewDashboardModel(screen nav.Screen, sections []string, width, height int) DashboardModel {
	inner := dashboardInner(width)
	assistantMode := ""
	if containsString(sections, nav.ModeTeach) {
		assistantMode = nav.ModeTeach
	}
	m := DashboardModel{
		screen:      screen,
		sections:    sections,
		assignments: NewAssignmentsModel(inner),
		submissions: NewSubmissionsModel(inner),
		interview:   NewInterviewModel(inner, height-8),
		learning:    NewLearningModel(inner, height-8),
		papers:      NewPapersModel(inner),
		create:      NewCreateAssignmentModel(inner),
		assistant:   NewAssistantModel(assistantMode, inner),
		width:       width,
		height:      height,
	}
	if len(sections) > 0 {
		m.active = sections[0]
	}
	return m
}

func dashboardInner(width int) int {
	w := maxDashboardWidth
	if width-4 < w {
		w = width - 4
	}
	if w < 40 {
		w = 40
	}
	return w
}

// Screen returns the dashboard's screen id.
func (m DashboardModel) Screen() nav.Screen { return m.screen }

// Active returns the active section.
func (m DashboardModel) Active() string { return m.active }

// SetActive shows section.
func (m *DashboardModel) SetActive(section string) {
	if !containsString(m.sections, section) {
		return
	}
	m.active = section
	switch section {
	case nav.ModeTeach, nav.ModePaper, nav.ModeGrade:
		m.assistant.mode = section
	}
}

// ScrollOffset returns the scroll position of the active section's
// document pane. Sections without one report 0.
func (m DashboardModel) ScrollOffset() int {
	switch m.active {
	case nav.SectionAssignments:
		if m.assignments.paper != nil {
			return m.assignments.viewport.YOffset
		}
	case nav.SectionAssistant, nav.ModeTeach, nav.ModePaper, nav.ModeGrade:
		return m.assistant.output.YOffset
	}
	return 0
}

// SetScrollOffset scrolls the document panes to offset. Offset 0 also
// moves list cursors back to the first row.
func (m *DashboardModel) SetScrollOffset(offset int) {
	m.assignments.viewport.SetYOffset(offset)
	m.assistant.output.SetYOffset(offset)
	if offset == 0 {
		m.assignments.list.Select(0)
		m.submissions.list.Select(0)
		m.papers.papers.Select(0)
	}
}

// SetUser sets the name shown in the header.
func (m *DashboardModel) SetUser(username string) { m.username = username }

// SetCtrlCPending sets the Ctrl+C pending state for display.
func (m *DashboardModel) SetCtrlCPending(pending bool) { m.ctrlCPending = pending }

// SetSize resizes every section.
func (m *DashboardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	inner := dashboardInner(width)
	m.assignments.SetWidth(inner)
	m.submissions.SetWidth(inner)
	m.papers.SetWidth(inner)
	m.create.SetWidth(inner)
	m.interview.SetSize(inner, height-8)
	m.learning.SetSize(inner, height-8)
	m.assistant.SetWidth(inner)
}

// Section views.

func (m *DashboardModel) Assignments() *AssignmentsModel { return &m.assignments }

func (m *DashboardModel) Submissions() *SubmissionsModel { return &m.submissions }

func (m *DashboardModel) Interview() *InterviewModel { return &m.interview }

func (m *DashboardModel) Learning() *LearningModel { return &m.learning }

func (m *DashboardModel) Papers() *PapersModel { return &m.papers }

func (m *DashboardModel) Create() *CreateAssignmentModel { return &m.create }

func (m *DashboardModel) Assistant() *AssistantModel { return &m.assistant }

// Update handles messages for the dashboard.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.Tab):
			return m, m.activateRelative(1)
		case key.Matches(msg, tui.DefaultKeyMap.ShiftTab):
			return m, m.activateRelative(-1)
		case key.Matches(msg, tui.DefaultKeyMap.Logout):
			return m, func() tea.Msg { return tui.LogoutRequestMsg{} }
		case key.Matches(msg, tui.DefaultKeyMap.APIKey):
			return m, func() tea.Msg { return tui.OpenKeySetupRequestMsg{} }
		}

	case spinner.TickMsg:
		// Spinners ignore ticks with a foreign id.
		var c1, c2, c3 tea.Cmd
		m.interview, c1 = m.interview.Update(msg)
		m.learning, c2 = m.learning.Update(msg)
		m.assistant, c3 = m.assistant.Update(msg)
		return m, tea.Batch(c1, c2, c3)
	}

	switch m.active {
	case nav.SectionAssignments:
		m.assignments, cmd = m.assignments.Update(msg)
	case nav.SectionSubmissions:
		m.submissions, cmd = m.submissions.Update(msg)
	case nav.SectionInterview:
		m.interview, cmd = m.interview.Update(msg)
	case nav.SectionLearning:
		m.learning, cmd = m.learning.Update(msg)
	case nav.SectionPapers:
		m.papers, cmd = m.papers.Update(msg)
	case nav.SectionCreateAssignment:
		m.create, cmd = m.create.Update(msg)
	case nav.SectionAssistant, nav.ModeTeach, nav.ModePaper, nav.ModeGrade:
		m.assistant, cmd = m.assistant.Update(msg)
	}
	return m, cmd
}

// activateRelative requests the section delta steps away from the active one.
func (m DashboardModel) activateRelative(delta int) tea.Cmd {
	if len(m.sections) == 0 {
		return nil
	}
	i := 0
	for j, s := range m.sections {
		if s == m.active {
			i = j
		}
	}
	next := m.sections[(i+delta+len(m.sections))%len(m.sections)]
	return func() tea.Msg { return tui.ActivateRequestMsg{Section: next} }
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	title := "Student dashboard"
	if m.screen == nav.ScreenTeacher {
		title = "Teacher dashboard"
	}
	if m.username != "" {
		title += " · " + m.username
	}
	b.WriteString(tui.TitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.active {
	case nav.SectionAssignments:
		b.WriteString(m.assignments.View())
	case nav.SectionSubmissions:
		b.WriteString(m.submissions.View())
	case nav.SectionInterview:
		b.WriteString(m.interview.View())
	case nav.SectionLearning:
		b.WriteString(m.learning.View())
	case nav.SectionPapers:
		b.WriteString(m.papers.View())
	case nav.SectionCreateAssignment:
		b.WriteString(m.create.View())
	case nav.SectionAssistant, nav.ModeTeach, nav.ModePaper, nav.ModeGrade:
		b.WriteString(m.assistant.View())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())

	return tui.BoxStyle.Width(dashboardInner(m.width)).Render(b.String())
}

// renderTabs renders the tab bar with active highlighting.
func (m DashboardModel) renderTabs() string {
	rendered := make([]string, 0, len(m.sections))
	for _, s := range m.sections {
		label := sectionTitle(s)
		if s == m.active {
			rendered = append(rendered, tui.ActiveTabStyle.Render(label))
		} else {
			rendered = append(rendered, tui.InactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderFooter renders the keybindings shared by every section.
func (m DashboardModel) renderFooter() string {
	hints := tui.DimStyle.Render("Tab: Switch section · Ctrl+K: API key · Ctrl+L: Sign out")

	ctrlCHint := tui.DimStyle.Render("Ctrl+C: Exit")
	if m.ctrlCPending {
		ctrlCHint = tui.WarningStyle.Render("Press Ctrl+C again to exit")
	}
	return hints + " · " + ctrlCHint
}

func sectionTitle(section string) string {
	switch section {
	case nav.SectionAssignments:
		return "Assignments"
	case nav.SectionSubmissions:
		return "Submissions"
	case nav.SectionInterview:
		return "Interview"
	case nav.SectionLearning:
		return "Learning"
	case nav.SectionPapers:
		return "Papers"
	case nav.SectionCreateAssignment:
		return "New assignment"
	case nav.SectionAssistant:
		return "Assistant"
	}
	return modeTitle(section)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
