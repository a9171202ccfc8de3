package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// APISetupModel asks for the AI API key used by every completion.
type APISetupModel struct {
	key    form
	busy   bool
	width  int
	height int
}

// NewAPISetupModel creates an APISetupModel.
func NewAPISetupModel(width, height int) APISetupModel {
	return APISetupModel{
		key:    newForm(newSecretField("AI API key", "paste your key")),
		width:  width,
		height: height,
	}
}

// SetBusy disables submission while the key is tested.
func (m *APISetupModel) SetBusy(busy bool) { m.busy = busy }

// Reset clears the input.
func (m *APISetupModel) Reset() {
	m.key.Reset()
	m.busy = false
}

// SetSize resizes the view.
func (m *APISetupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the API setup view.
func (m APISetupModel) Update(msg tea.Msg) (APISetupModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == tui.KeyEsc {
		return m, func() tea.Msg { return tui.SkipKeyRequestMsg{} }
	}

	var (
		cmd       tea.Cmd
		submitted bool
	)
	m.key, cmd, submitted = m.key.Update(msg)
	if !submitted || m.busy {
		return m, cmd
	}
	m.busy = true
	value := m.key.Value(0)
	return m, func() tea.Msg { return tui.SaveKeyRequestMsg{Key: value} }
}

// View renders the API setup view.
func (m APISetupModel) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Connect your AI provider"))
	b.WriteString("\n\n")
	b.WriteString("Interviews, tutoring and grading need an API key.\nIt is tested with the server, then stored on this machine.")
	b.WriteString("\n\n")
	b.WriteString(m.key.View())
	b.WriteString("\n\n")
	if m.busy {
		b.WriteString(tui.DimStyle.Render("Testing key..."))
	} else {
		b.WriteString(tui.DimStyle.Render("Enter: Test and save · Esc: Skip for now"))
	}

	boxWidth := maxAuthWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}
	boxed := tui.BoxStyle.Width(boxWidth).Render(b.String())
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, boxed)
}
