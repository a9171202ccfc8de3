// Package views provides TUI view components for the coach client.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// field is one labelled input of a form. Multi-line fields use a textarea.
type field struct {
	label string
	multi bool
	input textinput.Model
	area  textarea.Model
}

func newField(label, placeholder string) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 500
	ti.Width = 60
	return field{label: label, input: ti}
}

func newSecretField(label, placeholder string) field {
	f := newField(label, placeholder)
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func newAreaField(label, placeholder string, height int) field {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = 20000
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(height)
	return field{label: label, multi: true, area: ta}
}

// form is a vertical list of fields with one focused at a time. Enter and
// the arrow keys move between single-line fields; ctrl+s submits from
// anywhere, and enter on the last single-line field submits too.
type form struct {
	fields []field
	focus  int
}

func newForm(fields ...field) form {
	f := form{fields: fields}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(i int) {
	if i < 0 || i >= len(f.fields) {
		return
	}
	for j := range f.fields {
		if f.fields[j].multi {
			f.fields[j].area.Blur()
		} else {
			f.fields[j].input.Blur()
		}
	}
	f.focus = i
	if f.fields[i].multi {
		f.fields[i].area.Focus()
	} else {
		f.fields[i].input.Focus()
	}
}

// Update routes msg to the focused field. submitted reports a submit key.
func (f form) Update(msg tea.Msg) (form, tea.Cmd, bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		cur := f.fields[f.focus]
		switch {
		case key.Matches(msg, tui.DefaultKeyMap.Send):
			return f, nil, true
		case msg.String() == tui.KeyEnter && !cur.multi:
			if f.focus == len(f.fields)-1 {
				return f, nil, true
			}
			f.setFocus(f.focus + 1)
			return f, nil, false
		case msg.String() == tui.KeyDown && !cur.multi:
			f.setFocus(f.focus + 1)
			return f, nil, false
		case msg.String() == tui.KeyUp && (!cur.multi || cur.area.Line() == 0):
			f.setFocus(f.focus - 1)
			return f, nil, false
		}
	}

	var cmd tea.Cmd
	if f.fields[f.focus].multi {
		f.fields[f.focus].area, cmd = f.fields[f.focus].area.Update(msg)
	} else {
		f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	}
	return f, cmd, false
}

// Value returns the trimmed content of field i.
func (f form) Value(i int) string {
	if f.fields[i].multi {
		return strings.TrimSpace(f.fields[i].area.Value())
	}
	return strings.TrimSpace(f.fields[i].input.Value())
}

// splitList splits a comma separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (f *form) SetValue(i int, v string) {
	if f.fields[i].multi {
		f.fields[i].area.SetValue(v)
		return
	}
	f.fields[i].input.SetValue(v)
}

// Reset clears every field and focuses the first.
func (f *form) Reset() {
	for i := range f.fields {
		if f.fields[i].multi {
			f.fields[i].area.Reset()
		} else {
			f.fields[i].input.Reset()
		}
	}
	f.setFocus(0)
}

// SetWidth resizes every field.
func (f *form) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	for i := range f.fields {
		if f.fields[i].multi {
			f.fields[i].area.SetWidth(w)
		} else {
			f.fields[i].input.Width = w
		}
	}
}

func (f form) View() string {
	var b strings.Builder
	for i, fl := range f.fields {
		label := tui.DimStyle.Render(fl.label)
		if i == f.focus {
			label = tui.SelectedStyle.Render("› " + fl.label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		if fl.multi {
			b.WriteString(fl.area.View())
		} else {
			b.WriteString(fl.input.View())
		}
		if i < len(f.fields)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
