package tui

import (
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/blackfoxxx/VulnAI/internal/chat"
)

// Notification display durations. Errors and warnings linger longer
// than confirmations.
const (
	notifySuccessTTL = 3 * time.Second
	notifyProblemTTL = 5 * time.Second
)

type notifyKind int

const (
	notifySuccess notifyKind = iota
	notifyError
	notifyWarning
)

// notification is the transient status banner. At most one is visible;
// a newer one supersedes the current one and restarts the clock.
type notification struct {
	kind    notifyKind
	title   string
	message string
	seq     int
}

// notifyExpiredMsg dismisses the banner with the matching sequence
// number. A stale timer from a superseded banner carries an old seq
// and is ignored.
type notifyExpiredMsg struct {
	seq int
}

func (n notification) ttl() time.Duration {
	if n.kind == notifySuccess {
		return notifySuccessTTL
	}
	return notifyProblemTTL
}

// showNotification replaces the current banner and schedules its
// dismissal.
func (m *Model) showNotification(kind notifyKind, title, message string) tea.Cmd {
	m.notifSeq++
	n := notification{kind: kind, title: title, message: message, seq: m.notifSeq}
	m.notif = &n
	seq := n.seq
	return tea.Tick(n.ttl(), func(time.Time) tea.Msg {
		return notifyExpiredMsg{seq: seq}
	})
}

// modalKind identifies which modal, if any, owns the keyboard.
type modalKind int

const (
	modalNone modalKind = iota
	modalConfirmRemove
	modalRegister
)

// Registration form field order.
const (
	fieldName = iota
	fieldDescription
	fieldCommand
	fieldCategory
	fieldExpectedOutput
	fieldCount
)

var formLabels = [fieldCount]string{
	"Tool name",
	"Description",
	"Run command",
	"Category",
	"Expected output",
}

// newFieldInput returns a single-line input styled like the main
// prompt.
func newFieldInput(placeholder string, width int) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.SetHeight(1)
	ta.SetWidth(width)
	ta.MaxWidth = 0
	ta.ShowLineNumbers = false
	plain := textarea.StyleState{
		Base:        lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:      lipgloss.NewStyle(),
	}
	ta.SetStyles(textarea.Styles{Focused: plain, Blurred: plain})
	return ta
}

// registrationForm is the modal form opened by a registration detour.
// The first field arrives pre-filled with the detected tool name.
type registrationForm struct {
	fields   [fieldCount]textarea.Model
	focusIdx int
}

func newRegistrationForm() registrationForm {
	var f registrationForm
	for i := range f.fields {
		f.fields[i] = newFieldInput(formLabels[i], 48)
	}
	return f
}

// Open resets the form, pre-fills the name, and focuses the first
// field still needing input.
func (f *registrationForm) Open(toolName string) tea.Cmd {
	for i := range f.fields {
		f.fields[i].Reset()
		f.fields[i].Blur()
	}
	f.fields[fieldName].SetValue(toolName)
	f.focusIdx = fieldName
	if toolName != "" {
		f.focusIdx = fieldDescription
	}
	return f.fields[f.focusIdx].Focus()
}

// Next moves focus to the following field, wrapping at the end.
func (f *registrationForm) Next() tea.Cmd {
	f.fields[f.focusIdx].Blur()
	f.focusIdx = (f.focusIdx + 1) % fieldCount
	return f.fields[f.focusIdx].Focus()
}

// Prev moves focus to the preceding field, wrapping at the start.
func (f *registrationForm) Prev() tea.Cmd {
	f.fields[f.focusIdx].Blur()
	f.focusIdx = (f.focusIdx + fieldCount - 1) % fieldCount
	return f.fields[f.focusIdx].Focus()
}

// Update forwards a message to the focused field.
func (f *registrationForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focusIdx], cmd = f.fields[f.focusIdx].Update(msg)
	return cmd
}

// Value collects the current field values.
func (f *registrationForm) Value() chat.RegistrationForm {
	return chat.RegistrationForm{
		Name:           f.fields[fieldName].Value(),
		Description:    f.fields[fieldDescription].Value(),
		Command:        f.fields[fieldCommand].Value(),
		Category:       f.fields[fieldCategory].Value(),
		ExpectedOutput: f.fields[fieldExpectedOutput].Value(),
	}
}

// beginLoading shows the blocking overlay for a long-running call.
// Calls may overlap; the overlay clears when the last one finishes.
func (m *Model) beginLoading(message string) {
	m.loading++
	m.loadingMsg = message
}

func (m *Model) endLoading() {
	if m.loading > 0 {
		m.loading--
	}
	if m.loading == 0 {
		m.loadingMsg = ""
	}
}
