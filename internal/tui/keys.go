package tui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/blackfoxxx/VulnAI/internal/chat"
)

// keyMap holds key bindings for help bar display.
type keyMap struct {
	Submit     key.Binding
	SwitchPane key.Binding
	Refresh    key.Binding
	Cancel     key.Binding
	Quit       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Select     key.Binding
	Try        key.Binding
	Remove     key.Binding
	Filter     key.Binding
	NextField  key.Binding
	SaveForm   key.Binding
	Dismiss    key.Binding
	Confirm    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Refresh:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Cancel:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "cancel")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "exit")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Select:     key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "select tool")),
		Try:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "try example")),
		Remove:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove tool")),
		Filter:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1-9", "toggle category")),
		NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		SaveForm:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "register")),
		Dismiss:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm:    key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("enter/y", "confirm")),
	}
}

//nolint:gocyclo // Keyboard handler requires branching for all key combinations
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := msg.Key()

	if k.Mod&tea.ModCtrl != 0 {
		switch k.Code {
		case 'c':
			return m.handleCtrlC()
		case 'd':
			return m, m.cleanup()
		case 'r':
			if m.modal == modalNone {
				return m, tea.Batch(m.fetchTools("Refreshing catalog..."), m.checkHealth())
			}
			return m, nil
		case 's':
			if m.modal == modalRegister {
				return m.submitRegistration()
			}
			return m, nil
		}
	}

	switch m.modal {
	case modalConfirmRemove:
		return m.handleConfirmKey(k)
	case modalRegister:
		return m.handleFormKey(msg, k)
	}

	switch k.Code {
	case tea.KeyEnter:
		switch m.focus {
		case focusChat:
			return m.handleSubmit()
		case focusSearch:
			m.focus = focusTools
			m.search.Blur()
			return m, nil
		case focusTools:
			return m.tryExample()
		}
		return m, nil

	case tea.KeyTab:
		return m, m.cycleFocus()

	case tea.KeyEscape:
		switch m.focus {
		case focusSearch:
			m.search.Reset()
			m.clampSelection()
		case focusTools:
			m.active.Clear()
			m.clampSelection()
		}
		return m, nil

	case tea.KeyUp:
		if m.focus == focusTools {
			m.moveSelection(-1)
			return m, nil
		}

	case tea.KeyDown:
		if m.focus == focusTools {
			m.moveSelection(1)
			return m, nil
		}

	case tea.KeyPgUp:
		m.viewport.PageUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.PageDown()
		return m, nil
	}

	if m.focus == focusTools {
		return m.handleToolsKey(k)
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleCtrlC() (tea.Model, tea.Cmd) {
	now := time.Now()
	if now.Sub(m.lastCtrlC) < time.Second {
		return m, m.cleanup()
	}
	m.lastCtrlC = now

	if m.modal != modalNone {
		m.modal = modalNone
		m.confirmTool = ""
		return m, nil
	}

	switch m.focus {
	case focusChat:
		m.input.Reset()
	case focusSearch:
		m.search.Reset()
		m.clampSelection()
	}
	return m, nil
}

// cycleFocus rotates chat input, tool search, tool list.
func (m *Model) cycleFocus() tea.Cmd {
	switch m.focus {
	case focusChat:
		m.focus = focusSearch
		m.input.Blur()
		return m.search.Focus()
	case focusSearch:
		m.focus = focusTools
		m.search.Blur()
		return nil
	default:
		m.focus = focusChat
		return m.input.Focus()
	}
}

func (m *Model) moveSelection(delta int) {
	n := len(m.visibleEntries())
	if n == 0 {
		return
	}
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= n {
		m.selected = n - 1
	}
}

// handleToolsKey handles keys owned by the tool list: category
// toggles and removal.
func (m *Model) handleToolsKey(k tea.Key) (tea.Model, tea.Cmd) {
	if k.Code >= '1' && k.Code <= '9' {
		cats := m.store.Categories()
		idx := int(k.Code - '1')
		if idx < len(cats) {
			m.active.Toggle(cats[idx])
			m.clampSelection()
		}
		return m, nil
	}

	switch k.Code {
	case 'd', tea.KeyDelete:
		entries := m.visibleEntries()
		if m.selected < len(entries) {
			m.confirmTool = entries[m.selected].Name
			m.modal = modalConfirmRemove
		}
		return m, nil
	}
	return m, nil
}

// tryExample fills the chat input with the selected tool's example
// prompt and hands focus back to the chat.
func (m *Model) tryExample() (tea.Model, tea.Cmd) {
	entries := m.visibleEntries()
	if m.selected >= len(entries) {
		return m, nil
	}
	e := entries[m.selected]

	prompt := e.Tool.Example
	if prompt == "" {
		prompt = "Run " + e.Name + " on example.com"
	}
	m.input.SetValue(prompt)
	m.input.CursorEnd()
	m.focus = focusChat
	return m, m.input.Focus()
}

// handleConfirmKey resolves the removal confirmation modal.
func (m *Model) handleConfirmKey(k tea.Key) (tea.Model, tea.Cmd) {
	switch k.Code {
	case tea.KeyEnter, 'y':
		name := m.confirmTool
		m.modal = modalNone
		m.confirmTool = ""
		m.beginLoading("Removing " + name + "...")
		return m, m.removeTool(name)
	case tea.KeyEscape, 'n':
		m.modal = modalNone
		m.confirmTool = ""
		return m, nil
	}
	return m, nil
}

// handleFormKey drives the registration form modal.
func (m *Model) handleFormKey(msg tea.KeyPressMsg, k tea.Key) (tea.Model, tea.Cmd) {
	switch k.Code {
	case tea.KeyEscape:
		m.modal = modalNone
		return m, m.input.Focus()
	case tea.KeyTab:
		if k.Mod&tea.ModShift != 0 {
			return m, m.form.Prev()
		}
		return m, m.form.Next()
	case tea.KeyEnter:
		if m.form.focusIdx == fieldCount-1 {
			return m.submitRegistration()
		}
		return m, m.form.Next()
	}
	return m, m.form.Update(msg)
}

// handleSubmit runs the chat submission turn. A busy session drops
// the attempt silently; the transcript stays untouched.
func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	sub := m.session.Submit(text)

	switch sub.Outcome {
	case chat.OutcomeBusy:
		return m, nil

	case chat.OutcomeEmpty:
		return m, m.showNotification(notifyWarning, "Validation", "Type a message before sending.")

	case chat.OutcomeDetour:
		m.input.Reset()
		m.modal = modalRegister
		m.rebuildChatContent()
		m.viewport.GotoBottom()
		return m, m.form.Open(sub.ToolName)

	default: // chat.OutcomeSend
		m.input.Reset()
		m.rebuildChatContent()
		m.viewport.GotoBottom()
		return m, tea.Batch(m.spinner.Tick, m.sendChat(text))
	}
}

// submitRegistration validates the form, synthesizes the registration
// message, and sends it without re-running intent detection.
func (m *Model) submitRegistration() (tea.Model, tea.Cmd) {
	form := m.form.Value()
	if err := form.Validate(); err != nil {
		return m, m.showNotification(notifyWarning, "Validation", err.Error())
	}

	text := form.Synthesize()
	sub := m.session.SubmitDirect(text)
	if sub.Outcome != chat.OutcomeSend {
		return m, nil
	}

	m.modal = modalNone
	m.rebuildChatContent()
	m.viewport.GotoBottom()
	return m, tea.Batch(m.spinner.Tick, m.sendChat(text), m.input.Focus())
}
