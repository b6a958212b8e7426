package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/blackfoxxx/VulnAI/internal/catalog"
	"github.com/blackfoxxx/VulnAI/internal/chat"
)

// View implements tea.Model. The layout is the scrollable chat on the
// left, the tool catalog sidebar on the right, and the prompt and
// status bar pinned to the bottom.
func (m *Model) View() tea.View {
	m.viewBuf.Reset()

	main := m.viewport.View()
	if m.width >= minSplitWidth {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, " ", m.renderToolsPane())
	}
	if m.modal != modalNone {
		main = lipgloss.Place(m.width, m.vpHeight, lipgloss.Center, lipgloss.Center, m.renderModal())
	}

	_, _ = m.viewBuf.WriteString(main)
	_, _ = m.viewBuf.WriteString("\n")
	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")
	_, _ = m.viewBuf.WriteString(m.styles.Prompt.Render("> "))
	_, _ = m.viewBuf.WriteString(m.input.View())
	_, _ = m.viewBuf.WriteString("\n")
	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")
	_, _ = m.viewBuf.WriteString(m.renderStatusBar())

	v := tea.NewView(m.viewBuf.String())
	v.AltScreen = true
	return v
}

// rebuildChatContent reconstructs the viewport from the transcript.
// Called whenever the transcript or submission state changes.
func (m *Model) rebuildChatContent() {
	var b strings.Builder

	_, _ = b.WriteString(m.styles.RenderBanner())
	_, _ = b.WriteString("\n")
	_, _ = b.WriteString(m.styles.RenderWelcomeTips())
	_, _ = b.WriteString("\n")

	for _, ex := range m.session.Transcript() {
		switch {
		case ex.Sender == chat.SenderUser:
			_, _ = b.WriteString(m.styles.User.Render("You> "))
			_, _ = b.WriteString(ex.Content)
		case ex.IsToolOutput:
			_, _ = b.WriteString(m.styles.ToolOutput.Render(ex.Content))
		default:
			_, _ = b.WriteString(m.styles.Assistant.Render("VulnAI> "))
			_, _ = b.WriteString(m.markdown.Render(ex.Content))
		}
		_, _ = b.WriteString("\n\n")
	}

	if m.session.State() == chat.StateAwaiting {
		_, _ = b.WriteString(m.spinner.View())
		_, _ = b.WriteString(" Thinking...\n\n")
	}

	m.viewport.SetContent(b.String())
}

// renderToolsPane renders the catalog sidebar: search, category
// filters, and the grouped tool list with the selection detail.
func (m *Model) renderToolsPane() string {
	var b strings.Builder

	_, _ = b.WriteString(m.styles.ModalTitle.Render(fmt.Sprintf("Tool Catalog (%d)", m.store.Len())))
	_, _ = b.WriteString("\n")
	_, _ = b.WriteString(m.styles.Prompt.Render("/ "))
	_, _ = b.WriteString(m.search.View())
	_, _ = b.WriteString("\n")

	if cats := m.store.Categories(); len(cats) > 0 {
		for i, cat := range cats {
			if i >= 9 {
				break
			}
			label := fmt.Sprintf("%d:%s", i+1, cat)
			if m.active.Has(cat) {
				_, _ = b.WriteString(m.styles.CategoryOn.Render(label))
			} else {
				_, _ = b.WriteString(m.styles.Category.Render(label))
			}
			_, _ = b.WriteString(" ")
		}
		_, _ = b.WriteString("\n")
	}
	_, _ = b.WriteString("\n")

	groups := catalog.Visible(m.store, m.search.Value(), m.active)
	if len(groups) == 0 {
		_, _ = b.WriteString(m.styles.System.Render("No tools match the current filters."))
		_, _ = b.WriteString("\n")
	}

	idx := 0
	for _, g := range groups {
		_, _ = b.WriteString(m.styles.Category.Render(strings.ToUpper(g.Category)))
		_, _ = b.WriteString("\n")
		for _, e := range g.Entries {
			line := "  " + e.Name
			if idx == m.selected && m.focus == focusTools {
				line = m.styles.ToolSelected.Render("> " + e.Name)
			} else {
				line = m.styles.ToolName.Render(line)
			}
			_, _ = b.WriteString(line)
			_, _ = b.WriteString("\n")
			idx++
		}
	}

	if detail := m.renderSelectedDetail(); detail != "" {
		_, _ = b.WriteString("\n")
		_, _ = b.WriteString(detail)
	}

	return lipgloss.NewStyle().
		Width(toolsPaneWidth).
		MaxHeight(m.vpHeight).
		Render(b.String())
}

// renderSelectedDetail shows the highlighted tool's metadata.
func (m *Model) renderSelectedDetail() string {
	entries := m.visibleEntries()
	if m.selected >= len(entries) {
		return ""
	}
	e := entries[m.selected]

	var b strings.Builder
	if e.Tool.Description != "" {
		_, _ = b.WriteString(m.styles.ToolDetail.Render(e.Tool.Description))
		_, _ = b.WriteString("\n")
	}
	if e.Tool.Example != "" {
		_, _ = b.WriteString(m.styles.ToolDetail.Render("e.g. " + e.Tool.Example))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

// renderModal renders whichever modal is active.
func (m *Model) renderModal() string {
	switch m.modal {
	case modalConfirmRemove:
		body := m.styles.ModalTitle.Render("Remove Tool") + "\n\n" +
			"Remove " + m.confirmTool + "? This uninstalls it from the platform.\n\n" +
			m.styles.System.Render("enter/y confirm · esc cancel")
		return m.styles.Modal.Render(body)

	case modalRegister:
		var b strings.Builder
		_, _ = b.WriteString(m.styles.ModalTitle.Render("Register New Tool"))
		_, _ = b.WriteString("\n\n")
		for i := range m.form.fields {
			marker := "  "
			if i == m.form.focusIdx {
				marker = m.styles.Prompt.Render("> ")
			}
			_, _ = b.WriteString(marker)
			_, _ = b.WriteString(m.styles.FieldLabel.Render(formLabels[i]))
			_, _ = b.WriteString("\n")
			_, _ = b.WriteString("  ")
			_, _ = b.WriteString(m.form.fields[i].View())
			_, _ = b.WriteString("\n")
		}
		_, _ = b.WriteString("\n")
		_, _ = b.WriteString(m.styles.System.Render("tab next field · ctrl+s register · esc cancel"))
		return m.styles.Modal.Render(b.String())
	}
	return ""
}

func (m *Model) renderSeparator() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return m.styles.Separator.Render(strings.Repeat("─", width))
}

// renderStatusBar shows context keyboard help plus the most urgent
// transient state: notification, then loading, then model health.
func (m *Model) renderStatusBar() string {
	var bindings []key.Binding
	switch {
	case m.modal == modalRegister:
		bindings = []key.Binding{m.keys.NextField, m.keys.SaveForm, m.keys.Dismiss}
	case m.modal == modalConfirmRemove:
		bindings = []key.Binding{m.keys.Confirm, m.keys.Dismiss}
	case m.focus == focusTools:
		bindings = []key.Binding{m.keys.Select, m.keys.Try, m.keys.Remove, m.keys.Filter, m.keys.SwitchPane, m.keys.Quit}
	case m.focus == focusSearch:
		bindings = []key.Binding{m.keys.SwitchPane, m.keys.Dismiss, m.keys.Quit}
	default:
		bindings = []key.Binding{m.keys.Submit, m.keys.SwitchPane, m.keys.Refresh, m.keys.Cancel, m.keys.Quit}
	}
	bar := m.help.ShortHelpView(bindings)

	status := m.statusLine()
	if status == "" {
		return bar
	}
	return bar + m.styles.Separator.Render(" │ ") + status
}

// statusLine picks the single most relevant status fragment.
func (m *Model) statusLine() string {
	if n := m.notif; n != nil {
		text := n.title + ": " + n.message
		switch n.kind {
		case notifySuccess:
			return m.styles.NotifySuccess.Render(text)
		case notifyError:
			return m.styles.NotifyError.Render(text)
		default:
			return m.styles.NotifyWarning.Render(text)
		}
	}
	if m.loading > 0 {
		return m.spinner.View() + " " + m.styles.StatusBar.Render(m.loadingMsg)
	}
	return m.styles.StatusBar.Render(m.healthLine)
}
