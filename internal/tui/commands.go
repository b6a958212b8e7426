package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/blackfoxxx/VulnAI/internal/catalog"
	"github.com/blackfoxxx/VulnAI/internal/chat"
	"github.com/blackfoxxx/VulnAI/internal/client"
)

// requestTimeout bounds a single gateway call. Chat requests may run a
// tool on the backend, so they get the longer budget.
const (
	requestTimeout = 30 * time.Second
	chatTimeout    = 2 * time.Minute
)

// Gateway result messages.
type (
	toolsLoadedMsg struct {
		entries []catalog.Entry
	}
	toolsLoadErrMsg struct {
		err error
	}
	chatDoneMsg struct {
		resp client.ChatResponse
	}
	chatFailedMsg struct {
		err error
	}
	toolRemovedMsg struct {
		name string
	}
	removeFailedMsg struct {
		name string
		err  error
	}
	healthCheckedMsg struct {
		status client.HealthStatus
		err    error
	}
	historySavedMsg struct {
		err error
	}
)

// loadTools fetches the catalog snapshot in server order.
func (m *Model) loadTools() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, requestTimeout)
		defer cancel()
		entries, err := m.gateway.ListTools(ctx)
		if err != nil {
			return toolsLoadErrMsg{err: err}
		}
		return toolsLoadedMsg{entries: entries}
	}
}

// sendChat issues the single in-flight chat request.
func (m *Model) sendChat(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, chatTimeout)
		defer cancel()
		resp, err := m.gateway.SendChatMessage(ctx, text)
		if err != nil {
			return chatFailedMsg{err: err}
		}
		return chatDoneMsg{resp: resp}
	}
}

// removeTool asks the backend to uninstall a tool.
func (m *Model) removeTool(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, requestTimeout)
		defer cancel()
		if err := m.gateway.RemoveTool(ctx, name); err != nil {
			return removeFailedMsg{name: name, err: err}
		}
		return toolRemovedMsg{name: name}
	}
}

// checkHealth probes the backend and model status.
func (m *Model) checkHealth() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, requestTimeout)
		defer cancel()
		status, err := m.gateway.Health(ctx)
		return healthCheckedMsg{status: status, err: err}
	}
}

// saveHistory persists the transcript audit log. Best effort; a
// failure surfaces as a warning banner, never blocks the chat.
func (m *Model) saveHistory() tea.Cmd {
	if m.historyPath == "" {
		return nil
	}
	exchanges := m.session.Transcript()
	path := m.historyPath
	return func() tea.Msg {
		return historySavedMsg{err: chat.SaveHistory(path, exchanges)}
	}
}
