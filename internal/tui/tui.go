// Package tui provides the Bubble Tea console for the VulnAI admin
// panel: the assistant chat, the tool catalog sidebar, and the modal
// workflows for registering and removing tools.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/blackfoxxx/VulnAI/internal/catalog"
	"github.com/blackfoxxx/VulnAI/internal/chat"
	"github.com/blackfoxxx/VulnAI/internal/client"
	"github.com/blackfoxxx/VulnAI/internal/log"
)

// focusArea identifies which pane owns ordinary keystrokes.
type focusArea int

const (
	focusChat focusArea = iota
	focusSearch
	focusTools
)

// Layout constants.
const (
	toolsPaneWidth = 34 // Sidebar width including padding
	minSplitWidth  = 80 // Below this the sidebar is hidden
	separatorLines = 2
	helpLines      = 1
	promptLines    = 1
	minViewport    = 3
)

// Model is the Bubble Tea model for the admin console.
type Model struct {
	// Dependencies
	gateway *client.Gateway
	session *chat.Session
	store   *catalog.Store
	logger  log.Logger

	ctx       context.Context
	ctxCancel context.CancelFunc

	// Widgets
	input    textarea.Model
	search   textarea.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	styles   Styles
	markdown *markdownRenderer
	viewBuf  strings.Builder // Reused by View() to reduce allocations

	// Pane and modal state
	focus       focusArea
	modal       modalKind
	form        registrationForm
	confirmTool string // Tool pending removal confirmation
	selected    int    // Index into visibleEntries()
	active      catalog.CategorySet

	// Transient UI state
	notif      *notification
	notifSeq   int
	loading    int
	loadingMsg string
	healthLine string

	width       int
	height      int
	vpHeight    int
	lastCtrlC   time.Time
	historyPath string
}

// New creates the console model. The context must be the same one
// passed to tea.WithContext so cancellation stays consistent.
func New(ctx context.Context, gateway *client.Gateway, session *chat.Session, logger log.Logger, historyPath string) (*Model, error) {
	if ctx == nil {
		return nil, errors.New("tui.New: ctx is required")
	}
	if gateway == nil {
		return nil, errors.New("tui.New: gateway is required")
	}
	if session == nil {
		return nil, errors.New("tui.New: session is required")
	}
	if logger == nil {
		return nil, errors.New("tui.New: logger is required")
	}

	ctx, cancel := context.WithCancel(ctx)

	in := newFieldInput("Ask the assistant or type a command...", 120)
	in.Focus()

	search := newFieldInput("Search tools...", toolsPaneWidth-4)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	// Keys are routed explicitly in handleKey; disable the viewport's
	// own bindings to avoid conflicts with the inputs.
	vp := viewport.New(viewport.WithWidth(80), viewport.WithHeight(20))
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true
	vp.KeyMap = viewport.KeyMap{}

	m := &Model{
		gateway:     gateway,
		session:     session,
		store:       catalog.NewStore(),
		logger:      logger,
		ctx:         ctx,
		ctxCancel:   cancel,
		input:       in,
		search:      search,
		spinner:     sp,
		viewport:    vp,
		help:        help.New(),
		keys:        newKeyMap(),
		styles:      DefaultStyles(),
		markdown:    newMarkdownRenderer(80),
		form:        newRegistrationForm(),
		active:      catalog.NewCategorySet(),
		healthLine:  "Checking model status...",
		width:       80,
		vpHeight:    20,
		historyPath: historyPath,
	}
	return m, nil
}

// Init implements tea.Model. The catalog and health probes start
// immediately so the sidebar is never stale.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.input.Focus(),
		m.fetchTools("Loading security tools..."),
		m.checkHealth(),
	)
}

// fetchTools pairs the loading overlay with a catalog request.
func (m *Model) fetchTools(message string) tea.Cmd {
	m.beginLoading(message)
	return m.loadTools()
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo // Bubble Tea Update requires type switch on all message types
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.session.State() == chat.StateAwaiting {
			m.rebuildChatContent()
		}
		return m, cmd

	case toolsLoadedMsg:
		m.endLoading()
		m.store.Replace(msg.entries)
		m.clampSelection()
		return m, nil

	case toolsLoadErrMsg:
		m.endLoading()
		m.logger.Warn("catalog load failed", "error", msg.err)
		return m, m.showNotification(notifyError, "Error", "Could not load the tool catalog.")

	case chatDoneMsg:
		m.session.ResolveSuccess(msg.resp)
		m.rebuildChatContent()
		m.viewport.GotoBottom()
		return m, tea.Batch(m.saveHistory(), m.input.Focus())

	case chatFailedMsg:
		m.logger.Warn("chat request failed", "error", msg.err)
		m.session.ResolveFailure(msg.err)
		m.rebuildChatContent()
		m.viewport.GotoBottom()
		return m, tea.Batch(m.saveHistory(), m.input.Focus())

	case toolRemovedMsg:
		m.endLoading()
		m.dropTool(msg.name)
		notify := m.showNotification(notifySuccess, "Success", msg.name+" has been removed.")
		return m, tea.Batch(notify, m.fetchTools("Refreshing catalog..."))

	case removeFailedMsg:
		m.endLoading()
		m.logger.Warn("tool removal failed", "tool", msg.name, "error", msg.err)
		return m, m.showNotification(notifyError, "Error", "Failed to remove "+msg.name+".")

	case healthCheckedMsg:
		switch {
		case msg.err != nil:
			m.healthLine = "Model status unknown"
		case msg.status.ModelOperational():
			m.healthLine = "Model trained and operational"
		default:
			m.healthLine = "No trained model available"
		}
		return m, nil

	case historySavedMsg:
		if msg.err != nil {
			m.logger.Warn("transcript save failed", "error", msg.err)
		}
		return m, nil

	case notifyExpiredMsg:
		if m.notif != nil && m.notif.seq == msg.seq {
			m.notif = nil
		}
		return m, nil
	}

	return m, m.updateFocused(msg)
}

// resize recomputes the layout after a terminal size change.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	chatWidth := width
	if width >= minSplitWidth {
		chatWidth = width - toolsPaneWidth - 1
	}

	inputHeight := m.input.Height() + promptLines
	fixed := separatorLines + inputHeight + helpLines
	vpHeight := max(height-fixed, minViewport)

	m.vpHeight = vpHeight
	m.viewport.SetWidth(chatWidth)
	m.viewport.SetHeight(vpHeight)
	m.input.SetWidth(width - 4)
	m.help.SetWidth(width)
	m.markdown.Resize(chatWidth)
	m.rebuildChatContent()
}

// updateFocused routes a message to whichever widget owns the
// keyboard.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.modal == modalRegister:
		cmd = m.form.Update(msg)
	case m.focus == focusSearch:
		m.search, cmd = m.search.Update(msg)
		m.clampSelection()
	case m.focus == focusChat:
		m.input, cmd = m.input.Update(msg)
	}
	return cmd
}

// visibleEntries flattens the filtered catalog groups in display
// order. Selection indexes into this slice.
func (m *Model) visibleEntries() []catalog.Entry {
	groups := catalog.Visible(m.store, m.search.Value(), m.active)
	var out []catalog.Entry
	for _, g := range groups {
		out = append(out, g.Entries...)
	}
	return out
}

func (m *Model) clampSelection() {
	n := len(m.visibleEntries())
	if n == 0 {
		m.selected = 0
		return
	}
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// dropTool rebuilds the snapshot without the named tool. The follow-up
// fetch reconciles with the server's view.
func (m *Model) dropTool(name string) {
	entries := m.store.Entries()
	kept := entries[:0]
	for _, e := range entries {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	m.store.Replace(kept)
	m.clampSelection()
}

// cleanup cancels all in-flight work and quits.
func (m *Model) cleanup() tea.Cmd {
	if m.ctxCancel != nil {
		m.ctxCancel()
		m.ctxCancel = nil
	}
	return tea.Quit
}
