package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianvz/mailterm/internal/app"
	"github.com/julianvz/mailterm/internal/domain"
	"github.com/julianvz/mailterm/internal/provider"
)

type pane int

const (
	paneSidebar pane = iota
	paneList
	paneReader
)

// --- async result messages ---

// engineEventMsg wraps a background sync event. The Update loop is the
// single consumer of the engine's event channel.
type engineEventMsg struct {
	event app.Event
}

type labelsLoadedMsg struct {
	labels []domain.Label
}

type messagesLoadedMsg struct {
	labelID  string
	messages []domain.Message
}

type moreMessagesMsg struct {
	labelID  string
	messages []domain.Message
}

type messageOpenedMsg struct {
	message *domain.Message
}

type searchResultsMsg struct {
	results []domain.Message
}

type messageSentMsg struct{}

type errMsg struct {
	err error
}

// --- root model ---

type model struct {
	engine *app.Engine

	// activeLabel mirrors the sidebar selection for the poller, which
	// runs outside the Update loop.
	activeLabel *atomic.Value

	sidebar  sidebarModel
	inbox    inboxModel
	reader   readerModel
	composer composerModel
	search   searchModel

	activePane pane
	statusBar  statusBar

	width  int
	height int
}

// NewModel creates the root TUI model over a sync engine.
func NewModel(engine *app.Engine) model {
	inbox := newInbox()
	inbox.focused = true

	active := &atomic.Value{}
	active.Store(domain.LabelInbox)

	return model{
		engine:      engine,
		activeLabel: active,
		activePane: paneList,
		sidebar:    newSidebar(),
		inbox:      inbox,
		reader:     newReader(),
		composer:   newComposer(),
		search:     newSearch(),
		statusBar:  newStatusBar(),
	}
}

func (m model) Init() tea.Cmd {
	m.engine.SyncLabelsAsync()
	return tea.Batch(
		m.loadLabelsCmd(),
		m.loadMessagesCmd(domain.LabelInbox),
		m.waitForEvent(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	// --- window resize ---
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.width = msg.Width
		m.resizeSubModels()
		return m, nil

	// --- background sync events ---
	case engineEventMsg:
		return m.handleEngineEvent(msg.event)

	// --- async result messages ---
	case labelsLoadedMsg:
		m.sidebar.SetLabels(msg.labels)
		return m, nil

	case messagesLoadedMsg:
		if msg.labelID == m.sidebar.activeLabel {
			m.inbox.SetMessages(msg.messages)
			m.statusBar.setMessage(fmt.Sprintf("Loaded %d messages", len(msg.messages)))
		}
		return m, nil

	case moreMessagesMsg:
		if msg.labelID == m.sidebar.activeLabel {
			if len(msg.messages) == 0 {
				m.statusBar.setMessage("No more messages")
			} else {
				m.inbox.AppendMessages(msg.messages)
				m.statusBar.setMessage(fmt.Sprintf("Loaded %d more", len(msg.messages)))
			}
		}
		return m, nil

	case messageOpenedMsg:
		if msg.message != nil {
			m.reader.ShowMessage(msg.message)
			m.inbox.SetRead(msg.message.ID, true)
			m.setFocus(paneReader)
			m.statusBar.readerVisible = true
			m.resizeSubModels()
		}
		return m, nil

	case searchResultsMsg:
		m.search.SetResults(msg.results)
		m.statusBar.setMessage(fmt.Sprintf("Found %d results", len(msg.results)))
		return m, nil

	case messageSentMsg:
		m.composer.Close()
		m.statusBar.setMessage("Message sent")
		m.setFocus(paneList)
		return m, nil

	case errMsg:
		m.statusBar.setError(fmt.Sprintf("Error: %v", msg.err))
		return m, nil

	// --- sub-model emitted messages ---
	case labelSelectedMsg:
		m.activeLabel.Store(msg.labelID)
		m.reader.Close()
		m.statusBar.readerVisible = false
		m.inbox.cursor = 0
		m.inbox.offset = 0
		m.setFocus(paneList)
		m.statusBar.setMessage(fmt.Sprintf("Loading %s...", msg.labelID))
		return m, m.loadMessagesCmd(msg.labelID)

	case messageSelectedMsg:
		m.statusBar.setMessage("Loading message...")
		return m, tea.Batch(
			m.openMessageCmd(msg.messageID),
			m.markReadCmd(msg.messageID),
		)

	case loadMoreMsg:
		return m, m.loadMoreCmd(m.sidebar.activeLabel, msg.offset)

	case messageActionMsg:
		return m.handleAction(msg.messageID, msg.action)

	case replyMsg:
		m.composer.Reply(msg.message, msg.replyAll)
		m.resizeComposer()
		return m, nil

	case forwardMsg:
		m.composer.Forward(msg.message)
		m.resizeComposer()
		return m, nil

	case closeReaderMsg:
		m.reader.Close()
		m.statusBar.readerVisible = false
		m.setFocus(paneList)
		return m, nil

	case sendMsg:
		m.statusBar.setMessage("Sending...")
		return m, m.sendCmd(msg.message)

	case cancelComposeMsg:
		m.composer.Close()
		m.setFocus(paneList)
		return m, nil

	case searchQueryMsg:
		m.statusBar.setMessage(fmt.Sprintf("Searching: %s", msg.query))
		return m, m.searchCmd(msg.query)

	case searchResultSelectedMsg:
		m.search.Close()
		m.statusBar.setMessage("Loading message...")
		return m, tea.Batch(
			m.openMessageCmd(msg.messageID),
			m.markReadCmd(msg.messageID),
		)

	case closeSearchMsg:
		m.search.Close()
		m.setFocus(paneList)
		return m, nil

	// --- key events ---
	case tea.KeyMsg:
		// A key press consumes the transient status line.
		m.statusBar.clear()

		// Composer gets all key events when visible.
		if m.composer.IsVisible() {
			var cmd tea.Cmd
			m.composer, cmd = m.composer.Update(msg)
			return m, cmd
		}

		// Search gets all key events when active.
		if m.search.IsActive() {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}

		// Global keys (when no overlay).
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Compose):
			m.composer.Compose()
			m.resizeComposer()
			return m, nil

		case key.Matches(msg, keys.Search):
			m.search.Open()
			m.resizeSearch()
			return m, nil

		case key.Matches(msg, keys.Refresh):
			m.engine.RefreshAsync(m.sidebar.activeLabel)
			m.statusBar.setMessage("Refreshing...")
			return m, nil

		case key.Matches(msg, keys.Tab):
			if m.reader.IsVisible() {
				// Toggle between list and reader when reader is open.
				if m.activePane == paneList {
					m.setFocus(paneReader)
				} else {
					m.setFocus(paneList)
				}
			} else {
				// Toggle between sidebar and list.
				if m.activePane == paneSidebar {
					m.setFocus(paneList)
				} else {
					m.setFocus(paneSidebar)
				}
			}
			return m, nil
		}

		// Delegate to focused sub-model.
		switch m.activePane {
		case paneSidebar:
			var cmd tea.Cmd
			m.sidebar, cmd = m.sidebar.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}

		case paneList:
			var cmd tea.Cmd
			m.inbox, cmd = m.inbox.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}

		case paneReader:
			var cmd tea.Cmd
			m.reader, cmd = m.reader.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// handleEngineEvent folds a background sync event into the view state
// and re-arms the event wait.
func (m model) handleEngineEvent(ev app.Event) (tea.Model, tea.Cmd) {
	switch ev.Type {
	case app.EventLabelsSynced:
		m.sidebar.SetLabels(ev.Labels)

	case app.EventMessagesLoaded:
		// Reconcile only when the user is still looking at this label.
		if ev.LabelID == m.sidebar.activeLabel {
			m.inbox.SetMessages(ev.Messages)
		}

	case app.EventLabelSynced:
		if ev.LabelID == m.sidebar.activeLabel {
			m.statusBar.setMessage(fmt.Sprintf("Synced %s (%d messages)", ev.LabelID, ev.Count))
		}

	case app.EventMessageArchived:
		m.inbox.RemoveMessage(ev.MessageID)
		m.statusBar.setMessage("Archived")

	case app.EventMessageDeleted:
		m.inbox.RemoveMessage(ev.MessageID)
		m.statusBar.setMessage("Moved to trash")

	case app.EventSyncError:
		m.statusBar.setError(ev.Status)

	case app.EventAuthExpired:
		m.statusBar.setError(ev.Status)
	}

	return m, m.waitForEvent()
}

// handleAction applies an optimistic mutation. The cache is updated
// before this returns; the remote confirmation runs in the background.
func (m model) handleAction(messageID, action string) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	var err error

	switch action {
	case "archive":
		err = m.engine.Archive(ctx, messageID)
	case "delete":
		err = m.engine.Delete(ctx, messageID)
	case "unread":
		err = m.engine.SetUnread(ctx, messageID, true)
		if err == nil {
			m.inbox.SetRead(messageID, false)
			m.statusBar.setMessage("Marked unread")
		}
	default:
		err = fmt.Errorf("unknown action: %s", action)
	}

	if err != nil {
		m.statusBar.setError(fmt.Sprintf("Error: %v", err))
		return m, nil
	}

	if action == "archive" || action == "delete" {
		m.reader.Close()
		m.statusBar.readerVisible = false
		m.setFocus(paneList)
	}
	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebarWidth, contentWidth := m.layoutWidths()
	contentHeight := m.height - 3 // reserve space for status bar

	sidebarView := sidebarStyle.
		Width(sidebarWidth).
		Height(contentHeight).
		Render(m.sidebar.View())

	var contentView string

	switch {
	case m.composer.IsVisible():
		contentView = lipgloss.NewStyle().
			Width(contentWidth).
			Height(contentHeight).
			Render(m.composer.View())

	case m.search.IsActive():
		contentView = lipgloss.NewStyle().
			Width(contentWidth).
			Height(contentHeight).
			Render(m.search.View())

	case m.reader.IsVisible():
		// Split view: list (top half) + reader (bottom half).
		listHeight := contentHeight / 2
		readerHeight := contentHeight - listHeight

		listView := listStyle.
			Width(contentWidth).
			Height(listHeight).
			Render(m.inbox.View())

		readerView := readerStyle.
			Width(contentWidth).
			Height(readerHeight).
			Render(m.reader.View())

		contentView = lipgloss.JoinVertical(lipgloss.Left, listView, readerView)

	default:
		contentView = listStyle.
			Width(contentWidth).
			Height(contentHeight).
			Render(m.inbox.View())
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, sidebarView, contentView)
	sb := m.statusBar.View()

	return lipgloss.JoinVertical(lipgloss.Left, main, sb)
}

// --- focus management ---

func (m *model) setFocus(p pane) {
	m.activePane = p
	m.sidebar.focused = (p == paneSidebar)
	m.inbox.focused = (p == paneList)
	m.reader.focused = (p == paneReader)
}

// --- layout helpers ---

func (m model) layoutWidths() (sidebarWidth, contentWidth int) {
	sidebarWidth = m.width / 5
	if sidebarWidth < 20 {
		sidebarWidth = 20
	}
	contentWidth = m.width - sidebarWidth - 2
	return
}

func (m *model) resizeSubModels() {
	sidebarWidth, contentWidth := m.layoutWidths()
	contentHeight := m.height - 3

	// Pass content area dimensions (subtract border + padding from each style).
	// sidebarStyle: Border(2h + 2v) + Padding(2h + 2v) = 4h, 4v
	m.sidebar.SetSize(sidebarWidth-4, contentHeight-4)

	// listStyle: Border(2h + 2v) + Padding(2h + 0v) = 4h, 2v
	if m.reader.IsVisible() {
		listHeight := contentHeight / 2
		readerHeight := contentHeight - listHeight
		m.inbox.SetSize(contentWidth-4, listHeight-2)
		// readerStyle: Border(2h + 2v) + Padding(4h + 2v) = 6h, 4v
		m.reader.SetSize(contentWidth-6, readerHeight-4)
	} else {
		m.inbox.SetSize(contentWidth-4, contentHeight-2)
	}

	m.resizeComposer()
	m.resizeSearch()
}

func (m *model) resizeComposer() {
	_, contentWidth := m.layoutWidths()
	contentHeight := m.height - 3
	m.composer.SetSize(contentWidth, contentHeight)
}

func (m *model) resizeSearch() {
	_, contentWidth := m.layoutWidths()
	contentHeight := m.height - 3
	m.search.SetSize(contentWidth, contentHeight)
}

// --- async commands ---

// waitForEvent blocks on the engine's event channel as a command and
// re-delivers the event into the Update loop.
func (m model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return engineEventMsg{event: <-m.engine.Events()}
	}
}

func (m model) loadLabelsCmd() tea.Cmd {
	return func() tea.Msg {
		labels, err := m.engine.LoadLabels(context.Background())
		if err != nil {
			return errMsg{err: fmt.Errorf("failed to load labels: %w", err)}
		}
		return labelsLoadedMsg{labels: labels}
	}
}

func (m model) loadMessagesCmd(labelID string) tea.Cmd {
	return func() tea.Msg {
		msgs, err := m.engine.LoadMessages(context.Background(), labelID)
		if err != nil {
			return errMsg{err: fmt.Errorf("failed to load messages: %w", err)}
		}
		return messagesLoadedMsg{labelID: labelID, messages: msgs}
	}
}

func (m model) loadMoreCmd(labelID string, offset int) tea.Cmd {
	return func() tea.Msg {
		msgs, err := m.engine.LoadMore(context.Background(), labelID, offset)
		if err != nil {
			return errMsg{err: fmt.Errorf("failed to load more messages: %w", err)}
		}
		return moreMessagesMsg{labelID: labelID, messages: msgs}
	}
}

func (m model) openMessageCmd(messageID string) tea.Cmd {
	return func() tea.Msg {
		msg, err := m.engine.OpenMessage(context.Background(), messageID)
		if err != nil {
			return errMsg{err: fmt.Errorf("failed to open message: %w", err)}
		}
		return messageOpenedMsg{message: msg}
	}
}

func (m model) markReadCmd(messageID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.SetUnread(context.Background(), messageID, false); err != nil {
			return errMsg{err: fmt.Errorf("failed to mark as read: %w", err)}
		}
		return nil
	}
}

func (m model) sendCmd(out *provider.OutgoingMessage) tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.Send(context.Background(), out); err != nil {
			return errMsg{err: fmt.Errorf("failed to send message: %w", err)}
		}
		return messageSentMsg{}
	}
}

func (m model) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := m.engine.Search(context.Background(), query, 50)
		if err != nil {
			return errMsg{err: fmt.Errorf("failed to search: %w", err)}
		}
		return searchResultsMsg{results: results}
	}
}

// Run starts the Bubble Tea application over the sync engine and a
// background poller that keeps the visible label fresh.
func Run(engine *app.Engine, pollInterval time.Duration) error {
	m := NewModel(engine)
	prog := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := app.NewPoller(engine, pollInterval, func() string {
		label, _ := m.activeLabel.Load().(string)
		return label
	})
	go poller.Run(ctx)

	_, err := prog.Run()
	return err
}
