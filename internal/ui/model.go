package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"quickdash/internal/config"
	"quickdash/internal/domain"
	"quickdash/internal/eventbus"
	"quickdash/internal/launcher"
	"quickdash/internal/search"
	"quickdash/internal/sources/history"
	"quickdash/internal/ui/navigation"
	"quickdash/internal/ui/views"
)

// menuActions are the context-menu entries for a selected result
var menuActions = []string{"Open", "Reveal in Folder", "Copy Path"}

// contextMenu is the overlay shown over the selected result
type contextMenu struct {
	result domain.SearchResult
	index  int
}

// Model represents the UI state
type Model struct {
	ctx    context.Context
	log    *zap.SugaredLogger
	bus    eventbus.EventBus
	config *config.Config

	input      textinput.Model
	dispatcher *search.Dispatcher
	coord      *search.Coordinator
	window     *search.Window
	nav        *navigation.Service
	launcher   *launcher.Launcher
	history    *history.Store
	styles     *views.Styles

	width  int
	height int

	query      string // last committed query
	merged     search.Merged
	usage      map[string]int64
	searching  bool
	diskStatus string // status line when the disk backend is unavailable
	diskTotal  int
	diskCount  int

	// Overlay stack, topmost first: context menu, then error dialog
	menu     *contextMenu
	errorMsg string
}

// NewModel creates a new UI model
func NewModel(
	ctx context.Context,
	log *zap.SugaredLogger,
	bus eventbus.EventBus,
	cfg *config.Config,
	coord *search.Coordinator,
	launch *launcher.Launcher,
	hist *history.Store,
) *Model {
	ti := textinput.New()
	ti.Placeholder = "Type to search"
	ti.Prompt = "❯ "
	ti.Focus()

	m := &Model{
		ctx:      ctx,
		log:      log,
		bus:      bus,
		config:   cfg,
		input:    ti,
		coord:    coord,
		launcher: launch,
		history:  hist,
		styles:   views.NewStyles(),
		usage:    make(map[string]int64),
		window: search.NewWindow(
			cfg.Search.WindowBase,
			cfg.Search.WindowIncrement,
			cfg.Search.ScrollThresholdRows,
		),
	}
	m.nav = navigation.NewService(
		func() int { return len(m.merged.Horizontal) },
		func() int { return len(m.merged.Vertical) },
	)
	m.dispatcher = search.NewDispatcher(
		cfg.DebounceDelay(),
		coord.Search,
		coord.Clear,
	)

	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadUsageCmd())
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.nav.SetViewportHeight(m.listHeight())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		return m.handleEvent(msg.Event)

	case launchDoneMsg:
		if msg.err != nil {
			m.errorMsg = fmt.Sprintf("Failed to launch %s: %v", msg.result.DisplayName, msg.err)
		}
		return m, nil

	case revealDoneMsg:
		if msg.err != nil {
			m.errorMsg = fmt.Sprintf("Failed to reveal: %v", msg.err)
		}
		return m, nil

	case usageLoadedMsg:
		if msg.err == nil {
			m.usage = msg.usage
			m.remerge()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menu != nil {
		return m.handleMenuKey(msg)
	}
	if m.errorMsg != "" {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.errorMsg = ""
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		// No overlay open: clear everything and hide the window
		m.clearAll()
		return m, tea.Quit

	case tea.KeyUp:
		if m.nav.Up() {
			m.input.Focus()
		}
		m.growWindowIfNearBottom()
		return m, nil

	case tea.KeyDown:
		m.nav.Down()
		m.growWindowIfNearBottom()
		return m, nil

	case tea.KeyLeft, tea.KeyRight:
		if m.consumeArrowForNavigation(msg.Type == tea.KeyRight) {
			return m, nil
		}
		// The caret is mid-edit; the text input owns the key
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.KeyEnter:
		if sel := m.selectedResult(); sel != nil {
			return m, m.launchCmd(*sel)
		}
		// Nothing selected: force the pending query through the window
		m.dispatcher.Flush(m.input.Value())
		return m, nil

	case tea.KeyTab:
		if sel := m.selectedResult(); sel != nil {
			m.menu = &contextMenu{result: *sel}
		}
		return m, nil

	case tea.KeyCtrlR:
		go m.coord.RetryDisk()
		return m, nil
	}

	// Everything else edits the query
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.dispatcher.OnQueryChange(m.input.Value())
	}
	return m, cmd
}

// consumeArrowForNavigation decides whether a Left/Right key drives the
// quick-launch row or belongs to the text caret. The row wins when a
// selection is already on it, when the selection is vertical (explicit
// jump), or when the caret sits at the input boundary in the key's
// direction.
func (m *Model) consumeArrowForNavigation(right bool) bool {
	sel := m.nav.Selection()

	switch sel.Axis {
	case navigation.AxisHorizontal:
	case navigation.AxisVertical:
	case navigation.AxisNone:
		atBoundary := (!right && m.input.Position() == 0) ||
			(right && m.input.Position() == len(m.input.Value()))
		if !atBoundary || len(m.merged.Horizontal) == 0 {
			return false
		}
	}

	if right {
		m.nav.Right()
	} else {
		m.nav.Left()
	}
	return true
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.menu = nil
	case tea.KeyUp:
		if m.menu.index > 0 {
			m.menu.index--
		}
	case tea.KeyDown:
		if m.menu.index < len(menuActions)-1 {
			m.menu.index++
		}
	case tea.KeyEnter:
		menu := m.menu
		m.menu = nil
		switch menu.index {
		case 0:
			return m, m.launchCmd(menu.result)
		case 1:
			return m, m.revealCmd(menu.result)
		case 2:
			return m, m.copyPathCmd(menu.result)
		}
	}
	return m, nil
}

func (m *Model) handleEvent(event eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch ev := event.(type) {
	case domain.QueryCommittedEvent:
		m.query = ev.Query
		m.searching = true
		m.window.Reset()
		m.diskTotal = 0
		m.diskCount = 0
		m.remerge()

	case domain.QueryClearedEvent:
		m.clearAll()

	case domain.SourceResultsEvent:
		if ev.Query == m.query {
			m.searching = false
			m.remerge()
		}

	case domain.SourceFailedEvent:
		if ev.Kind == domain.KindEverything {
			m.diskStatus = "disk search failed"
		}
		m.remerge()

	case domain.DiskBatchEvent:
		if ev.Query == m.query {
			m.diskTotal = ev.TotalCount
			m.diskCount = ev.Accumulated
			m.remerge()
		}

	case domain.DiskFinalizedEvent:
		if ev.Query == m.query {
			m.diskTotal = ev.TotalCount
			m.diskStatus = ""
			m.remerge()
		}

	case domain.AvailabilityChangedEvent:
		if ev.Status.Available {
			m.diskStatus = ""
		} else {
			m.diskStatus = "disk search unavailable — ctrl+r to retry"
		}

	case domain.UsageRecordedEvent:
		return m, m.loadUsageCmd()

	case domain.HideRequestedEvent:
		return m, tea.Quit
	}
	return m, nil
}

// remerge recomputes the combined list from the coordinator's snapshot
// and re-applies the selection rule.
func (m *Model) remerge() {
	snap := m.coord.Snapshot()

	m.merged = search.Merge(search.MergeInput{
		Sets:  snap.Sets,
		Disk:  snap.Disk,
		Usage: m.usage,
		Caps: search.Caps{
			FileHistory:   m.config.Search.FileHistoryCap,
			Disk:          m.window.Capacity(),
			SystemFolders: m.config.Search.SystemFolderCap,
			Memos:         m.config.Search.MemoCap,
			Suggestions:   m.config.Search.SuggestionCap,
		},
	})

	if snap.DiskOff {
		m.diskStatus = "disk search unavailable — ctrl+r to retry"
	}

	m.nav.OnResultsChanged()
}

// growWindowIfNearBottom implements the display-window growth rule:
// scrolling near the bottom of the vertical list raises the cap when
// more disk hits exist than are materialized.
func (m *Model) growWindowIfNearBottom() {
	if m.nav.Selection().Axis != navigation.AxisVertical {
		return
	}
	if !m.window.NearBottom(m.nav.ViewportOffset(), m.nav.ViewportHeight(), len(m.merged.Vertical)) {
		return
	}

	snap := m.coord.Snapshot()
	if m.window.Grow(len(snap.Disk), snap.DiskTotal) {
		m.remergeKeepSelection()
	}
}

// remergeKeepSelection recomputes the list without resetting the
// selection; used when only the window capacity changed.
func (m *Model) remergeKeepSelection() {
	sel := m.nav.Selection()
	m.remerge()
	m.nav.Restore(sel)
}

func (m *Model) clearAll() {
	m.query = ""
	m.searching = false
	m.merged = search.Merged{}
	m.window.Reset()
	m.nav.Reset()
	m.menu = nil
	m.errorMsg = ""
	m.diskTotal = 0
	m.diskCount = 0
	m.input.Reset()
	m.input.Focus()
}

func (m *Model) selectedResult() *domain.SearchResult {
	sel := m.nav.Selection()
	switch sel.Axis {
	case navigation.AxisHorizontal:
		if sel.Index < len(m.merged.Horizontal) {
			r := m.merged.Horizontal[sel.Index]
			return &r
		}
	case navigation.AxisVertical:
		if sel.Index < len(m.merged.Vertical) {
			r := m.merged.Vertical[sel.Index]
			return &r
		}
	}
	return nil
}

func (m *Model) launchCmd(result domain.SearchResult) tea.Cmd {
	query := m.query
	return func() tea.Msg {
		err := m.launcher.Launch(m.ctx, result, query)
		return launchDoneMsg{result: result, err: err}
	}
}

func (m *Model) revealCmd(result domain.SearchResult) tea.Cmd {
	return func() tea.Msg {
		return revealDoneMsg{err: m.launcher.Reveal(m.ctx, result)}
	}
}

func (m *Model) copyPathCmd(result domain.SearchResult) tea.Cmd {
	return func() tea.Msg {
		return revealDoneMsg{err: clipboard.WriteAll(result.Path)}
	}
}

func (m *Model) loadUsageCmd() tea.Cmd {
	if m.history == nil {
		return nil
	}
	return func() tea.Msg {
		usage, err := m.history.UsageMap(m.ctx)
		return usageLoadedMsg{usage: usage, err: err}
	}
}

// listHeight is the vertical rows available for the result column
func (m *Model) listHeight() int {
	// input line, quick-launch row, status bar
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderHorizontal())
	b.WriteString("\n")
	b.WriteString(m.renderVertical())
	b.WriteString(m.renderStatus())

	if m.menu != nil {
		return lipgloss.JoinVertical(lipgloss.Left, b.String(), m.renderMenu())
	}
	if m.errorMsg != "" {
		return lipgloss.JoinVertical(lipgloss.Left, b.String(),
			m.styles.Overlay.Render(m.styles.StatusError.Render(m.errorMsg)+"\n"+m.styles.Dim.Render("esc to dismiss")))
	}
	return b.String()
}

func (m *Model) renderHorizontal() string {
	if len(m.merged.Horizontal) == 0 {
		return m.styles.Dim.Render(" ")
	}

	sel := m.nav.Selection()
	parts := make([]string, 0, len(m.merged.Horizontal))
	for i, r := range m.merged.Horizontal {
		label := r.DisplayName
		if sel.Axis == navigation.AxisHorizontal && sel.Index == i {
			parts = append(parts, m.styles.QuickSelected.Render(label))
		} else {
			parts = append(parts, m.styles.QuickItem.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderVertical() string {
	if len(m.merged.Vertical) == 0 {
		if m.query != "" && !m.searching {
			return m.styles.Dim.Render("  no results") + "\n"
		}
		return ""
	}

	sel := m.nav.Selection()
	offset := m.nav.ViewportOffset()
	height := m.nav.ViewportHeight()
	end := offset + height
	if end > len(m.merged.Vertical) {
		end = len(m.merged.Vertical)
	}

	var b strings.Builder
	for i := offset; i < end; i++ {
		r := m.merged.Vertical[i]
		line := fmt.Sprintf("%s %s  %s",
			m.styles.KindTag.Render("["+string(r.Kind)+"]"),
			r.DisplayName,
			m.styles.ItemPath.Render(r.Path))
		if sel.Axis == navigation.AxisVertical && sel.Index == i {
			line = m.styles.ItemSelected.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderStatus() string {
	var parts []string

	if m.searching {
		parts = append(parts, "searching…")
	}
	if m.diskCount > 0 && m.diskTotal > m.diskCount {
		parts = append(parts, fmt.Sprintf("%d of %d disk hits", m.diskCount, m.diskTotal))
	}
	if len(m.merged.Vertical) > 0 {
		parts = append(parts, fmt.Sprintf("%d shown", len(m.merged.Vertical)))
	}
	if m.diskStatus != "" {
		parts = append(parts, m.styles.StatusError.Render(m.diskStatus))
	}

	if len(parts) == 0 {
		return m.styles.Status.Render("↑↓ navigate · ←→ quick launch · enter open · esc hide")
	}
	return m.styles.Status.Render(strings.Join(parts, " · "))
}

func (m *Model) renderMenu() string {
	var b strings.Builder
	b.WriteString(m.menu.result.DisplayName)
	b.WriteString("\n")
	for i, action := range menuActions {
		if i == m.menu.index {
			b.WriteString(m.styles.MenuSelected.Render(action))
		} else {
			b.WriteString(m.styles.MenuItem.Render(action))
		}
		b.WriteString("\n")
	}
	return m.styles.Overlay.Render(strings.TrimRight(b.String(), "\n"))
}
