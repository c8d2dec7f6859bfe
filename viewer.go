package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/reflow/truncate"
)

// Model is the viewer: it owns the text buffer, its visual layout, the
// scroll viewport and the exit decision.
type Model struct {
	cfg  ViewerConfig
	keys KeyMap
	help help.Model

	buffer *TextBuffer
	layout *layoutEngine
	view   viewport.Model

	// Script mode state. stream is nil until the child has been spawned.
	stream   *scriptStream
	runState runnerState

	// following arms auto-scroll: while armed and the viewport sits at the
	// bottom, appended content keeps the tail visible. Scrolling away from
	// the bottom suspends it without disarming.
	following    bool
	mouseEnabled bool

	searchInput  textinput.Model
	inSearchMode bool
	lastSearch   string

	// focusButton is 0 for Yes (or Close), 1 for No.
	focusButton int

	// The exit decision. Set exactly once; later input never changes it.
	decided  bool
	exitCode int

	width  int
	height int
}

func NewModel(cfg ViewerConfig) Model {
	m := Model{
		cfg:          cfg,
		keys:         loadKeyMap(),
		help:         help.New(),
		layout:       newLayoutEngine(cfg.WrapLines),
		following:    true,
		mouseEnabled: true,
	}

	if text, ok := cfg.Source.(StaticText); ok {
		m.buffer = newTextBuffer(text.Text)
	} else {
		m.buffer = newTextBuffer("")
	}

	ti := textinput.New()
	ti.Placeholder = "Type to search"
	ti.CharLimit = 156
	ti.Width = 30
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(textStrong)
	ti.PlaceholderStyle = placeholderStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(highlight)
	m.searchInput = ti

	m.view = viewport.New(78, 20)
	// The viewer claims f/b/u/d for its own bindings; restrict the viewport
	// to the uncontested paging keys and let the keymap drive the rest.
	m.view.KeyMap.PageDown.SetKeys("pgdown")
	m.view.KeyMap.PageUp.SetKeys("pgup")
	m.view.KeyMap.HalfPageUp.SetKeys("u")
	m.view.KeyMap.HalfPageDown.SetKeys("d")

	width, height := detectTerminalSize()
	m.applyWindowSize(width, height)

	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{initialWindowSizeCmd()}
	if cmd, ok := m.cfg.Source.(Command); ok {
		cmds = append(cmds, startScriptCmd(cmd.Line))
	}
	return tea.Batch(cmds...)
}

// ExitCode returns the terminal status the process should exit with. It is
// only meaningful once the program has finished.
func (m Model) ExitCode() int {
	if !m.decided {
		return exitCodeQuit
	}
	return m.exitCode
}

// decide records the exit decision. The first caller wins; once set the
// decision is immutable.
func (m *Model) decide(code int) {
	if m.decided {
		return
	}
	m.decided = true
	m.exitCode = code
}

// quitCmds tears down a still-running script before quitting.
func (m *Model) quitCmds() tea.Cmd {
	if m.runState == runnerRunning {
		stream := m.stream
		m.stream = nil
		m.runState = runnerExited
		return tea.Sequence(cleanupScriptCmd(stream), tea.Quit)
	}
	return tea.Quit
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	// The decision is terminal: whatever arrives afterwards is ignored while
	// the program shuts down. The one exception is a spawn that lost the
	// race with the decision: its child still has to be killed and reaped.
	if m.decided {
		if started, ok := msg.(scriptStartedMsg); ok {
			return m, cleanupScriptCmd(started.stream)
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Some terminals briefly report zero dimensions during font or
		// window changes; fall back to the last known or a default size.
		width := msg.Width
		height := msg.Height
		if width <= 0 {
			if m.width > 0 {
				width = m.width
			} else {
				width, _ = detectTerminalSize()
			}
		}
		if height <= 0 {
			if m.height > 0 {
				height = m.height
			} else {
				_, height = detectTerminalSize()
			}
		}
		m.applyWindowSize(width, height)

	case scriptStartedMsg:
		m.stream = msg.stream
		m.runState = runnerRunning
		cmds = append(cmds, waitForChunkCmd(m.stream))

	case scriptSpawnErrMsg:
		// The launch is attempted exactly once; the failure is surfaced in
		// the buffer and the session ends with the spawn sentinel.
		m.runState = runnerExited
		m.buffer.AppendString(fmt.Sprintf("Failed to execute script: %v\n", msg.err))
		m.refreshContent()
		m.decide(exitCodeSpawn)
		return m, tea.Quit

	case scriptChunkMsg:
		stick := m.following && m.view.AtBottom()
		m.buffer.Append(msg.data)
		m.refreshContent()
		if stick {
			m.view.GotoBottom()
		}
		if m.stream != nil {
			cmds = append(cmds, waitForChunkCmd(m.stream))
		}

	case scriptExitMsg:
		m.runState = runnerExited
		m.stream = nil
		m.decide(msg.code)
		return m, tea.Quit

	case tea.KeyMsg:
		// Keystrokes go to the search field while it is open; script and
		// window messages above are handled either way, so a running stream
		// keeps pumping behind the search bar.
		if m.inSearchMode {
			switch msg.String() {
			case "enter":
				m.inSearchMode = false
				m.lastSearch = m.searchInput.Value()
				m.searchInput.Blur()
				m.performSearch(m.lastSearch, true)
				m.refreshContent()
				m.applyWindowSize(m.width, m.height)
				return m, nil
			case "esc":
				m.inSearchMode = false
				m.searchInput.Blur()
				m.refreshContent()
				m.applyWindowSize(m.width, m.height)
				return m, nil
			}
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.refreshContent()
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.decide(exitCodeQuit)
			return m, m.quitCmds()
		case key.Matches(msg, m.keys.Select):
			if m.cfg.ShowYesButton && m.focusButton == 0 {
				m.decide(exitCodeYes)
			} else {
				m.decide(exitCodeQuit)
			}
			return m, m.quitCmds()
		case key.Matches(msg, m.keys.FocusNext):
			if m.cfg.ShowYesButton {
				m.focusButton = (m.focusButton + 1) % 2
			}
		case key.Matches(msg, m.keys.Up):
			m.scrollBy(-1)
		case key.Matches(msg, m.keys.Down):
			m.scrollBy(1)
		case key.Matches(msg, m.keys.PageUp):
			m.pageUp()
		case key.Matches(msg, m.keys.PageDown):
			m.pageDown()
		case key.Matches(msg, m.keys.Top):
			m.scrollToTop()
		case key.Matches(msg, m.keys.Bottom):
			m.scrollToBottom()
		case key.Matches(msg, m.keys.Follow):
			m.following = !m.following
			if m.following {
				m.view.GotoBottom()
			}
		case key.Matches(msg, m.keys.Search):
			m.inSearchMode = true
			m.searchInput.SetValue("")
			if focusCmd := m.searchInput.Focus(); focusCmd != nil {
				cmds = append(cmds, focusCmd)
			}
			m.applyWindowSize(m.width, m.height)
			return m, tea.Batch(cmds...)
		case key.Matches(msg, m.keys.FindNext):
			if m.lastSearch != "" {
				m.performSearch(m.lastSearch, true)
			}
		case key.Matches(msg, m.keys.FindPrev):
			if m.lastSearch != "" {
				m.performSearch(m.lastSearch, false)
			}
		case key.Matches(msg, m.keys.CopyAll):
			if m.buffer.Len() > 0 {
				cmds = append(cmds, osc52CopyCmd(m.buffer.String()))
			}
			return m, tea.Batch(cmds...)
		case key.Matches(msg, m.keys.ToggleHelp):
			m.help.ShowAll = !m.help.ShowAll
			m.applyWindowSize(m.width, m.height)
		case key.Matches(msg, m.keys.ToggleMouse):
			m.mouseEnabled = !m.mouseEnabled
			if m.mouseEnabled {
				cmds = append(cmds, tea.EnableMouseCellMotion)
			} else {
				cmds = append(cmds, tea.DisableMouse)
			}
		default:
			m.view, cmd = m.view.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		m.view, cmd = m.view.Update(msg)
		cmds = append(cmds, cmd)

	default:
		if m.inSearchMode {
			m.searchInput, cmd = m.searchInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// --- Navigation ---

// maxYOffset is the largest valid scroll offset for the current content.
func (m *Model) maxYOffset() int {
	max := m.layout.LineCount() - m.view.Height
	if max < 0 {
		return 0
	}
	return max
}

// scrollBy moves the viewport by delta lines, clamped to the valid range.
func (m *Model) scrollBy(delta int) {
	y := m.view.YOffset + delta
	if y < 0 {
		y = 0
	}
	if max := m.maxYOffset(); y > max {
		y = max
	}
	m.view.YOffset = y
}

func (m *Model) pageUp() {
	m.scrollBy(-m.view.Height)
}

func (m *Model) pageDown() {
	m.scrollBy(m.view.Height)
}

func (m *Model) scrollToTop() {
	m.view.GotoTop()
}

func (m *Model) scrollToBottom() {
	m.view.GotoBottom()
}

// --- Layout & content ---

// applyWindowSize recomputes the frame geometry and re-syncs the layout to
// the new content width.
func (m *Model) applyWindowSize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	m.width = width
	m.height = height
	m.help.Width = width - 2

	searchWidth := width - 12
	if searchWidth < 20 {
		searchWidth = 20
	}
	m.searchInput.Width = searchWidth

	headerH := lipgloss.Height(m.renderHeader())
	buttonsH := lipgloss.Height(m.renderButtons())
	helpH := lipgloss.Height(m.help.View(m.keys))
	searchH := 0
	if m.inSearchMode {
		searchH = 1
	}

	// Content box border eats two rows and two columns.
	innerH := height - headerH - buttonsH - helpH - searchH - 2
	if innerH < 1 {
		innerH = 1
	}
	innerW := width - 2
	if innerW < 1 {
		innerW = 1
	}

	wasAtBottom := m.view.AtBottom()
	m.view.Width = innerW
	m.view.Height = innerH

	m.refreshContent()
	if m.following && wasAtBottom {
		m.view.GotoBottom()
	}
}

// refreshContent re-syncs the layout with the buffer and rebuilds the
// viewport content from the visual line spans.
func (m *Model) refreshContent() {
	m.layout.Sync(m.buffer, m.view.Width)

	needle := strings.ToLower(m.activeSearchTerm())
	var b strings.Builder
	for i, vl := range m.layout.Lines() {
		if i > 0 {
			b.WriteByte('\n')
		}
		line := cleanLine(lineText(m.buffer, vl))
		if !m.cfg.WrapLines {
			// Without wrapping, long lines are clipped at the viewport edge.
			line = truncate.String(line, uint(m.view.Width))
		}
		if needle != "" {
			line = highlightMatches(line, needle)
		}
		b.WriteString(line)
	}
	m.view.SetContent(b.String())
}

func (m *Model) activeSearchTerm() string {
	if m.inSearchMode {
		if val := strings.TrimSpace(m.searchInput.Value()); val != "" {
			return val
		}
	}
	return strings.TrimSpace(m.lastSearch)
}

// performSearch jumps the viewport to the next visual line containing the
// query, wrapping around the buffer, case-insensitively.
func (m *Model) performSearch(query string, forward bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return
	}

	lines := m.layout.Lines()
	if len(lines) == 0 {
		return
	}

	match := func(i int) bool {
		return strings.Contains(strings.ToLower(lineText(m.buffer, lines[i])), query)
	}

	current := m.view.YOffset
	found := -1
	if forward {
		start := current + 1
		if start >= len(lines) {
			start = 0
		}
		for i := start; i < len(lines); i++ {
			if match(i) {
				found = i
				break
			}
		}
		if found == -1 {
			for i := 0; i < start; i++ {
				if match(i) {
					found = i
					break
				}
			}
		}
	} else {
		start := current - 1
		if start < 0 {
			start = len(lines) - 1
		}
		for i := start; i >= 0; i-- {
			if match(i) {
				found = i
				break
			}
		}
		if found == -1 {
			for i := len(lines) - 1; i > start; i-- {
				if match(i) {
					found = i
					break
				}
			}
		}
	}

	if found != -1 {
		y := found
		if max := m.maxYOffset(); y > max {
			y = max
		}
		m.view.YOffset = y
	}
}

// --- Rendering ---

func (m Model) View() string {
	header := m.renderHeader()
	boxStyle := contentBoxStyle
	if m.cfg.ErrorDisplay {
		boxStyle = contentBoxErrorStyle
	}
	content := boxStyle.Width(m.width - 2).Render(m.view.View())
	buttons := m.renderButtons()

	sections := []string{header, content}
	if m.inSearchMode {
		sections = append(sections, m.renderSearchBar())
	}
	sections = append(sections, buttons, m.help.View(m.keys))

	full := lipgloss.JoinVertical(lipgloss.Left, sections...)
	full = clampViewHeight(full, m.height)
	full = clampViewWidth(full, m.width)
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, full)
}

func (m Model) renderHeader() string {
	titleStyle := titlePillStyle
	if m.cfg.ErrorDisplay {
		titleStyle = titlePillErrorStyle
	}

	title := m.cfg.Title
	maxTitle := m.width / 2
	if maxTitle > 8 && lipgloss.Width(title) > maxTitle {
		title = truncate.String(title, uint(maxTitle))
	}

	parts := []string{titleStyle.Render(title)}

	scroll := fmt.Sprintf("%.0f%%", m.view.ScrollPercent()*100)
	if m.view.AtTop() {
		scroll = "Top"
	} else if m.view.AtBottom() {
		scroll = "Bot"
	}
	status := scroll
	if m.runState == runnerRunning {
		status += " [RUNNING]"
	}
	if m.following && m.cfg.IsScript() {
		status += " [FOLLOW]"
	}
	if m.mouseEnabled {
		status += " [MOUSE]"
	}
	parts = append(parts, statusPillStyle.Render(status))

	row := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(row)
}

func (m Model) renderButtons() string {
	buttonWidth := m.width / 3
	if buttonWidth < 8 {
		buttonWidth = 8
	}

	if !m.cfg.ShowYesButton {
		btn := buttonFocusedStyle.Width(buttonWidth).Render("Close")
		return lipgloss.Place(m.width, lipgloss.Height(btn), lipgloss.Center, lipgloss.Top, btn)
	}

	yesStyle, noStyle := buttonFocusedStyle, buttonStyle
	if m.focusButton == 1 {
		yesStyle, noStyle = buttonStyle, buttonFocusedStyle
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		yesStyle.Width(buttonWidth).Render("Yes"),
		" ",
		noStyle.Width(buttonWidth).Render("No"),
	)
	return lipgloss.Place(m.width, lipgloss.Height(row), lipgloss.Center, lipgloss.Top, row)
}

func (m Model) renderSearchBar() string {
	bar := searchPromptStyle.Render("/ ") + m.searchInput.View()
	return lipgloss.NewStyle().MaxWidth(m.width).Render(bar)
}

// --- Helpers ---

var ansiCursorRegexp = regexp.MustCompile(`\x1b\[[0-9;]*[A-KSTf]`)

// cleanLine strips ANSI cursor movement codes and resolves carriage-return
// overwrites so progress-style script output renders as its final state.
func cleanLine(line string) string {
	line = ansiCursorRegexp.ReplaceAllString(line, "")
	line = strings.TrimRight(line, "\r")
	if idx := strings.LastIndex(line, "\r"); idx != -1 {
		return line[idx+1:]
	}
	return line
}

func highlightMatches(line, needle string) string {
	if needle == "" || strings.TrimSpace(line) == "" {
		return line
	}

	lowerLine := strings.ToLower(line)
	var b strings.Builder
	i := 0

	for i < len(line) {
		idx := strings.Index(lowerLine[i:], needle)
		if idx == -1 {
			b.WriteString(line[i:])
			break
		}
		start := i + idx
		end := start + len(needle)
		b.WriteString(line[i:start])
		b.WriteString(searchHighlightStyle.Render(line[start:end]))
		i = end
	}
	return b.String()
}

func clampViewWidth(view string, width int) string {
	if width <= 0 {
		return view
	}
	lines := strings.Split(strings.ReplaceAll(view, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = truncate.String(line, uint(width))
		}
	}
	return strings.Join(lines, "\n")
}

func clampViewHeight(view string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(strings.ReplaceAll(view, "\r\n", "\n"), "\n")
	if len(lines) <= height {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:height], "\n")
}

func initialWindowSizeCmd() tea.Cmd {
	return func() tea.Msg {
		width, height := detectTerminalSize()
		return tea.WindowSizeMsg{Width: width, Height: height}
	}
}

func detectTerminalSize() (int, int) {
	width, height, err := term.GetSize(os.Stdout.Fd())
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}

func osc52CopyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		seq := osc52.New(text).Limit(100 * 1024)

		termName := strings.ToLower(os.Getenv("TERM"))
		if tmux := os.Getenv("TMUX"); tmux != "" || strings.HasPrefix(termName, "tmux") {
			seq = seq.Tmux()
		} else if strings.HasPrefix(termName, "screen") {
			seq = seq.Screen()
		}

		_, _ = seq.WriteTo(os.Stdout)
		return nil
	}
}
