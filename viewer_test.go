package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T, cfg ViewerConfig) Model {
	t.Helper()
	if cfg.Title == "" {
		cfg.Title = "Test"
	}
	m := NewModel(cfg)
	m.applyWindowSize(60, 14)
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func updateModel(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	model, _ := m.Update(msg)
	next, ok := model.(Model)
	if !ok {
		t.Fatalf("Update returned %T", model)
	}
	return next
}

func manyLines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("line ")
		b.WriteByte(byte('a' + i%26))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestQuitKeyDecidesZero(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: "hello\n"}})
	m = updateModel(t, m, keyRune('q'))
	if !m.decided || m.ExitCode() != exitCodeQuit {
		t.Fatalf("decided=%v code=%d", m.decided, m.ExitCode())
	}
}

func TestEnterWithoutYesButtonDecidesZero(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: "hello\n"}})
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.ExitCode() != exitCodeQuit {
		t.Fatalf("code = %d, want %d", m.ExitCode(), exitCodeQuit)
	}
}

func TestYesButtonFocusedFirstAndConfirms(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: "sure?\n"}, ShowYesButton: true})
	if m.focusButton != 0 {
		t.Fatalf("initial focus = %d, want Yes", m.focusButton)
	}
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.ExitCode() != exitCodeYes {
		t.Fatalf("code = %d, want %d", m.ExitCode(), exitCodeYes)
	}
}

func TestTabMovesFocusToNoButton(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: "sure?\n"}, ShowYesButton: true})
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.ExitCode() != exitCodeQuit {
		t.Fatalf("code = %d, want %d", m.ExitCode(), exitCodeQuit)
	}
}

func TestExitDecisionIsSetExactlyOnce(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: Command{Line: "true"}})
	m = updateModel(t, m, keyRune('q'))
	// A late script exit must not overwrite the user's decision.
	m = updateModel(t, m, scriptExitMsg{code: 42})
	if m.ExitCode() != exitCodeQuit {
		t.Fatalf("code = %d, want %d", m.ExitCode(), exitCodeQuit)
	}
}

func TestScriptExitDrivesExitCode(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: Command{Line: "exit 5"}})
	m = updateModel(t, m, scriptExitMsg{code: 5})
	if !m.decided || m.ExitCode() != 5 {
		t.Fatalf("decided=%v code=%d", m.decided, m.ExitCode())
	}
}

func TestSpawnFailureUsesSentinelAndSurfacesError(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: Command{Line: "whatever"}})
	m = updateModel(t, m, scriptSpawnErrMsg{err: errFake("boom")})
	if m.ExitCode() != exitCodeSpawn {
		t.Fatalf("code = %d, want %d", m.ExitCode(), exitCodeSpawn)
	}
	if !strings.Contains(m.buffer.String(), "boom") {
		t.Errorf("buffer missing error text: %q", m.buffer.String())
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }

func TestScrollUpClampsAtTop(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: manyLines(30)}})
	for i := 0; i < 5; i++ {
		m = updateModel(t, m, keyRune('k'))
	}
	if m.view.YOffset != 0 {
		t.Fatalf("YOffset = %d, want 0", m.view.YOffset)
	}
}

func TestScrollDownClampsAtBottom(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: manyLines(30)}})
	for i := 0; i < 100; i++ {
		m = updateModel(t, m, keyRune('j'))
	}
	max := m.layout.LineCount() - m.view.Height
	if m.view.YOffset != max {
		t.Fatalf("YOffset = %d, want %d", m.view.YOffset, max)
	}
	if !m.view.AtBottom() {
		t.Error("not at bottom after clamped scroll")
	}
}

func TestTopAndBottomKeys(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: manyLines(30)}})
	m = updateModel(t, m, keyRune('G'))
	if !m.view.AtBottom() {
		t.Fatal("G did not reach bottom")
	}
	m = updateModel(t, m, keyRune('g'))
	if m.view.YOffset != 0 {
		t.Fatalf("g left YOffset at %d", m.view.YOffset)
	}
}

func TestAutoFollowSticksToBottom(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: Command{Line: "stream"}})
	for i := 0; i < 30; i++ {
		m = updateModel(t, m, scriptChunkMsg{data: []byte("chunk line\n")})
	}
	if !m.view.AtBottom() {
		t.Fatalf("viewport drifted from bottom, YOffset=%d", m.view.YOffset)
	}
}

func TestScrolledAwayDoesNotJumpOnAppend(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: Command{Line: "stream"}})
	for i := 0; i < 30; i++ {
		m = updateModel(t, m, scriptChunkMsg{data: []byte("chunk line\n")})
	}
	m = updateModel(t, m, keyRune('g'))
	m = updateModel(t, m, scriptChunkMsg{data: []byte("more output\n")})
	if m.view.YOffset != 0 {
		t.Fatalf("appending moved the viewport to %d", m.view.YOffset)
	}
}

func TestFollowKeyReArmsAndJumps(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: Command{Line: "stream"}})
	for i := 0; i < 30; i++ {
		m = updateModel(t, m, scriptChunkMsg{data: []byte("chunk line\n")})
	}
	m = updateModel(t, m, keyRune('g'))
	m = updateModel(t, m, keyRune('f')) // toggles off
	m = updateModel(t, m, keyRune('f')) // toggles on, jumps to bottom
	if !m.view.AtBottom() {
		t.Fatalf("follow did not jump to bottom, YOffset=%d", m.view.YOffset)
	}
}

func TestZeroSizeWindowMsgKeepsLastGoodSize(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: "hi\n"}})
	w, h := m.width, m.height
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 0, Height: 0})
	if m.width != w || m.height != h {
		t.Fatalf("size collapsed to %dx%d", m.width, m.height)
	}
}

func TestResizeRewrapsContent(t *testing.T) {
	long := strings.Repeat("word ", 40) + "\n"
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: long}, WrapLines: true})
	before := m.layout.LineCount()
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 30, Height: 14})
	if m.layout.LineCount() <= before {
		t.Fatalf("narrower width produced %d lines, had %d", m.layout.LineCount(), before)
	}
}

func TestSearchJumpsToMatch(t *testing.T) {
	text := manyLines(20) + "needle here\n" + manyLines(20)
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: text}})
	m.performSearch("needle", true)
	got := lineText(m.buffer, m.layout.Lines()[m.view.YOffset])
	if !strings.Contains(got, "needle") {
		t.Fatalf("landed on %q", got)
	}
}

func TestSearchWrapsAround(t *testing.T) {
	text := "needle first\n" + manyLines(30)
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: text}})
	m = updateModel(t, m, keyRune('G'))
	m.performSearch("needle", true)
	if m.view.YOffset != 0 {
		t.Fatalf("YOffset = %d, want 0", m.view.YOffset)
	}
}

func TestSlashEntersSearchMode(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: "hi\n"}})
	m = updateModel(t, m, keyRune('/'))
	if !m.inSearchMode {
		t.Fatal("search mode not entered")
	}
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.inSearchMode {
		t.Fatal("esc did not leave search mode")
	}
}

func TestScriptOutputArrivesWhileSearching(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: Command{Line: "stream"}})
	m = updateModel(t, m, scriptChunkMsg{data: []byte("before search\n")})
	m = updateModel(t, m, keyRune('/'))
	m = updateModel(t, m, scriptChunkMsg{data: []byte("during search\n")})
	if !strings.Contains(m.buffer.String(), "during search") {
		t.Fatalf("chunk dropped while searching: %q", m.buffer.String())
	}
}

func TestScriptExitDecidesWhileSearching(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: Command{Line: "exit 3"}})
	m = updateModel(t, m, keyRune('/'))
	m = updateModel(t, m, scriptExitMsg{code: 3})
	if !m.decided || m.ExitCode() != 3 {
		t.Fatalf("decided=%v code=%d, want 3", m.decided, m.ExitCode())
	}
}

func TestChunkPumpSurvivesSearchMode(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: Command{Line: "stream"}})
	stream := &scriptStream{chunks: make(chan []byte, 1)}
	m = updateModel(t, m, scriptStartedMsg{stream: stream})
	m = updateModel(t, m, keyRune('/'))

	model, cmd := m.Update(scriptChunkMsg{data: []byte("x\n")})
	m = model.(Model)
	if cmd == nil {
		t.Fatal("pump not re-armed while searching")
	}
	// Leaving search mode, the stream is still the model's.
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.stream != stream {
		t.Fatal("stream lost across search mode")
	}
}

func TestSpawnRacingQuitIsCleanedUp(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: Command{Line: "sleep 30"}})
	m = updateModel(t, m, keyRune('q'))

	msg := startScriptCmd("sleep 30")()
	started, ok := msg.(scriptStartedMsg)
	if !ok {
		t.Fatalf("expected scriptStartedMsg, got %#v", msg)
	}

	_, cmd := m.Update(started)
	if cmd == nil {
		t.Fatal("no cleanup for a spawn that lost the race with quit")
	}
	cmd()
	if started.stream.cmd.ProcessState == nil {
		t.Fatal("child was not reaped")
	}
}

func TestInputIgnoredAfterDecision(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: manyLines(30)}})
	m = updateModel(t, m, keyRune('G'))
	offset := m.view.YOffset
	m = updateModel(t, m, keyRune('q'))
	m = updateModel(t, m, keyRune('g'))
	if m.view.YOffset != offset {
		t.Fatal("navigation processed after exit decision")
	}
}

func TestViewRendersWithinBounds(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Source: StaticText{Text: manyLines(50)}, ShowYesButton: true})
	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) > m.height {
		t.Fatalf("view has %d lines, viewport height is %d", len(lines), m.height)
	}
}

func TestErrorDisplayTitleStyling(t *testing.T) {
	m := newTestModel(t, ViewerConfig{Title: "Error!!", Source: StaticText{Text: "bad\n"}, ErrorDisplay: true})
	if !strings.Contains(m.View(), "Error!!") {
		t.Fatal("title missing from view")
	}
}
