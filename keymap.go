package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// envKeymapFile points to an optional key-remap file loaded at startup.
// Remaps are additive: listed keys are bound alongside the defaults.
const envKeymapFile = "TEXTVIEW_KEYMAP_FILE"

// KeyMap defines the viewer keybindings.
type KeyMap struct {
	Quit        key.Binding
	Select      key.Binding
	FocusNext   key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Follow      key.Binding
	Search      key.Binding
	FindNext    key.Binding
	FindPrev    key.Binding
	CopyAll     key.Binding
	ToggleMouse key.Binding
	ToggleHelp  key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "close")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "press button")),
		FocusNext:   key.NewBinding(key.WithKeys("tab", "left", "right"), key.WithHelp("tab", "switch button")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "space"), key.WithHelp("pgdn", "page down")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g/home", "top")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G/end", "bottom")),
		Follow:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		FindNext:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		FindPrev:    key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev match")),
		CopyAll:     key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy text")),
		ToggleMouse: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mouse")),
		ToggleHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Follow, k.Search, k.CopyAll, k.ToggleHelp}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Follow, k.Search, k.FindNext, k.FindPrev, k.CopyAll},
		{k.Select, k.FocusNext, k.ToggleMouse, k.ToggleHelp, k.Quit},
	}
}

func (k *KeyMap) binding(action string) *key.Binding {
	switch action {
	case "quit":
		return &k.Quit
	case "select":
		return &k.Select
	case "focus_next":
		return &k.FocusNext
	case "up":
		return &k.Up
	case "down":
		return &k.Down
	case "page_up":
		return &k.PageUp
	case "page_down":
		return &k.PageDown
	case "top":
		return &k.Top
	case "bottom":
		return &k.Bottom
	case "follow":
		return &k.Follow
	case "search":
		return &k.Search
	case "find_next":
		return &k.FindNext
	case "find_prev":
		return &k.FindPrev
	case "copy_all":
		return &k.CopyAll
	case "toggle_mouse":
		return &k.ToggleMouse
	case "toggle_help":
		return &k.ToggleHelp
	default:
		return nil
	}
}

// applyKeymapFile reads a remap file of `action = key[,key...]` lines and
// binds the listed keys in addition to the defaults. Blank lines and lines
// starting with '#' are skipped; unknown actions are an error so typos don't
// silently do nothing.
func (k *KeyMap) applyKeymapFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		action, keyList, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("line %d: expected `action = keys`", lineNo)
		}

		binding := k.binding(strings.TrimSpace(action))
		if binding == nil {
			return fmt.Errorf("line %d: unknown action %q", lineNo, strings.TrimSpace(action))
		}

		keys := binding.Keys()
		for _, extra := range strings.Split(keyList, ",") {
			extra = strings.TrimSpace(extra)
			if extra == "" {
				continue
			}
			if !containsKey(keys, extra) {
				keys = append(keys, extra)
			}
		}
		binding.SetKeys(keys...)
	}
	return scanner.Err()
}

// loadKeyMap builds the keymap, applying the env-configured remap file when
// one is set. Load problems are reported but never fatal.
func loadKeyMap() KeyMap {
	km := defaultKeyMap()
	path := os.Getenv(envKeymapFile)
	if path == "" {
		return km
	}
	if err := km.applyKeymapFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Could not load key mappings from file '%s': %v\n", path, err)
	} else {
		fmt.Fprintln(os.Stderr, "Key mappings loaded")
	}
	return km
}

func containsKey(keys []string, k string) bool {
	for _, existing := range keys {
		if existing == k {
			return true
		}
	}
	return false
}
