package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveSourceScriptWinsOverNothing(t *testing.T) {
	src := resolveSource(inputOptions{scriptFile: "echo hi"})
	cmd, ok := src.(Command)
	if !ok {
		t.Fatalf("expected Command source, got %T", src)
	}
	if cmd.Line != "echo hi" {
		t.Errorf("command line = %q", cmd.Line)
	}
}

func TestResolveSourceReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.txt")
	if err := os.WriteFile(path, []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := resolveSource(inputOptions{inputFile: path})
	text, ok := src.(StaticText)
	if !ok {
		t.Fatalf("expected StaticText source, got %T", src)
	}
	if text.Text != "hello\nworld\n" {
		t.Errorf("text = %q", text.Text)
	}
}

func TestResolveSourceUnreadableFileIsEmpty(t *testing.T) {
	src := resolveSource(inputOptions{inputFile: filepath.Join(t.TempDir(), "missing.txt")})
	text, ok := src.(StaticText)
	if !ok {
		t.Fatalf("expected StaticText source, got %T", src)
	}
	if text.Text != "" {
		t.Errorf("expected empty content, got %q", text.Text)
	}
}

func TestResolveSourceMessageDecodesEscapes(t *testing.T) {
	src := resolveSource(inputOptions{message: `one\ntwo`, gotMessage: true})
	text, ok := src.(StaticText)
	if !ok {
		t.Fatalf("expected StaticText source, got %T", src)
	}
	if text.Text != "one\ntwo" {
		t.Errorf("text = %q", text.Text)
	}
}

func TestResolveTitlePrecedence(t *testing.T) {
	cases := []struct {
		name     string
		explicit string
		file     string
		errDisp  bool
		want     string
	}{
		{"explicit wins", "My Title", "file.txt", true, "My Title"},
		{"filename next", "", "file.txt", true, "file.txt"},
		{"error fallback", "", "", true, "Error!!"},
		{"generic fallback", "", "", false, "Info"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveTitle(tc.explicit, tc.file, tc.errDisp); got != tc.want {
				t.Errorf("resolveTitle = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestViewerConfigIsScript(t *testing.T) {
	if (ViewerConfig{Source: StaticText{Text: "x"}}).IsScript() {
		t.Error("static text reported as script")
	}
	if !(ViewerConfig{Source: Command{Line: "ls"}}).IsScript() {
		t.Error("command not reported as script")
	}
}
