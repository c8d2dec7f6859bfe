package main

import "os"

// Process exit codes. Negative codes from the CLI contract are written as
// the value a POSIX shell observes (8-bit two's complement).
const (
	exitCodeQuit     = 0
	exitCodeYes      = 21 // distinct affirmative code, easy to test in shell scripts
	exitCodeSpawn    = 127
	exitCodeArgError = 254 // -2
	exitCodePlatform = 255 // -1
)

// TextSource is what the viewer will own: either literal text, or a command
// line to execute and stream.
type TextSource interface {
	textSource()
}

// StaticText is content known in full at startup.
type StaticText struct {
	Text string
}

// Command is a shell command line whose combined output becomes the content.
type Command struct {
	Line string
}

func (StaticText) textSource() {}
func (Command) textSource()    {}

// ViewerConfig is the per-session configuration, built once from the CLI and
// never mutated afterwards.
type ViewerConfig struct {
	Title         string
	Source        TextSource
	ShowYesButton bool
	WrapLines     bool
	ErrorDisplay  bool
}

// IsScript reports whether the content source is a running command.
func (c ViewerConfig) IsScript() bool {
	_, ok := c.Source.(Command)
	return ok
}

type inputOptions struct {
	inputFile  string
	scriptFile string
	message    string
	gotMessage bool
}

// resolveSource picks the TextSource from the mutually exclusive inputs.
// Exclusivity is validated by the CLI layer before this runs.
//
// An unreadable input file resolves to empty content rather than an error:
// the viewer opens empty instead of crashing mid-bootstrap.
func resolveSource(opts inputOptions) TextSource {
	switch {
	case opts.scriptFile != "":
		return Command{Line: opts.scriptFile}
	case opts.inputFile != "":
		data, err := os.ReadFile(opts.inputFile)
		if err != nil {
			return StaticText{}
		}
		return StaticText{Text: string(data)}
	default:
		return StaticText{Text: decodeEscapes(opts.message)}
	}
}

// resolveTitle applies the title precedence: explicit flag, then the input
// filename, then "Error!!" for error display, then a generic fallback.
func resolveTitle(explicit, inputFile string, errorDisplay bool) string {
	switch {
	case explicit != "":
		return explicit
	case inputFile != "":
		return inputFile
	case errorDisplay:
		return "Error!!"
	default:
		return "Info"
	}
}
