package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const version = "v0.1.0"

var rootCmd = &cobra.Command{
	Use:   "textview [input_file]",
	Short: "Full-screen text viewer for files, messages and script output",
	Long: `textview renders text in a full-screen terminal viewer.

The text comes from exactly one source: a file given as the positional
argument, an inline message (-m), or a script (-s) whose combined output
is streamed into the viewer while it runs.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runViewer,

	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagScript   string
	flagMessage  string
	flagTitle    string
	flagFontSize int
	flagYes      bool
	flagError    bool
	flagWrap     bool
)

func init() {
	rootCmd.Flags().StringVarP(&flagScript, "script_file", "s", "", "run the script and view its combined output")
	rootCmd.Flags().StringVarP(&flagMessage, "message", "m", "", "view the given message (backslash escapes are decoded)")
	rootCmd.Flags().StringVarP(&flagTitle, "title", "t", "", "window title (defaults to the file name)")
	rootCmd.Flags().IntVarP(&flagFontSize, "font_size", "f", 0, "accepted for compatibility; ignored in terminal rendering")
	rootCmd.Flags().BoolVarP(&flagYes, "yes_button", "y", false, "show Yes/No buttons; Yes exits with a distinct status")
	rootCmd.Flags().BoolVarP(&flagError, "error_display", "e", false, "style the viewer as an error display")
	rootCmd.Flags().BoolVarP(&flagWrap, "wrap_lines", "w", false, "wrap long lines instead of clipping them")
}

func runViewer(cmd *cobra.Command, args []string) error {
	opts := inputOptions{
		scriptFile: flagScript,
		message:    flagMessage,
		gotMessage: cmd.Flags().Changed("message"),
	}
	if len(args) == 1 {
		opts.inputFile = args[0]
	}

	sources := 0
	if opts.inputFile != "" {
		sources++
	}
	if opts.scriptFile != "" {
		sources++
	}
	if opts.gotMessage {
		sources++
	}
	if sources != 1 {
		return fmt.Errorf("exactly one of input_file, --script_file or --message is required")
	}

	cfg := ViewerConfig{
		Title:         resolveTitle(flagTitle, opts.inputFile, flagError),
		Source:        resolveSource(opts),
		ShowYesButton: flagYes,
		WrapLines:     flagWrap,
		ErrorDisplay:  flagError,
	}

	p := tea.NewProgram(NewModel(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", err)
		os.Exit(exitCodePlatform)
	}
	if m, ok := final.(Model); ok {
		os.Exit(m.ExitCode())
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_ = rootCmd.Usage()
		os.Exit(exitCodeArgError)
	}
}
