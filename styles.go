package main

import "github.com/charmbracelet/lipgloss"

var (
	subtle      = theme.TextMuted
	highlight   = theme.Accent
	panelBorder = theme.Border
	panelBg     = theme.Surface
	textStrong  = theme.TextStrong
	textOnFill  = theme.TextOnAccent

	// Header
	titlePillStyle = lipgloss.NewStyle().
			Foreground(textStrong).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelBorder).
			Padding(0, 1).
			Bold(true)

	titlePillErrorStyle = titlePillStyle.Copy().
				Background(theme.ErrorSurface).
				BorderForeground(theme.ErrorBorder)

	statusPillStyle = lipgloss.NewStyle().
			Foreground(subtle).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelBorder).
			Padding(0, 1)

	// Content panel
	contentBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelBorder).
			Background(panelBg)

	contentBoxErrorStyle = contentBoxStyle.Copy().
				BorderForeground(theme.ErrorBorder).
				Background(theme.ErrorSurface)

	// Footer buttons
	buttonStyle = lipgloss.NewStyle().
			Foreground(subtle).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelBorder).
			Padding(0, 1).
			Align(lipgloss.Center)

	buttonFocusedStyle = buttonStyle.Copy().
				Foreground(textOnFill).
				Background(highlight).
				BorderForeground(highlight).
				Bold(true)

	searchPromptStyle = lipgloss.NewStyle().
				Foreground(subtle)

	searchHighlightStyle = lipgloss.NewStyle().
				Background(theme.SearchBg).
				Foreground(theme.SearchFg).
				Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(subtle).
				Italic(true)
)
