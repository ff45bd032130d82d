package main

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#F97316") // Orange
	accentColor  = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#EF4444")
	successColor = lipgloss.Color("#22C55E")
	fgColor      = lipgloss.Color("#CDD6F4")
	mutedColor   = lipgloss.Color("#6C7086")
	borderColor  = lipgloss.Color("#45475A")
	selectedBg   = lipgloss.Color("#313244")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	paramStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	paramValueStyle = lipgloss.NewStyle().
			Foreground(fgColor).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(fgColor).
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Background(selectedBg).
				Bold(true).
				PaddingLeft(1)

	summaryStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			PaddingLeft(5)

	cursorStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	toastStyle = lipgloss.NewStyle().
			Foreground(successColor)

	toastErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	mapStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Foreground(mutedColor)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(10)

	tipStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Italic(true)
)
