package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#c4302b")
	muted  = lipgloss.Color("#6b7280")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#1d2129")).Padding(0, 1)
	headingStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(muted)
	priceStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	selectedStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(accent).PaddingLeft(1)
	rowStyle      = lipgloss.NewStyle().PaddingLeft(2)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	tagStyle      = lipgloss.NewStyle().Background(lipgloss.Color("#2a3850")).Foreground(lipgloss.Color("#f2f2f2")).Padding(0, 1)
	labelStyle    = lipgloss.NewStyle().Width(16).Foreground(muted)
)
