package tui

import "github.com/charmbracelet/lipgloss"

// Saturday-morning-cartoon palette
const (
	colorMarquee = "#FF8C1A"
	colorGo      = "#2BB673"
	colorCut     = "#E23D28"
	colorDim     = "#7A7A7A"
	colorInk     = "#1F1F1F"
	colorFrame   = "#FFB657"
)

var (
	MarqueeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorMarquee)).
			MarginTop(1).
			MarginBottom(1)

	ProgressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGo))

	AlertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorCut)).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorDim))

	// CardStyle frames the finished-cartoon summary.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(colorFrame)).
			Padding(1, 3)

	BannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorInk)).
			Background(lipgloss.Color(colorMarquee)).
			Padding(0, 1)
)
