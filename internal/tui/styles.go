package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	primaryColor = lipgloss.Color("#7D56F4") // Purple
	activeColor  = lipgloss.Color("#43BF6D") // Green
	mutedColor   = lipgloss.Color("#626262") // Gray
	alertColor   = lipgloss.Color("#FF8B94") // Pink
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	onStyle = lipgloss.NewStyle().
		Foreground(activeColor).
		Bold(true)

	offStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	alertStyle = lipgloss.NewStyle().
			Foreground(alertColor).
			Bold(true)

	selectedInputStyle = lipgloss.NewStyle().
				Foreground(activeColor).
				Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			PaddingLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)

// renderToggle renders an on/off attribute.
func renderToggle(on bool) string {
	if on {
		return onStyle.Render("on")
	}
	return offStyle.Render("off")
}

// renderVolumeBar renders the volume level as a fixed-width bar.
func renderVolumeBar(volume int, mute bool) string {
	const width = 33 // one cell per three volume steps
	filled := volume * width / 99
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	if mute {
		return alertStyle.Render(bar)
	}
	return onStyle.Render(bar)
}
