package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Accent color for VulnAI branding.
const accentBlue = "#2563EB"

// VULNAI ASCII art banner.
var bannerArt = []string{
	" ██╗   ██╗██╗   ██╗██╗     ███╗   ██╗ █████╗ ██╗",
	" ██║   ██║██║   ██║██║     ████╗  ██║██╔══██╗██║",
	" ██║   ██║██║   ██║██║     ██╔██╗ ██║███████║██║",
	" ╚██╗ ██╔╝██║   ██║██║     ██║╚██╗██║██╔══██║██║",
	"  ╚████╔╝ ╚██████╔╝███████╗██║ ╚████║██║  ██║██║",
	"   ╚═══╝   ╚═════╝ ╚══════╝╚═╝  ╚═══╝╚═╝  ╚═╝╚═╝",
}

// Styles contains all lipgloss styles for the console.
type Styles struct {
	Banner       lipgloss.Style
	User         lipgloss.Style
	Assistant    lipgloss.Style
	ToolOutput   lipgloss.Style
	System       lipgloss.Style
	Error        lipgloss.Style
	Prompt       lipgloss.Style
	Separator    lipgloss.Style
	StatusBar    lipgloss.Style
	Tips         lipgloss.Style
	Category     lipgloss.Style
	CategoryOn   lipgloss.Style
	ToolName     lipgloss.Style
	ToolSelected lipgloss.Style
	ToolDetail   lipgloss.Style
	Modal        lipgloss.Style
	ModalTitle   lipgloss.Style
	FieldLabel   lipgloss.Style
	NotifySuccess lipgloss.Style
	NotifyError   lipgloss.Style
	NotifyWarning lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Banner:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accentBlue)),
		User:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Assistant:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		ToolOutput:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		System:       lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Prompt:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Separator:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		StatusBar:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Tips:         lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Category:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true),
		CategoryOn:   lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color(accentBlue)).Bold(true),
		ToolName:     lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		ToolSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("238")),
		ToolDetail:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(accentBlue)).
			Padding(1, 2),
		ModalTitle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accentBlue)),
		FieldLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		NotifySuccess: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		NotifyError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		NotifyWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
	}
}

// RenderBanner returns the ASCII art banner as a styled string.
func (s Styles) RenderBanner() string {
	var b strings.Builder
	for _, line := range bannerArt {
		_, _ = b.WriteString(s.Banner.Render(line))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

// welcomeTips contains getting started tips displayed under the banner.
var welcomeTips = []string{
	"Tips for getting started:",
	"  • Ask the assistant to run a tool: \"Run Nmap scan on 192.168.1.1\"",
	"  • Say \"add a tool called Nikto\" to register a new scanner",
	"  • Tab switches between chat and the tool catalog",
	"  • Press Ctrl+C to cancel, Ctrl+D to exit",
}

// RenderWelcomeTips returns styled welcome tips.
func (s Styles) RenderWelcomeTips() string {
	var b strings.Builder
	for _, tip := range welcomeTips {
		_, _ = b.WriteString(s.Tips.Render(tip))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}
