// Package color names the ANSI colors used by the CLI output.
package color

import "github.com/charmbracelet/lipgloss"

// New initializes a lipgloss.Color from a string value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
)

var (
	HiRed    = New("9")
	HiPurple = New("13")
	HiCyan   = New("14")
)

var (
	Orange = New("#ffb703")
	Gray   = New("#808080")
)
