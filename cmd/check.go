package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/watchroom/watchroom/constant"
	"github.com/watchroom/watchroom/icon"
	"github.com/watchroom/watchroom/style"
)

// CheckDependencies exits when mpv is not on PATH. yt-dlp is only reported, since mpv may
// be built with another resolver.
func CheckDependencies() {
	if _, err := exec.LookPath("mpv"); err != nil {
		printMissingDependency("mpv", true)
		os.Exit(1)
	}

	if _, err := exec.LookPath("yt-dlp"); err != nil {
		printMissingDependency("yt-dlp", false)
	}
}

func installHint(dep string) string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install " + dep
	case constant.Linux:
		return "sudo apt install " + dep
	case constant.Windows:
		return "scoop install " + dep
	default:
		return ""
	}
}

func printMissingDependency(dep string, required bool) {
	accent := style.HiRed
	heading := "Error: Missing Dependency"
	if !required {
		accent = style.WarningColor
		heading = "Warning: Missing Dependency"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(accent).Render(fmt.Sprintf("%s %s", icon.Get(icon.Fail), heading))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("'%s' was not found in your PATH.", dep))

	suggestion := ""
	if hint := installHint(dep); hint != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
