package ui

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

var (
	titleStyle    = pterm.NewStyle(pterm.BgCyan, pterm.FgBlack, pterm.Bold)
	subtitleStyle = pterm.NewStyle(pterm.FgCyan, pterm.Bold)

	PendingStyle = pterm.NewStyle(pterm.FgYellow)
	SuccessStyle = pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	ErrorStyle   = pterm.NewStyle(pterm.FgRed)
)

const separatorWidth = 40

// PrintL1Title prints a padded banner, used for the dashboard greeting.
func PrintL1Title(format string, a ...any) {
	titleStyle.Println(fmt.Sprintf(" %s   ", fmt.Sprintf(format, a...)))
}

// PrintL2Title prints a section heading such as a transaction panel.
func PrintL2Title(format string, a ...any) {
	subtitleStyle.Println(fmt.Sprintf("# %s", fmt.Sprintf(format, a...)))
}

func PrintSeparator() {
	pterm.Println(pterm.Green(strings.Repeat("-", separatorWidth)))
}
