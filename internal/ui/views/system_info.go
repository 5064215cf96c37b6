package views

import (
	"github.com/hance08/teller/internal/ui"
	"github.com/pterm/pterm"
)

type SystemInfoItem struct {
	ConfigPath string
	BackendURL string
	DBPath     string
	DBExists   bool
	Currency   string
	Locale     string
	LogLevel   string
	AppDataDir string

	// Limits are label/value pairs, already formatted.
	Limits [][2]string
}

func RenderSystemInfo(data SystemInfoItem) error {
	devDB := pterm.Green("Found")
	if !data.DBExists {
		devDB = pterm.Red("Not Found (created by teller serve)")
	}

	ui.PrintL2Title("Environment")
	env := pterm.TableData{
		{"Configuration File", data.ConfigPath},
		{"AppData Directory", data.AppDataDir},
		{"Backend URL", data.BackendURL},
		{"Dev Database", data.DBPath},
		{"Dev Database Status", devDB},
		{"Display", data.Currency + " / " + data.Locale},
		{"Log Level", data.LogLevel},
	}
	if err := pterm.DefaultTable.WithData(env).Render(); err != nil {
		return err
	}

	pterm.Println()
	ui.PrintL2Title("Transaction Limits")
	limits := pterm.TableData{}
	for _, l := range data.Limits {
		limits = append(limits, []string{l[0], l[1]})
	}
	return pterm.DefaultTable.WithData(limits).Render()
}
