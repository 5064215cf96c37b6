package cmd

import (
	"os"
	"strconv"

	"github.com/hance08/teller/internal/app"
	"github.com/hance08/teller/internal/ui/views"
	"github.com/spf13/cobra"
)

type infoRunner struct {
	app *app.App
}

func NewInfoCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, backend, database path and transaction limits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{
				app: application,
			}

			return runner.Run()
		},
	}
}

func (r *infoRunner) Run() error {
	conf := r.app.Config

	configPath := conf.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	dbPath, err := app.DatabasePath(conf)
	if err != nil {
		dbPath = "Unknown"
	}

	dbExists := false
	if _, err := os.Stat(dbPath); err == nil {
		dbExists = true
	}

	money := r.app.Service.Formatter
	engineLimits := r.app.Service.Engine.Limits()

	items := views.SystemInfoItem{
		ConfigPath: configPath,
		BackendURL: r.app.Backend.BaseURL(),
		DBPath:     dbPath,
		DBExists:   dbExists,
		Currency:   money.Code(),
		Locale:     conf.Display.Locale,
		LogLevel:   conf.Log.Level,
		AppDataDir: getAppDataDirOrUnknown(),
		Limits: [][2]string{
			{"Max Deposit", money.Format(engineLimits.MaxDepositAmount)},
			{"Min Withdrawal", money.Format(engineLimits.MinWithdrawalAmount)},
			{"Max Withdrawal", money.Format(engineLimits.MaxWithdrawalAmount)},
			{"Max Daily Withdrawal", money.Format(engineLimits.MaxDailyWithdrawalTotal)},
			{"Withdrawal Increment", money.Format(engineLimits.WithdrawalIncrement)},
			{"Release Failed Withdrawals", strconv.FormatBool(conf.Limits.ReleaseFailedWithdrawals)},
		},
	}

	return views.RenderSystemInfo(items)
}

func getAppDataDirOrUnknown() string {
	dir, err := app.DataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
