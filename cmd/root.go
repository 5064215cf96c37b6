package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"unicode"

	"github.com/hance08/teller/cmd/account"
	"github.com/hance08/teller/internal/app"
	"github.com/hance08/teller/internal/config"
	"github.com/hance08/teller/internal/constants"
	"github.com/hance08/teller/internal/model"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
)

func Execute(migrations fs.FS) {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	application := &app.App{}
	cleanup := func() {}

	rootCmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "teller is a terminal banking dashboard",
		Long: `teller is a terminal banking dashboard.
It checks deposits and withdrawals against the account rules before sending
them to the bank backend, and tracks the status of each request.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}

			built, closeApp, err := app.NewApp(cfg, migrations)
			if err != nil {
				return err
			}
			*application = *built
			cleanup = closeApp
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "set the config file path")

	rootCmd.AddCommand(account.NewAccountCmd(application))

	rootCmd.AddCommand(NewDashboardCmd(application))
	rootCmd.AddCommand(NewTransactCmd(application, model.KindDeposit))
	rootCmd.AddCommand(NewTransactCmd(application, model.KindWithdraw))
	rootCmd.AddCommand(NewServeCmd(application))
	rootCmd.AddCommand(NewInfoCmd(application))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	cleanup()

	if err != nil {
		errMsg := err.Error()
		displayMsg := capitalize(errMsg)

		pterm.Error.Println(displayMsg)
		os.Exit(1)
	}
}

func initConfig() error {
	setDefaults(config.NewDefault())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		appDir, err := app.DataDir()
		if err != nil {
			return fmt.Errorf("error getting app dir: %w", err)
		}

		viper.AddConfigPath(appDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if err := createDefaultConfig(appDir); err != nil {
			return fmt.Errorf("failed to ensure config file: %w", err)
		}
	}

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // allow using environment variables to override

	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("config file error: %w", err)
		}
	}

	cfg = config.NewDefault()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode into struct, %v", err)
	}

	cfg.ConfigPath = viper.ConfigFileUsed()

	return nil
}

// setDefaults registers every config key so env overrides apply and the
// first-run file lists all settings.
func setDefaults(d *config.Config) {
	viper.SetDefault("backend.base_url", d.Backend.BaseURL)
	viper.SetDefault("backend.timeout", d.Backend.Timeout.String())
	viper.SetDefault("backend.artificial_delay", d.Backend.ArtificialDelay.String())

	viper.SetDefault("limits.max_deposit_amount", d.Limits.MaxDepositAmount)
	viper.SetDefault("limits.min_withdrawal_amount", d.Limits.MinWithdrawalAmount)
	viper.SetDefault("limits.max_withdrawal_amount", d.Limits.MaxWithdrawalAmount)
	viper.SetDefault("limits.max_daily_withdrawal_total", d.Limits.MaxDailyWithdrawalTotal)
	viper.SetDefault("limits.withdrawal_increment", d.Limits.WithdrawalIncrement)
	viper.SetDefault("limits.release_failed_withdrawals", d.Limits.ReleaseFailedWithdrawals)

	viper.SetDefault("display.currency", d.Display.Currency)
	viper.SetDefault("display.locale", d.Display.Locale)

	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.database_path", d.Server.DatabasePath)

	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.file", d.Log.File)
}

func createDefaultConfig(appDir string) error {
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
