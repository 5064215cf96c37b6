package account

import (
	"github.com/hance08/teller/internal/app"
	"github.com/spf13/cobra"
)

func NewAccountCmd(application *app.App) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Inspect accounts held by the backend.",
		Long:  `Inspect accounts held by the backend.`,
	}

	accountCmd.AddCommand(NewShowCmd(application))

	return accountCmd
}
