package account

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hance08/teller/internal/app"
	"github.com/hance08/teller/internal/ui/views"
	"github.com/spf13/cobra"
)

type ShowCommandRunner struct {
	app           *app.App
	accountNumber int64
}

func NewShowCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <account-number>",
		Short: "Show the current snapshot of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || number <= 0 {
				return fmt.Errorf("invalid account number %q", args[0])
			}

			runner := &ShowCommandRunner{
				app:           application,
				accountNumber: number,
			}
			return runner.Run(cmd.Context())
		},
	}
}

func (r *ShowCommandRunner) Run(ctx context.Context) error {
	svc := r.app.Service

	acc, err := svc.GetAccount(ctx, r.accountNumber)
	if err != nil {
		return err
	}

	return views.RenderAccountDetail(acc, svc.Formatter)
}
