package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/hance08/teller/internal/app"
	"github.com/hance08/teller/internal/model"
	"github.com/hance08/teller/internal/ui/views"
	"github.com/hance08/teller/internal/utils"
	"github.com/hance08/teller/internal/validation"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type transactFlags struct {
	Account int64
	Amount  string
}

type transactRunner struct {
	app   *app.App
	kind  model.Kind
	flags *transactFlags
}

// NewTransactCmd builds the one-shot deposit or withdraw command. Each run is
// a fresh session, so the daily withdrawal total starts at zero.
func NewTransactCmd(application *app.App, kind model.Kind) *cobra.Command {
	flags := &transactFlags{}

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Submit a single %s", kind),
		Long: fmt.Sprintf(`Submit a single %s for an account.
The amount is checked against the %s rules before anything is sent.`, kind, kind),
		Example: fmt.Sprintf("  teller %s --account 1 --amount 20", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &transactRunner{
				app:   application,
				kind:  kind,
				flags: flags,
			}
			return runner.Run(cmd.Context())
		},
	}

	cmd.Flags().Int64VarP(&flags.Account, "account", "a", 0, "account number")
	cmd.Flags().StringVarP(&flags.Amount, "amount", "m", "", "amount, e.g. 20")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func (r *transactRunner) Run(ctx context.Context) error {
	amount, err := utils.ParseAmount(r.flags.Amount)
	if err != nil {
		return err
	}

	svc := r.app.Service

	session, err := svc.OpenSession(ctx, r.flags.Account)
	if err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start("Processing...")
	if r.kind == model.KindDeposit {
		_, err = session.Deposit(ctx, amount)
	} else {
		_, err = session.Withdraw(ctx, amount)
	}

	var rejected *validation.RejectedError
	switch {
	case errors.As(err, &rejected):
		spinner.Fail("ERROR: " + rejected.Reason)
		return fmt.Errorf("%s rejected", r.kind.Title())
	case err != nil:
		spinner.Fail(fmt.Sprintf("%s failed", r.kind.Title()))
		return err
	}

	spinner.Success(fmt.Sprintf("Successful %s!", r.kind.Title()))
	return views.RenderAccountDetail(session.Account(), svc.Formatter)
}
