package cmd

import (
	"context"
	"sync"

	"github.com/hance08/teller/internal/app"
	"github.com/hance08/teller/internal/errhandler"
	"github.com/hance08/teller/internal/model"
	"github.com/hance08/teller/internal/service"
	"github.com/hance08/teller/internal/ui"
	"github.com/hance08/teller/internal/ui/prompts"
	"github.com/hance08/teller/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type dashboardFlags struct {
	Account int64
}

type dashboardRunner struct {
	app   *app.App
	flags *dashboardFlags

	inflight sync.WaitGroup
	settled  chan struct{}
}

func NewDashboardCmd(application *app.App) *cobra.Command {
	flags := &dashboardFlags{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive account dashboard",
		Long: `Open the interactive dashboard for one account.
Deposits and withdrawals are checked against the account rules first and then
sent to the backend in the background, so both kinds can be in flight at once.
The dashboard redraws as soon as a request settles; Refresh reloads the account
from the backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &dashboardRunner{
				app:     application,
				flags:   flags,
				settled: make(chan struct{}, 1),
			}
			return runner.Run(cmd.Context())
		},
	}

	cmd.Flags().Int64VarP(&flags.Account, "account", "a", 0, "account number to open")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func (r *dashboardRunner) Run(ctx context.Context) error {
	svc := r.app.Service

	spinner, _ := pterm.DefaultSpinner.Start("Loading account...")
	session, err := svc.OpenSession(ctx, r.flags.Account)
	if err != nil {
		spinner.Fail("Could not load the account")
		return err
	}
	_ = spinner.Stop()

	for {
		views.RenderDashboard(session.State(), svc.Formatter)

		promptCtx, cancel := untilSettled(ctx, r.settled)
		action, err := prompts.PromptAction(promptCtx)
		redraw := promptCtx.Err() != nil && ctx.Err() == nil
		cancel()

		if redraw {
			continue
		}
		if err != nil {
			r.wait()
			return errhandler.HandleAbort(err)
		}

		switch action {
		case prompts.ActionDeposit:
			if err := r.transact(ctx, session, model.KindDeposit); err != nil {
				return err
			}
		case prompts.ActionWithdraw:
			if err := r.transact(ctx, session, model.KindWithdraw); err != nil {
				return err
			}
		case prompts.ActionRefresh:
			if err := svc.Refresh(ctx, session); err != nil {
				pterm.Error.Println(capitalize(err.Error()))
			}
		case prompts.ActionQuit:
			r.wait()
			return nil
		}

		ui.PrintSeparator()
	}
}

// transact asks for an amount and hands it to the session. Rejections land
// in the session state and are shown on the next render.
func (r *dashboardRunner) transact(ctx context.Context, session *service.Coordinator, kind model.Kind) error {
	amount, err := prompts.PromptTransactionAmount(kind)
	if err != nil {
		return errhandler.HandleAbort(err)
	}

	done, err := session.Start(ctx, kind, amount)
	if err != nil {
		// rejected; the reason is part of the session state
		return nil
	}

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		<-done
		notify(r.settled)
	}()
	return nil
}

// notify records that a request settled without blocking; one pending
// signal is enough to trigger a redraw.
func notify(settled chan<- struct{}) {
	select {
	case settled <- struct{}{}:
	default:
	}
}

// untilSettled derives a context that is cancelled when a request settles,
// which closes the open prompt so the new state can be drawn.
func untilSettled(ctx context.Context, settled <-chan struct{}) (context.Context, context.CancelFunc) {
	promptCtx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-settled:
			cancel()
		case <-promptCtx.Done():
		}
	}()
	return promptCtx, cancel
}

// wait lets requests still in flight settle before the command exits.
func (r *dashboardRunner) wait() {
	spinner, _ := pterm.DefaultSpinner.Start("Processing...")
	r.inflight.Wait()
	_ = spinner.Stop()
}
