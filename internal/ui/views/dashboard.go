package views

import (
	"fmt"

	"github.com/hance08/teller/internal/model"
	"github.com/hance08/teller/internal/service"
	"github.com/hance08/teller/internal/ui"
	"github.com/hance08/teller/internal/utils"
	"github.com/pterm/pterm"
)

type lineLevel int

const (
	levelInfo lineLevel = iota
	levelSuccess
	levelError
)

// StatusLine is one rendered message under a transaction panel.
type StatusLine struct {
	Level lineLevel
	Text  string
}

// KindStatusLines lists what the panel of one kind shows, in display order:
// pending, success, rejection, then the transport failure.
func KindStatusLines(kind model.Kind, ks service.KindState) []StatusLine {
	var lines []StatusLine

	switch {
	case ks.Status == service.StatusPending:
		lines = append(lines, StatusLine{Level: levelInfo, Text: "Processing..."})
	case ks.ShowSuccess():
		lines = append(lines, StatusLine{Level: levelSuccess, Text: fmt.Sprintf("Successful %s!", kind.Title())})
	}

	if ks.Rejection != "" {
		lines = append(lines, StatusLine{Level: levelError, Text: "ERROR: " + ks.Rejection})
	}

	if ks.Status == service.StatusFailed && ks.Err != nil {
		lines = append(lines, StatusLine{Level: levelError, Text: fmt.Sprintf("ERROR: %s failed: %v", kind.Title(), ks.Err)})
	}

	return lines
}

func RenderDashboard(state service.SessionState, money *utils.CurrencyFormatter) {
	acc := state.Account

	pterm.Println()
	ui.PrintL1Title("Hello, %s!", acc.Name)
	pterm.Println(pterm.Bold.Sprintf("Balance: %s", money.Format(acc.Amount)))
	pterm.Println()

	rows := pterm.TableData{
		{"Account", fmt.Sprintf("#%d (%s)", acc.AccountNumber, acc.Type)},
	}
	if acc.IsCredit() {
		rows = append(rows, []string{"Credit Limit", money.FormatPtr(acc.CreditLimit)})
	}
	rows = append(rows, []string{"Withdrawn Today", money.Format(state.DailyWithdrawalTotal)})

	_ = pterm.DefaultTable.WithData(rows).Render()

	for _, kind := range []model.Kind{model.KindDeposit, model.KindWithdraw} {
		pterm.Println()
		ui.PrintL2Title("%s", kind.Title())
		for _, line := range KindStatusLines(kind, state.Kind(kind)) {
			printLine(line)
		}
	}
	pterm.Println()
}

func printLine(line StatusLine) {
	switch line.Level {
	case levelSuccess:
		ui.SuccessStyle.Println(line.Text)
	case levelError:
		ui.ErrorStyle.Println(line.Text)
	default:
		ui.PendingStyle.Println(line.Text)
	}
}
