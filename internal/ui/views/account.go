package views

import (
	"fmt"

	"github.com/hance08/teller/internal/model"
	"github.com/hance08/teller/internal/ui"
	"github.com/hance08/teller/internal/utils"
	"github.com/pterm/pterm"
)

func RenderAccountDetail(acc model.Account, money *utils.CurrencyFormatter) error {
	pterm.Println()
	ui.PrintL2Title("Account Info")

	limit := "-"
	if acc.IsCredit() {
		limit = money.FormatPtr(acc.CreditLimit)
	}

	data := pterm.TableData{
		{"Field", "Value"},
		{"Number", fmt.Sprintf("%d", acc.AccountNumber)},
		{"Name", acc.Name},
		{"Type", acc.Type},
		{"Balance", money.Format(acc.Amount)},
		{"Credit Limit", limit},
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(data).
		Render()
}
