package prompts

import (
	"context"
	"fmt"

	"github.com/hance08/teller/internal/model"
	"github.com/hance08/teller/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	ActionDeposit  = "Deposit"
	ActionWithdraw = "Withdraw"
	ActionRefresh  = "Refresh"
	ActionQuit     = "Quit"
)

func PromptAction(ctx context.Context) (string, error) {
	options := []string{ActionDeposit, ActionWithdraw, ActionRefresh, ActionQuit}
	return PromptSelect(ctx, "What would you like to do?", options, ActionDeposit)
}

// PromptTransactionAmount asks for an amount. Only the number format is
// checked here; the limits are applied when the request is submitted.
func PromptTransactionAmount(kind model.Kind) (decimal.Decimal, error) {
	raw, err := PromptAmount(
		fmt.Sprintf("%s amount:", kind.Title()),
		"Enter a number, e.g. 20",
		func(s string) error {
			_, err := utils.ParseAmount(s)
			return err
		},
	)
	if err != nil {
		return decimal.Zero, err
	}

	return utils.ParseAmount(raw)
}
