package constants

const (
	// Transaction kinds, as used in backend paths
	KindDeposit  = "deposit"
	KindWithdraw = "withdraw"

	// Account types
	TypeCredit   = "credit"
	TypeChecking = "checking"
	TypeSavings  = "savings"
)

// Validation defaults, in whole currency units.
const (
	DefaultMaxDepositAmount        = 1000
	DefaultMinWithdrawalAmount     = 5
	DefaultMaxWithdrawalAmount     = 200
	DefaultMaxDailyWithdrawalTotal = 400
	DefaultWithdrawalIncrement     = 5 // must be able to be dispensed in $5 bills
)
