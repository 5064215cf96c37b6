package utils

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyFormatter renders whole-unit currency amounts for one locale,
// e.g. 1000 -> "$1,000" and -50 -> "-$50".
type CurrencyFormatter struct {
	code    string
	symbol  string
	printer *message.Printer
}

func NewCurrencyFormatter(code, locale string) (*CurrencyFormatter, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("invalid currency code %q: %w", code, err)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	printer := message.NewPrinter(tag)

	return &CurrencyFormatter{
		code:    unit.String(),
		symbol:  narrowSymbol(printer, unit),
		printer: printer,
	}, nil
}

// narrowSymbol takes the symbol x/text prints for unit in the printer's
// locale, e.g. "$" or "₹". Symbols made of letters, such as "CHF", get a
// trailing space so they do not run into the digits.
func narrowSymbol(printer *message.Printer, unit currency.Unit) string {
	s := printer.Sprint(currency.NarrowSymbol(unit.Amount(0)))
	if i := strings.IndexFunc(s, unicode.IsDigit); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)

	if s == "" {
		return unit.String() + " "
	}
	if strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }) < 0 {
		return s + " "
	}
	return s
}

// MustCurrencyFormatter is NewCurrencyFormatter for constant arguments.
func MustCurrencyFormatter(code, locale string) *CurrencyFormatter {
	f, err := NewCurrencyFormatter(code, locale)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *CurrencyFormatter) Code() string {
	return f.code
}

// Format rounds half away from zero to whole units.
func (f *CurrencyFormatter) Format(amount decimal.Decimal) string {
	n := amount.Round(0).IntPart()
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return sign + f.symbol + f.printer.Sprintf("%d", n)
}

// FormatPtr formats a missing amount as zero.
func (f *CurrencyFormatter) FormatPtr(amount *decimal.Decimal) string {
	if amount == nil {
		return f.Format(decimal.Zero)
	}
	return f.Format(*amount)
}

// ParseAmount parses user input such as "150", "150.5" or "$1,000".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(amountStr)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %s", amountStr)
	}

	return amount, nil
}
