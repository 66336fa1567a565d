// Package mycurrency renders backend base-currency (USD) amounts as NPR
// display strings for the storefront pages.
package mycurrency

import (
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	rateVarname = "STOREFRONT_USD_TO_NPR"
)

var fallbackRate = decimal.NewFromFloat(133.5)

type Formatter struct {
	rate    decimal.Decimal
	english *message.Printer
	nepali  *message.Printer
}

func New() *Formatter {
	rate, err := decimal.NewFromString(os.Getenv(rateVarname))
	if err != nil || !rate.IsPositive() {
		rate = fallbackRate
	}

	return &Formatter{
		rate:    rate,
		english: message.NewPrinter(language.MustParse("en-IN")),
		nepali:  message.NewPrinter(language.MustParse("ne")),
	}
}

// ParseAmount parses a decimal amount string. Unparseable input renders as
// zero rather than failing: this feeds directly into page rendering.
func ParseAmount(value string) decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// Format converts a USD decimal amount string into a localized NPR display
// string. English locales get en-IN digit grouping with a "Rs" prefix, all
// others the Nepali rendering.
func (f *Formatter) Format(amount string, locale string) string {
	npr := ParseAmount(amount).Mul(f.rate).Round(0).IntPart()

	if isEnglish(locale) {
		return f.english.Sprintf("Rs %v", number.Decimal(npr))
	}
	return f.nepali.Sprintf("रु %v", number.Decimal(npr))
}

func isEnglish(locale string) bool {
	return locale == "" || strings.HasPrefix(strings.ToLower(locale), "en")
}
