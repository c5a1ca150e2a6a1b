package money

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// Symbols for currency codes seen most often in extraction results.
// Unknown codes fall back to the code itself as a prefix.
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"RUB": "₽",
}

func Format(value decimal.Decimal, currency string) string {
	symbol, ok := symbols[currency]
	if !ok {
		symbol = currency + " "
	}

	acc := accounting.Accounting{
		Symbol:    symbol,
		Precision: 2,
		Thousand:  ",",
		Decimal:   ".",
	}

	return acc.FormatMoneyDecimal(value)
}
