package models

import "strings"

// Exchange selects the market a ticker is listed on.
type Exchange string

const (
	ExchangeIndia     Exchange = "India"
	ExchangeUSA       Exchange = "USA"
	ExchangeNepal     Exchange = "Nepal"
	ExchangeUK        Exchange = "UK"
	ExchangeAustralia Exchange = "Australia"
)

// Exchanges lists the supported exchanges in display order.
var Exchanges = []Exchange{ExchangeIndia, ExchangeUSA, ExchangeNepal, ExchangeUK, ExchangeAustralia}

var exchangeSuffix = map[Exchange]string{
	ExchangeIndia:     ".NS",
	ExchangeUSA:       "",
	ExchangeNepal:     ".NP",
	ExchangeUK:        ".L",
	ExchangeAustralia: ".AX",
}

// Suffix returns the provider suffix for the exchange; unknown exchanges get none.
func (e Exchange) Suffix() string { return exchangeSuffix[e] }

// IsValid reports whether e is one of Exchanges.
func (e Exchange) IsValid() bool {
	_, ok := exchangeSuffix[e]
	return ok
}

// QualifySymbol appends the exchange suffix to the ticker.
func QualifySymbol(ticker string, e Exchange) string {
	return strings.TrimSpace(ticker) + e.Suffix()
}
