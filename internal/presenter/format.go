package presenter

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

const (
	NoDataWarning = "No data found for the given stock symbol. Please enter a valid symbol."
	errorPrefix   = "Error: "
)

// ErrorWarning is the user-visible text for a failed run.
func ErrorWarning(description string) string {
	return errorPrefix + description
}

func CompanyTitle(name, symbol string) string {
	return fmt.Sprintf("Company Information: %s (%s)", name, symbol)
}

func IndustryLine(industry string) string {
	return "Industry: " + industry
}

// MarketCapLine renders an integer market cap with thousands separators.
func MarketCapLine(marketCap int64) string {
	return "Market Cap: $" + humanize.Comma(marketCap)
}

// CurrentPriceLine renders a price with thousands separators and 2 decimals.
func CurrentPriceLine(price float64) string {
	return "Current Price: $" + humanize.FormatFloat("#,###.##", price)
}
