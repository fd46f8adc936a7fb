package returns

import "strings"

// MarketTicker is the reserved ticker of the market index in the return source.
const MarketTicker = "MKT"

// FormatColumn returns the canonical form of a column label: trimmed, lower
// case, with every run of inner spaces replaced by a single underscore.
//
//	FormatColumn(" Adj   Close ") == "adj_close"
func FormatColumn(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}

// FormatTicker returns the canonical form of a security identifier: quotes
// removed, trimmed and upper case.
//
//	FormatTicker(" 'aapl' ") == "AAPL"
func FormatTicker(value string) string {
	return strings.ToUpper(strings.TrimSpace(stripQuotes(value)))
}

// ColumnLabel returns the panel column label for a ticker. Tickers are upper
// case while panel columns follow the column label convention, so the market
// index column is "mkt".
func ColumnLabel(ticker string) string { return FormatColumn(FormatTicker(ticker)) }

// MarketColumn is the label of the market return column in a panel.
var MarketColumn = ColumnLabel(MarketTicker)
