package renderer

import "github.com/etnz/returns"

// cell formats a value for a markdown table, "-" when it is missing.
func cell(v float64, precision int) string {
	if s := returns.FormatNumber(v, precision); s != "" {
		return s
	}
	return "-"
}
