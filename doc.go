// Package returns reconciles two flat file sources of daily financial data
// into a single panel of returns.
//
// The two sources are:
//   - a price table, with an adjusted closing price and a volume per ticker
//     and date, from which returns are derived;
//   - a return table, with a return and a volume per ticker and date, that
//     also carries the market index under the reserved ticker MKT.
//
// Both are consumed as raw text tables (see the table package). Cells are
// cleaned with ParseNumber, labels and tickers with FormatColumn and
// FormatTicker. The Loader turns each table into canonical Observations and
// Reconcile merges them into a Panel:
//   - a ticker present in the price table is taken from it, and only from it;
//   - other tickers fall back to the return table;
//   - the market return always comes from the return table, and only dates
//     where it is available are part of the panel.
//
// Build runs the whole pipeline. The package stops at the panel: it does not
// persist it, and the encoders in this package only provide text renditions
// for the command line tool.
package returns
