package returns

import (
	"github.com/etnz/returns/date"
)

// Reconcile merges price derived and return source observations into a panel
// of the requested tickers plus the market return.
//
// A requested ticker with at least one row in the price observations is
// backed by prices only: the return source never fills its missing dates.
// Other tickers are backed by the return source, and the market return always
// is. Only dates where the market return is available are kept.
//
// Duplicated (date, ticker) observations are resolved by keeping the first one
// in slice order. Requested tickers are normalized with FormatTicker; columns
// follow the order of first appearance in tickers, and a requested market
// ticker does not add a column.
func Reconcile(prices, rets []Observation, tickers []string) *Panel {
	requested := requestedTickers(tickers)
	wanted := make(map[string]bool, len(requested))
	for _, t := range requested {
		wanted[t] = true
	}

	// Tag every ticker once: presence in the price source makes it price backed.
	priceBacked := make(map[string]*date.History[float64])
	for _, o := range prices {
		if !wanted[o.Ticker] {
			continue
		}
		seriesOf(priceBacked, o.Ticker).Add(o.Date, o.Return)
	}

	returnBacked := make(map[string]*date.History[float64])
	for _, o := range rets {
		if o.Ticker != MarketTicker && (!wanted[o.Ticker] || priceBacked[o.Ticker] != nil) {
			continue
		}
		seriesOf(returnBacked, o.Ticker).Add(o.Date, o.Return)
	}

	market := returnBacked[MarketTicker]
	if market == nil {
		market = new(date.History[float64])
	}

	p := &Panel{dates: market.Days()}
	seen := make(map[string]bool, len(requested)+1)
	for _, t := range requested {
		column := ColumnLabel(t)
		if seen[column] || column == MarketColumn {
			continue
		}
		seen[column] = true

		var h *date.History[float64]
		source := SourceNone
		switch {
		case priceBacked[t] != nil:
			h, source = priceBacked[t], SourcePrices
		case returnBacked[t] != nil:
			h, source = returnBacked[t], SourceReturns
		}
		p.columns = append(p.columns, column)
		p.series = append(p.series, restrict(h, p.dates))
		p.sources = append(p.sources, source)
	}
	p.columns = append(p.columns, MarketColumn)
	p.series = append(p.series, market)
	p.sources = append(p.sources, SourceReturns)
	return p
}

// requestedTickers normalizes tickers and drops the market ticker and duplicates.
func requestedTickers(tickers []string) []string {
	requested := make([]string, 0, len(tickers))
	seen := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		t = FormatTicker(t)
		if t == MarketTicker || seen[t] {
			continue
		}
		seen[t] = true
		requested = append(requested, t)
	}
	return requested
}

// shadowedTickers returns the requested tickers whose column label is
// already taken by an earlier requested ticker. Reconcile drops them.
func shadowedTickers(tickers []string) []string {
	taken := map[string]bool{MarketColumn: true}
	var shadowed []string
	for _, t := range requestedTickers(tickers) {
		column := ColumnLabel(t)
		if taken[column] {
			shadowed = append(shadowed, t)
			continue
		}
		taken[column] = true
	}
	return shadowed
}

func seriesOf(m map[string]*date.History[float64], ticker string) *date.History[float64] {
	h, ok := m[ticker]
	if !ok {
		h = new(date.History[float64])
		m[ticker] = h
	}
	return h
}

// restrict returns the values of h on the given days only. h may be nil.
func restrict(h *date.History[float64], days []date.Date) *date.History[float64] {
	r := new(date.History[float64])
	for _, on := range days {
		if v, ok := h.Get(on); ok {
			r.Append(on, v)
		}
	}
	return r
}
