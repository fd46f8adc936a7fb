package returns

import (
	"iter"
	"math"
	"slices"

	"github.com/etnz/returns/date"
)

// Source tells where the values of a panel column come from.
type Source int

const (
	SourceNone    Source = iota // no source covers the ticker, the column is empty.
	SourcePrices                // returns derived from the price table.
	SourceReturns               // returns read from the return table.
)

func (s Source) String() string {
	switch s {
	case SourcePrices:
		return "prices"
	case SourceReturns:
		return "returns"
	default:
		return "none"
	}
}

// Panel is a date indexed table of returns, one column per requested ticker
// followed by the market column.
//
// Dates are unique and ascending, and the market return is available on every
// date. Other cells may be missing. A Panel is immutable.
type Panel struct {
	dates   []date.Date
	columns []string
	series  []*date.History[float64]
	sources []Source
}

// Len returns the number of dates.
func (p *Panel) Len() int { return len(p.dates) }

// Dates returns the panel dates in ascending order.
func (p *Panel) Dates() []date.Date { return slices.Clone(p.dates) }

// Columns returns the column labels; MarketColumn is always last.
func (p *Panel) Columns() []string { return slices.Clone(p.columns) }

// Range returns the first and last dates of the panel, zero dates if it is empty.
func (p *Panel) Range() date.Range {
	if len(p.dates) == 0 {
		return date.Range{}
	}
	return date.Range{From: p.dates[0], To: p.dates[len(p.dates)-1]}
}

func (p *Panel) index(column string) int { return slices.Index(p.columns, column) }

// Get returns the value of a cell, and false when it is missing or the column does not exist.
func (p *Panel) Get(on date.Date, column string) (float64, bool) {
	j := p.index(column)
	if j < 0 {
		return 0, false
	}
	return p.series[j].Get(on)
}

// Column returns the non missing values of a column, nil if the column does
// not exist. The returned history must not be modified.
func (p *Panel) Column(column string) *date.History[float64] {
	j := p.index(column)
	if j < 0 {
		return nil
	}
	return p.series[j]
}

// Source returns where the values of a column come from.
func (p *Panel) Source(column string) Source {
	j := p.index(column)
	if j < 0 {
		return SourceNone
	}
	return p.sources[j]
}

// Coverage returns the number of non missing cells of a column.
func (p *Panel) Coverage(column string) int {
	if h := p.Column(column); h != nil {
		return h.Len()
	}
	return 0
}

// Rows returns an iterator over the panel rows in date order. Values are in
// column order, NaN for missing cells. The slice is reused between rows.
func (p *Panel) Rows() iter.Seq2[date.Date, []float64] {
	return func(yield func(date.Date, []float64) bool) {
		row := make([]float64, len(p.columns))
		for _, on := range p.dates {
			for j, h := range p.series {
				v, ok := h.Get(on)
				if !ok {
					v = math.NaN()
				}
				row[j] = v
			}
			if !yield(on, row) {
				return
			}
		}
	}
}

// Slice returns the panel restricted to the dates within r.
func (p *Panel) Slice(r date.Range) *Panel {
	s := &Panel{columns: p.columns, sources: p.sources}
	for _, on := range p.dates {
		if r.Contains(on) {
			s.dates = append(s.dates, on)
		}
	}
	for _, h := range p.series {
		s.series = append(s.series, restrict(h, s.dates))
	}
	return s
}
