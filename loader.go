package returns

import (
	"math"
	"slices"
	"strings"

	"github.com/etnz/returns/date"
	"github.com/etnz/returns/table"
	"go.uber.org/zap"
)

// Canonical column labels of the source tables.
const (
	ColDate     = "date"
	ColTicker   = "ticker"
	ColVolume   = "volume"
	ColAdjClose = "adj_close"
	ColReturn   = "return"
)

// DefaultPriceColumns are the adjusted price labels looked up, in order, in a
// price table.
var DefaultPriceColumns = []string{ColAdjClose, "adjusted_close", "adj_price"}

// Loader turns raw source tables into canonical observations.
//
// Its zero value is ready to use: it looks up DefaultPriceColumns and does not log.
type Loader struct {
	// PriceColumns lists the candidate adjusted price labels in priority order.
	// Labels are compared after FormatColumn.
	PriceColumns []string
	// Logger receives debug counters about dropped rows.
	Logger *zap.Logger
}

// LoadPrices is a shortcut for the zero Loader's Prices.
func LoadPrices(t *table.Table) ([]Observation, error) { return new(Loader).Prices(t) }

// LoadReturns is a shortcut for the zero Loader's Returns.
func LoadReturns(t *table.Table) ([]Observation, error) { return new(Loader).Returns(t) }

func (l *Loader) logger() *zap.Logger {
	if l == nil || l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

func (l *Loader) priceColumns() []string {
	if l == nil || len(l.PriceColumns) == 0 {
		return DefaultPriceColumns
	}
	return l.PriceColumns
}

// rawRow is a source row after cell level normalization.
type rawRow struct {
	on      date.Date
	dateOK  bool
	ticker  string
	value   float64 // adjusted price or return
	valueOK bool
	volume  float64
}

// loadStats counts what happened to the rows of one table.
type loadStats struct {
	rows          int
	badDate       int
	badValue      int
	noPredecessor int
	nonFinite     int
	emitted       int
}

func (s loadStats) fields() []zap.Field {
	return []zap.Field{
		zap.Int("rows", s.rows),
		zap.Int("bad_date", s.badDate),
		zap.Int("bad_value", s.badValue),
		zap.Int("no_predecessor", s.noPredecessor),
		zap.Int("non_finite", s.nonFinite),
		zap.Int("emitted", s.emitted),
	}
}

// normalize relabels t, checks that it has the required columns and parses
// every row. valueLabels are the candidates for the value column; the first
// one present is used.
func normalize(t *table.Table, source string, valueLabels []string) ([]rawRow, error) {
	t = t.Relabel(FormatColumn)

	var missing []string
	index := func(label string) int {
		j := t.Index(label)
		if j < 0 {
			missing = append(missing, label)
		}
		return j
	}
	jDate, jTicker, jVolume := index(ColDate), index(ColTicker), index(ColVolume)

	jValue := -1
	for _, label := range valueLabels {
		if jValue = t.Index(FormatColumn(label)); jValue >= 0 {
			break
		}
	}
	if jValue < 0 {
		missing = append(missing, FormatColumn(valueLabels[0]))
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing}
	}

	rows := make([]rawRow, t.Len())
	for i := range rows {
		cells := t.Row(i)
		r := &rows[i]
		on, err := date.Parse(cells[jDate])
		r.on, r.dateOK = on, err == nil
		r.ticker = FormatTicker(cells[jTicker])
		r.value, r.valueOK = ParseNumber(cells[jValue])
		r.volume, _ = ParseNumber(cells[jVolume])
	}
	return rows, nil
}

// Prices loads a price/volume table and derives the returns from the
// adjusted price levels.
//
// Rows are ordered by ticker then date, keeping the table order for ties, and
// each return is the change of the adjusted price relative to the immediately
// preceding row of the same ticker. The first row of a ticker, rows whose
// predecessor has no price and rows without a valid date are not emitted.
// The series of each ticker are assumed to have no gaps.
func (l *Loader) Prices(t *table.Table) ([]Observation, error) {
	rows, err := normalize(t, "prices", l.priceColumns())
	if err != nil {
		return nil, err
	}

	// Undated rows go last in their ticker group, so that they never precede a dated row.
	slices.SortStableFunc(rows, func(a, b rawRow) int {
		if c := strings.Compare(a.ticker, b.ticker); c != 0 {
			return c
		}
		switch {
		case a.dateOK && b.dateOK:
			return a.on.Compare(b.on)
		case a.dateOK:
			return -1
		case b.dateOK:
			return 1
		}
		return 0
	})

	stats := loadStats{rows: len(rows)}
	obs := make([]Observation, 0, len(rows))
	for i, r := range rows {
		switch {
		case !r.dateOK:
			stats.badDate++
			continue
		case !r.valueOK:
			stats.badValue++
			continue
		case i == 0 || rows[i-1].ticker != r.ticker:
			stats.noPredecessor++
			continue
		case !rows[i-1].valueOK:
			stats.badValue++
			continue
		}
		ret := r.value/rows[i-1].value - 1
		if math.IsNaN(ret) || math.IsInf(ret, 0) {
			stats.nonFinite++
			continue
		}
		obs = append(obs, Observation{Date: r.on, Ticker: r.ticker, Return: ret, Volume: r.volume})
	}
	stats.emitted = len(obs)
	l.logger().Debug("price table loaded", stats.fields()...)
	return obs, nil
}

// Returns loads a return/volume table. Returns are read as they are, in table
// order; rows without a valid date or return are not emitted.
//
// The market index appears as MarketTicker and is loaded like any other ticker.
func (l *Loader) Returns(t *table.Table) ([]Observation, error) {
	rows, err := normalize(t, "returns", []string{ColReturn})
	if err != nil {
		return nil, err
	}

	stats := loadStats{rows: len(rows)}
	obs := make([]Observation, 0, len(rows))
	for _, r := range rows {
		switch {
		case !r.dateOK:
			stats.badDate++
		case !r.valueOK:
			stats.badValue++
		case math.IsInf(r.value, 0):
			stats.nonFinite++
		default:
			obs = append(obs, Observation{Date: r.on, Ticker: r.ticker, Return: r.value, Volume: r.volume})
		}
	}
	stats.emitted = len(obs)
	l.logger().Debug("return table loaded", stats.fields()...)
	return obs, nil
}
