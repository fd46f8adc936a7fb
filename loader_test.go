package returns

import (
	"errors"
	"math"
	"testing"

	"github.com/etnz/returns/date"
	"github.com/etnz/returns/table"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// cmpFloats compares observations and panel values within floating point tolerance.
var cmpFloats = cmp.Options{
	cmp.Comparer(func(a, b date.Date) bool { return a == b }),
	cmpopts.EquateApprox(0, 1e-12),
	cmpopts.EquateNaNs(),
}

var nan = math.NaN()

func d(s string) date.Date { return date.MustParse(s) }

func priceTable(rows ...[]string) *table.Table {
	return table.MustNew([]string{"Date", " Ticker", "Adj Close", "Volume"}, rows...)
}

func returnTable(rows ...[]string) *table.Table {
	return table.MustNew([]string{"date", "TICKER ", "Return", "volume"}, rows...)
}

func TestPricesDerivesReturnsPerTicker(t *testing.T) {
	tb := priceTable(
		[]string{"2024-01-03", "msft", "210", "7"},
		[]string{"2024-01-02", "'aapl'", "100", "10"},
		[]string{"2024-01-04", " aapl", "101", "12"},
		[]string{"2024-01-02", "msft", "200", "5"},
		[]string{"2024-01-03", "AAPL", "102", "n/a"},
	)
	got, err := LoadPrices(tb)
	require.NoError(t, err)

	want := []Observation{
		{Date: d("2024-01-03"), Ticker: "AAPL", Return: 102.0/100 - 1, Volume: nan},
		{Date: d("2024-01-04"), Ticker: "AAPL", Return: 101.0/102 - 1, Volume: 12},
		{Date: d("2024-01-03"), Ticker: "MSFT", Return: 210.0/200 - 1, Volume: 7},
	}
	if diff := cmp.Diff(want, got, cmpFloats); diff != "" {
		t.Errorf("LoadPrices() mismatch (-want +got):\n%s", diff)
	}
}

func TestPricesRowDegradation(t *testing.T) {
	testCases := []struct {
		name string
		rows [][]string
		want []Observation
	}{
		{
			name: "first row has no predecessor",
			rows: [][]string{{"2024-01-02", "AAPL", "100", "1"}},
			want: []Observation{},
		},
		{
			name: "missing price breaks the chain for two rows",
			rows: [][]string{
				{"2024-01-02", "AAPL", "100", "1"},
				{"2024-01-03", "AAPL", "", "1"},
				{"2024-01-04", "AAPL", "110", "1"},
				{"2024-01-05", "AAPL", "121", "1"},
			},
			want: []Observation{{Date: d("2024-01-05"), Ticker: "AAPL", Return: 0.1, Volume: 1}},
		},
		{
			name: "undated rows are dropped and never precede",
			rows: [][]string{
				{"not a date", "AAPL", "50", "1"},
				{"2024-01-02", "AAPL", "100", "1"},
				{"2024-01-03", "AAPL", "105", "1"},
			},
			want: []Observation{{Date: d("2024-01-03"), Ticker: "AAPL", Return: 0.05, Volume: 1}},
		},
		{
			name: "duplicates keep table order",
			rows: [][]string{
				{"2024-01-02", "AAPL", "100", "1"},
				{"2024-01-03", "AAPL", "102", "2"},
				{"2024-01-03", "AAPL", "104", "3"},
				{"2024-01-04", "AAPL", "104", "4"},
			},
			want: []Observation{
				{Date: d("2024-01-03"), Ticker: "AAPL", Return: 0.02, Volume: 2},
				{Date: d("2024-01-03"), Ticker: "AAPL", Return: 104.0/102 - 1, Volume: 3},
				{Date: d("2024-01-04"), Ticker: "AAPL", Return: 0, Volume: 4},
			},
		},
		{
			name: "zero predecessor gives no return",
			rows: [][]string{
				{"2024-01-02", "AAPL", "0", "1"},
				{"2024-01-03", "AAPL", "10", "1"},
			},
			want: []Observation{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LoadPrices(priceTable(tc.rows...))
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got, cmpFloats, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("LoadPrices() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPricesColumnFallback(t *testing.T) {
	tb := table.MustNew([]string{"date", "ticker", "Adjusted Close", "volume"},
		[]string{"2024-01-02", "AAPL", "100", "1"},
		[]string{"2024-01-03", "AAPL", "101", "1"},
	)
	got, err := LoadPrices(tb)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.01, got[0].Return, 1e-12)

	tb = table.MustNew([]string{"date", "ticker", "Close", "volume"},
		[]string{"2024-01-02", "AAPL", "100", "1"},
		[]string{"2024-01-03", "AAPL", "90", "1"},
	)
	_, err = LoadPrices(tb)
	assert.ErrorIs(t, err, ErrSchema)

	l := &Loader{PriceColumns: []string{"Close"}}
	got, err = l.Prices(tb)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, -0.1, got[0].Return, 1e-12)
}

func TestSchemaErrors(t *testing.T) {
	tb := table.MustNew([]string{"date", "ticker"}, []string{"2024-01-02", "AAPL"})

	_, err := LoadPrices(tb)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr), "LoadPrices() error = %v, want a *SchemaError", err)
	assert.Equal(t, "prices", schemaErr.Source)
	assert.Equal(t, []string{"volume", "adj_close"}, schemaErr.Missing)
	assert.ErrorIs(t, err, ErrSchema)

	_, err = LoadReturns(tb)
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "returns", schemaErr.Source)
	assert.Equal(t, []string{"volume", "return"}, schemaErr.Missing)
}

func TestReturnsPassThrough(t *testing.T) {
	tb := returnTable(
		[]string{"2024-01-03", "mkt", "0.01", "100"},
		[]string{"2024-01-02", " 'MKT'", "\"0.005\"", ""},
		[]string{"2024-01-02", "aapl", "oops", "1"},
		[]string{"bad", "aapl", "0.2", "1"},
		[]string{"2024-01-02", "ibm", "-0.01", "3"},
	)
	got, err := LoadReturns(tb)
	require.NoError(t, err)

	want := []Observation{
		{Date: d("2024-01-03"), Ticker: "MKT", Return: 0.01, Volume: 100},
		{Date: d("2024-01-02"), Ticker: "MKT", Return: 0.005, Volume: nan},
		{Date: d("2024-01-02"), Ticker: "IBM", Return: -0.01, Volume: 3},
	}
	if diff := cmp.Diff(want, got, cmpFloats); diff != "" {
		t.Errorf("LoadReturns() mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got[1].HasVolume())
	assert.True(t, got[0].HasVolume())
}

func TestLoaderLogsDroppedRows(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Loader{Logger: zap.New(core)}

	_, err := l.Prices(priceTable(
		[]string{"?", "AAPL", "1", "1"},
		[]string{"2024-01-02", "AAPL", "x", "1"},
		[]string{"2024-01-03", "AAPL", "2", "1"},
		[]string{"2024-01-04", "AAPL", "3", "1"},
	))
	require.NoError(t, err)

	entries := logs.FilterMessage("price table loaded").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(4), fields["rows"])
	assert.Equal(t, int64(1), fields["bad_date"])
	assert.Equal(t, int64(2), fields["bad_value"])
	assert.Equal(t, int64(1), fields["emitted"])
}
