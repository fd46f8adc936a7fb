package returns

import (
	"context"
	"testing"

	"github.com/etnz/returns/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuild(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &Loader{Logger: zap.New(core)}

	prices := priceTable(
		[]string{"2024-01-01", "AAPL", "100", "1"},
		[]string{"2024-01-02", "AAPL", "102", "1"},
	)
	rets := returnTable(
		[]string{"2024-01-01", "MKT", "0.005", "1"},
		[]string{"2024-01-02", "MKT", "0.01", "1"},
	)
	p, err := Build(context.Background(), l, prices, rets, []string{"aapl", "ghost"})
	require.NoError(t, err)

	assert.Equal(t, []string{"aapl", "ghost", "mkt"}, p.Columns())
	got, ok := p.Get(d("2024-01-02"), "aapl")
	require.True(t, ok)
	assert.InDelta(t, 0.02, got, 1e-12)

	built := logs.FilterMessage("panel built").All()
	require.Len(t, built, 1)
	assert.NotEmpty(t, built[0].ContextMap()["run"])
	assert.Equal(t, 1, logs.FilterMessage("no source covers the requested ticker").Len())
}

func TestBuildWarnsOnDuplicates(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := &Loader{Logger: zap.New(core)}

	rets := returnTable(
		[]string{"2024-01-01", "MKT", "0.005", "1"},
		[]string{"2024-01-01", "MKT", "0.007", "1"},
		[]string{"2024-01-01", "IBM", "0.01", "1"},
	)
	p, err := Build(context.Background(), l, priceTable(), rets, []string{"IBM"})
	require.NoError(t, err)

	got, _ := p.Get(d("2024-01-01"), MarketColumn)
	assert.Equal(t, 0.005, got)
	entries := logs.FilterMessage("duplicated observations, keeping the first one").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "returns", entries[0].ContextMap()["source"])
	assert.Equal(t, int64(1), entries[0].ContextMap()["count"])
}

func TestBuildErrors(t *testing.T) {
	good := returnTable([]string{"2024-01-01", "MKT", "0.005", "1"})
	bad := table.MustNew([]string{"date"}, []string{"2024-01-01"})

	_, err := Build(context.Background(), nil, bad, good, nil)
	assert.ErrorIs(t, err, ErrSchema)
	assert.ErrorContains(t, err, "cannot load prices")

	_, err = Build(context.Background(), nil, priceTable(), bad, nil)
	assert.ErrorIs(t, err, ErrSchema)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, nil, priceTable(), good, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildWarnsOnSharedColumn(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := &Loader{Logger: zap.New(core)}

	rets := returnTable(
		[]string{"2024-01-01", "MKT", "0.005", "1"},
		[]string{"2024-01-01", "BRK B", "0.01", "1"},
		[]string{"2024-01-01", "BRK_B", "0.02", "1"},
	)
	p, err := Build(context.Background(), l, priceTable(), rets, []string{"brk b", "brk_b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"brk_b", "mkt"}, p.Columns())
	entries := logs.FilterMessage("requested ticker dropped, its column is already taken").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "BRK_B", entries[0].ContextMap()["ticker"])
	assert.Equal(t, "brk_b", entries[0].ContextMap()["column"])
}
