package returns

import (
	"context"
	"fmt"

	"github.com/etnz/returns/date"
	"github.com/etnz/returns/table"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Build loads both source tables and reconciles them into a panel of the
// requested tickers.
//
// The two loaders are independent and run concurrently; the first error
// is returned. A nil loader behaves like the zero Loader.
func Build(ctx context.Context, l *Loader, prices, rets *table.Table, tickers []string) (*Panel, error) {
	if l == nil {
		l = new(Loader)
	}
	log := l.logger().With(zap.String("run", uuid.NewString()))
	run := *l
	run.Logger = log

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var priceObs, returnObs []Observation
	var g errgroup.Group
	g.Go(func() (err error) {
		priceObs, err = run.Prices(prices)
		if err != nil {
			return fmt.Errorf("cannot load prices: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		returnObs, err = run.Returns(rets)
		if err != nil {
			return fmt.Errorf("cannot load returns: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for source, obs := range map[string][]Observation{"prices": priceObs, "returns": returnObs} {
		if n := duplicates(obs); n > 0 {
			log.Warn("duplicated observations, keeping the first one", zap.String("source", source), zap.Int("count", n))
		}
	}

	p := Reconcile(priceObs, returnObs, tickers)
	fields := []zap.Field{
		zap.Int("dates", p.Len()),
		zap.Strings("columns", p.columns),
	}
	if p.Len() > 0 {
		fields = append(fields, zap.Stringer("range", p.Range()))
	}
	log.Info("panel built", fields...)
	for _, t := range shadowedTickers(tickers) {
		log.Warn("requested ticker dropped, its column is already taken", zap.String("ticker", t), zap.String("column", ColumnLabel(t)))
	}
	for j, column := range p.columns {
		if p.sources[j] == SourceNone {
			log.Warn("no source covers the requested ticker", zap.String("column", column))
		}
	}
	return p, nil
}

// duplicates counts the observations whose (date, ticker) was already seen in obs.
func duplicates(obs []Observation) int {
	type key struct {
		on     date.Date
		ticker string
	}
	seen := make(map[key]bool, len(obs))
	n := 0
	for _, o := range obs {
		k := key{o.Date, o.Ticker}
		if seen[k] {
			n++
		}
		seen[k] = true
	}
	return n
}
