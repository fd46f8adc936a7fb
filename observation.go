package returns

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/etnz/returns/date"
)

// Observation is a canonical long form row, as produced by the loaders.
type Observation struct {
	Date   date.Date
	Ticker string  // normalized with FormatTicker.
	Return float64 // fractional change, always a finite number.
	Volume float64 // NaN when the source cell was not a number.
}

// HasVolume reports whether the observation carries a volume.
func (o Observation) HasVolume() bool { return !math.IsNaN(o.Volume) }

func (o Observation) String() string {
	return fmt.Sprintf("%s %s %g", o.Date, o.Ticker, o.Return)
}

// ErrSchema is the sentinel wrapped by SchemaError.
var ErrSchema = errors.New("schema error")

// SchemaError reports the columns a source table is missing.
type SchemaError struct {
	Source  string   // "prices" or "returns"
	Missing []string // normalized labels
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s table: missing column(s) %s", e.Source, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }
