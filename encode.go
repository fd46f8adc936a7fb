package returns

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// this file contains the text encodings of panels and observations.
// Missing values are empty cells in CSV and null in JSON.

// FormatNumber renders v with a fixed number of decimal places, or in its
// shortest exact form when precision is negative. NaN renders as an empty
// string.
func FormatNumber(v float64, precision int) string {
	switch {
	case math.IsNaN(v):
		return ""
	case precision < 0 || math.IsInf(v, 0):
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(int32(precision))
}

// EncodePanelCSV writes the panel as CSV: a "date" column followed by the
// panel columns, one record per date.
func EncodePanelCSV(w io.Writer, p *Panel, precision int) error {
	cw := csv.NewWriter(w)
	header := append([]string{ColDate}, p.columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("cannot write panel header: %w", err)
	}
	record := make([]string, len(header))
	for on, values := range p.Rows() {
		record[0] = on.String()
		for j, v := range values {
			record[j+1] = FormatNumber(v, precision)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write panel row %s: %w", on, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodePanelJSONL writes the panel as JSON lines, one object per date whose
// first property is "date" followed by the columns in panel order.
func EncodePanelJSONL(w io.Writer, p *Panel) error {
	for on, values := range p.Rows() {
		var obj jsonObjectWriter
		obj.Append(ColDate, on)
		for j, v := range values {
			obj.Number(p.columns[j], v)
		}
		data, err := obj.MarshalJSON()
		if err != nil {
			return fmt.Errorf("cannot marshal panel row %s: %w", on, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write panel row %s: %w", on, err)
		}
	}
	return nil
}

// EncodeObservationsCSV writes canonical observations as CSV with the columns
// date, ticker, return and volume.
func EncodeObservationsCSV(w io.Writer, obs []Observation, precision int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColDate, ColTicker, ColReturn, ColVolume}); err != nil {
		return fmt.Errorf("cannot write observations header: %w", err)
	}
	for _, o := range obs {
		record := []string{o.Date.String(), o.Ticker, FormatNumber(o.Return, precision), FormatNumber(o.Volume, -1)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write observation %v: %w", o, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
