package table

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/xuri/excelize/v2"
)

// Options tunes the decoders. Its zero value reads comma separated text, the
// first Excel sheet, and a top level JSON array.
type Options struct {
	Comma    rune   // field delimiter for delimited text, ',' if zero.
	Sheet    string // Excel sheet name, the first sheet if empty.
	JSONPath string // JSONPath to the array of records, "$[*]" if empty.
}

const defaultJSONPath = "$[*]"

// Open decodes the file at path, picking the decoder from its extension:
// .xlsx for Excel workbooks, .json for JSON documents, anything else is read
// as delimited text.
func Open(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open table %q: %w", path, err)
	}
	defer f.Close()

	var t *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		t, err = DecodeXLSX(f, opts.Sheet)
	case ".json":
		t, err = DecodeJSON(f, opts.JSONPath)
	default:
		t, err = DecodeCSV(f, opts.Comma)
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode table %q: %w", path, err)
	}
	return t, nil
}

// DecodeCSV reads delimited text whose first record is the header.
//
// Quotes are handled leniently so that stray quote characters stay in the
// cells, and a leading UTF-8 byte order mark is dropped.
func DecodeCSV(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		if errors.Is(err, csv.ErrFieldCount) {
			return nil, fmt.Errorf("%w: %v", ErrShape, err)
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header", ErrShape)
	}
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	return New(records[0], records[1:]...)
}

// DecodeXLSX reads a worksheet whose first non empty row is the header.
//
// Excel drops trailing empty cells, so short rows are padded with empty
// cells; rows longer than the header are an error.
func DecodeXLSX(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheet", ErrShape)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheet, err)
	}
	// skip leading blank rows.
	for len(rows) > 0 && len(rows[0]) == 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrShape, sheet)
	}
	header := rows[0]
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		if len(row) < len(header) {
			row = append(row, make([]string, len(header)-len(row))...)
		}
		data = append(data, row)
	}
	return New(header, data...)
}

// DecodeJSON reads a JSON document and selects its records with a JSONPath
// expression.
//
// Records are either objects, in which case the header is the sorted union of
// their keys and missing keys become empty cells, or arrays, in which case the
// first array is the header. Scalars are kept in their JSON text form, null
// becomes an empty cell.
func DecodeJSON(r io.Reader, path string) (*Table, error) {
	if path == "" {
		path = defaultJSONPath
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	selected, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", path, err)
	}
	records, ok := selected.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q does not select an array of records", ErrShape, path)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %q selects no record", ErrShape, path)
	}

	if _, isArray := records[0].([]any); isArray {
		return decodeJSONArrays(records)
	}
	return decodeJSONObjects(records)
}

func decodeJSONArrays(records []any) (*Table, error) {
	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		arr, ok := rec.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: record %d is not an array", ErrShape, i)
		}
		row := make([]string, len(arr))
		for j, v := range arr {
			row[j] = jsonCell(v)
		}
		rows = append(rows, row)
	}
	return New(rows[0], rows[1:]...)
}

func decodeJSONObjects(records []any) (*Table, error) {
	objects := make([]map[string]any, 0, len(records))
	seen := map[string]bool{}
	var header []string
	for i, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record %d is not an object", ErrShape, i)
		}
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
		objects = append(objects, obj)
	}
	sort.Strings(header)

	rows := make([][]string, 0, len(objects))
	for _, obj := range objects {
		row := make([]string, len(header))
		for j, k := range header {
			if v, ok := obj[k]; ok {
				row[j] = jsonCell(v)
			}
		}
		rows = append(rows, row)
	}
	return New(header, rows...)
}

// jsonCell renders a decoded JSON value as a raw cell.
func jsonCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Sprint(v)
		}
		return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	}
}
