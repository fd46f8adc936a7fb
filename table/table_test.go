package table

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewShape(t *testing.T) {
	testCases := []struct {
		name    string
		header  []string
		rows    [][]string
		wantErr bool
	}{
		{"empty header", nil, nil, true},
		{"no rows", []string{"a"}, nil, false},
		{"rectangular", []string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}}, false},
		{"short row", []string{"a", "b"}, [][]string{{"1"}}, true},
		{"long row", []string{"a"}, [][]string{{"1", "2"}}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.header, tc.rows...)
			if (err != nil) != tc.wantErr {
				t.Fatalf("New() error = %v, want error: %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrShape) {
				t.Errorf("New() error = %v, want ErrShape", err)
			}
		})
	}
}

func TestRelabelAndIndex(t *testing.T) {
	tb := MustNew([]string{" Date", "Ticker "}, []string{"2024-01-02", "aapl"})
	relabeled := tb.Relabel(strings.TrimSpace)

	if got := relabeled.Index("Ticker"); got != 1 {
		t.Errorf("Index(%q) = %d, want 1", "Ticker", got)
	}
	if got := tb.Index("Ticker"); got != -1 {
		t.Errorf("Relabel() modified the original header: Index() = %d", got)
	}
	if diff := cmp.Diff([]string{"aapl"}, relabeled.Column(1)); diff != "" {
		t.Errorf("Column(1) mismatch (-want +got):\n%s", diff)
	}
	if relabeled.Cell(0, 0) != "2024-01-02" || relabeled.Len() != 1 || relabeled.Width() != 2 {
		t.Errorf("Relabel() does not share rows with the original table")
	}
}
