package date

import "fmt"

// Range represents a range of dates.
// A zero From or To leaves the range open on that side.
type Range struct{ From, To Date }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool {
	return (r.From.IsZero() || !date.Before(r.From)) && (r.To.IsZero() || !date.After(r.To))
}

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
