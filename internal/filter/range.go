package filter

import (
	"fmt"
	"strconv"

	"cloud.google.com/go/civil"
)

// NumberRange is an integer interval. At least one bound is present; each
// present bound is inclusive or exclusive.
type NumberRange struct {
	Min, Max                   int
	HasMin, HasMax             bool
	MinInclusive, MaxInclusive bool
}

// NewNumberRange builds a range from optional bounds. The inclusivity flag of
// an absent bound is ignored. It fails when both bounds are absent or when
// min > max.
func NewNumberRange(min, max *int, minInclusive, maxInclusive bool) (NumberRange, error) {
	if min == nil && max == nil {
		return NumberRange{}, fmt.Errorf("number range needs at least one bound")
	}
	var r NumberRange
	if min != nil {
		r.Min, r.HasMin, r.MinInclusive = *min, true, minInclusive
	}
	if max != nil {
		r.Max, r.HasMax, r.MaxInclusive = *max, true, maxInclusive
	}
	if r.HasMin && r.HasMax && r.Min > r.Max {
		return NumberRange{}, fmt.Errorf("number range minimum %d exceeds maximum %d", r.Min, r.Max)
	}
	return r, nil
}

// LessThan returns the range (-inf, n).
func LessThan(n int) NumberRange {
	return NumberRange{Max: n, HasMax: true}
}

// Encloses reports whether n lies inside the range.
func (r NumberRange) Encloses(n int) bool {
	if r.HasMin {
		if r.MinInclusive && n < r.Min || !r.MinInclusive && n <= r.Min {
			return false
		}
	}
	if r.HasMax {
		if r.MaxInclusive && n > r.Max || !r.MaxInclusive && n >= r.Max {
			return false
		}
	}
	return true
}

// String renders the range in query syntax. A closed range is rendered as
// "a..b"; the grammar has no spelling for a two-sided range with an
// exclusive bound.
func (r NumberRange) String() string {
	return formatRange(
		strconv.Itoa(r.Min), r.HasMin, r.MinInclusive,
		strconv.Itoa(r.Max), r.HasMax, r.MaxInclusive,
	)
}

// DateRange is an interval of calendar dates, shaped like NumberRange.
type DateRange struct {
	Min, Max                   civil.Date
	HasMin, HasMax             bool
	MinInclusive, MaxInclusive bool
}

// NewDateRange builds a range from optional bounds. It fails when both
// bounds are absent, when a bound is not a valid date, or when min > max.
func NewDateRange(min, max *civil.Date, minInclusive, maxInclusive bool) (DateRange, error) {
	if min == nil && max == nil {
		return DateRange{}, fmt.Errorf("date range needs at least one bound")
	}
	var r DateRange
	if min != nil {
		if !min.IsValid() {
			return DateRange{}, fmt.Errorf("invalid date %s", min)
		}
		r.Min, r.HasMin, r.MinInclusive = *min, true, minInclusive
	}
	if max != nil {
		if !max.IsValid() {
			return DateRange{}, fmt.Errorf("invalid date %s", max)
		}
		r.Max, r.HasMax, r.MaxInclusive = *max, true, maxInclusive
	}
	if r.HasMin && r.HasMax && r.Max.Before(r.Min) {
		return DateRange{}, fmt.Errorf("date range start %s is after end %s", r.Min, r.Max)
	}
	return r, nil
}

// Encloses reports whether d lies inside the range.
func (r DateRange) Encloses(d civil.Date) bool {
	if r.HasMin {
		if r.MinInclusive && d.Before(r.Min) || !r.MinInclusive && !d.After(r.Min) {
			return false
		}
	}
	if r.HasMax {
		if r.MaxInclusive && d.After(r.Max) || !r.MaxInclusive && !d.Before(r.Max) {
			return false
		}
	}
	return true
}

// String renders the range in query syntax.
func (r DateRange) String() string {
	return formatRange(
		r.Min.String(), r.HasMin, r.MinInclusive,
		r.Max.String(), r.HasMax, r.MaxInclusive,
	)
}

func formatRange(min string, hasMin, minInclusive bool, max string, hasMax, maxInclusive bool) string {
	switch {
	case hasMin && hasMax:
		return min + ".." + max
	case hasMin && minInclusive:
		return ">=" + min
	case hasMin:
		return ">" + min
	case maxInclusive:
		return "<=" + max
	default:
		return "<" + max
	}
}
