package catalog

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// FilterKey names one constraint accepted by the listing endpoint.
type FilterKey string

const (
	FilterManufacturer FilterKey = "manufacturer"
	FilterFuelType     FilterKey = "fuel_type"
	FilterTransmission FilterKey = "transmission"
	FilterCity         FilterKey = "office_city_state"
	FilterMinPrice     FilterKey = "min_price"
	FilterMaxPrice     FilterKey = "max_price"
	FilterMinYear      FilterKey = "min_year"
	FilterMaxYear      FilterKey = "max_year"
)

// FilterKeys lists every filter key in query order.
var FilterKeys = []FilterKey{
	FilterManufacturer,
	FilterFuelType,
	FilterTransmission,
	FilterCity,
	FilterMinPrice,
	FilterMaxPrice,
	FilterMinYear,
	FilterMaxYear,
}

// Known reports whether k is one of FilterKeys.
func (k FilterKey) Known() bool {
	for _, f := range FilterKeys {
		if f == k {
			return true
		}
	}
	return false
}

// Numeric reports whether the key takes a number rather than a vocabulary value.
func (k FilterKey) Numeric() bool {
	switch k {
	case FilterMinPrice, FilterMaxPrice, FilterMinYear, FilterMaxYear:
		return true
	}
	return false
}

// Filters maps filter keys to values. A missing key or an empty value means
// no constraint. Treat it as a value: use Clone, With and Without instead of
// mutating a map another component holds.
type Filters map[FilterKey]string

// Get returns the trimmed value for k.
func (f Filters) Get(k FilterKey) string {
	return strings.TrimSpace(f[k])
}

// Clone returns an independent copy without empty entries.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	return out
}

// With returns a copy with k set to v; an empty v removes the key.
func (f Filters) With(k FilterKey, v string) Filters {
	out := f.Clone()
	if v = strings.TrimSpace(v); v == "" {
		delete(out, k)
	} else {
		out[k] = v
	}
	return out
}

// Without returns a copy with k removed.
func (f Filters) Without(k FilterKey) Filters {
	return f.With(k, "")
}

// Active returns the keys carrying a non-empty value, in query order.
func (f Filters) Active() []FilterKey {
	var keys []FilterKey
	for _, k := range FilterKeys {
		if f.Get(k) != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Empty reports whether no constraint is set.
func (f Filters) Empty() bool {
	return len(f.Active()) == 0
}

// Equal compares the effective constraints of two mappings.
func (f Filters) Equal(o Filters) bool {
	for _, k := range FilterKeys {
		if f.Get(k) != o.Get(k) {
			return false
		}
	}
	return true
}

// AppendTo adds the active constraints to v.
func (f Filters) AppendTo(v url.Values) {
	for _, k := range f.Active() {
		v.Set(string(k), f.Get(k))
	}
}

// ValidateFilter checks that k is a known key and, for numeric keys, that v
// parses as a finite number. Empty values are always valid.
func ValidateFilter(k FilterKey, v string) error {
	if !k.Known() {
		return NewValidationError("filter", string(k), ErrUnknownFilter)
	}
	v = strings.TrimSpace(v)
	if v == "" || !k.Numeric() {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return NewValidationError(string(k), v, ErrInvalidFilterValue)
	}
	return nil
}

// ParseFilters extracts the filter mapping from query values. Parameters
// that are not filter keys are ignored. Invalid numeric values are dropped
// and reported in the returned error; the remaining filters are still usable.
func ParseFilters(q url.Values) (Filters, error) {
	out := Filters{}
	var errs []error
	for _, k := range FilterKeys {
		v := strings.TrimSpace(q.Get(string(k)))
		if v == "" {
			continue
		}
		if err := ValidateFilter(k, v); err != nil {
			errs = append(errs, err)
			continue
		}
		out[k] = v
	}
	return out, errors.Join(errs...)
}
