package filters

import (
	"fmt"
	"log/slog"

	"github.com/WessleyAI/encarview/engine/catalog"
)

// Change is the filter and sort combination after a control changed.
type Change struct {
	Filters catalog.Filters
	Sort    catalog.Sort
}

// Listener is notified synchronously after every change.
type Listener func(Change)

// Controls holds the filter mapping and sort directive of one front end.
// It is not safe for concurrent use.
type Controls struct {
	filters   catalog.Filters
	sort      catalog.Sort
	options   catalog.FilterOptions
	requested bool
	listeners []Listener
	log       *slog.Logger
}

// NewControls creates Controls with no constraints and the default sort.
func NewControls(logger *slog.Logger) *Controls {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controls{
		filters: catalog.Filters{},
		sort:    catalog.DefaultSort(),
		options: catalog.DefaultFilterOptions(),
		log:     logger.With("component", "filters"),
	}
}

// Subscribe registers l for change notifications.
func (c *Controls) Subscribe(l Listener) {
	c.listeners = append(c.listeners, l)
}

func (c *Controls) notify() {
	ch := Change{Filters: c.filters.Clone(), Sort: c.sort}
	for _, l := range c.listeners {
		l(ch)
	}
}

// Set replaces the value of one filter key; an empty value removes it.
// Invalid input is rejected without notifying.
func (c *Controls) Set(key catalog.FilterKey, value string) error {
	if err := catalog.ValidateFilter(key, value); err != nil {
		return err
	}
	c.filters = c.filters.With(key, value)
	c.notify()
	return nil
}

// SetSortBy replaces the sort field.
func (c *Controls) SetSortBy(by catalog.SortField) error {
	s := catalog.Sort{By: by, Order: c.sort.Order}
	if !s.Valid() {
		return catalog.NewValidationError("sort_by", string(by), catalog.ErrInvalidFilterValue)
	}
	c.sort = s
	c.notify()
	return nil
}

// SetSortOrder replaces the sort direction.
func (c *Controls) SetSortOrder(order catalog.SortOrder) error {
	s := catalog.Sort{By: c.sort.By, Order: order}
	if !s.Valid() {
		return catalog.NewValidationError("sort_order", string(order), catalog.ErrInvalidFilterValue)
	}
	c.sort = s
	c.notify()
	return nil
}

// Clear removes every constraint and notifies once.
func (c *Controls) Clear() {
	c.filters = catalog.Filters{}
	c.notify()
}

// StartOptions reports whether the vocabularies still have to be fetched
// and marks them requested, so the fetch happens once per Controls.
func (c *Controls) StartOptions() bool {
	if c.requested {
		return false
	}
	c.requested = true
	return true
}

// ApplyOptions installs the outcome of the fetch started by StartOptions.
// A failure is logged and leaves the empty vocabularies and default ranges
// in place.
func (c *Controls) ApplyOptions(opts catalog.FilterOptions, err error) error {
	if err != nil {
		c.log.Error("load filter options", "error", err)
		return fmt.Errorf("load options: %w", err)
	}
	c.options = opts
	return nil
}

func (c *Controls) Filters() catalog.Filters { return c.filters.Clone() }
func (c *Controls) Sort() catalog.Sort { return c.sort }
func (c *Controls) Options() catalog.FilterOptions { return c.options }
