// Package listing holds the paginated car list state machine shared by the
// web and terminal front ends.
//
// A View never performs I/O itself. Each transition that needs data returns
// a Request stamped with a sequence token; the caller runs the fetch
// (synchronously or on another goroutine) and hands the outcome back to
// Apply. Outcomes carrying a token other than the latest one are dropped,
// and issuing a new Request cancels the context of the one it supersedes.
package listing

import (
	"context"

	"github.com/WessleyAI/encarview/engine/catalog"
)

// DefaultPageSize is the number of cars requested per page.
const DefaultPageSize = 20

// State is the phase of a View.
type State int

const (
	Idle State = iota
	LoadingFirstPage
	LoadingMore
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoadingFirstPage:
		return "loading-first-page"
	case LoadingMore:
		return "loading-more"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Lister is the subset of the API client a View's requests need.
type Lister interface {
	ListCars(ctx context.Context, filters catalog.Filters, sort catalog.Sort, offset, limit int) ([]catalog.CarSummary, error)
}

// Request describes one page fetch issued by a View.
type Request struct {
	Token   uint64
	Filters catalog.Filters
	Sort    catalog.Sort
	Offset  int
	Limit   int

	ctx context.Context
}

// Context is cancelled once the request is superseded or the View closed.
func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Fetch runs the request against l.
func (r Request) Fetch(l Lister) ([]catalog.CarSummary, error) {
	return l.ListCars(r.Context(), r.Filters, r.Sort, r.Offset, r.Limit)
}

// View is the listing state. It is not safe for concurrent use; drive it
// from one goroutine.
type View struct {
	parent   context.Context
	pageSize int

	state   State
	filters catalog.Filters
	sort    catalog.Sort
	cars    []catalog.CarSummary
	base    int
	hasMore bool
	err     error

	token  uint64
	cancel context.CancelFunc
}

// New creates an idle View. Request contexts derive from ctx.
func New(ctx context.Context, pageSize int) *View {
	if ctx == nil {
		ctx = context.Background()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{
		parent:   ctx,
		pageSize: pageSize,
		filters:  catalog.Filters{},
		sort:     catalog.DefaultSort(),
		cars:     []catalog.CarSummary{},
	}
}

// Start loads the first page for the current filters and sort.
func (v *View) Start() Request {
	return v.Jump(v.filters, v.sort, 0)
}

// Reset discards all pages and loads the first page for filters and sort.
func (v *View) Reset(filters catalog.Filters, sort catalog.Sort) Request {
	return v.Jump(filters, sort, 0)
}

// Jump is Reset starting at offset instead of 0. The web front end uses it
// to render a page the browser asked for directly.
func (v *View) Jump(filters catalog.Filters, sort catalog.Sort, offset int) Request {
	if offset < 0 {
		offset = 0
	}
	if !sort.Valid() {
		sort = catalog.DefaultSort()
	}
	v.filters = filters.Clone()
	v.sort = sort
	v.cars = []catalog.CarSummary{}
	v.base = offset
	v.hasMore = false
	v.err = nil
	v.state = LoadingFirstPage
	return v.issue(offset)
}

// LoadMore requests the next page. It reports false unless the view is
// loaded and the last page was full.
func (v *View) LoadMore() (Request, bool) {
	if v.state != Loaded || !v.hasMore {
		return Request{}, false
	}
	v.state = LoadingMore
	return v.issue(v.NextOffset()), true
}

// Retry restarts pagination at offset 0 after a failure.
func (v *View) Retry() (Request, bool) {
	if v.state != Failed {
		return Request{}, false
	}
	return v.Jump(v.filters, v.sort, 0), true
}

// Apply records the outcome of the request identified by token. It reports
// whether the outcome was accepted; stale or unexpected outcomes leave the
// view untouched.
func (v *View) Apply(token uint64, cars []catalog.CarSummary, err error) bool {
	if token != v.token || (v.state != LoadingFirstPage && v.state != LoadingMore) {
		return false
	}
	v.release()

	if err != nil {
		v.err = err
		v.hasMore = false
		v.state = Failed
		return true
	}

	if v.state == LoadingFirstPage {
		v.cars = append([]catalog.CarSummary{}, cars...)
	} else {
		v.cars = append(v.cars, cars...)
	}
	v.hasMore = len(cars) == v.pageSize
	v.state = Loaded
	return true
}

// Load runs req against l synchronously and applies the outcome.
func (v *View) Load(l Lister, req Request) bool {
	cars, err := req.Fetch(l)
	return v.Apply(req.Token, cars, err)
}

// Close cancels any request in flight. Later outcomes are ignored.
func (v *View) Close() {
	v.release()
	v.token++
}

func (v *View) issue(offset int) Request {
	v.release()
	v.token++
	ctx, cancel := context.WithCancel(v.parent)
	v.cancel = cancel
	return Request{
		Token:   v.token,
		Filters: v.filters.Clone(),
		Sort:    v.sort,
		Offset:  offset,
		Limit:   v.pageSize,
		ctx:     ctx,
	}
}

func (v *View) release() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *View) State() State { return v.state }
func (v *View) Cars() []catalog.CarSummary { return v.cars }
func (v *View) HasMore() bool { return v.hasMore }
func (v *View) Err() error { return v.err }
func (v *View) Filters() catalog.Filters { return v.filters.Clone() }
func (v *View) Sort() catalog.Sort { return v.sort }
func (v *View) PageSize() int { return v.pageSize }
func (v *View) Token() uint64 { return v.token }
func (v *View) Loading() bool { return v.state == LoadingFirstPage || v.state == LoadingMore }

// Empty reports a loaded view with no cars.
func (v *View) Empty() bool { return v.state == Loaded && len(v.cars) == 0 }

// NextOffset is the offset the next LoadMore will request.
func (v *View) NextOffset() int { return v.base + len(v.cars) }

// Message is the user-facing text for the current error, or "".
func (v *View) Message() string { return catalog.Message(v.err) }
