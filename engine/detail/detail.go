// Package detail holds the single-car view: the fetched record, its image
// gallery and the active image index.
package detail

import (
	"context"
	"errors"

	"github.com/WessleyAI/encarview/engine/card"
	"github.com/WessleyAI/encarview/engine/catalog"
)

// BackLink is where the error and not-found states point the user.
const BackLink = "/"

// State is the phase of a View.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Fetcher is the subset of the API client a View's requests need.
type Fetcher interface {
	GetCar(ctx context.Context, id int) (catalog.CarDetail, error)
}

// Request describes one detail fetch issued by a View.
type Request struct {
	Token uint64
	ID    int

	ctx context.Context
}

// Context is cancelled once the request is superseded or the View closed.
func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Fetch runs the request against f.
func (r Request) Fetch(f Fetcher) (catalog.CarDetail, error) {
	return f.GetCar(r.Context(), r.ID)
}

// View is the detail state. It is not safe for concurrent use.
type View struct {
	parent context.Context

	state  State
	id     int
	car    catalog.CarDetail
	images []string
	active int
	err    error

	token  uint64
	cancel context.CancelFunc
}

// New creates an idle View. Request contexts derive from ctx.
func New(ctx context.Context) *View {
	if ctx == nil {
		ctx = context.Background()
	}
	return &View{parent: ctx}
}

// Open switches the view to id: the record is cleared, the active image
// reset to 0 and a fetch issued.
func (v *View) Open(id int) Request {
	v.release()
	v.token++
	v.id = id
	v.car = catalog.CarDetail{}
	v.images = nil
	v.active = 0
	v.err = nil
	v.state = Loading

	ctx, cancel := context.WithCancel(v.parent)
	v.cancel = cancel
	return Request{Token: v.token, ID: id, ctx: ctx}
}

// Retry refetches the current id after a failure.
func (v *View) Retry() (Request, bool) {
	if v.state != Failed {
		return Request{}, false
	}
	return v.Open(v.id), true
}

// Apply records the outcome of the request identified by token and
// reports whether it was accepted.
func (v *View) Apply(token uint64, car catalog.CarDetail, err error) bool {
	if token != v.token || v.state != Loading {
		return false
	}
	v.release()
	if err != nil {
		v.err = err
		v.state = Failed
		return true
	}
	v.car = car
	v.images = Gallery(car)
	v.state = Ready
	return true
}

// Load runs req against f synchronously and applies the outcome.
func (v *View) Load(f Fetcher, req Request) bool {
	car, err := req.Fetch(f)
	return v.Apply(req.Token, car, err)
}

// Close cancels any fetch in flight, ignores its outcome and drops the
// record and gallery.
func (v *View) Close() {
	v.release()
	v.token++
	v.car = catalog.CarDetail{}
	v.images = nil
	v.active = 0
	v.err = nil
	v.state = Idle
}

func (v *View) release() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// Select makes image i active. Out of range indexes are ignored.
func (v *View) Select(i int) bool {
	if i < 0 || i >= len(v.images) {
		return false
	}
	v.active = i
	return true
}

// Next and Prev step through the gallery without wrapping.
func (v *View) Next() bool { return v.Select(v.active + 1) }
func (v *View) Prev() bool { return v.Select(v.active - 1) }

func (v *View) State() State { return v.state }
func (v *View) ID() int { return v.id }
func (v *View) Car() catalog.CarDetail { return v.car }
func (v *View) Images() []string { return v.images }
func (v *View) Active() int { return v.active }
func (v *View) Err() error { return v.err }

// ActiveImage returns the URL of the active image, or "" before load.
func (v *View) ActiveImage() string {
	if v.active < len(v.images) {
		return v.images[v.active]
	}
	return ""
}

// NotFound reports whether the last fetch answered 404.
func (v *View) NotFound() bool { return v.state == Failed && errors.Is(v.err, catalog.ErrNotFound) }

// Message is the user-facing text for the current error, or "".
func (v *View) Message() string { return catalog.Message(v.err) }

// Gallery derives the image URLs of car: one per photo descriptor, or a
// single default image when the record carries none.
func Gallery(car catalog.CarDetail) []string {
	if len(car.Photos) == 0 {
		return []string{card.ImageURL(car.Photo, card.DefaultPhotoType)}
	}
	out := make([]string, len(car.Photos))
	for i, p := range car.Photos {
		out[i] = card.ImageURL(car.Photo, p.Type)
	}
	return out
}
