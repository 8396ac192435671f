package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/WessleyAI/encarview/engine/card"
	"github.com/WessleyAI/encarview/engine/catalog"
	"github.com/WessleyAI/encarview/engine/detail"
	"github.com/WessleyAI/encarview/engine/listing"
	"github.com/go-chi/chi/v5"
)

var filterLabels = map[catalog.FilterKey]string{
	catalog.FilterManufacturer: "Manufacturer",
	catalog.FilterFuelType:     "Fuel type",
	catalog.FilterTransmission: "Transmission",
	catalog.FilterCity:         "Location",
	catalog.FilterMinPrice:     "Min price (10k ₩)",
	catalog.FilterMaxPrice:     "Max price (10k ₩)",
	catalog.FilterMinYear:      "Min year",
	catalog.FilterMaxYear:      "Max year",
}

type choice struct {
	Value    string
	Label    string
	Selected bool
}

type selectControl struct {
	Key     string
	Label   string
	Choices []choice
}

type numberControl struct {
	Key   string
	Label string
	Value string
	Min   float64
	Max   float64
}

type more struct {
	Href     string
	Fragment string
}

type listPage struct {
	Title    string
	Selects  []selectControl
	Numbers  []numberControl
	SortBy   []choice
	Order    []choice
	ClearURL string
	Tiles    []card.Tile
	Empty    bool
	Error    string
	RetryURL string
	Warning  string
	More     *more
}

type galleryImage struct {
	URL    string
	Link   string
	Index  int
	Active bool
}

type detailPage struct {
	Title    string
	Tile     card.Tile
	Car      catalog.CarDetail
	Images   []galleryImage
	Active   string
	BackLink string
}

type messagePage struct {
	Title    string
	Message  string
	BackLink string
}

// listQuery renders the query string for a listing link.
func listQuery(f catalog.Filters, s catalog.Sort, offset int) string {
	v := url.Values{}
	f.AppendTo(v)
	v.Set("sort_by", string(s.By))
	v.Set("sort_order", string(s.Order))
	if offset > 0 {
		v.Set("offset", strconv.Itoa(offset))
	}
	return v.Encode()
}

// request reads filters, sort and offset from the query string. Invalid
// filter values are dropped and reported as a warning.
func (s *Server) request(r *http.Request) (catalog.Filters, catalog.Sort, int, string) {
	q := r.URL.Query()
	f, err := catalog.ParseFilters(q)
	warning := ""
	if err != nil {
		s.log.Warn("ignoring invalid filters", "error", err, "query", r.URL.RawQuery)
		warning = "Some filter values were invalid and have been ignored."
	}
	sort := catalog.ParseSort(q.Get("sort_by"), q.Get("sort_order"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return f, sort, offset, warning
}

// fetch loads one page through a listing view.
func (s *Server) fetch(r *http.Request, f catalog.Filters, sort catalog.Sort, offset int) *listing.View {
	v := listing.New(r.Context(), s.cfg.PageSize)
	v.Load(s.api, v.Jump(f, sort, offset))
	if err := v.Err(); err != nil {
		s.log.Error("load listing", "error", err, "offset", offset)
	}
	return v
}

func (s *Server) moreLink(v *listing.View) *more {
	if !v.HasMore() {
		return nil
	}
	q := listQuery(v.Filters(), v.Sort(), v.NextOffset())
	return &more{Href: "/?" + q, Fragment: "/cars/page?" + q}
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	f, sort, offset, warning := s.request(r)
	v := s.fetch(r, f, sort, offset)
	opts := s.vocab.Options(r.Context())

	page := listPage{
		Title:    "Cars",
		Selects:  selects(f, opts),
		Numbers:  numbers(f, opts),
		SortBy:   sortChoices(sort),
		Order:    orderChoices(sort),
		ClearURL: "/?" + listQuery(nil, sort, 0),
		Warning:  warning,
	}

	status := http.StatusOK
	if v.State() == listing.Failed {
		status = http.StatusBadGateway
		page.Error = v.Message()
		page.RetryURL = "/?" + listQuery(f, sort, 0)
	} else {
		page.Tiles = s.cards.Tiles(v.Cars())
		page.Empty = v.Empty()
		page.More = s.moreLink(v)
	}
	s.render(w, r, status, "listing", page)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	f, sort, offset, _ := s.request(r)
	v := s.fetch(r, f, sort, offset)

	page := listPage{}
	status := http.StatusOK
	if v.State() == listing.Failed {
		status = http.StatusBadGateway
		page.Error = v.Message()
		page.RetryURL = "/?" + listQuery(f, sort, 0)
	} else {
		page.Tiles = s.cards.Tiles(v.Cars())
		page.More = s.moreLink(v)
	}
	s.render(w, r, status, "fragment", page)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		s.renderNotFound(w, r)
		return
	}

	v := detail.New(r.Context())
	v.Load(s.api, v.Open(id))
	if v.State() == detail.Failed {
		if v.NotFound() {
			s.log.Warn("car not found", "id", id)
			s.renderNotFound(w, r)
			return
		}
		s.log.Error("load car detail", "id", id, "error", v.Err())
		s.render(w, r, http.StatusBadGateway, "error", messagePage{
			Title:    "Error",
			Message:  v.Message(),
			BackLink: detail.BackLink,
		})
		return
	}

	if n, err := strconv.Atoi(r.URL.Query().Get("image")); err == nil {
		v.Select(n)
	}

	car := v.Car()
	images := make([]galleryImage, len(v.Images()))
	for i, u := range v.Images() {
		images[i] = galleryImage{
			URL:    u,
			Link:   card.Link(id) + "?image=" + strconv.Itoa(i),
			Index:  i,
			Active: i == v.Active(),
		}
	}
	s.render(w, r, http.StatusOK, "detail", detailPage{
		Title:    car.Title(),
		Tile:     s.cards.Tile(car.CarSummary),
		Car:      car,
		Images:   images,
		Active:   v.ActiveImage(),
		BackLink: detail.BackLink,
	})
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "notfound", messagePage{
		Title:    "Not found",
		Message:  catalog.Message(catalog.ErrNotFound),
		BackLink: detail.BackLink,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "notfound", messagePage{
		Title:    "Not found",
		Message:  "Page not found",
		BackLink: detail.BackLink,
	})
}

func selects(f catalog.Filters, opts catalog.FilterOptions) []selectControl {
	keys := []catalog.FilterKey{catalog.FilterManufacturer, catalog.FilterFuelType, catalog.FilterTransmission, catalog.FilterCity}
	out := make([]selectControl, 0, len(keys))
	for _, k := range keys {
		cur := f.Get(k)
		c := selectControl{Key: string(k), Label: filterLabels[k]}
		c.Choices = append(c.Choices, choice{Value: "", Label: "All", Selected: cur == ""})
		found := cur == ""
		for _, val := range opts.Values(k) {
			c.Choices = append(c.Choices, choice{Value: val, Label: val, Selected: val == cur})
			found = found || val == cur
		}
		// Keep a value from the URL selectable even when the vocabulary
		// failed to load or no longer lists it.
		if !found {
			c.Choices = append(c.Choices, choice{Value: cur, Label: cur, Selected: true})
		}
		out = append(out, c)
	}
	return out
}

func numbers(f catalog.Filters, opts catalog.FilterOptions) []numberControl {
	return []numberControl{
		{Key: string(catalog.FilterMinPrice), Label: filterLabels[catalog.FilterMinPrice], Value: f.Get(catalog.FilterMinPrice), Min: opts.PriceRange.Min, Max: opts.PriceRange.Max},
		{Key: string(catalog.FilterMaxPrice), Label: filterLabels[catalog.FilterMaxPrice], Value: f.Get(catalog.FilterMaxPrice), Min: opts.PriceRange.Min, Max: opts.PriceRange.Max},
		{Key: string(catalog.FilterMinYear), Label: filterLabels[catalog.FilterMinYear], Value: f.Get(catalog.FilterMinYear), Min: opts.YearRange.Min, Max: opts.YearRange.Max},
		{Key: string(catalog.FilterMaxYear), Label: filterLabels[catalog.FilterMaxYear], Value: f.Get(catalog.FilterMaxYear), Min: opts.YearRange.Min, Max: opts.YearRange.Max},
	}
}

func sortChoices(s catalog.Sort) []choice {
	out := make([]choice, len(catalog.SortFields))
	for i, f := range catalog.SortFields {
		out[i] = choice{Value: string(f), Label: f.Label(), Selected: f == s.By}
	}
	return out
}

func orderChoices(s catalog.Sort) []choice {
	return []choice{
		{Value: string(catalog.Asc), Label: catalog.Asc.Label(), Selected: s.Order == catalog.Asc},
		{Value: string(catalog.Desc), Label: catalog.Desc.Label(), Selected: s.Order == catalog.Desc},
	}
}
