package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/WessleyAI/encarview/engine/catalog"
	"github.com/WessleyAI/encarview/engine/encar"
	"github.com/WessleyAI/encarview/pkg/metrics"
	"github.com/WessleyAI/encarview/pkg/mid"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr(f float64) *float64 { return &f }

type listCall struct {
	filters catalog.Filters
	sort    catalog.Sort
	offset  int
	limit   int
}

type fakeCatalog struct {
	mu       sync.Mutex
	total    int
	listErr  error
	cars     map[int]catalog.CarDetail
	carErr   error
	opts     catalog.FilterOptions
	optsErr  error
	calls    []listCall
	optCalls int
}

func (f *fakeCatalog) ListCars(ctx context.Context, fl catalog.Filters, s catalog.Sort, offset, limit int) ([]catalog.CarSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, listCall{fl, s, offset, limit})
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []catalog.CarSummary
	for i := offset; i < f.total && i < offset+limit; i++ {
		out = append(out, catalog.CarSummary{
			ID: i + 1, Manufacturer: "Kia", Model: fmt.Sprintf("K%d", i+1),
			Price: ptr(1234), Mileage: ptr(45000), Year: ptr(2020), Photo: fmt.Sprintf("/pic/%d_", i+1),
		})
	}
	return out, nil
}

func (f *fakeCatalog) GetCar(ctx context.Context, id int) (catalog.CarDetail, error) {
	if f.carErr != nil {
		return catalog.CarDetail{}, f.carErr
	}
	car, ok := f.cars[id]
	if !ok {
		return catalog.CarDetail{}, &catalog.NotFoundError{ID: id}
	}
	return car, nil
}

func (f *fakeCatalog) GetFilterOptions(ctx context.Context) (catalog.FilterOptions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.optCalls++
	return f.opts, f.optsErr
}

func newTestServer(t *testing.T, api Catalog) (*httptest.Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.New("encarview_test")
	s, err := New(api, Config{PageSize: 20}, m, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return srv, m
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestListingPage(t *testing.T) {
	api := &fakeCatalog{total: 45, opts: catalog.FilterOptions{Manufacturers: []string{"BMW", "Kia"}}}
	srv, _ := newTestServer(t, api)

	resp, body := get(t, srv.URL+"/?manufacturer=Kia&sort_by=price&sort_order=desc")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Kia K1") || !strings.Contains(body, "₩12,340,000") || !strings.Contains(body, "45,000 km") {
		t.Fatal("cards not rendered")
	}
	if !strings.Contains(body, `href="/cars/1"`) {
		t.Fatal("card link missing")
	}
	if !strings.Contains(body, `<option value="Kia" selected>`) {
		t.Fatal("current manufacturer not selected")
	}
	if !strings.Contains(body, "Load more") || !strings.Contains(body, "offset=20") {
		t.Fatal("load more control missing")
	}
	if resp.Header.Get(mid.RequestIDHeader) == "" {
		t.Fatal("missing request id header")
	}

	call := api.calls[0]
	if call.offset != 0 || call.limit != 20 || call.filters.Get(catalog.FilterManufacturer) != "Kia" {
		t.Fatalf("unexpected call %+v", call)
	}
	if call.sort != (catalog.Sort{By: catalog.SortByPrice, Order: catalog.Desc}) {
		t.Fatalf("unexpected sort %+v", call.sort)
	}
}

func TestListingShortPageHasNoMore(t *testing.T) {
	srv, _ := newTestServer(t, &fakeCatalog{total: 12})
	_, body := get(t, srv.URL+"/")
	if strings.Contains(body, "Load more") {
		t.Fatal("short page should not offer more")
	}
}

func TestListingEmpty(t *testing.T) {
	srv, _ := newTestServer(t, &fakeCatalog{})
	resp, body := get(t, srv.URL+"/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "No cars found") {
		t.Fatalf("expected empty state, status=%d", resp.StatusCode)
	}
}

func TestListingError(t *testing.T) {
	api := &fakeCatalog{listErr: &catalog.LoadListError{Cause: errors.New("refused")}}
	srv, _ := newTestServer(t, api)
	resp, body := get(t, srv.URL+"/?manufacturer=BMW&offset=40")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Failed to load car listings") || !strings.Contains(body, "Try again") {
		t.Fatal("error view missing")
	}
	if strings.Contains(body, "offset=40") {
		t.Fatal("retry should restart at offset 0")
	}
}

func TestListingInvalidFilterWarns(t *testing.T) {
	api := &fakeCatalog{total: 1}
	srv, _ := newTestServer(t, api)
	_, body := get(t, srv.URL+"/?min_price=cheap&manufacturer=BMW")
	if !strings.Contains(body, "invalid") {
		t.Fatal("expected warning")
	}
	if _, ok := api.calls[0].filters[catalog.FilterMinPrice]; ok {
		t.Fatal("invalid filter forwarded")
	}
}

func TestOptionsFailureDoesNotBlock(t *testing.T) {
	api := &fakeCatalog{total: 3, optsErr: &catalog.LoadOptionsError{}}
	srv, _ := newTestServer(t, api)
	resp, body := get(t, srv.URL+"/?manufacturer=Hyundai")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Kia K3") {
		t.Fatalf("listing should render without options, status=%d", resp.StatusCode)
	}
	if !strings.Contains(body, `<option value="Hyundai" selected>`) {
		t.Fatal("value from the URL should stay selectable")
	}
	get(t, srv.URL+"/")
	if api.optCalls != 1 {
		t.Fatalf("options fetched %d times", api.optCalls)
	}
}

func TestFragment(t *testing.T) {
	api := &fakeCatalog{total: 45}
	srv, _ := newTestServer(t, api)

	resp, body := get(t, srv.URL+"/cars/page?offset=40")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if strings.Contains(body, "<html") {
		t.Fatal("fragment should not include the layout")
	}
	if !strings.Contains(body, `data-role="cards"`) || !strings.Contains(body, "Kia K41") || !strings.Contains(body, "Kia K45") {
		t.Fatal("fragment cards missing")
	}
	if strings.Contains(body, "Load more") {
		t.Fatal("last page should not offer more")
	}
	if api.calls[0].offset != 40 {
		t.Fatalf("offset = %d", api.calls[0].offset)
	}
}

func TestDetail(t *testing.T) {
	api := &fakeCatalog{cars: map[int]catalog.CarDetail{
		7: {
			CarSummary:   catalog.CarSummary{ID: 7, Manufacturer: "Hyundai", Model: "Sonata", Photo: "/pic/7_", Price: ptr(2500)},
			Photos:       []catalog.Photo{{Type: "001"}, {Type: "002"}, {Type: "003"}},
			ServiceMarks: []string{"Warranty"},
			Conditions:   []string{"Inspected"},
		},
	}}
	srv, _ := newTestServer(t, api)

	resp, body := get(t, srv.URL+"/cars/7?image=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{"Hyundai Sonata", "₩25,000,000", "Warranty", "Inspected", "/pic/7_003.jpg", "N/A"} {
		if !strings.Contains(body, want) {
			t.Errorf("detail missing %q", want)
		}
	}
	if !strings.Contains(body, `class="main" src="https://ci.encar.com/carpicture/pic/7_003.jpg`) {
		t.Fatal("active image should be the third")
	}

	_, body = get(t, srv.URL+"/cars/7?image=9")
	if !strings.Contains(body, `class="main" src="https://ci.encar.com/carpicture/pic/7_001.jpg`) {
		t.Fatal("out of range image should be ignored")
	}
}

func TestDetailNotFound(t *testing.T) {
	srv, _ := newTestServer(t, &fakeCatalog{})
	for _, path := range []string{"/cars/404", "/cars/abc"} {
		resp, body := get(t, srv.URL+path)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: status = %d", path, resp.StatusCode)
		}
		if !strings.Contains(body, "Car not found") || !strings.Contains(body, `href="/"`) {
			t.Fatalf("%s: not-found page missing message or back link", path)
		}
	}
}

func TestDetailError(t *testing.T) {
	srv, _ := newTestServer(t, &fakeCatalog{carErr: &catalog.LoadDetailError{ID: 1, Cause: errors.New("timeout")}})
	resp, body := get(t, srv.URL+"/cars/1")
	if resp.StatusCode != http.StatusBadGateway || !strings.Contains(body, "Failed to load car details") {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestStaticAndHealth(t *testing.T) {
	srv, _ := newTestServer(t, &fakeCatalog{})

	resp, body := get(t, srv.URL+"/static/placeholder-car.svg")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/svg+xml" || !strings.Contains(body, "<svg") {
		t.Fatalf("placeholder: status=%d type=%q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	resp, body = get(t, srv.URL+"/healthz")
	var health map[string]string
	if err := json.Unmarshal([]byte(body), &health); err != nil || health["status"] != "ok" {
		t.Fatalf("health = %q", body)
	}

	resp, _ = get(t, srv.URL+"/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown route status = %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &fakeCatalog{total: 1})
	get(t, srv.URL+"/cars/page")
	_, body := get(t, srv.URL+"/metrics")
	if !strings.Contains(body, `encarview_test_http_requests_total{method="GET",route="/cars/page",status="200"} 1`) {
		t.Fatalf("request not counted:\n%s", body)
	}
}

func TestRateLimit(t *testing.T) {
	s, err := New(&fakeCatalog{}, Config{RateLimit: 1, RateBurst: 1}, nil, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()

	first, _ := get(t, srv.URL+"/healthz")
	second, _ := get(t, srv.URL+"/healthz")
	if first.StatusCode != http.StatusOK || second.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("statuses %d, %d", first.StatusCode, second.StatusCode)
	}
}

func TestWithEncarClient(t *testing.T) {
	var gotQuery, gotReqID string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/cars":
			gotQuery = r.URL.RawQuery
			gotReqID = r.Header.Get(mid.RequestIDHeader)
			w.Write([]byte(`{"cars":[{"id":3,"manufacturer":"BMW","model":"520d","price":null}]}`))
		case "/api/cars/filters/options":
			w.Write([]byte(`{"manufacturers":["BMW"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	client, err := encar.New(encar.Options{BaseURL: upstream.URL + "/api"}, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	srv, _ := newTestServer(t, client)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/?manufacturer=BMW&min_year=2018&sort_by=price&sort_order=asc", nil)
	req.Header.Set(mid.RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if gotQuery != "manufacturer=BMW&min_year=2018&sort_by=price&sort_order=asc&offset=0&limit=20" {
		t.Fatalf("upstream query = %q", gotQuery)
	}
	if gotReqID != "abc-123" {
		t.Fatalf("request id not forwarded: %q", gotReqID)
	}
	if !strings.Contains(string(body), "BMW 520d") || !strings.Contains(string(body), "N/A") {
		t.Fatal("card missing")
	}
}
