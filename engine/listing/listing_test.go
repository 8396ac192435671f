package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/WessleyAI/encarview/engine/catalog"
)

func page(start, n int) []catalog.CarSummary {
	out := make([]catalog.CarSummary, n)
	for i := range out {
		out[i] = catalog.CarSummary{ID: start + i}
	}
	return out
}

type stubLister struct {
	pages map[int][]catalog.CarSummary
	err   error
	calls []int
}

func (s *stubLister) ListCars(ctx context.Context, f catalog.Filters, so catalog.Sort, offset, limit int) ([]catalog.CarSummary, error) {
	s.calls = append(s.calls, offset)
	if s.err != nil {
		return nil, s.err
	}
	return s.pages[offset], nil
}

func TestFirstPageAndHasMore(t *testing.T) {
	cases := []struct {
		n       int
		hasMore bool
	}{
		{20, true},
		{12, false},
		{0, false},
	}
	for _, tc := range cases {
		v := New(context.Background(), 20)
		req := v.Start()
		if v.State() != LoadingFirstPage || !v.Loading() {
			t.Fatalf("expected loading-first-page, got %s", v.State())
		}
		if !v.Apply(req.Token, page(1, tc.n), nil) {
			t.Fatal("outcome rejected")
		}
		if v.State() != Loaded || v.HasMore() != tc.hasMore || len(v.Cars()) != tc.n {
			t.Fatalf("n=%d: state=%s hasMore=%v cars=%d", tc.n, v.State(), v.HasMore(), len(v.Cars()))
		}
		if v.Empty() != (tc.n == 0) {
			t.Fatalf("n=%d: Empty=%v", tc.n, v.Empty())
		}
	}
}

func TestLoadMoreAppends(t *testing.T) {
	l := &stubLister{pages: map[int][]catalog.CarSummary{0: page(1, 20), 20: page(21, 5)}}
	v := New(context.Background(), 20)
	v.Load(l, v.Start())

	req, ok := v.LoadMore()
	if !ok || req.Offset != 20 || v.State() != LoadingMore {
		t.Fatalf("LoadMore = %+v %v state=%s", req, ok, v.State())
	}
	v.Load(l, req)
	if len(v.Cars()) != 25 || v.HasMore() || v.Cars()[24].ID != 25 {
		t.Fatalf("unexpected cars %d hasMore=%v", len(v.Cars()), v.HasMore())
	}
	if _, ok := v.LoadMore(); ok {
		t.Fatal("LoadMore after short page should be refused")
	}
}

func TestLoadMoreRefusedWhileLoading(t *testing.T) {
	v := New(context.Background(), 20)
	v.Start()
	if _, ok := v.LoadMore(); ok {
		t.Fatal("LoadMore during first page load should be refused")
	}
}

func TestResetDiscardsPages(t *testing.T) {
	l := &stubLister{pages: map[int][]catalog.CarSummary{0: page(1, 20), 20: page(21, 20)}}
	v := New(context.Background(), 20)
	v.Load(l, v.Start())
	req, _ := v.LoadMore()
	v.Load(l, req)
	if len(v.Cars()) != 40 {
		t.Fatalf("setup: %d cars", len(v.Cars()))
	}

	f := catalog.Filters{catalog.FilterManufacturer: "Kia"}
	req = v.Reset(f, catalog.Sort{By: catalog.SortByYear, Order: catalog.Desc})
	if req.Offset != 0 || len(v.Cars()) != 0 || v.State() != LoadingFirstPage {
		t.Fatalf("reset did not restart: %+v state=%s", req, v.State())
	}
	if req.Filters.Get(catalog.FilterManufacturer) != "Kia" || req.Sort.By != catalog.SortByYear {
		t.Fatalf("request lost filters or sort: %+v", req)
	}
	v.Load(l, req)
	if len(v.Cars()) != 20 || v.Cars()[0].ID != 1 {
		t.Fatalf("expected only first page, got %d", len(v.Cars()))
	}
}

func TestStaleOutcomeIgnored(t *testing.T) {
	v := New(context.Background(), 20)
	old := v.Reset(catalog.Filters{catalog.FilterManufacturer: "BMW"}, catalog.DefaultSort())
	cur := v.Reset(catalog.Filters{catalog.FilterManufacturer: "Kia"}, catalog.DefaultSort())

	if old.Context().Err() == nil {
		t.Fatal("superseded request should be cancelled")
	}
	if v.Apply(old.Token, page(100, 20), nil) {
		t.Fatal("stale outcome accepted")
	}
	if v.State() != LoadingFirstPage || len(v.Cars()) != 0 {
		t.Fatalf("stale outcome changed state: %s", v.State())
	}
	if !v.Apply(cur.Token, page(1, 3), nil) {
		t.Fatal("current outcome rejected")
	}
	if v.Apply(cur.Token, page(1, 20), nil) {
		t.Fatal("duplicate outcome accepted")
	}
	if len(v.Cars()) != 3 {
		t.Fatalf("cars = %d", len(v.Cars()))
	}
}

func TestFailureAndRetry(t *testing.T) {
	boom := &catalog.LoadListError{Cause: errors.New("dial tcp: refused")}
	l := &stubLister{err: boom}
	v := New(context.Background(), 20)
	v.Load(l, v.Start())

	if v.State() != Failed || !errors.Is(v.Err(), catalog.ErrLoadList) {
		t.Fatalf("state=%s err=%v", v.State(), v.Err())
	}
	if v.Message() != "Failed to load car listings" {
		t.Fatalf("message = %q", v.Message())
	}

	l.err = nil
	l.pages = map[int][]catalog.CarSummary{0: page(1, 4)}
	req, ok := v.Retry()
	if !ok || req.Offset != 0 {
		t.Fatalf("Retry = %+v %v", req, ok)
	}
	v.Load(l, req)
	if v.State() != Loaded || v.Err() != nil || len(v.Cars()) != 4 {
		t.Fatalf("after retry: state=%s err=%v", v.State(), v.Err())
	}
	if _, ok := v.Retry(); ok {
		t.Fatal("Retry outside error state should be refused")
	}
}

func TestLoadMoreFailure(t *testing.T) {
	l := &stubLister{pages: map[int][]catalog.CarSummary{0: page(1, 20)}}
	v := New(context.Background(), 20)
	v.Load(l, v.Start())
	req, _ := v.LoadMore()
	v.Apply(req.Token, nil, &catalog.LoadListError{})
	if v.State() != Failed {
		t.Fatalf("state = %s", v.State())
	}
}

func TestJumpStartsAtOffset(t *testing.T) {
	l := &stubLister{pages: map[int][]catalog.CarSummary{40: page(41, 20)}}
	v := New(context.Background(), 20)
	req := v.Jump(nil, catalog.Sort{By: "bogus"}, 40)
	if req.Offset != 40 || req.Sort != catalog.DefaultSort() {
		t.Fatalf("Jump request %+v", req)
	}
	v.Load(l, req)
	if v.NextOffset() != 60 {
		t.Fatalf("NextOffset = %d", v.NextOffset())
	}
}

func TestCloseCancelsAndIgnores(t *testing.T) {
	v := New(context.Background(), 20)
	req := v.Start()
	v.Close()
	if req.Context().Err() == nil {
		t.Fatal("Close should cancel the request")
	}
	if v.Apply(req.Token, page(1, 1), nil) {
		t.Fatal("outcome after Close accepted")
	}
}

func TestStateString(t *testing.T) {
	want := map[State]string{
		Idle: "idle", LoadingFirstPage: "loading-first-page", LoadingMore: "loading-more",
		Loaded: "loaded", Failed: "error",
	}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), name)
		}
	}
}
