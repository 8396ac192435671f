package tui

import (
	"context"

	"github.com/WessleyAI/encarview/engine/catalog"
	"github.com/WessleyAI/encarview/engine/detail"
	"github.com/WessleyAI/encarview/engine/listing"
	"github.com/WessleyAI/encarview/pkg/fn"
	tea "github.com/charmbracelet/bubbletea"
)

// listMsg carries the outcome of a listing request and its token.
type listMsg struct {
	token  uint64
	result fn.Result[[]catalog.CarSummary]
}

// detailMsg carries the outcome of a detail request and its token.
type detailMsg struct {
	token  uint64
	result fn.Result[catalog.CarDetail]
}

type optionsMsg struct {
	result fn.Result[catalog.FilterOptions]
}

func fetchList(api listing.Lister, req listing.Request) tea.Cmd {
	return func() tea.Msg {
		cars, err := req.Fetch(api)
		return listMsg{token: req.Token, result: fn.FromPair(cars, err)}
	}
}

func fetchDetail(api detail.Fetcher, req detail.Request) tea.Cmd {
	return func() tea.Msg {
		car, err := req.Fetch(api)
		return detailMsg{token: req.Token, result: fn.FromPair(car, err)}
	}
}

func fetchOptions(ctx context.Context, api Catalog) tea.Cmd {
	return func() tea.Msg {
		opts, err := api.GetFilterOptions(ctx)
		return optionsMsg{result: fn.FromPair(opts, err)}
	}
}
