// Package tui is the terminal front end: a bubbletea program over the
// listing, detail and filter engines.
package tui

import (
	"context"
	"log/slog"

	"github.com/WessleyAI/encarview/engine/card"
	"github.com/WessleyAI/encarview/engine/catalog"
	"github.com/WessleyAI/encarview/engine/detail"
	"github.com/WessleyAI/encarview/engine/filters"
	"github.com/WessleyAI/encarview/engine/listing"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Catalog is the API surface the terminal front end needs.
type Catalog interface {
	listing.Lister
	detail.Fetcher
	filters.OptionsSource
}

type screen int

const (
	listScreen screen = iota
	detailScreen
	editorScreen
)

// rowHeight is the number of lines one car occupies in the list.
const rowHeight = 3

// Model is the bubbletea model. Use it through a pointer.
type Model struct {
	api      Catalog
	ctx      context.Context
	log      *slog.Logger
	list     *listing.View
	detail   *detail.View
	controls *filters.Controls
	cards    card.Formatter

	screen  screen
	cursor  int
	editor  editor
	notice  string
	pending []tea.Cmd

	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	width    int
	height   int
}

// New creates the model. Fetches are cancelled when ctx is.
func New(ctx context.Context, api Catalog, pageSize int, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		api:      api,
		ctx:      ctx,
		log:      logger.With("component", "tui"),
		list:     listing.New(ctx, pageSize),
		detail:   detail.New(ctx),
		controls: filters.NewControls(logger),
		cards:    card.Default,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(priceStyle)),
		viewport: viewport.New(80, 20),
		help:     help.New(),
		width:    80,
		height:   24,
	}
	m.controls.Subscribe(m.onChange)
	return m
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, api Catalog, pageSize int, logger *slog.Logger) error {
	m := New(ctx, api, pageSize, logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	m.list.Close()
	m.detail.Close()
	return err
}

// onChange restarts pagination whenever a filter or the sort changes.
func (m *Model) onChange(ch filters.Change) {
	m.cursor = 0
	m.viewport.GotoTop()
	m.queue(fetchList(m.api, m.list.Reset(ch.Filters, ch.Sort)))
}

func (m *Model) queue(cmd tea.Cmd) {
	m.pending = append(m.pending, cmd)
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, fetchList(m.api, m.list.Start())}
	if m.controls.StartOptions() {
		cmds = append(cmds, fetchOptions(m.ctx, m.api))
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-5, rowHeight)

	case listMsg:
		cars, err := msg.result.Unwrap()
		if m.list.Apply(msg.token, cars, err) && err != nil {
			m.log.Error("load listing", "error", err)
		}

	case detailMsg:
		car, err := msg.result.Unwrap()
		if m.detail.Apply(msg.token, car, err) && err != nil {
			m.log.Error("load car detail", "id", m.detail.ID(), "error", err)
		}

	case optionsMsg:
		if err := m.controls.ApplyOptions(msg.result.Unwrap()); err != nil {
			m.notice = catalog.Message(err)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		switch m.screen {
		case listScreen:
			cmds = append(cmds, m.listKey(msg))
		case detailScreen:
			cmds = append(cmds, m.detailKey(msg))
		case editorScreen:
			cmds = append(cmds, m.editorKey(msg))
		}
	}

	cmds = append(cmds, m.pending...)
	m.pending = nil
	m.syncViewport()
	return m, tea.Batch(cmds...)
}

func (m *Model) quit() tea.Cmd {
	m.list.Close()
	m.detail.Close()
	return tea.Quit
}

func (m *Model) listKey(msg tea.KeyMsg) tea.Cmd {
	keys := listKeyMap
	cars := m.list.Cars()
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(cars)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Open):
		if m.cursor < len(cars) && !m.list.Loading() {
			m.screen = detailScreen
			return fetchDetail(m.api, m.detail.Open(cars[m.cursor].ID))
		}
	case key.Matches(msg, keys.More):
		if req, ok := m.list.LoadMore(); ok {
			return fetchList(m.api, req)
		}
	case key.Matches(msg, keys.Sort):
		m.controls.SetSortBy(m.controls.Sort().Next().By)
	case key.Matches(msg, keys.Order):
		m.controls.SetSortOrder(m.controls.Sort().Flip().Order)
	case key.Matches(msg, keys.Filters):
		m.editor = newEditor(m.controls.Filters())
		m.screen = editorScreen
	case key.Matches(msg, keys.Clear):
		m.controls.Clear()
	case key.Matches(msg, keys.Retry):
		if req, ok := m.list.Retry(); ok {
			m.cursor = 0
			return fetchList(m.api, req)
		}
	}
	return nil
}

func (m *Model) detailKey(msg tea.KeyMsg) tea.Cmd {
	keys := detailKeyMap
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Prev):
		m.detail.Prev()
	case key.Matches(msg, keys.Next):
		m.detail.Next()
	case key.Matches(msg, keys.Retry):
		if req, ok := m.detail.Retry(); ok {
			return fetchDetail(m.api, req)
		}
	case key.Matches(msg, keys.Back):
		m.detail.Close()
		m.screen = listScreen
	}
	return nil
}

// editorKey edits the focused field. Every change of a field's value is
// pushed to the controls at once, which restarts the listing.
func (m *Model) editorKey(msg tea.KeyMsg) tea.Cmd {
	keys := editorKeyMap
	switch {
	case key.Matches(msg, keys.Close):
		m.screen = listScreen
	case key.Matches(msg, keys.Done):
		if !m.editor.invalid() {
			m.screen = listScreen
		}
	case key.Matches(msg, keys.Next):
		m.editor.move(1)
	case key.Matches(msg, keys.Prev):
		m.editor.move(-1)
	default:
		cmd := m.editor.update(msg)
		m.push()
		return cmd
	}
	return nil
}

// push sends the focused field to the controls when it differs from the
// applied value. Invalid input is kept in the field and flagged.
func (m *Model) push() {
	k, v := m.editor.key(), m.editor.current()
	if v == m.controls.Filters().Get(k) {
		m.editor.setErr("")
		return
	}
	if err := m.controls.Set(k, v); err != nil {
		m.editor.setErr(err.Error())
		return
	}
	m.editor.setErr("")
}

// syncViewport re-renders the list rows and keeps the cursor in view.
func (m *Model) syncViewport() {
	m.viewport.SetContent(m.renderRows())
	top := m.cursor * rowHeight
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case top+rowHeight > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(top + rowHeight - m.viewport.Height)
	}
}
