package tui

import "github.com/charmbracelet/bubbles/key"

type listKeys struct {
	Up, Down, Open, More, Sort, Order, Filters, Clear, Retry, Help, Quit key.Binding
}

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.More, k.Sort, k.Order, k.Filters, k.Help, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.More},
		{k.Sort, k.Order, k.Filters, k.Clear},
		{k.Retry, k.Help, k.Quit},
	}
}

type detailKeys struct {
	Prev, Next, Retry, Back, Help, Quit key.Binding
}

func (k detailKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Back, k.Quit}
}

func (k detailKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.Retry}, {k.Back, k.Help, k.Quit}}
}

type editorKeys struct {
	Next, Prev, Done, Close key.Binding
}

func (k editorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Done, k.Close}
}

func (k editorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var (
	listKeyMap = listKeys{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		More:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort field")),
		Order:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort order")),
		Filters: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filters")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		Retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	detailKeyMap = detailKeys{
		Prev:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev image")),
		Next:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next image")),
		Retry: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Back:  key.NewBinding(key.WithKeys("esc", "backspace", "b"), key.WithHelp("esc", "back")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	editorKeyMap = editorKeys{
		Next:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Done:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
		Close: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
)
