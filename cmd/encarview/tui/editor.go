package tui

import (
	"strings"

	"github.com/WessleyAI/encarview/engine/catalog"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var editorLabels = map[catalog.FilterKey]string{
	catalog.FilterManufacturer: "Manufacturer",
	catalog.FilterFuelType:     "Fuel type",
	catalog.FilterTransmission: "Transmission",
	catalog.FilterCity:         "Location",
	catalog.FilterMinPrice:     "Min price",
	catalog.FilterMaxPrice:     "Max price",
	catalog.FilterMinYear:      "Min year",
	catalog.FilterMaxYear:      "Max year",
}

// editor is the filter form: one text field per filter key.
type editor struct {
	inputs []textinput.Model
	focus  int
	errs   []string
}

func newEditor(current catalog.Filters) editor {
	e := editor{
		inputs: make([]textinput.Model, len(catalog.FilterKeys)),
		errs:   make([]string, len(catalog.FilterKeys)),
	}
	for i, k := range catalog.FilterKeys {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		in.Width = 32
		in.Cursor.SetMode(cursor.CursorStatic)
		in.SetValue(current.Get(k))
		if k.Numeric() {
			in.Placeholder = "any"
		} else {
			in.Placeholder = "all"
		}
		e.inputs[i] = in
	}
	e.inputs[0].Focus()
	return e
}

func (e *editor) move(delta int) {
	e.inputs[e.focus].Blur()
	e.focus = (e.focus + delta + len(e.inputs)) % len(e.inputs)
	e.inputs[e.focus].Focus()
}

func (e *editor) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return cmd
}

func (e editor) key() catalog.FilterKey { return catalog.FilterKeys[e.focus] }

// current returns the trimmed text of the focused field.
func (e editor) current() string {
	return strings.TrimSpace(e.inputs[e.focus].Value())
}

func (e *editor) setErr(msg string) { e.errs[e.focus] = msg }

// invalid reports whether any field holds a value the controls rejected.
func (e editor) invalid() bool {
	for _, msg := range e.errs {
		if msg != "" {
			return true
		}
	}
	return false
}

func (e editor) view(opts catalog.FilterOptions) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Filters") + "\n\n")
	for i, k := range catalog.FilterKeys {
		marker := "  "
		if i == e.focus {
			marker = priceStyle.Render("> ")
		}
		b.WriteString(marker + labelStyle.Render(editorLabels[k]) + e.inputs[i].View() + "\n")
	}
	b.WriteString("\n")
	if hint := e.hint(opts); hint != "" {
		b.WriteString(mutedStyle.Render(hint) + "\n")
	}
	for _, msg := range e.errs {
		if msg != "" {
			b.WriteString(errorStyle.Render(msg) + "\n")
		}
	}
	return b.String()
}

// hint lists the server vocabulary or range for the focused field.
func (e editor) hint(opts catalog.FilterOptions) string {
	k := e.key()
	if vals := opts.Values(k); len(vals) > 0 {
		const limit = 12
		if len(vals) > limit {
			return "Options: " + strings.Join(vals[:limit], ", ") + ", ..."
		}
		return "Options: " + strings.Join(vals, ", ")
	}
	switch k {
	case catalog.FilterMinPrice, catalog.FilterMaxPrice:
		return "Range: " + formatRange(opts.PriceRange) + " (10k ₩)"
	case catalog.FilterMinYear, catalog.FilterMaxYear:
		return "Range: " + formatRange(opts.YearRange)
	}
	return ""
}
