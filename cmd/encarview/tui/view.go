package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/WessleyAI/encarview/engine/card"
	"github.com/WessleyAI/encarview/engine/catalog"
	"github.com/WessleyAI/encarview/engine/detail"
	"github.com/WessleyAI/encarview/engine/listing"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	var body string
	switch m.screen {
	case detailScreen:
		body = m.detailView() + "\n" + m.help.View(detailKeyMap)
	case editorScreen:
		body = m.editor.view(m.controls.Options()) + "\n" + m.help.View(editorKeyMap)
	default:
		body = m.listView() + "\n" + m.help.View(listKeyMap)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body)
}

func (m *Model) header() string {
	s := m.controls.Sort()
	parts := []string{"sort: " + s.By.Label() + " " + strings.ToLower(s.Order.Label())}
	if f := m.controls.Filters(); !f.Empty() {
		var active []string
		for _, k := range f.Active() {
			active = append(active, string(k)+"="+f.Get(k))
		}
		parts = append(parts, "filters: "+strings.Join(active, ", "))
	}
	return titleStyle.Render("encarview") + " " + mutedStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) listView() string {
	var b strings.Builder
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n")
	}

	switch {
	case m.list.State() == listing.Failed:
		b.WriteString(errorStyle.Render(m.list.Message()) + "\n")
		b.WriteString(mutedStyle.Render("press r to try again") + "\n")
		return b.String()
	case m.list.State() == listing.LoadingFirstPage, m.list.State() == listing.Idle:
		b.WriteString(m.spinner.View() + " Loading cars...\n")
		return b.String()
	case m.list.Empty():
		b.WriteString("No cars found. Try adjusting your filters.\n")
		return b.String()
	}

	b.WriteString(m.viewport.View() + "\n")
	footer := fmt.Sprintf("%d cars", len(m.list.Cars()))
	switch {
	case m.list.State() == listing.LoadingMore:
		footer += " · " + m.spinner.View() + " loading more"
	case m.list.HasMore():
		footer += " · m: load more"
	default:
		footer += " · end of results"
	}
	b.WriteString(mutedStyle.Render(footer) + "\n")
	return b.String()
}

// renderRows renders every loaded car, rowHeight lines each.
func (m *Model) renderRows() string {
	cars := m.list.Cars()
	rows := make([]string, len(cars))
	for i, c := range cars {
		t := m.cards.Tile(c)
		title := headingStyle.Render(t.Title)
		if t.Badge != "" {
			title += " " + mutedStyle.Render(t.Badge)
		}
		line1 := title + "  " + priceStyle.Render(t.Price)
		line2 := mutedStyle.Render(joinNonEmpty(" · ", t.Year, t.FuelType, t.Transmission, t.Mileage))
		line3 := mutedStyle.Render(joinNonEmpty(" · ", t.Location, t.Dealer))
		row := line1 + "\n" + line2 + "\n" + line3
		if i == m.cursor {
			rows[i] = selectedStyle.Render(row)
		} else {
			rows[i] = rowStyle.Render(row)
		}
	}
	return strings.Join(rows, "\n")
}

func (m *Model) detailView() string {
	v := m.detail
	switch v.State() {
	case detail.Loading, detail.Idle:
		return m.spinner.View() + " Loading car..."
	case detail.Failed:
		s := errorStyle.Render(v.Message()) + "\n"
		if !v.NotFound() {
			s += mutedStyle.Render("press r to try again") + "\n"
		}
		return s + mutedStyle.Render("press esc to go back to listings")
	}

	car := v.Car()
	t := m.cards.Tile(car.CarSummary)
	var b strings.Builder
	b.WriteString(headingStyle.Render(t.Title))
	if badge := joinNonEmpty(" ", car.Badge, car.BadgeDetail); badge != "" {
		b.WriteString(" " + mutedStyle.Render(badge))
	}
	b.WriteString("\n" + priceStyle.Render(t.Price) + "\n\n")

	year := t.Year
	if year == "" {
		year = card.NotAvailable
	}
	if car.FormYear != "" {
		year += " (model year " + car.FormYear + ")"
	}
	fields := [][2]string{
		{"Year", year},
		{"Mileage", t.Mileage},
		{"Fuel", t.FuelType},
		{"Transmission", t.Transmission},
		{"Location", t.Location},
		{"Dealer", joinNonEmpty(" · ", t.Dealer, car.OfficeName)},
		{"Status", car.SalesStatus},
		{"Sale type", car.SellType},
		{"Encar ID", car.EncarID},
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		b.WriteString(labelStyle.Render(f[0]) + f[1] + "\n")
	}
	if tags := renderTags(car.ServiceMarks); tags != "" {
		b.WriteString("\n" + labelStyle.Render("Services") + tags + "\n")
	}
	if tags := renderTags(car.Conditions); tags != "" {
		b.WriteString(labelStyle.Render("Condition") + tags + "\n")
	}

	b.WriteString("\n")
	if car.Photo == "" {
		b.WriteString(mutedStyle.Render("[no image]") + "\n")
	} else {
		b.WriteString(fmt.Sprintf("Image %d/%d\n", v.Active()+1, len(v.Images())))
		b.WriteString(mutedStyle.Render(v.ActiveImage()) + "\n")
	}
	return b.String()
}

func renderTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagStyle.Render(t))
	}
	return strings.Join(out, " ")
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func formatRange(r catalog.Range) string {
	return strconv.FormatFloat(r.Min, 'f', -1, 64) + "–" + strconv.FormatFloat(r.Max, 'f', -1, 64)
}
