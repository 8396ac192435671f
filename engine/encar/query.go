package encar

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/WessleyAI/encarview/engine/catalog"
)

// BuildListQuery renders the query string of a list request: the active
// filters in catalog.FilterKeys order, then sort_by, sort_order, offset and
// limit. url.Values.Encode is not used because it sorts keys.
func BuildListQuery(filters catalog.Filters, sort catalog.Sort, offset, limit int) string {
	if !sort.Valid() {
		sort = catalog.DefaultSort()
	}
	var b strings.Builder
	add := func(k, v string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	for _, k := range filters.Active() {
		add(string(k), filters.Get(k))
	}
	add("sort_by", string(sort.By))
	add("sort_order", string(sort.Order))
	add("offset", strconv.Itoa(offset))
	add("limit", strconv.Itoa(limit))
	return b.String()
}
