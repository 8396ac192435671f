package catalog

// SortField is the listing order key.
type SortField string

const (
	SortByID           SortField = "id"
	SortByPrice        SortField = "price"
	SortByYear         SortField = "year"
	SortByManufacturer SortField = "manufacturer"
)

// SortFields lists the accepted fields in the order the controls cycle them.
var SortFields = []SortField{SortByID, SortByPrice, SortByYear, SortByManufacturer}

// SortOrder is the listing direction.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Label is the human readable name of a sort field.
func (f SortField) Label() string {
	switch f {
	case SortByPrice:
		return "Price"
	case SortByYear:
		return "Year"
	case SortByManufacturer:
		return "Manufacturer"
	}
	return "Default"
}

// Label is the human readable name of a sort order.
func (o SortOrder) Label() string {
	if o == Desc {
		return "Descending"
	}
	return "Ascending"
}

// Sort is the sort directive sent with every list request.
type Sort struct {
	By    SortField
	Order SortOrder
}

// DefaultSort orders by id ascending.
func DefaultSort() Sort {
	return Sort{By: SortByID, Order: Asc}
}

// Valid reports whether both halves of the directive are known values.
func (s Sort) Valid() bool {
	okBy := false
	for _, f := range SortFields {
		if f == s.By {
			okBy = true
			break
		}
	}
	return okBy && (s.Order == Asc || s.Order == Desc)
}

// ParseSort builds a directive from raw strings. Each unknown half falls
// back to its default independently.
func ParseSort(by, order string) Sort {
	s := DefaultSort()
	for _, f := range SortFields {
		if string(f) == by {
			s.By = f
			break
		}
	}
	if SortOrder(order) == Desc {
		s.Order = Desc
	}
	return s
}

// Next returns the directive with the following sort field, wrapping around.
func (s Sort) Next() Sort {
	for i, f := range SortFields {
		if f == s.By {
			s.By = SortFields[(i+1)%len(SortFields)]
			return s
		}
	}
	s.By = SortByID
	return s
}

// Flip returns the directive with the opposite order.
func (s Sort) Flip() Sort {
	if s.Order == Desc {
		s.Order = Asc
	} else {
		s.Order = Desc
	}
	return s
}
