// Package catalog defines the car listing model shared by the API client,
// the listing and detail views, and both front ends.
package catalog

// CarSummary is one row of the listing endpoint.
type CarSummary struct {
	ID              int      `json:"id"`
	EncarID         string   `json:"encar_id,omitempty"`
	Manufacturer    string   `json:"manufacturer"`
	Model           string   `json:"model"`
	Badge           string   `json:"badge"`
	Year            *float64 `json:"year"`
	FuelType        string   `json:"fuel_type"`
	Transmission    string   `json:"transmission"`
	Mileage         *float64 `json:"mileage"`
	Price           *float64 `json:"price"`
	OfficeCityState string   `json:"office_city_state"`
	DealerName      string   `json:"dealer_name"`
	Photo           string   `json:"photo"`
}

// Title is the "manufacturer model" heading used by cards and the detail page.
func (c CarSummary) Title() string {
	switch {
	case c.Manufacturer == "":
		return c.Model
	case c.Model == "":
		return c.Manufacturer
	}
	return c.Manufacturer + " " + c.Model
}

// Photo is one gallery descriptor. Type is the three character code
// appended to the base photo reference when building the image URL.
type Photo struct {
	Type     string `json:"type"`
	Location string `json:"location,omitempty"`
}

// CarDetail is the full record returned for a single car.
type CarDetail struct {
	CarSummary

	BadgeDetail  string   `json:"badge_detail"`
	FormYear     string   `json:"form_year"`
	OfficeName   string   `json:"office_name"`
	Photos       []Photo  `json:"photos"`
	ServiceMarks []string `json:"service_mark"`
	Conditions   []string `json:"condition"`
	SalesStatus  string   `json:"sales_status"`
	SellType     string   `json:"sell_type,omitempty"`
}

// Range is a closed numeric interval advertised by the options endpoint.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterOptions holds the server-declared vocabularies for the filter controls.
type FilterOptions struct {
	Manufacturers []string `json:"manufacturers"`
	FuelTypes     []string `json:"fuel_types"`
	Transmissions []string `json:"transmissions"`
	Cities        []string `json:"cities"`
	PriceRange    Range    `json:"price_range"`
	YearRange     Range    `json:"year_range"`
}

// Default ranges used until the options endpoint answers.
var (
	DefaultPriceRange = Range{Min: 0, Max: 10000}
	DefaultYearRange  = Range{Min: 2000, Max: 2025}
)

// DefaultFilterOptions returns empty vocabularies with the default ranges.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Manufacturers: []string{},
		FuelTypes:     []string{},
		Transmissions: []string{},
		Cities:        []string{},
		PriceRange:    DefaultPriceRange,
		YearRange:     DefaultYearRange,
	}
}

// Values returns the vocabulary backing a select-style filter key, or nil
// for numeric keys.
func (o FilterOptions) Values(key FilterKey) []string {
	switch key {
	case FilterManufacturer:
		return o.Manufacturers
	case FilterFuelType:
		return o.FuelTypes
	case FilterTransmission:
		return o.Transmissions
	case FilterCity:
		return o.Cities
	}
	return nil
}
