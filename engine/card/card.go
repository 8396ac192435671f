// Package card formats a car record into the summary tile shown in the
// listing grid. Everything here is pure: no I/O, no state.
package card

import (
	"math"
	"strconv"

	"github.com/WessleyAI/encarview/engine/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// Placeholder is served by the web front end and used whenever a photo
	// reference is missing or an image fails to load.
	Placeholder = "/static/placeholder-car.svg"

	// DefaultPhotoType is the type code of the primary photo.
	DefaultPhotoType = "001"

	// NotAvailable replaces a missing price or mileage.
	NotAvailable = "N/A"

	imageHost   = "https://ci.encar.com/carpicture"
	imageParams = "?impolicy=heightRate&rh=696&cw=1160&ch=696&cg=Center"

	// priceUnit converts listing prices (quoted in units of 10,000 won) to won.
	priceUnit = 10000
)

// ImageURL builds the image host URL for a photo reference and type code.
func ImageURL(photo, typeCode string) string {
	if photo == "" {
		return Placeholder
	}
	if typeCode == "" {
		typeCode = DefaultPhotoType
	}
	return imageHost + photo + typeCode + ".jpg" + imageParams
}

// Tile is the rendered summary of one car.
type Tile struct {
	ID           int
	Title        string
	Badge        string
	Year         string
	FuelType     string
	Transmission string
	Mileage      string
	Location     string
	Price        string
	Dealer       string
	ImageURL     string
	Link         string
}

// Formatter renders numbers with the thousands separators of a locale.
type Formatter struct {
	tag language.Tag
}

// NewFormatter returns a Formatter for tag.
func NewFormatter(tag language.Tag) Formatter {
	return Formatter{tag: tag}
}

// Default formats with English grouping ("12,340,000").
var Default = NewFormatter(language.English)

func (f Formatter) group(n int64) string {
	return message.NewPrinter(f.tag).Sprintf("%d", n)
}

// Price renders a listing price in won, or N/A when absent or zero.
func (f Formatter) Price(v *float64) string {
	if v == nil || *v == 0 {
		return NotAvailable
	}
	return "₩" + f.group(int64(math.Round(*v*priceUnit)))
}

// Mileage renders a mileage in kilometres, or N/A when absent or zero.
func (f Formatter) Mileage(v *float64) string {
	if v == nil || *v == 0 {
		return NotAvailable
	}
	return f.group(int64(math.Round(*v))) + " km"
}

// Tile renders c.
func (f Formatter) Tile(c catalog.CarSummary) Tile {
	return Tile{
		ID:           c.ID,
		Title:        c.Title(),
		Badge:        c.Badge,
		Year:         Year(c.Year),
		FuelType:     c.FuelType,
		Transmission: c.Transmission,
		Mileage:      f.Mileage(c.Mileage),
		Location:     c.OfficeCityState,
		Price:        f.Price(c.Price),
		Dealer:       c.DealerName,
		ImageURL:     ImageURL(c.Photo, DefaultPhotoType),
		Link:         Link(c.ID),
	}
}

// Tiles renders every car in order.
func (f Formatter) Tiles(cars []catalog.CarSummary) []Tile {
	out := make([]Tile, 0, len(cars))
	for _, c := range cars {
		out = append(out, f.Tile(c))
	}
	return out
}

// Year renders a model year without a trailing fraction; empty when absent.
func Year(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Link is the detail page path for a car.
func Link(id int) string {
	return "/cars/" + strconv.Itoa(id)
}

// FormatPrice formats with Default.
func FormatPrice(v *float64) string { return Default.Price(v) }

// FormatMileage formats with Default.
func FormatMileage(v *float64) string { return Default.Mileage(v) }

// Render formats with Default.
func Render(c catalog.CarSummary) Tile { return Default.Tile(c) }
