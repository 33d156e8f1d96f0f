// Package entities contains domain entities used across the application.
package entities

// Category groups locations by the kind of experience they offer.
type Category string

const (
	CategoryPeace      Category = "peace"      // quiet walks and nature
	CategoryHistory    Category = "history"    // heritage and architecture
	CategoryLiveliness Category = "liveliness" // markets, pubs and shops
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPeace, CategoryHistory, CategoryLiveliness:
		return true
	default:
		return false
	}
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Location is a point of interest from the static catalog.
type Location struct {
	ID          string      // stable identifier, referenced by visits and challenges
	Title       string      // display title
	Description string      // short description shown in lists
	Category    Category    // experience category used by category achievements
	Coordinates Coordinates // map position
}
