package shelterapi

import "fmt"

// Server-side defaults for shelter searches, in meters where applicable.
const (
	DefaultOffset = 0
	DefaultLimit  = 10
	DefaultRange  = 30 * 1000
	MaxRange      = 1000 * 1000
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

func (p Point) String() string {
	return fmt.Sprintf("%v,%v", p.Longitude, p.Latitude)
}

// PointQuery selects shelters around a point. Nil fields are left to the
// server defaults.
type PointQuery struct {
	Point
	Offset *int
	Limit  *int
	Range  *int
}

// Shelter is a shelter as published by the ArcGIS layer.
type Shelter struct {
	ID            int64    `json:"id"`
	Longitude     float64  `json:"longitude"`
	Latitude      float64  `json:"latitude"`
	InventoryType *string  `json:"inventory_type,omitempty"`
	AccessType    *string  `json:"access_type,omitempty"`
	Area          *int     `json:"area,omitempty"`
	Capacity      *int     `json:"capacity,omitempty"`
	Quality       *int     `json:"quality,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Purpose       *string  `json:"purpose,omitempty"`
	Voivodeship   *string  `json:"voivodeship,omitempty"`
	Province      *string  `json:"province,omitempty"`
	Address       *string  `json:"address,omitempty"`
	Distance      *float64 `json:"distance,omitempty"` // meters, only in point searches
}

// Point returns the shelter's location.
func (s Shelter) Point() Point {
	return Point{Longitude: s.Longitude, Latitude: s.Latitude}
}

// ShelterRecord is the locally maintained occupancy of a shelter.
type ShelterRecord struct {
	ID        int64 `json:"id"`
	Capacity  int   `json:"capacity"`
	Occupancy int   `json:"occupancy"`
}

// Free returns the number of free places.
func (r ShelterRecord) Free() int {
	return r.Capacity - r.Occupancy
}

// Prediction is one place autocomplete suggestion.
type Prediction struct {
	PlaceID     string   `json:"place_id"`
	Description string   `json:"description"`
	Types       []string `json:"types,omitempty"`
}

// PlaceDetails describes a place returned by the places lookup.
type PlaceDetails struct {
	PlaceID          string         `json:"place_id"`
	Name             string         `json:"name"`
	URL              string         `json:"url"`
	FormattedAddress string         `json:"formatted_address"`
	Website          string         `json:"website,omitempty"`
	Geometry         *PlaceGeometry `json:"geometry,omitempty"`
}

// PlaceGeometry carries the location of a place.
type PlaceGeometry struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}
