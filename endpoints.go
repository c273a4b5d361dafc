package shelterapi

import (
	"context"
	"net/url"
	"strconv"
)

// API paths served by the shelter-finder backend.
const (
	PathShelters       = "/arcgis/shelters"
	PathShelterRecords = "/shelters/api"
	PathPlaceSearch    = "/google/search/autocomplete"
	PathPlaces         = "/google/places"
)

// SheltersForPoint lists shelters around q.Point, nearest first. Unset
// pagination and range fields are left out of the query.
func (c *Client) SheltersForPoint(ctx context.Context, q PointQuery) *Envelope[[]Shelter] {
	return fetch[[]Shelter](ctx, c, PathShelters, Params{
		{Key: "longitude", Value: q.Longitude},
		{Key: "latitude", Value: q.Latitude},
		{Key: "offset", Value: q.Offset},
		{Key: "limit", Value: q.Limit},
		{Key: "range", Value: q.Range},
	})
}

// ShelterDetails returns a single shelter by its ArcGIS object ID.
func (c *Client) ShelterDetails(ctx context.Context, id int64) *Envelope[Shelter] {
	return fetch[Shelter](ctx, c, PathShelters+"/"+strconv.FormatInt(id, 10), nil)
}

// ShelterRecord returns the locally stored capacity and occupancy of a shelter.
func (c *Client) ShelterRecord(ctx context.Context, id int64) *Envelope[ShelterRecord] {
	return fetch[ShelterRecord](ctx, c, PathShelterRecords+"/"+strconv.FormatInt(id, 10), nil)
}

// SearchPlaces returns autocomplete predictions for query.
func (c *Client) SearchPlaces(ctx context.Context, query string) *Envelope[[]Prediction] {
	return fetch[[]Prediction](ctx, c, PathPlaceSearch, Params{{Key: "query", Value: query}})
}

// PlaceDetails returns the details of a place found through SearchPlaces.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) *Envelope[PlaceDetails] {
	return fetch[PlaceDetails](ctx, c, PathPlaces+"/"+url.PathEscape(placeID), nil)
}

// fetch performs a read-only endpoint call. The server nests keyword
// payloads one level deeper, which fetch unwraps.
func fetch[T any](ctx context.Context, c *Client, path string, params Params) *Envelope[T] {
	// GET never needs the CSRF token, so call cannot fail before sending.
	env, _ := call[T](ctx, c, Request{
		Path:    path,
		Params:  params,
		Headers: HeaderSpec{OmitContentType: true},
	}, true)
	return env
}
