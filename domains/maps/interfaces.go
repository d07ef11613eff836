// Package maps defines the contract of the place-search provider the
// campaign search phase pulls businesses from.
package maps

import "context"

// Place is one business from a text-search results page
type Place struct {
	PlaceID   string
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
}

// SearchPage is one page of text-search results. NextPageToken is empty on
// the last page. Status carries the provider status verbatim; only "OK" and
// "ZERO_RESULTS" are non-errors.
type SearchPage struct {
	Places        []Place
	NextPageToken string
	Status        string
}

// PlaceDetail carries the phone lookup result for a single place
type PlaceDetail struct {
	Name  string
	Phone string
}

// IMapsGateway is the maps provider client
type IMapsGateway interface {
	TextSearch(ctx context.Context, query, pageToken string) (*SearchPage, error)
	PlaceDetails(ctx context.Context, placeID string) (*PlaceDetail, error)
}
