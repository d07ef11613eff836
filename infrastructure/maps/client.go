// Package maps implements the place-search gateway against a Google
// Places-compatible HTTP API.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"

	domainMaps "github.com/zapleads/zapleads/domains/maps"
)

// Client is the maps provider HTTP client
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *fasthttp.Client
}

// NewClient creates a maps gateway against baseURL (e.g. the Google Maps
// web service root).
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
	}
}

type textSearchResponse struct {
	Results []struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	NextPageToken string `json:"next_page_token"`
	Status        string `json:"status"`
	ErrorMessage  string `json:"error_message"`
}

type placeDetailsResponse struct {
	Result struct {
		Name                     string `json:"name"`
		InternationalPhoneNumber string `json:"international_phone_number"`
		FormattedPhoneNumber     string `json:"formatted_phone_number"`
	} `json:"result"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params.Set("key", c.apiKey)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path + "?" + params.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("maps request %s: %w", path, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("maps request %s: status %d", path, resp.StatusCode())
	}
	return json.Unmarshal(resp.Body(), out)
}

// TextSearch runs one page of a text search. Pass the previous page's token
// to fetch the next page.
func (c *Client) TextSearch(ctx context.Context, query, pageToken string) (*domainMaps.SearchPage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("language", "pt-BR")
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	}

	var body textSearchResponse
	if err := c.get(ctx, "/place/textsearch/json", params, &body); err != nil {
		return nil, err
	}
	if body.Status != "OK" && body.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("maps text search: status %s: %s", body.Status, body.ErrorMessage)
	}

	page := &domainMaps.SearchPage{
		NextPageToken: body.NextPageToken,
		Status:        body.Status,
	}
	for _, r := range body.Results {
		page.Places = append(page.Places, domainMaps.Place{
			PlaceID:   r.PlaceID,
			Name:      r.Name,
			Address:   r.FormattedAddress,
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
		})
	}
	return page, nil
}

// PlaceDetails fetches the phone number for one place. The international
// format is preferred, the local format is the fallback.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*domainMaps.PlaceDetail, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,international_phone_number,formatted_phone_number")

	var body placeDetailsResponse
	if err := c.get(ctx, "/place/details/json", params, &body); err != nil {
		return nil, err
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("maps place details: status %s: %s", body.Status, body.ErrorMessage)
	}

	phone := body.Result.InternationalPhoneNumber
	if phone == "" {
		phone = body.Result.FormattedPhoneNumber
	}
	return &domainMaps.PlaceDetail{
		Name:  body.Result.Name,
		Phone: phone,
	}, nil
}
