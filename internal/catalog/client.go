package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client handles communication with the Ticketmaster Discovery API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new catalog client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	u.Path = u.Path + endpoint

	q := u.Query()
	q.Set("apikey", c.apiKey)
	for key, values := range params {
		for _, v := range values {
			if v != "" {
				q.Set(key, v)
			}
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetAllEvents fetches a page of upcoming events sorted by date
func (c *Client) GetAllEvents(ctx context.Context, page, size int) (*EventsResponse, error) {
	if size <= 0 {
		size = 50
	}
	params := url.Values{}
	params.Set("size", strconv.Itoa(size))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort", "date,asc")
	params.Set("countryCode", "US")

	var out EventsResponse
	if err := c.get(ctx, "/events", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchEvents searches events by the given filters, applying defaults for
// any filter left unset
func (c *Client) SearchEvents(ctx context.Context, sp SearchParams) (*EventsResponse, error) {
	if sp.CountryCode == "" {
		sp.CountryCode = "US"
	}
	if sp.Radius <= 0 {
		sp.Radius = 50
	}
	if sp.Unit == "" {
		sp.Unit = "km"
	}
	if sp.Size <= 0 {
		sp.Size = 20
	}
	if sp.Sort == "" {
		sp.Sort = "date,asc"
	}

	params := url.Values{}
	params.Set("keyword", sp.Keyword)
	params.Set("city", sp.City)
	params.Set("stateCode", sp.StateCode)
	params.Set("countryCode", sp.CountryCode)
	params.Set("radius", strconv.Itoa(sp.Radius))
	params.Set("unit", sp.Unit)
	params.Set("size", strconv.Itoa(sp.Size))
	params.Set("page", strconv.Itoa(sp.Page))
	params.Set("sort", sp.Sort)
	params.Set("startDateTime", sp.StartDateTime)
	params.Set("endDateTime", sp.EndDateTime)
	params.Set("classificationName", sp.ClassificationName)

	var out EventsResponse
	if err := c.get(ctx, "/events", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEventByID fetches a single event's details
func (c *Client) GetEventByID(ctx context.Context, eventID string) (*Event, error) {
	var out Event
	if err := c.get(ctx, "/events/"+eventID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEventImages fetches the image set for an event
func (c *Client) GetEventImages(ctx context.Context, eventID string) (*ImagesResponse, error) {
	var out ImagesResponse
	if err := c.get(ctx, "/events/"+eventID+"/images", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVenueDetails fetches a venue record
func (c *Client) GetVenueDetails(ctx context.Context, venueID string) (*Venue, error) {
	var out Venue
	if err := c.get(ctx, "/venues/"+venueID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAttractionDetails fetches an attraction record
func (c *Client) GetAttractionDetails(ctx context.Context, attractionID string) (*Attraction, error) {
	var out Attraction
	if err := c.get(ctx, "/attractions/"+attractionID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
