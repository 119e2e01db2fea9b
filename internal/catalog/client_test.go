package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventsPayload(ids ...string) EventsResponse {
	events := make([]Event, 0, len(ids))
	for _, id := range ids {
		events = append(events, Event{ID: id, Name: "Event " + id})
	}
	return EventsResponse{
		Embedded: &ResponseEmbedded{Events: events},
		Page:     Page{Size: len(events), TotalElements: len(events), TotalPages: 1, Number: 0},
	}
}

func TestClient_SearchEvents(t *testing.T) {
	t.Run("applies defaults and sends the api key", func(t *testing.T) {
		var gotQuery url.Values
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			assert.Equal(t, "/events", r.URL.Path)
			json.NewEncoder(w).Encode(eventsPayload("ev1"))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "test-key")
		resp, err := client.SearchEvents(context.Background(), SearchParams{Keyword: "rock", City: "Dubai"})
		require.NoError(t, err)

		assert.Equal(t, "test-key", gotQuery.Get("apikey"))
		assert.Equal(t, "rock", gotQuery.Get("keyword"))
		assert.Equal(t, "Dubai", gotQuery.Get("city"))
		assert.Equal(t, "US", gotQuery.Get("countryCode"))
		assert.Equal(t, "50", gotQuery.Get("radius"))
		assert.Equal(t, "km", gotQuery.Get("unit"))
		assert.Equal(t, "20", gotQuery.Get("size"))
		assert.Equal(t, "date,asc", gotQuery.Get("sort"))
		assert.Empty(t, gotQuery.Get("classificationName"))

		require.Len(t, resp.Events(), 1)
		assert.Equal(t, "ev1", resp.Events()[0].ID)
	})

	t.Run("surfaces upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "test-key")
		_, err := client.SearchEvents(context.Background(), SearchParams{Keyword: "rock"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})
}

func TestClient_GetAllEvents(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(eventsPayload("ev1", "ev2"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	resp, err := client.GetAllEvents(context.Background(), 2, 0)
	require.NoError(t, err)

	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "50", gotQuery.Get("size"), "size defaults to 50")
	assert.Equal(t, "date,asc", gotQuery.Get("sort"))
	assert.Len(t, resp.Events(), 2)
}

func TestClient_GetEventByID(t *testing.T) {
	t.Run("fetches a single event", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/events/ev42", r.URL.Path)
			json.NewEncoder(w).Encode(Event{ID: "ev42", Name: "The Big One"})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "test-key")
		event, err := client.GetEventByID(context.Background(), "ev42")
		require.NoError(t, err)
		assert.Equal(t, "The Big One", event.Name)
	})

	t.Run("decodes a venue record", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/venues/v1", r.URL.Path)
			json.NewEncoder(w).Encode(Venue{ID: "v1", Name: "Arena", City: &CityRef{Name: "Austin"}})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "test-key")
		venue, err := client.GetVenueDetails(context.Background(), "v1")
		require.NoError(t, err)
		assert.Equal(t, "Arena", venue.Name)
		require.NotNil(t, venue.City)
		assert.Equal(t, "Austin", venue.City.Name)
	})

	t.Run("decodes an attraction record", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/attractions/a1", r.URL.Path)
			json.NewEncoder(w).Encode(Attraction{ID: "a1", Name: "The Band"})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "test-key")
		attraction, err := client.GetAttractionDetails(context.Background(), "a1")
		require.NoError(t, err)
		assert.Equal(t, "The Band", attraction.Name)
	})
}

func TestEventsResponse_Events(t *testing.T) {
	t.Run("nil embedded yields an empty slice", func(t *testing.T) {
		resp := &EventsResponse{}
		assert.Empty(t, resp.Events())
	})
}
