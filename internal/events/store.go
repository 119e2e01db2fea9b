package events

import (
	"context"
	"log"
	"sync"

	"github.com/citypulse/citypulse-backend/internal/catalog"
)

// Catalog is the slice of the catalog gateway the store depends on.
type Catalog interface {
	GetAllEvents(ctx context.Context, page, size int) (*catalog.EventsResponse, error)
	SearchEvents(ctx context.Context, sp catalog.SearchParams) (*catalog.EventsResponse, error)
	GetEventByID(ctx context.Context, eventID string) (*catalog.Event, error)
}

// FavoritesStore is the slice of the local persistence adapter the store
// depends on.
type FavoritesStore interface {
	SaveFavoriteEvent(ctx context.Context, event *catalog.Event) error
	RemoveFavoriteEvent(ctx context.Context, eventID string) error
	GetFavoriteEvents(ctx context.Context) []catalog.Event
}

// State is the full reactive state published by the catalog store.
type State struct {
	Events         []catalog.Event `json:"events"`
	CurrentEvent   *catalog.Event  `json:"currentEvent"`
	FavoriteEvents []catalog.Event `json:"favoriteEvents"`
	IsLoading      bool            `json:"isLoading"`
	Error          string          `json:"error,omitempty"`
	SearchQuery    string          `json:"searchQuery"`
	CurrentCity    string          `json:"currentCity"`
}

// Store holds search results, a selected event, and the favorites list.
type Store struct {
	api       Catalog
	favorites FavoritesStore

	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextSubID   int
}

func NewStore(api Catalog, favorites FavoritesStore) *Store {
	return &Store{
		api:       api,
		favorites: favorites,
		state: State{
			Events:         []catalog.Event{},
			FavoriteEvents: []catalog.Event{},
		},
		subscribers: make(map[int]func(State)),
	}
}

// State returns a snapshot of the current store state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a callback invoked on every state publication.
func (s *Store) Subscribe(cb func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = cb
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// set applies fn to a copy of the state, publishes it, and notifies
// subscribers. Last write wins.
func (s *Store) set(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	state := s.state
	cbs := make([]func(State), 0, len(s.subscribers))
	for _, cb := range s.subscribers {
		cbs = append(cbs, cb)
	}
	s.mu.Unlock()

	for _, cb := range cbs {
		cb(state)
	}
}

// LoadAll replaces the result list with a page of upcoming events.
func (s *Store) LoadAll(ctx context.Context, page int) {
	s.set(func(st *State) { st.IsLoading = true; st.Error = "" })

	resp, err := s.api.GetAllEvents(ctx, page, 50)
	if err != nil {
		s.set(func(st *State) { st.IsLoading = false; st.Error = err.Error() })
		return
	}

	s.set(func(st *State) {
		st.Events = resp.Events()
		st.SearchQuery = ""
		st.CurrentCity = ""
		st.IsLoading = false
	})
}

// Search replaces the result list with events matching keyword and city.
func (s *Store) Search(ctx context.Context, keyword, city string) {
	s.set(func(st *State) { st.IsLoading = true; st.Error = "" })

	resp, err := s.api.SearchEvents(ctx, catalog.SearchParams{
		Keyword: keyword,
		City:    city,
		Size:    50,
	})
	if err != nil {
		s.set(func(st *State) { st.IsLoading = false; st.Error = err.Error() })
		return
	}

	s.set(func(st *State) {
		st.Events = resp.Events()
		st.SearchQuery = keyword
		st.CurrentCity = city
		st.IsLoading = false
	})
}

// GetByID replaces the selected event.
func (s *Store) GetByID(ctx context.Context, eventID string) {
	s.set(func(st *State) { st.IsLoading = true; st.Error = "" })

	event, err := s.api.GetEventByID(ctx, eventID)
	if err != nil {
		s.set(func(st *State) { st.IsLoading = false; st.Error = err.Error() })
		return
	}

	s.set(func(st *State) {
		st.CurrentEvent = event
		st.IsLoading = false
	})
}

// AddToFavorites persists the event and appends it to the in-memory list,
// deduplicated by id. The returned error belongs to this mutation alone;
// state.Error may still carry an earlier load failure.
func (s *Store) AddToFavorites(ctx context.Context, event *catalog.Event) error {
	if err := s.favorites.SaveFavoriteEvent(ctx, event); err != nil {
		log.Printf("[events] failed to save favorite: %v", err)
		s.set(func(st *State) { st.Error = "Failed to add to favorites" })
		return err
	}

	s.set(func(st *State) {
		for _, fav := range st.FavoriteEvents {
			if fav.ID == event.ID {
				return
			}
		}
		st.FavoriteEvents = append(st.FavoriteEvents, *event)
	})
	return nil
}

// RemoveFromFavorites removes the event from storage and the in-memory list.
func (s *Store) RemoveFromFavorites(ctx context.Context, eventID string) error {
	if err := s.favorites.RemoveFavoriteEvent(ctx, eventID); err != nil {
		log.Printf("[events] failed to remove favorite: %v", err)
		s.set(func(st *State) { st.Error = "Failed to remove from favorites" })
		return err
	}

	s.set(func(st *State) {
		updated := make([]catalog.Event, 0, len(st.FavoriteEvents))
		for _, fav := range st.FavoriteEvents {
			if fav.ID != eventID {
				updated = append(updated, fav)
			}
		}
		st.FavoriteEvents = updated
	})
	return nil
}

// LoadFavorites replaces the in-memory favorites list from storage.
func (s *Store) LoadFavorites(ctx context.Context) {
	favorites := s.favorites.GetFavoriteEvents(ctx)
	s.set(func(st *State) { st.FavoriteEvents = favorites })
}

func (s *Store) SetSearchQuery(query string) {
	s.set(func(st *State) { st.SearchQuery = query })
}

func (s *Store) SetCurrentCity(city string) {
	s.set(func(st *State) { st.CurrentCity = city })
}

func (s *Store) ClearError() {
	s.set(func(st *State) { st.Error = "" })
}
