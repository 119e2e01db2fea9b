package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/citypulse/citypulse-backend/internal/catalog"
	"github.com/citypulse/citypulse-backend/internal/events"
)

type Handler struct {
	store *events.Store
	api   *catalog.Client
}

func New(store *events.Store, api *catalog.Client) *Handler {
	return &Handler{
		store: store,
		api:   api,
	}
}

func (h *Handler) Register(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	rg.GET("/events", h.ListEvents)
	rg.GET("/events/search", h.SearchEvents)
	rg.GET("/events/:id", h.GetEvent)
	rg.GET("/events/:id/images", h.GetEventImages)
	rg.GET("/venues/:id", h.GetVenue)
	rg.GET("/attractions/:id", h.GetAttraction)

	favorites := rg.Group("/favorites")
	favorites.Use(guard)
	favorites.GET("", h.ListFavorites)
	favorites.POST("", h.AddFavorite)
	favorites.DELETE("/:id", h.RemoveFavorite)
}

// ListEvents loads a page of upcoming events into the store
func (h *Handler) ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))

	h.store.LoadAll(c.Request.Context(), page)

	state := h.store.State()
	if state.Error != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": state.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": state.Events})
}

// SearchEvents searches by keyword and city
func (h *Handler) SearchEvents(c *gin.Context) {
	keyword := c.Query("keyword")
	city := c.Query("city")

	h.store.Search(c.Request.Context(), keyword, city)

	state := h.store.State()
	if state.Error != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": state.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"events":      state.Events,
		"searchQuery": state.SearchQuery,
		"currentCity": state.CurrentCity,
	})
}

// GetEvent loads a single event's details
func (h *Handler) GetEvent(c *gin.Context) {
	h.store.GetByID(c.Request.Context(), c.Param("id"))

	state := h.store.State()
	if state.Error != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": state.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": state.CurrentEvent})
}

// GetEventImages proxies the event image set
func (h *Handler) GetEventImages(c *gin.Context) {
	images, err := h.api.GetEventImages(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, images)
}

// GetVenue proxies a venue record
func (h *Handler) GetVenue(c *gin.Context) {
	venue, err := h.api.GetVenueDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"venue": venue})
}

// GetAttraction proxies an attraction record
func (h *Handler) GetAttraction(c *gin.Context) {
	attraction, err := h.api.GetAttractionDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attraction": attraction})
}

// ListFavorites returns the favorites list
func (h *Handler) ListFavorites(c *gin.Context) {
	h.store.LoadFavorites(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"favorites": h.store.State().FavoriteEvents})
}

// AddFavorite stores the posted event in the favorites list
func (h *Handler) AddFavorite(c *gin.Context) {
	var event catalog.Event
	if err := c.ShouldBindJSON(&event); err != nil || event.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event with id is required"})
		return
	}

	if err := h.store.AddToFavorites(c.Request.Context(), &event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add to favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": h.store.State().FavoriteEvents})
}

// RemoveFavorite removes an event from the favorites list
func (h *Handler) RemoveFavorite(c *gin.Context) {
	if err := h.store.RemoveFromFavorites(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove from favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": h.store.State().FavoriteEvents})
}
