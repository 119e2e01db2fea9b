package catalog

// Event is a Ticketmaster Discovery API event, treated as an opaque value
// object by the rest of the system.
type Event struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	URL             string           `json:"url"`
	Locale          string           `json:"locale"`
	Images          []EventImage     `json:"images"`
	Sales           *Sales           `json:"sales,omitempty"`
	Dates           *Dates           `json:"dates,omitempty"`
	Classifications []Classification `json:"classifications,omitempty"`
	Promoter        *Promoter        `json:"promoter,omitempty"`
	Info            string           `json:"info,omitempty"`
	PleaseNote      string           `json:"pleaseNote,omitempty"`
	PriceRanges     []PriceRange     `json:"priceRanges,omitempty"`
	Seatmap         *Seatmap         `json:"seatmap,omitempty"`
	Embedded        *EventEmbedded   `json:"_embedded,omitempty"`
}

type EventImage struct {
	Ratio    string `json:"ratio"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Fallback bool   `json:"fallback"`
}

type Sales struct {
	Public SalesWindow `json:"public"`
}

type SalesWindow struct {
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
}

type Dates struct {
	Start DateStart `json:"start"`
}

type DateStart struct {
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime"`
	DateTime  string `json:"dateTime"`
}

type Classification struct {
	Primary  bool           `json:"primary"`
	Segment  NamedReference `json:"segment"`
	Genre    NamedReference `json:"genre"`
	SubGenre NamedReference `json:"subGenre,omitempty"`
}

type NamedReference struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Promoter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PriceRange struct {
	Type     string  `json:"type"`
	Currency string  `json:"currency"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

type Seatmap struct {
	StaticURL string `json:"staticUrl"`
}

type EventEmbedded struct {
	Venues      []Venue      `json:"venues,omitempty"`
	Attractions []Attraction `json:"attractions,omitempty"`
}

type Venue struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	URL        string       `json:"url"`
	Locale     string       `json:"locale"`
	Images     []EventImage `json:"images"`
	PostalCode string       `json:"postalCode"`
	Timezone   string       `json:"timezone"`
	City       *CityRef     `json:"city,omitempty"`
	State      *StateRef    `json:"state,omitempty"`
	Country    *CountryRef  `json:"country,omitempty"`
	Address    *Address     `json:"address,omitempty"`
	Location   *GeoPoint    `json:"location,omitempty"`
}

type CityRef struct {
	Name string `json:"name"`
}

type StateRef struct {
	Name      string `json:"name"`
	StateCode string `json:"stateCode"`
}

type CountryRef struct {
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

type Address struct {
	Line1 string `json:"line1"`
}

type GeoPoint struct {
	Longitude string `json:"longitude"`
	Latitude  string `json:"latitude"`
}

type Attraction struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	URL             string           `json:"url"`
	Locale          string           `json:"locale"`
	Images          []EventImage     `json:"images"`
	Classifications []Classification `json:"classifications,omitempty"`
}

// EventsResponse is the paginated envelope returned by event queries.
type EventsResponse struct {
	Embedded *ResponseEmbedded `json:"_embedded,omitempty"`
	Page     Page              `json:"page"`
}

type ResponseEmbedded struct {
	Events []Event `json:"events"`
}

type Page struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

// Events returns the embedded event list, or an empty slice.
func (r *EventsResponse) Events() []Event {
	if r == nil || r.Embedded == nil {
		return []Event{}
	}
	return r.Embedded.Events
}

// ImagesResponse wraps an event's image list.
type ImagesResponse struct {
	Images []EventImage `json:"images"`
}

// SearchParams are the supported event search filters. Zero values are
// omitted from the outgoing query.
type SearchParams struct {
	Keyword            string
	City               string
	StateCode          string
	CountryCode        string
	ClassificationName string
	StartDateTime      string
	EndDateTime        string
	Size               int
	Page               int
	Sort               string
	Radius             int
	Unit               string
}
