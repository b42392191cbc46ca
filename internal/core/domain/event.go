package domain

import "encoding/json"

// Bucket identifies which relevance list a classified event landed in.
// Black-matched events are dropped outright and never carry a bucket.
type Bucket string

// Bucket constants.
const (
	BucketWhite Bucket = "white"
	BucketGrey  Bucket = "grey"
)

// RawEvent is the slice of an Eventbrite search result the harvester consumes.
// It is decoded from the search page's embedded server data
// (search_data.events.results); any field except ID, Name and URL may be
// missing in the source payload.
type RawEvent struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Summary      string `json:"summary,omitempty"`
	URL          string `json:"url"`
	Image        *Image `json:"image,omitempty"`
	PrimaryVenue *Venue `json:"primary_venue,omitempty"`
}

// Image holds the image variants attached to a raw event.
type Image struct {
	Original *ImageVariant `json:"original,omitempty"`
}

// ImageVariant is one rendition of an event image. Width and height arrive as
// JSON numbers but are only ever re-emitted as strings.
type ImageVariant struct {
	URL    string      `json:"url"`
	Width  json.Number `json:"width"`
	Height json.Number `json:"height"`
}

// Venue is the venue block of a raw event.
type Venue struct {
	Address *Address `json:"address,omitempty"`
}

// Address is a raw event venue address. Any subset of fields may be absent.
type Address struct {
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	Region    string `json:"region"`
	Country   string `json:"country"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Ticketing is the per-event payload of the events API with
// ticket_availability expanded. Start or End being nil makes the payload
// unusable for conversion.
type Ticketing struct {
	IsFree             bool                `json:"is_free"`
	TicketAvailability *TicketAvailability `json:"ticket_availability"`
	Start              *EventTime          `json:"start"`
	End                *EventTime          `json:"end"`
}

// TicketAvailability carries the price bounds of a ticketed event.
type TicketAvailability struct {
	MaximumTicketPrice *TicketPrice `json:"maximum_ticket_price"`
}

// TicketPrice is a money amount in major units, e.g. "25.00".
type TicketPrice struct {
	Currency   string `json:"currency"`
	MajorValue string `json:"major_value"`
}

// EventTime is a start or end timestamp in the three forms the API returns.
type EventTime struct {
	Timezone string `json:"timezone"`
	Local    string `json:"local"`
	UTC      string `json:"utc"`
}

// CanonicalEvent is the contracted output format. Field order matters to
// downstream consumers and mirrors the contract document.
type CanonicalEvent struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	BookingURL   string           `json:"bookingUrl"`
	EventType    string           `json:"eventType"`
	Address      CanonicalAddress `json:"address"`
	CoverImage   CoverImage       `json:"coverImage"`
	Price        Price            `json:"price"`
	StartDate    string           `json:"startDate"`
	EndDate      string           `json:"endDate"`
	StartDateUTC string           `json:"startDateUTC"`
	EndDateUTC   string           `json:"endDateUTC"`
	Timezone     string           `json:"timezone"`
	MaximumSpots *int             `json:"maximumNumberOfAvailableSpots"`
	Webex        string           `json:"webex"`
	SocialMedias []string         `json:"socialMedias"`
}

// CanonicalAddress always serializes all six sub-fields; unknown values are
// empty strings, never omitted keys.
type CanonicalAddress struct {
	AddressLineOne string      `json:"addressLineOne"`
	AddressLineTwo string      `json:"addressLineTwo"`
	City           string      `json:"city"`
	State          string      `json:"state"`
	Country        string      `json:"country"`
	Geolocation    Geolocation `json:"geolocation"`
}

// Geolocation holds latitude and longitude as the source strings.
type Geolocation struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// CoverImage is the contracted image block. Events without an image serialize
// it as an empty object rather than null or defaulted keys.
type CoverImage struct {
	URL       string `json:"url"`
	Width     string `json:"width"`
	Height    string `json:"height"`
	Thumbnail string `json:"thumbnail"`
	Caption   string `json:"caption"`
	MediaType string `json:"mediaType"`
}

// MarshalJSON emits {} for the zero value so absent images keep the
// contracted shape.
func (c CoverImage) MarshalJSON() ([]byte, error) {
	if c == (CoverImage{}) {
		return []byte("{}"), nil
	}

	type plain CoverImage

	return json.Marshal(plain(c)) //nolint:wrapcheck
}

// Price is a contracted money amount, value in major units.
type Price struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

// FreePrice is the price block used for free events and for events whose
// price could not be determined.
func FreePrice() Price {
	return Price{Currency: "USD", Value: "0.00"}
}
