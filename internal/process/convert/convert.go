// Package convert turns raw scraped events into the contracted output
// format.
//
// Conversion is total for missing optional data: absent summaries, addresses,
// images and price details become documented defaults, never errors. The one
// hard requirement is a usable ticketing lookup; without it the event has no
// dates and cannot be represented.
package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
)

// ErrTicketingLookup marks a conversion that failed because the per-event
// ticketing lookup was unusable. Callers skip the event and continue the
// batch; one bad event never aborts the others.
var ErrTicketingLookup = errors.New("ticketing lookup failed")

const (
	eventTypePublic = "public"
	mediaTypePhoto  = "P"

	logFieldEventID = "event_id"
)

// TicketingProvider fetches the ticketing payload for one event.
// Implementations make an external call per event.
type TicketingProvider interface {
	FetchTicketing(ctx context.Context, eventID string) (*domain.Ticketing, error)
}

// Converter builds canonical events, doing one ticketing lookup per event.
type Converter struct {
	provider TicketingProvider
	logger   *zerolog.Logger
}

// New creates a Converter.
func New(provider TicketingProvider, logger *zerolog.Logger) *Converter {
	return &Converter{
		provider: provider,
		logger:   logger,
	}
}

// Convert returns the canonical form of raw. A failed lookup or a ticketing
// payload without start or end times returns an error wrapping
// ErrTicketingLookup.
func (c *Converter) Convert(ctx context.Context, raw domain.RawEvent) (domain.CanonicalEvent, error) {
	ticketing, err := c.provider.FetchTicketing(ctx, raw.ID)
	if err != nil {
		return domain.CanonicalEvent{}, fmt.Errorf("%w: event %s: %v", ErrTicketingLookup, raw.ID, err)
	}

	if ticketing.Start == nil || ticketing.End == nil {
		return domain.CanonicalEvent{}, fmt.Errorf("%w: event %s: payload has no start or end time", ErrTicketingLookup, raw.ID)
	}

	return domain.CanonicalEvent{
		Name:         raw.Name,
		Description:  raw.Summary,
		BookingURL:   raw.URL,
		EventType:    eventTypePublic,
		Address:      c.convertAddress(raw),
		CoverImage:   c.convertImage(raw),
		Price:        convertPrice(ticketing),
		StartDate:    ticketing.Start.Local,
		EndDate:      ticketing.End.Local,
		StartDateUTC: ticketing.Start.UTC,
		EndDateUTC:   ticketing.End.UTC,
		Timezone:     ticketing.Start.Timezone,
		MaximumSpots: nil,
		Webex:        "",
		SocialMedias: []string{},
	}, nil
}

// convertAddress maps whatever address fields exist; the rest stay empty
// strings so the output block always has all six keys.
func (c *Converter) convertAddress(raw domain.RawEvent) domain.CanonicalAddress {
	out := domain.CanonicalAddress{}

	if raw.PrimaryVenue == nil || raw.PrimaryVenue.Address == nil {
		c.logger.Debug().Str(logFieldEventID, raw.ID).Msg("event has no venue address")

		return out
	}

	addr := raw.PrimaryVenue.Address
	out.Geolocation.Latitude = addr.Latitude
	out.Geolocation.Longitude = addr.Longitude
	out.Country = addr.Country
	out.State = addr.Region
	out.City = addr.City
	out.AddressLineOne = addr.Address1
	out.AddressLineTwo = addr.Address2

	return out
}

// convertImage requires the original variant to be complete; a partial one
// collapses to the empty object, same as no image at all.
func (c *Converter) convertImage(raw domain.RawEvent) domain.CoverImage {
	if raw.Image == nil || raw.Image.Original == nil {
		c.logger.Debug().Str(logFieldEventID, raw.ID).Msg("event has no image")

		return domain.CoverImage{}
	}

	orig := raw.Image.Original
	if orig.URL == "" || orig.Width == "" || orig.Height == "" {
		c.logger.Debug().Str(logFieldEventID, raw.ID).Msg("event image variant incomplete")

		return domain.CoverImage{}
	}

	return domain.CoverImage{
		URL:       orig.URL,
		Width:     orig.Width.String(),
		Height:    orig.Height.String(),
		Thumbnail: "",
		Caption:   "",
		MediaType: mediaTypePhoto,
	}
}

// convertPrice falls back to the free price when the event is free or when
// the price bounds are missing or partial.
func convertPrice(ticketing *domain.Ticketing) domain.Price {
	if ticketing.IsFree {
		return domain.FreePrice()
	}

	avail := ticketing.TicketAvailability
	if avail == nil || avail.MaximumTicketPrice == nil {
		return domain.FreePrice()
	}

	price := avail.MaximumTicketPrice
	if price.Currency == "" || price.MajorValue == "" {
		return domain.FreePrice()
	}

	return domain.Price{Currency: price.Currency, Value: price.MajorValue}
}
