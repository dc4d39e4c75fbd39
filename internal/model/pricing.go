package model

import "errors"

// ErrUnknownShowType is returned by Quote for a show type outside the two
// sold by the storefront.
var ErrUnknownShowType = errors.New("unknown show type")

// ErrNegativeTickets rejects negative ticket counts before any price is
// computed. A zero count is deliberately accepted: film club quotes coerce
// it to a zero total, mirroring the storefront's historical behavior.
var ErrNegativeTickets = errors.New("ticket count must not be negative")

// Quote holds the price breakdown fixed into a booking at creation time.
// The amounts are never recomputed from the live record afterward.
type Quote struct {
	BasePrice float64
	GST       float64
	Total     float64
}

// PriceFor computes the quote for a show type and ticket count.
//
// Film club shows are 150 per ticket with no GST. Cluster preview bookings
// are a flat 4000 for the whole show regardless of ticket count, plus 18%
// GST.
func PriceFor(showType string, ticketCount int) (Quote, error) {
	if ticketCount < 0 {
		return Quote{}, ErrNegativeTickets
	}
	switch showType {
	case ShowTypeFilmClub:
		base := 150 * float64(ticketCount)
		return Quote{BasePrice: base, GST: 0, Total: base}, nil
	case ShowTypeClusterPreview:
		base := 4000.0
		gst := base * 0.18
		return Quote{BasePrice: base, GST: gst, Total: base + gst}, nil
	default:
		return Quote{}, ErrUnknownShowType
	}
}
