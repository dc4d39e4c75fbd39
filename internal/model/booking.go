package model

// Show types sold by the storefront. The string values double as the wire
// representation, matching what the admin dashboard and the remote document
// store already contain.
const (
	ShowTypeFilmClub       = "Film Club Show"
	ShowTypeClusterPreview = "Cluster Preview Movie"
)

// Booking is the central ledger record. Field names in JSON match the
// document shape stored in the remote collection, so a record can round-trip
// between the local ledger, the durable mirror and the cloud without
// translation. Movie fields are a denormalized snapshot taken at creation
// time; later catalog edits never alter an existing booking.
//
// ID is generated locally at creation, is immutable, and is the merge key as
// well as the remote document key.
type Booking struct {
	ID            string  `json:"id"`
	MovieID       int64   `json:"movieId"`
	MovieName     string  `json:"movieName"`
	MoviePoster   string  `json:"moviePoster"`
	ShowType      string  `json:"showType"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	TicketCount   int     `json:"ticketCount"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail string  `json:"customerEmail"`
	BasePrice     float64 `json:"basePrice"`
	GST           float64 `json:"gst"`
	Total         float64 `json:"total"`
	BookingDate   string  `json:"bookingDate"`

	// Optional payment-QR override used only when rendering the printed
	// ticket. Absent on normally created bookings.
	QR       string `json:"qr,omitempty"`
	Approved bool   `json:"approved,omitempty"`
}
