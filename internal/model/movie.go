package model

// Movie is a catalog entry. Bookings reference it by ID at creation time
// only and copy the fields they need; the catalog itself is a simple
// pass-through to whichever source backs it (remote table or the seeded
// local list).
//
// Fields:
//  ID     – catalog identifier, assigned by the backing source.
//  Name   – display title.
//  Poster – poster image URL or data URL.
//  Date   – default show date (YYYY-MM-DD).
//  Time   – default show time (HH:MM).
//  Phone  – theatre contact number shown on the storefront.
type Movie struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Poster string `json:"poster"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Phone  string `json:"phone"`
}
