package ledger

import "github.com/bluemoon1528/clusters/internal/model"

// Stats is the admin dashboard projection over the ledger. It is recomputed
// from scratch on every call rather than maintained incrementally; the
// collection is small and a recompute after each mutation is the simplest
// way to stay correct.
type Stats struct {
	TotalBookings    int     `json:"totalBookings"`
	FilmClubBookings int     `json:"filmClubBookings"`
	ClusterBookings  int     `json:"clusterBookings"`
	TotalRevenue     float64 `json:"totalRevenue"`
	TicketsSold      int     `json:"ticketsSold"`
}

// Stats computes the dashboard aggregates over the current ledger contents.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out Stats
	out.TotalBookings = len(s.records)
	for _, b := range s.records {
		switch b.ShowType {
		case model.ShowTypeFilmClub:
			out.FilmClubBookings++
		case model.ShowTypeClusterPreview:
			out.ClusterBookings++
		}
		out.TotalRevenue += b.Total
		out.TicketsSold += b.TicketCount
	}
	return out
}

// CountByShowType reports how many bookings carry the given show type.
func (s *Store) CountByShowType(showType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.records {
		if b.ShowType == showType {
			n++
		}
	}
	return n
}
