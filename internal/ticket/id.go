// Package ticket generates booking identifiers.
package ticket

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	idPrefix     = "TKT"
	suffixLen    = 5
	base36Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewID returns a booking identifier: the "TKT" prefix, the current
// millisecond timestamp, and a 5-character random base36 suffix. The
// timestamp keeps ids roughly ordered; the suffix guards against two
// bookings landing in the same millisecond. This is best-effort collision
// resistance, not a cryptographic uniqueness guarantee.
func NewID() string {
	var sb strings.Builder
	sb.WriteString(idPrefix)
	sb.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 10))
	for i := 0; i < suffixLen; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36Digits))))
		if err != nil {
			// crypto/rand failing is unrecoverable in practice; fall back
			// to a fixed digit rather than panicking in the booking path.
			sb.WriteByte('0')
			continue
		}
		sb.WriteByte(base36Digits[n.Int64()])
	}
	return sb.String()
}
