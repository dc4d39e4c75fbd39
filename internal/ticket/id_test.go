package ticket

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDFormat(t *testing.T) {
	before := time.Now().UnixMilli()
	id := NewID()
	after := time.Now().UnixMilli()

	require.True(t, strings.HasPrefix(id, "TKT"))
	body := strings.TrimPrefix(id, "TKT")
	require.GreaterOrEqual(t, len(body), 13+suffixLen)

	ms, err := strconv.ParseInt(body[:len(body)-suffixLen], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ms, before)
	assert.LessOrEqual(t, ms, after)

	for _, r := range body[len(body)-suffixLen:] {
		assert.Contains(t, base36Digits, string(r))
	}
}

func TestNewIDCollisionResistance(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := NewID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
