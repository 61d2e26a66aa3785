package shortlink

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLength(t *testing.T) {
	id := Generate(nil, IDLength)
	assert.Len(t, id, IDLength)

	for _, r := range id {
		assert.Contains(t, "0123456789abcdef", string(r))
	}
}

func TestGenerateNoCollisions(t *testing.T) {
	existing := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := Generate(existing, IDLength)
		_, taken := existing[id]
		require.False(t, taken, "generated a duplicate identifier: %s", id)
		existing[id] = struct{}{}
	}
}

func TestGenerateExhaustsSmallSpace(t *testing.T) {
	// Fill the whole single-hex-digit space except one value; the
	// retry loop must land on the free slot.
	const free = "c"
	existing := make(map[string]struct{})
	for _, r := range "0123456789abdef" {
		existing[string(r)] = struct{}{}
	}

	id := Generate(existing, 1)
	assert.Equal(t, free, id)
}

func TestURL(t *testing.T) {
	url := URL("example.org", "ab12cd")
	assert.Equal(t, "http://example.org/s/ab12cd/", url)
	assert.True(t, strings.HasSuffix(url, "/"))
}
