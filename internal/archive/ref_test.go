package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxy(t *testing.T) {
	assert.Equal(t, "../uploads/u1/archive/e1#/data", Proxy("u1", "e1"))
}

func TestNormalizeProxy(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{
			"missing slash fixed",
			"../uploads/1234/archive/5678#data",
			"../uploads/1234/archive/5678#/data",
		},
		{
			"already normalized",
			"../uploads/1234/archive/5678#/data",
			"../uploads/1234/archive/5678#/data",
		},
		{
			"no fragment untouched",
			"../uploads/1234/archive/5678",
			"../uploads/1234/archive/5678",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeProxy(tc.ref))
		})
	}
}

func TestParseProxy(t *testing.T) {
	uploadID, entryID, err := ParseProxy("../uploads/u1/archive/e1#/data")
	require.NoError(t, err)
	assert.Equal(t, "u1", uploadID)
	assert.Equal(t, "e1", entryID)

	// Round trip.
	uploadID, entryID, err = ParseProxy(Proxy("abc", "def"))
	require.NoError(t, err)
	assert.Equal(t, "abc", uploadID)
	assert.Equal(t, "def", entryID)
}

func TestParseProxyRejects(t *testing.T) {
	for _, ref := range []string{
		"",
		"not a reference",
		"../uploads/u1/archive/",
		"../uploads//archive/e1",
		"../downloads/u1/archive/e1#/data",
		"https://example.org/uploads/u1/archive/e1",
	} {
		t.Run(ref, func(t *testing.T) {
			_, _, err := ParseProxy(ref)
			assert.Error(t, err)
		})
	}
}
