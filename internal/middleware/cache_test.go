package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syoh89/lipcoding-competition/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`[{"id":1}]`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{1, 2, 3})
	assert.False(t, ok)

	// Header length pointing past the end of the buffer.
	bs, err := encodePayload(http.StatusOK, http.Header{}, nil)
	require.NoError(t, err)
	_, _, _, ok = decodePayload(bs[:6])
	assert.False(t, ok)
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "mentors", KeyStrategy: "route_query"}

	key := func(target string) string {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/mentors")
		return cacheKeyFrom(cfg, c)
	}

	all := key("/v1/mentors")
	java := key("/v1/mentors?skill=Java")
	js := key("/v1/mentors?skill=JavaScript")

	assert.NotEqual(t, all, java, "filtered views must not share a cache entry")
	assert.NotEqual(t, java, js)
	assert.Equal(t, java, key("/v1/mentors?skill=Java"))
}
