package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawAuditor/config"
	"drawAuditor/game"
)

const sampleBody = `{
  "draws": [
    {"sequence": 1, "seed_hash": "df3f619804a92fdb4057192dc43dd748ea778adc52bc498ce80524c014b81119", "seed": "00000000", "number": 1},
    {"sequence": 2, "seed_hash": "aa", "number": 40},
    {"sequence": 3, "seed_hash": "bb", "seed": null, "number": 12}
  ]
}`

func TestDecodeResponse(t *testing.T) {
	draws, err := DecodeResponse([]byte(sampleBody))
	require.NoError(t, err)
	require.Len(t, draws, 3)

	assert.Equal(t, "00000000", draws[0].Seed)
	assert.True(t, draws[0].Revealed())
	assert.False(t, draws[1].Revealed())
	assert.False(t, draws[2].Revealed())
	assert.Equal(t, 40, draws[1].Number)
}

func TestDecodeResponseMalformed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>`},
		{name: "draws not a list", body: `{"draws": 3}`},
		{name: "missing sequence", body: `{"draws":[{"seed_hash":"aa","number":1}]}`},
		{name: "missing seed_hash", body: `{"draws":[{"sequence":1,"number":1}]}`},
		{name: "missing number", body: `{"draws":[{"sequence":1,"seed_hash":"aa"}]}`},
		{name: "seed_hash not hex", body: `{"draws":[{"sequence":1,"seed_hash":"zz","number":1}]}`},
		{name: "seed not hex", body: `{"draws":[{"sequence":1,"seed_hash":"aa","seed":"qq","number":1}]}`},
		{name: "sequence gap", body: `{"draws":[{"sequence":1,"seed_hash":"aa","number":1},{"sequence":3,"seed_hash":"bb","number":2}]}`},
		{name: "sequence zero", body: `{"draws":[{"sequence":0,"seed_hash":"aa","number":1}]}`},
		{name: "odd length seed", body: `{"draws":[{"sequence":1,"seed_hash":"aa","seed":"abc","number":1}]}`},
		{name: "seed shorter than four bytes", body: `{"draws":[{"sequence":1,"seed_hash":"aa","seed":"0a0b","number":1}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeResponse([]byte(tc.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, game.ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestDecodeResponseEmptyGame(t *testing.T) {
	for _, body := range []string{`{"draws": []}`, `{}`, `{"draws": null}`} {
		draws, err := DecodeResponse([]byte(body))
		require.NoError(t, err, body)
		assert.Empty(t, draws, body)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/games/077c56e6/verify":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(sampleBody))
		case "/games/broken/verify":
			w.Write([]byte(`{"draws":[{"sequence":1}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src, err := NewHTTPSource(HTTPConfig{BaseURL: srv.URL + "/", Timeout: time.Second})
	require.NoError(t, err)

	t.Run("ok", func(t *testing.T) {
		draws, err := src.FetchDraws(context.Background(), "077c56e6")
		require.NoError(t, err)
		assert.Len(t, draws, 3)
	})

	t.Run("not found is a data source error", func(t *testing.T) {
		_, err := src.FetchDraws(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDataSource))

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := src.FetchDraws(context.Background(), "broken")
		require.Error(t, err)
		assert.True(t, errors.Is(err, game.ErrMalformedResponse))
		assert.False(t, errors.Is(err, ErrDataSource))
	})
}

func TestHTTPSourceTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	src, err := NewHTTPSource(HTTPConfig{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = src.FetchDraws(context.Background(), "any")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataSource))
}

func TestNewHTTPSourceRejectsBadURL(t *testing.T) {
	_, err := NewHTTPSource(HTTPConfig{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	src := Static{"g1": {{Sequence: 1, SeedHash: "aa", Number: 3}}}

	draws, err := src.FetchDraws(context.Background(), "g1")
	require.NoError(t, err)
	assert.Len(t, draws, 1)

	_, err = src.FetchDraws(context.Background(), "g2")
	assert.True(t, errors.Is(err, ErrDataSource))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleBody), 0o600))

	src, err := LoadFile(path, "offline")
	require.NoError(t, err)

	draws, err := src.FetchDraws(context.Background(), "offline")
	require.NoError(t, err)
	assert.Len(t, draws, 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.json"), "x")
	assert.True(t, errors.Is(err, ErrDataSource))
}

type countingSource struct {
	calls int32
	draws []game.Draw
}

func (c *countingSource) FetchDraws(context.Context, string) ([]game.Draw, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.draws, nil
}

type recordingCache struct {
	*MemoryCache
	ttl time.Duration
}

func (r *recordingCache) Set(ctx context.Context, gameID string, data []byte, ttl time.Duration) error {
	r.ttl = ttl
	return r.MemoryCache.Set(ctx, gameID, data, ttl)
}

func TestCached(t *testing.T) {
	next := &countingSource{draws: []game.Draw{
		{Sequence: 1, SeedHash: "aa", Seed: "0011aabb", Number: 4},
		{Sequence: 2, SeedHash: "bb", Number: 9},
	}}
	cache := &recordingCache{MemoryCache: NewMemoryCache()}
	src := NewCached(next, cache, nil)

	for i := 0; i < 3; i++ {
		draws, err := src.FetchDraws(context.Background(), "g")
		require.NoError(t, err)
		assert.Equal(t, next.draws, draws)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&next.calls))
	assert.Equal(t, config.PendingDrawsTTL, cache.ttl)
}

func TestTTLFor(t *testing.T) {
	assert.Equal(t, config.PendingDrawsTTL, TTLFor(nil))
	assert.Equal(t, config.RevealedDrawsTTL, TTLFor([]game.Draw{{Seed: "00"}}))
	assert.Equal(t, config.PendingDrawsTTL, TTLFor([]game.Draw{{Seed: "00"}, {}}))
}
