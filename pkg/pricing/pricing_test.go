package pricing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polhenarejos/factura-luz/pkg/types"
)

// archiveBody builds an ESIOS-shaped response with 24 hourly entries at a
// uniform EUR/MWh price for every series.
func archiveBody(perMWh string) string {
	var b strings.Builder
	b.WriteString(`{"PVPC":[`)
	for h := 0; h < 24; h++ {
		if h > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b,
			`{"Hora":"%02d-%02d","PCB":"%s","CYM":"%s","GEN":"%s","NOC":"%s","VHC":"%s"}`,
			h, h+1, perMWh, perMWh, perMWh, perMWh, perMWh)
	}
	b.WriteString("]}")
	return b.String()
}

func TestParseDay(t *testing.T) {
	raw := []byte(archiveBody("116,23"))

	prices, err := ParseDay(raw, "PCB")
	require.NoError(t, err)
	require.Len(t, prices, 24)

	// 116,23 EUR/MWh -> 0.11623 EUR/kWh
	assert.Equal(t, 0.11623, prices[1])
	// The "23-24" entry keys hour 0.
	assert.Equal(t, 0.11623, prices[0])
	_, has24 := prices[24]
	assert.False(t, has24)

	t.Run("UnknownSeries", func(t *testing.T) {
		_, err := ParseDay(raw, "XXX")
		assert.Error(t, err)
	})

	t.Run("MissingSeries", func(t *testing.T) {
		_, err := ParseDay([]byte(`{"PVPC":[{"Hora":"00-01","GEN":"100,0"}]}`), "PCB")
		assert.Error(t, err)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ParseDay([]byte(`{"PVPC":[]}`), "PCB")
		assert.Error(t, err)
	})

	t.Run("BadHora", func(t *testing.T) {
		_, err := ParseDay([]byte(`{"PVPC":[{"Hora":"nope","PCB":"100,0"}]}`), "PCB")
		assert.Error(t, err)
	})
}

func TestClientFetchDay(t *testing.T) {
	day := types.MustDate(2021, time.June, 2)

	t.Run("OK", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/archives/70/download_json", r.URL.Path)
			assert.Equal(t, "es", r.URL.Query().Get("locale"))
			assert.Equal(t, "2021-06-02", r.URL.Query().Get("date"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(archiveBody("100,0")))
		}))
		defer ts.Close()

		c := NewClient(ts.URL, ts.Client())
		raw, err := c.FetchDay(context.Background(), day)
		require.NoError(t, err)
		assert.Equal(t, archiveBody("100,0"), string(raw))
	})

	t.Run("ServerError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		c := NewClient(ts.URL, ts.Client())
		_, err := c.FetchDay(context.Background(), day)
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer ts.Close()

		c := NewClient(ts.URL, ts.Client())
		_, err := c.FetchDay(context.Background(), day)
		assert.Error(t, err)
	})
}

func TestCache(t *testing.T) {
	day := types.MustDate(2021, time.June, 2)

	t.Run("FetchOncePerDate", func(t *testing.T) {
		requests := 0
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			_, _ = w.Write([]byte(archiveBody("100,0")))
		}))
		defer ts.Close()

		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)
		cache := NewCache(store, NewClient(ts.URL, ts.Client()))

		var diags types.Diagnostics
		first, err := cache.Day(context.Background(), day, "PCB", &diags)
		require.NoError(t, err)
		assert.Equal(t, 1, requests)
		assert.Equal(t, 0.1, first[12])

		second, err := cache.Day(context.Background(), day, "PCB", &diags)
		require.NoError(t, err)
		assert.Equal(t, 1, requests, "expected memoized table")
		assert.Equal(t, first, second)

		events := diags.Events()
		require.Len(t, events, 1)
		assert.Equal(t, types.DiagPriceFetched, events[0].Kind)
	})

	t.Run("StoreHitSkipsNetwork", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewFileStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.Put(context.Background(), day.ISO(), []byte(archiveBody("200,0"))))

		// Any network access fails loudly.
		cache := NewCache(store, NewClient("http://127.0.0.1:0", &http.Client{Timeout: time.Second}))

		var diags types.Diagnostics
		prices, err := cache.Day(context.Background(), day, "PCB", &diags)
		require.NoError(t, err)
		assert.Equal(t, 0.2, prices[12])

		events := diags.Events()
		require.Len(t, events, 1)
		assert.Equal(t, types.DiagPriceCached, events[0].Kind)
	})

	t.Run("UnreachableNoCache", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)
		cache := NewCache(store, NewClient("http://127.0.0.1:0", &http.Client{Timeout: time.Second}))

		_, err = cache.Day(context.Background(), day, "PCB", nil)
		assert.ErrorIs(t, err, types.ErrPriceUnavailable)
	})
}

func TestFileStoreNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "2021-06-02", []byte("original")))
	require.NoError(t, store.Put(ctx, "2021-06-02", []byte("revised")))

	raw, ok, err := store.Get(ctx, "2021-06-02")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "original", string(raw))

	_, ok, err = store.Get(ctx, "2021-06-03")
	require.NoError(t, err)
	assert.False(t, ok)

	// The entry is a plain file named by the ISO date.
	_, err = os.Stat(filepath.Join(dir, "2021-06-02"))
	assert.NoError(t, err)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "prices.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "2021-06-02", []byte("original")))
	require.NoError(t, store.Put(ctx, "2021-06-02", []byte("revised")))

	raw, ok, err := store.Get(ctx, "2021-06-02")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "original", string(raw))

	_, ok, err = store.Get(ctx, "2099-01-01")
	require.NoError(t, err)
	assert.False(t, ok)
}
