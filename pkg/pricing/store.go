package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/levenlabs/go-lflag"

	"github.com/polhenarejos/factura-luz/pkg/common"
)

// Store persists raw archive responses keyed by date. Entries are immutable
// once written: Put on an existing date is a no-op, so a date resolved once
// keeps returning byte-identical prices even if the upstream later revises
// them. Locking across processes sharing a store is the caller's business.
type Store interface {
	// Get returns the raw archive for the date, with ok reporting whether an
	// entry exists.
	Get(ctx context.Context, date string) (raw []byte, ok bool, err error)
	// Put persists the raw archive for the date unless one already exists.
	Put(ctx context.Context, date string, raw []byte) error
	Close() error
}

// Configured sets up the price cache based on flags.
func Configured() *Cache {
	c := &Cache{tables: make(map[tableKey]DayPrices)}

	apiURL := lflag.String("esios-api-url", "https://api.esios.ree.es", "Base URL for the REE ESIOS archive API")
	provider := lflag.String("price-store", "file", "Price store provider to use (available: file, sqlite)")
	cacheDir := lflag.String("price-cache-dir", ".cache", "Directory for the file price store")
	dbPath := lflag.String("price-sqlite-path", "prices.db", "Database file for the sqlite price store")

	lflag.Do(func() {
		c.client = NewClient(*apiURL, common.HTTPClient(10*time.Second))
		if err := c.client.Validate(); err != nil {
			panic(fmt.Sprintf("esios client validation failed: %v", err))
		}
		switch *provider {
		case "file":
			fs, err := NewFileStore(*cacheDir)
			if err != nil {
				panic(fmt.Sprintf("file price store init failed: %v", err))
			}
			c.store = fs
		case "sqlite":
			db, err := NewSQLiteStore(*dbPath)
			if err != nil {
				panic(fmt.Sprintf("sqlite price store init failed: %v", err))
			}
			c.store = db
		default:
			panic(fmt.Sprintf("unknown price store provider: %s", *provider))
		}
	})

	return c
}
