package pricing

import (
	"context"
	"fmt"
	"sync"

	"github.com/polhenarejos/factura-luz/pkg/types"
)

type tableKey struct {
	date   string
	series string
}

// Cache resolves the hourly price table for calendar dates: persisted store
// first, remote fetch on a miss, parsed tables memoized per run so a billing
// run touches each distinct date at most once.
type Cache struct {
	store  Store
	client *Client

	mu     sync.Mutex
	tables map[tableKey]DayPrices
}

// NewCache builds a Cache over an explicit store and client.
func NewCache(store Store, client *Client) *Cache {
	return &Cache{
		store:  store,
		client: client,
		tables: make(map[tableKey]DayPrices),
	}
}

// Day returns the price table for date under the given series identifier.
// Misses fetch, persist and parse; hits never touch the network. Fetch and
// parse failures without a persisted copy surface as ErrPriceUnavailable.
func (c *Cache) Day(ctx context.Context, date types.Date, series string, diags *types.Diagnostics) (DayPrices, error) {
	key := tableKey{date: date.ISO(), series: series}

	c.mu.Lock()
	if t, ok := c.tables[key]; ok {
		c.mu.Unlock()
		return t, nil
	}
	c.mu.Unlock()

	raw, ok, err := c.store.Get(ctx, date.ISO())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrPriceUnavailable, date, err)
	}
	if ok {
		diags.Add(types.DiagPriceCached, date, "prices served from store")
	} else {
		raw, err = c.client.FetchDay(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", types.ErrPriceUnavailable, date, err)
		}
		if err := c.store.Put(ctx, date.ISO(), raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", types.ErrPriceUnavailable, date, err)
		}
		diags.Add(types.DiagPriceFetched, date, "prices fetched and persisted")
	}

	table, err := ParseDay(raw, series)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrPriceUnavailable, date, err)
	}

	c.mu.Lock()
	c.tables[key] = table
	c.mu.Unlock()
	return table, nil
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
