// Package pricing resolves the hourly PVPC price series for calendar dates,
// fetching from the REE ESIOS archive and persisting raw responses so a date
// is downloaded at most once, ever.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/polhenarejos/factura-luz/pkg/log"
	"github.com/polhenarejos/factura-luz/pkg/types"
)

// DayPrices maps hour-of-day (0-23, end-hour convention with the 23:00-24:00
// interval at key 0) to the price in EUR/kWh, rounded to 6 decimals.
type DayPrices map[int]float64

// Client fetches daily PVPC archives from the ESIOS API.
type Client struct {
	apiURL string
	client *http.Client
}

// NewClient returns a Client against the given base URL.
func NewClient(apiURL string, httpClient *http.Client) *Client {
	return &Client{apiURL: apiURL, client: httpClient}
}

// Validate ensures the configuration is valid.
func (c *Client) Validate() error {
	if c.apiURL == "" {
		return fmt.Errorf("esios-api-url is required")
	}
	if _, err := url.Parse(c.apiURL); err != nil {
		return fmt.Errorf("failed to parse esios url (%s): %w", c.apiURL, err)
	}
	return nil
}

// pvpcEntry is one hourly element of the archive's PVPC array. Prices are
// decimal strings with a comma separator, in EUR/MWh. Which series are
// populated depends on the date's era: GEN/NOC/VHC before the 2.0TD cutover,
// PCB/CYM after it.
type pvpcEntry struct {
	Hora string `json:"Hora"`
	PCB  string `json:"PCB"`
	CYM  string `json:"CYM"`
	GEN  string `json:"GEN"`
	NOC  string `json:"NOC"`
	VHC  string `json:"VHC"`
}

type pvpcResponse struct {
	PVPC []pvpcEntry `json:"PVPC"`
}

// FetchDay downloads the raw archive JSON for one date. The body is decoded
// once to reject malformed or empty responses before anything is persisted;
// the returned bytes are the verbatim response.
func (c *Client) FetchDay(ctx context.Context, date types.Date) ([]byte, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	u = u.JoinPath("archives", "70", "download_json")

	params := url.Values{}
	params.Set("locale", "es")
	params.Set("date", date.ISO())
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	log.Ctx(ctx).DebugContext(ctx, "fetching pvpc archive", slog.String("url", u.String()))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("esios api returned status: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var decoded pvpcResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.PVPC) == 0 {
		return nil, fmt.Errorf("response has no PVPC entries for %s", date)
	}

	log.Ctx(ctx).DebugContext(
		ctx,
		"fetched pvpc archive",
		slog.String("date", date.ISO()),
		slog.Int("entries", len(decoded.PVPC)),
	)
	return raw, nil
}

// ParseDay extracts one price series from a raw archive response. Hora holds
// "H1-H2" interval labels; the end hour H2 keys the price, normalized mod 24
// so the "23-24" entry lands on hour 0. EUR/MWh values become EUR/kWh rounded
// to 6 decimals, matching the precision billing multiplies at.
func ParseDay(raw []byte, series string) (DayPrices, error) {
	var decoded pvpcResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode archive: %w", err)
	}
	if len(decoded.PVPC) == 0 {
		return nil, fmt.Errorf("archive has no PVPC entries")
	}

	prices := make(DayPrices, len(decoded.PVPC))
	for _, e := range decoded.PVPC {
		parts := strings.Split(e.Hora, "-")
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad Hora label %q", e.Hora)
		}
		end, err := strconv.Atoi(parts[1])
		if err != nil || end < 1 || end > 24 {
			return nil, fmt.Errorf("bad Hora label %q", e.Hora)
		}

		var field string
		switch series {
		case "PCB":
			field = e.PCB
		case "CYM":
			field = e.CYM
		case "GEN":
			field = e.GEN
		case "NOC":
			field = e.NOC
		case "VHC":
			field = e.VHC
		default:
			return nil, fmt.Errorf("unknown price series %q", series)
		}
		if field == "" {
			return nil, fmt.Errorf("archive has no %s series", series)
		}

		perMWh, err := strconv.ParseFloat(strings.ReplaceAll(field, ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("bad %s price %q: %w", series, field, err)
		}
		prices[end%24] = round6(perMWh / 1000)
	}
	return prices, nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
