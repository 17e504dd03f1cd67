// Package rates keeps the shared exchange-rate and network-fee records fresh.
// A single periodic task fetches prices from CryptoCompare and live fees from
// the wallet adapters, then atomically replaces the stored rows; request
// handlers only read them.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/crypted-pay/crypted-pay/pkg/wallet"
)

const apiURL = "https://min-api.cryptocompare.com/data/price"

// Store persists the refreshed values.
type Store interface {
	UpsertRate(ctx context.Context, currency string, rate float64) error
	UpsertNetworkFee(ctx context.Context, currency string, fee float64) error
}

// Units resolves the configured currencies to their wallet adapters.
type Units interface {
	Symbols() []string
	Unit(symbol string) (wallet.Unit, error)
}

// Updater runs the refresh loop.
type Updater struct {
	store      Store
	units      Units
	apiKey     string
	toCurrency string
	interval   time.Duration
	httpClient *http.Client
}

// New creates an Updater converting into toCurrency on the given interval.
func New(store Store, units Units, apiKey, toCurrency string, interval time.Duration) *Updater {
	return &Updater{
		store:      store,
		units:      units,
		apiKey:     apiKey,
		toCurrency: toCurrency,
		interval:   interval,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Run refreshes once immediately and then on every tick until the context is
// cancelled. Individual currency failures are logged and skipped; the loop
// never stops on them.
func (u *Updater) Run(ctx context.Context) {
	u.refresh(ctx)

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.refresh(ctx)
		}
	}
}

func (u *Updater) refresh(ctx context.Context) {
	for _, symbol := range u.units.Symbols() {
		rate, err := u.fetchRate(ctx, symbol)
		if err != nil {
			log.Printf("Failed to fetch %s rate: %v", symbol, err)
		} else if err := u.store.UpsertRate(ctx, symbol, rate); err != nil {
			log.Printf("Failed to store %s rate: %v", symbol, err)
		}

		unit, err := u.units.Unit(symbol)
		if err != nil {
			log.Printf("No wallet unit for %s: %v", symbol, err)
			continue
		}
		fee, err := unit.NetworkFee(ctx)
		if err != nil {
			log.Printf("Failed to fetch %s network fee: %v", symbol, err)
			continue
		}
		if err := u.store.UpsertNetworkFee(ctx, symbol, fee); err != nil {
			log.Printf("Failed to store %s network fee: %v", symbol, err)
		}
	}
}

func (u *Updater) fetchRate(ctx context.Context, symbol string) (float64, error) {
	query := url.Values{}
	query.Set("fsym", symbol)
	query.Set("tsyms", u.toCurrency)
	if u.apiKey != "" {
		query.Set("api_key", u.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"?"+query.Encode(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate API returned status %d: %s", resp.StatusCode, body)
	}

	var prices map[string]float64
	if err := json.Unmarshal(body, &prices); err != nil {
		return 0, fmt.Errorf("failed to decode rate response: %w", err)
	}
	rate, ok := prices[u.toCurrency]
	if !ok {
		return 0, fmt.Errorf("rate response missing %s: %s", u.toCurrency, body)
	}
	return rate, nil
}
