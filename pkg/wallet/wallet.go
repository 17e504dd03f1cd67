package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Unit is the per-currency adapter contract. Implementations talk to the
// corresponding blockchain API; callers treat them as opaque collaborators.
type Unit interface {
	Symbol() string
	ValidateAddress(address string) bool
	WalletURL(address string) string
	Balance(ctx context.Context, address string) (float64, error)
	NetworkFee(ctx context.Context) (float64, error)
	GenerateAddress(ctx context.Context, userID int64) (address, secret string, err error)
	SendCoins(ctx context.Context, secret, toAddress string, amount float64) (string, error)
}

// Config holds network access settings for one currency.
type Config struct {
	Network string
	APIKey  string
}

// Registry resolves currency symbols to their configured adapters.
type Registry struct {
	units map[string]Unit
}

// NewRegistry builds adapters for every configured currency.
func NewRegistry(configs map[string]Config) *Registry {
	units := make(map[string]Unit, len(configs))
	for symbol, cfg := range configs {
		switch symbol {
		case "BTC":
			units[symbol] = NewBTCUnit(cfg)
		case "ETH":
			units[symbol] = NewETHUnit(cfg)
		case "TRX":
			units[symbol] = NewTRXUnit(cfg)
		case "TON":
			units[symbol] = NewTONUnit(cfg)
		}
	}
	return &Registry{units: units}
}

// Unit returns the adapter for a currency symbol.
func (r *Registry) Unit(symbol string) (Unit, error) {
	unit, ok := r.units[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown cryptocurrency: %s", symbol)
	}
	return unit, nil
}

// Symbols lists the configured currencies.
func (r *Registry) Symbols() []string {
	out := make([]string, 0, len(r.units))
	for s := range r.units {
		out = append(out, s)
	}
	return out
}

var httpClient = &http.Client{Timeout: 15 * time.Second}

func getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return doJSON(req, out)
}

func postJSON(ctx context.Context, url string, payload, out any) error {
	req, err := jsonRequest(ctx, http.MethodPost, url, payload)
	if err != nil {
		return err
	}
	return doJSON(req, out)
}

func jsonRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(req *http.Request, out any) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("API returned status %d. Body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %v, body: %s", err, string(body))
	}
	return nil
}
