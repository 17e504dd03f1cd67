package wallet

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

// User-friendly (48 chars base64url) or raw "workchain:hex" form.
var (
	tonFriendlyRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{48}$`)
	tonRawRegex      = regexp.MustCompile(`^-?\d+:[0-9a-fA-F]{64}$`)
)

// TONUnit talks to the Toncenter HTTP API.
type TONUnit struct {
	network string
	apiKey  string
	baseURL string
}

// NewTONUnit creates a TON adapter for the configured network.
func NewTONUnit(cfg Config) *TONUnit {
	baseURL := "https://toncenter.com"
	if cfg.Network == "testnet" {
		baseURL = "https://testnet.toncenter.com"
	}
	return &TONUnit{
		network: cfg.Network,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
	}
}

func (u *TONUnit) Symbol() string { return "TON" }

func (u *TONUnit) WalletURL(address string) string {
	if u.network == "testnet" {
		return fmt.Sprintf("https://testnet.tonscan.org/address/%s", address)
	}
	return fmt.Sprintf("https://tonscan.org/address/%s", address)
}

func (u *TONUnit) ValidateAddress(address string) bool {
	return tonFriendlyRegex.MatchString(address) || tonRawRegex.MatchString(address)
}

func (u *TONUnit) Balance(ctx context.Context, address string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/v2/getAddressBalance?address=%s&api_key=%s",
		u.baseURL, url.QueryEscape(address), u.apiKey)

	var result struct {
		OK     bool   `json:"ok"`
		Result string `json:"result"`
	}
	if err := getJSON(ctx, endpoint, &result); err != nil {
		return 0, fmt.Errorf("TON balance: %w", err)
	}
	if !result.OK {
		return 0, fmt.Errorf("TON balance: API returned not ok")
	}
	nano, err := strconv.ParseFloat(result.Result, 64)
	if err != nil {
		return 0, fmt.Errorf("TON balance: %w", err)
	}
	return nano / 1e9, nil
}

// NetworkFee returns a flat transfer estimate; Toncenter exposes fee
// estimation only per prepared message, not as a chain-wide rate.
func (u *TONUnit) NetworkFee(ctx context.Context) (float64, error) {
	return 0.0055, nil
}

// GenerateAddress is unsupported over the plain HTTP API; key derivation
// lives with the node operator. Callers degrade to an empty address.
func (u *TONUnit) GenerateAddress(ctx context.Context, userID int64) (string, string, error) {
	return "", "", fmt.Errorf("TON generate address: not supported over HTTP API")
}

// SendCoins is unsupported over the plain HTTP API for the same reason as
// GenerateAddress: Toncenter only broadcasts locally signed messages.
func (u *TONUnit) SendCoins(ctx context.Context, secret, toAddress string, amount float64) (string, error) {
	return "", fmt.Errorf("TON send coins: not supported over HTTP API")
}
