package wallet

import (
	"context"
	"fmt"
)

// BTCUnit talks to the BlockCypher REST API. On testnet it uses the BlockCypher
// test chain (bcy), which hands out faucet-fundable keypairs.
type BTCUnit struct {
	network  string
	apiToken string
	coinPath string
}

// NewBTCUnit creates a Bitcoin adapter for the configured network.
func NewBTCUnit(cfg Config) *BTCUnit {
	coinPath := "btc/main"
	if cfg.Network == "testnet" {
		coinPath = "bcy/test"
	}
	return &BTCUnit{
		network:  cfg.Network,
		apiToken: cfg.APIKey,
		coinPath: coinPath,
	}
}

func (u *BTCUnit) Symbol() string { return "BTC" }

func (u *BTCUnit) apiURL(path string) string {
	return fmt.Sprintf("https://api.blockcypher.com/v1/%s%s?token=%s", u.coinPath, path, u.apiToken)
}

// ValidateAddress checks the base58check encoding: 25 decoded bytes with a
// valid double-SHA256 checksum.
func (u *BTCUnit) ValidateAddress(address string) bool {
	return base58CheckValid(address, 25)
}

func (u *BTCUnit) WalletURL(address string) string {
	return fmt.Sprintf("https://live.blockcypher.com/%s/address/%s/", u.coinPath[:3], address)
}

func (u *BTCUnit) Balance(ctx context.Context, address string) (float64, error) {
	var result struct {
		Balance int64 `json:"balance"`
	}
	if err := getJSON(ctx, u.apiURL("/addrs/"+address+"/balance"), &result); err != nil {
		return 0, fmt.Errorf("BTC balance: %w", err)
	}
	return float64(result.Balance) / 1e8, nil
}

// NetworkFee estimates the fee of one transaction from the chain's current
// high-priority rate and a ~0.25 kB transaction size.
func (u *BTCUnit) NetworkFee(ctx context.Context) (float64, error) {
	var result struct {
		HighFeePerKB int64 `json:"high_fee_per_kb"`
	}
	if err := getJSON(ctx, u.apiURL(""), &result); err != nil {
		return 0, fmt.Errorf("BTC network fee: %w", err)
	}
	return float64(result.HighFeePerKB) * 0.25 / 1e8, nil
}

func (u *BTCUnit) GenerateAddress(ctx context.Context, userID int64) (string, string, error) {
	var result struct {
		Address string `json:"address"`
		Private string `json:"private"`
	}
	if err := postJSON(ctx, u.apiURL("/addrs"), map[string]any{}, &result); err != nil {
		return "", "", fmt.Errorf("BTC generate address: %w", err)
	}
	return result.Address, result.Private, nil
}

func (u *BTCUnit) SendCoins(ctx context.Context, secret, toAddress string, amount float64) (string, error) {
	payload := map[string]any{
		"from_private":   secret,
		"to_address":     toAddress,
		"value_satoshis": int64(amount * 1e8),
	}
	var result struct {
		Hash string `json:"hash"`
	}
	if err := postJSON(ctx, u.apiURL("/txs/micro"), payload, &result); err != nil {
		return "", fmt.Errorf("BTC send coins: %w", err)
	}
	return result.Hash, nil
}
