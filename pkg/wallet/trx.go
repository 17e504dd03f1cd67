package wallet

import (
	"context"
	"fmt"
	"net/http"
)

// TRXUnit talks to the TronGrid REST API (Shasta on testnet).
type TRXUnit struct {
	network string
	apiKey  string
	baseURL string
}

// NewTRXUnit creates a Tron adapter for the configured network.
func NewTRXUnit(cfg Config) *TRXUnit {
	baseURL := "https://api.trongrid.io"
	if cfg.Network == "testnet" {
		baseURL = "https://api.shasta.trongrid.io"
	}
	return &TRXUnit{
		network: cfg.Network,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
	}
}

func (u *TRXUnit) Symbol() string { return "TRX" }

func (u *TRXUnit) WalletURL(address string) string {
	if u.network == "testnet" {
		return fmt.Sprintf("https://shasta.tronscan.org/#/address/%s", address)
	}
	return fmt.Sprintf("https://tronscan.org/#/address/%s", address)
}

// ValidateAddress checks the base58check encoding with the 0x41 mainnet prefix.
func (u *TRXUnit) ValidateAddress(address string) bool {
	if !base58CheckValid(address, 25) {
		return false
	}
	decoded, err := base58Decode(address)
	if err != nil {
		return false
	}
	return decoded[0] == 0x41
}

func (u *TRXUnit) post(ctx context.Context, path string, payload, out any) error {
	// TronGrid authenticates via header, so postJSON is re-wrapped here.
	req, err := newTronRequest(ctx, u.baseURL+path, u.apiKey, payload)
	if err != nil {
		return err
	}
	return doJSON(req, out)
}

func (u *TRXUnit) Balance(ctx context.Context, address string) (float64, error) {
	var result struct {
		Balance int64 `json:"balance"`
	}
	err := u.post(ctx, "/wallet/getaccount", map[string]any{
		"address": address,
		"visible": true,
	}, &result)
	if err != nil {
		return 0, fmt.Errorf("TRX balance: %w", err)
	}
	return float64(result.Balance) / 1e6, nil
}

// NetworkFee combines the chain's bandwidth fee with an energy estimate for a
// plain transfer.
func (u *TRXUnit) NetworkFee(ctx context.Context) (float64, error) {
	var result struct {
		ChainParameter []struct {
			Key   string `json:"key"`
			Value int64  `json:"value"`
		} `json:"chainParameter"`
	}
	if err := u.post(ctx, "/wallet/getchainparameters", map[string]any{}, &result); err != nil {
		return 0, fmt.Errorf("TRX network fee: %w", err)
	}

	var transactionFee, energyFee int64
	for _, p := range result.ChainParameter {
		switch p.Key {
		case "getTransactionFee":
			transactionFee = p.Value
		case "getEnergyFee":
			energyFee = p.Value
		}
	}
	return (float64(transactionFee) + 0.25*float64(energyFee)) / 1e6, nil
}

func (u *TRXUnit) GenerateAddress(ctx context.Context, userID int64) (string, string, error) {
	var result struct {
		Address    string `json:"address"`
		PrivateKey string `json:"privateKey"`
	}
	if err := u.post(ctx, "/wallet/generateaddress", map[string]any{}, &result); err != nil {
		return "", "", fmt.Errorf("TRX generate address: %w", err)
	}
	return result.Address, result.PrivateKey, nil
}

func (u *TRXUnit) SendCoins(ctx context.Context, secret, toAddress string, amount float64) (string, error) {
	payload := map[string]any{
		"privateKey": secret,
		"toAddress":  toAddress,
		"amount":     int64(amount * 1e6),
	}
	var result struct {
		Result struct {
			Result bool `json:"result"`
		} `json:"result"`
		Transaction struct {
			TxID string `json:"txID"`
		} `json:"transaction"`
	}
	if err := u.post(ctx, "/wallet/easytransferbyprivate", payload, &result); err != nil {
		return "", fmt.Errorf("TRX send coins: %w", err)
	}
	if !result.Result.Result {
		return "", fmt.Errorf("TRX send coins: transfer rejected")
	}
	return result.Transaction.TxID, nil
}

func newTronRequest(ctx context.Context, url, apiKey string, payload any) (*http.Request, error) {
	req, err := jsonRequest(ctx, http.MethodPost, url, payload)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		req.Header.Set("TRON-PRO-API-KEY", apiKey)
	}
	return req, nil
}
