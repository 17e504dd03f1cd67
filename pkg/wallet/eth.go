package wallet

import (
	"context"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var ethAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

var ethNetworks = map[string]string{
	"mainnet": "mainnet.infura.io/v3",
	"testnet": "goerli.infura.io/v3",
	"sepolia": "sepolia.infura.io/v3",
}

var ethExplorers = map[string]string{
	"mainnet": "https://etherscan.io/address",
	"testnet": "https://goerli.etherscan.io/address",
	"sepolia": "https://sepolia.etherscan.io/address",
}

// ETHUnit talks JSON-RPC to an Ethereum node endpoint.
type ETHUnit struct {
	network string
	rpcURL  string
}

// NewETHUnit creates an Ethereum adapter for the configured network.
func NewETHUnit(cfg Config) *ETHUnit {
	host, ok := ethNetworks[cfg.Network]
	if !ok {
		host = ethNetworks["mainnet"]
	}
	return &ETHUnit{
		network: cfg.Network,
		rpcURL:  fmt.Sprintf("https://%s/%s", host, cfg.APIKey),
	}
}

func (u *ETHUnit) Symbol() string { return "ETH" }

func (u *ETHUnit) WalletURL(address string) string {
	return fmt.Sprintf("%s/%s", ethExplorers[u.network], address)
}

func (u *ETHUnit) ValidateAddress(address string) bool {
	return ethAddressRegex.MatchString(address)
}

func (u *ETHUnit) rpc(ctx context.Context, method string, params []any) (string, error) {
	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	}
	var result struct {
		Result string `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := postJSON(ctx, u.rpcURL, payload, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("RPC error %d: %s", result.Error.Code, result.Error.Message)
	}
	return result.Result, nil
}

func hexToFloat(hexValue string, denominator float64) (float64, error) {
	n, ok := new(big.Int).SetString(strings.TrimPrefix(hexValue, "0x"), 16)
	if !ok {
		return 0, fmt.Errorf("invalid hex quantity: %s", hexValue)
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(n), big.NewFloat(denominator)).Float64()
	return f, nil
}

func (u *ETHUnit) Balance(ctx context.Context, address string) (float64, error) {
	result, err := u.rpc(ctx, "eth_getBalance", []any{address, "latest"})
	if err != nil {
		return 0, fmt.Errorf("ETH balance: %w", err)
	}
	return hexToFloat(result, 1e18)
}

// NetworkFee estimates a plain-transfer fee: current gas price times the
// 21000 gas of a value transfer.
func (u *ETHUnit) NetworkFee(ctx context.Context) (float64, error) {
	result, err := u.rpc(ctx, "eth_gasPrice", []any{})
	if err != nil {
		return 0, fmt.Errorf("ETH network fee: %w", err)
	}
	gasPrice, err := hexToFloat(result, 1e18)
	if err != nil {
		return 0, err
	}
	return gasPrice * 21000, nil
}

// GenerateAddress requests a fresh keypair from BlockCypher's Ethereum chain;
// the node endpoint itself has no keygen RPC.
func (u *ETHUnit) GenerateAddress(ctx context.Context, userID int64) (string, string, error) {
	var result struct {
		Address string `json:"address"`
		Private string `json:"private"`
	}
	if err := postJSON(ctx, "https://api.blockcypher.com/v1/eth/main/addrs", map[string]any{}, &result); err != nil {
		return "", "", fmt.Errorf("ETH generate address: %w", err)
	}
	return "0x" + result.Address, result.Private, nil
}

// SendCoins submits an eth_sendTransaction against the node, which holds the
// custodial account keys.
func (u *ETHUnit) SendCoins(ctx context.Context, secret, toAddress string, amount float64) (string, error) {
	valueWei := new(big.Int)
	new(big.Float).Mul(big.NewFloat(amount), big.NewFloat(1e18)).Int(valueWei)

	txHash, err := u.rpc(ctx, "eth_sendTransaction", []any{map[string]any{
		"from":  secret,
		"to":    toAddress,
		"value": "0x" + valueWei.Text(16),
	}})
	if err != nil {
		return "", fmt.Errorf("ETH send coins: %w", err)
	}
	return txHash, nil
}
