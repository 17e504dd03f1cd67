package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBTCValidateAddress(t *testing.T) {
	unit := NewBTCUnit(Config{Network: "mainnet"})

	tests := []struct {
		name    string
		address string
		valid   bool
	}{
		{"genesis address", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", true},
		{"p2sh address", "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", true},
		{"bad checksum", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNb", false},
		{"too short", "1A1zP1eP5QGe", false},
		{"invalid characters", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfN0", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, unit.ValidateAddress(tt.address))
		})
	}
}

func TestETHValidateAddress(t *testing.T) {
	unit := NewETHUnit(Config{Network: "sepolia"})

	assert.True(t, unit.ValidateAddress("0xde0B295669a9FD93d5F28D9Ec85E40f4cb697BAe"))
	assert.False(t, unit.ValidateAddress("de0B295669a9FD93d5F28D9Ec85E40f4cb697BAe"))
	assert.False(t, unit.ValidateAddress("0xde0B295669a9FD93d5F28D9Ec85E40f4cb697BA"))
	assert.False(t, unit.ValidateAddress("0xzz0B295669a9FD93d5F28D9Ec85E40f4cb697BAe"))
}

func TestTRXValidateAddress(t *testing.T) {
	unit := NewTRXUnit(Config{Network: "mainnet"})

	// Tron addresses are base58check with a 0x41 version byte.
	assert.True(t, unit.ValidateAddress("TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"))
	assert.False(t, unit.ValidateAddress("TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6u"))
	// Valid bitcoin address has the wrong version byte for Tron.
	assert.False(t, unit.ValidateAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"))
}

func TestTONValidateAddress(t *testing.T) {
	unit := NewTONUnit(Config{Network: "mainnet"})

	assert.True(t, unit.ValidateAddress("EQDk2VTvn04SUKJrW7rXahzdF8_Qi6utb0wj43InCu9vdjrR"))
	assert.True(t, unit.ValidateAddress("0:83dfd552e63729b472fcbcc8c45ebcc6691702558b68ec7527e1ba403a0f31a8"))
	assert.False(t, unit.ValidateAddress("EQDk2VTvn04SUKJrW7rXahzdF8"))
	assert.False(t, unit.ValidateAddress("not an address"))
}

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry(map[string]Config{
		"BTC": {Network: "testnet"},
		"ETH": {Network: "sepolia"},
	})

	unit, err := registry.Unit("BTC")
	assert.NoError(t, err)
	assert.Equal(t, "BTC", unit.Symbol())

	_, err = registry.Unit("DOGE")
	assert.Error(t, err)
}
