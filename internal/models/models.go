package models

import (
	"time"
)

// User represents a bot user together with the custodial wallets held for them.
type User struct {
	ID           int64  `json:"user_id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
	// Wallets is keyed by currency symbol (BTC, ETH, ...).
	Wallets map[string]Wallet `json:"wallets"`
}

// Wallet is a single per-currency custodial wallet entry of a user profile.
type Wallet struct {
	Address string  `json:"address"`
	Balance float64 `json:"balance"`
	// Hold is the amount reserved by live checks (amount + network fee).
	Hold float64 `json:"hold"`
}

// Check statuses.
const (
	CheckStatusNew     = "new"
	CheckStatusWinning = "winning"
	CheckStatusCashed  = "cashed"
)

// Bill statuses.
const (
	BillStatusNew   = "new"
	BillStatusPayed = "payed"
)

// Check is a voucher that anyone holding its code can cash.
type Check struct {
	ID        int       `json:"id"`
	UserID    int64     `json:"user_id"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"cryptocurrency"`
	Status    string    `json:"status"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"creation_date"`
}

// Bill is an invoice that a specific payer settles by its code.
type Bill struct {
	ID        int       `json:"id"`
	UserID    int64     `json:"user_id"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"cryptocurrency"`
	Status    string    `json:"status"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"creation_date"`
}

// ResponseSpec is the static per-trigger screen configuration from the catalogue.
type ResponseSpec struct {
	Trigger    string `json:"trigger"`
	TemplateID string `json:"template_id"`
	Context    string `json:"context"`
	KeyboardID string `json:"keyboard_id,omitempty"`
}

// Button is one inline keyboard button: a label and the callback payload
// ("<trigger>" or "<trigger>|<page>").
type Button struct {
	Label   string `json:"label"`
	Payload string `json:"payload"`
}

// Limit bounds the accepted amount for one currency.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// BotSettings is the shared, rarely changing bot configuration record.
type BotSettings struct {
	Limits      map[string]Limit `json:"limits"`
	PerPage     int              `json:"per_page"`
	ChannelLink string           `json:"channel_link"`
	ChatLink    string           `json:"chat_link"`
}
