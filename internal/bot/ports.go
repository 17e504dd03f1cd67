package bot

import (
	"context"

	"github.com/crypted-pay/crypted-pay/internal/models"
	"github.com/crypted-pay/crypted-pay/pkg/telegram"
	"github.com/crypted-pay/crypted-pay/pkg/wallet"
)

// SessionStore persists per-user navigation state. Last-write-wins; no
// locking (see DESIGN.md on the same-user race).
type SessionStore interface {
	Chain(ctx context.Context, userID int64) ([]string, error)
	SetChain(ctx context.Context, userID int64, chain []string) error
	LastMessageID(ctx context.Context, userID int64) (int, error)
	SetLastMessageID(ctx context.Context, userID int64, messageID int) error
	SetLastTrigger(ctx context.Context, userID int64, trigger string) error
}

// Catalogue serves the static screen configuration.
type Catalogue interface {
	Response(ctx context.Context, trigger string) (models.ResponseSpec, error)
	Template(ctx context.Context, id string) (string, error)
	Keyboard(ctx context.Context, id string) ([][]models.Button, error)
	Settings(ctx context.Context) (models.BotSettings, error)
}

// UserStore persists user profiles and their custodial wallets.
type UserStore interface {
	UpsertUser(ctx context.Context, user models.User) error
	User(ctx context.Context, userID int64) (models.User, error)
	SetWalletAddress(ctx context.Context, userID int64, currency, address, secret string) error
	AddHold(ctx context.Context, userID int64, currency string, amount float64) error
	WalletSecret(ctx context.Context, userID int64, currency string) (string, error)
}

// VoucherStore persists check and bill records.
type VoucherStore interface {
	CreateCheck(ctx context.Context, userID int64, amount, currency string) (models.Check, error)
	CreateBill(ctx context.Context, userID int64, amount, currency string) (models.Bill, error)
	CheckByCode(ctx context.Context, code string) (models.Check, error)
	BillByCode(ctx context.Context, code string) (models.Bill, error)
	ChecksByUser(ctx context.Context, userID int64) ([]models.Check, error)
	BillsByUser(ctx context.Context, userID int64) ([]models.Bill, error)
}

// RateSource serves the shared exchange-rate record maintained by the
// periodic refresher.
type RateSource interface {
	Rates(ctx context.Context) (map[string]float64, error)
	NetworkFee(ctx context.Context, currency string) (float64, error)
}

// Transport sends and deletes outgoing messages.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) (int, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error
}

// Units resolves currency symbols to wallet adapters.
type Units interface {
	Unit(symbol string) (wallet.Unit, error)
}
