package bot

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/crypted-pay/crypted-pay/internal/models"
	"github.com/crypted-pay/crypted-pay/internal/triggers"
)

// DefaultContext renders a screen with no variables and no keyboard of its own.
type DefaultContext struct{}

func (c *DefaultContext) Ctx(ctx context.Context) map[string]any        { return map[string]any{} }
func (c *DefaultContext) Markup(ctx context.Context) [][]models.Button { return nil }

// StartContext is the root greeting screen.
type StartContext struct {
	engine *Engine
	user   models.User
}

func (c *StartContext) Ctx(ctx context.Context) map[string]any {
	settings := c.engine.settings(ctx)
	return map[string]any{
		"first_name":   c.user.FirstName,
		"channel_link": fmt.Sprintf("<a href='%s'>канал</a>", settings.ChannelLink),
		"chat_link":    fmt.Sprintf("<a href='%s'>чат</a>", settings.ChatLink),
	}
}

func (c *StartContext) Markup(ctx context.Context) [][]models.Button { return nil }

// WalletContext shows per-currency balances and the fiat total.
type WalletContext struct {
	engine *Engine
	user   models.User
}

func (c *WalletContext) Ctx(ctx context.Context) map[string]any {
	rates := c.engine.rates(ctx)

	var lines []string
	var total float64
	for _, currency := range triggers.Currencies {
		balance := c.user.Wallets[currency].Balance
		lines = append(lines, fmt.Sprintf("%s: %s", currency, formatAmount(balance)))
		total += balance * rates[currency]
	}

	return map[string]any{
		"balances":        strings.Join(lines, "\n"),
		"total_balance":   math.Round(total*100) / 100,
		"wallet_currency": c.engine.WalletCurrency,
	}
}

func (c *WalletContext) Markup(ctx context.Context) [][]models.Button {
	return [][]models.Button{
		{
			{Label: "Пополнить", Payload: triggers.Replenish},
			{Label: "Вывести", Payload: triggers.Withdraw},
		},
		{
			{Label: "Чеки", Payload: triggers.Check},
			{Label: "Счета", Payload: triggers.Bill},
		},
	}
}

// SettingsContext shows the profile preferences screen.
type SettingsContext struct {
	engine *Engine
	user   models.User
}

func (c *SettingsContext) Ctx(ctx context.Context) map[string]any {
	return map[string]any{
		"user":            c.user.FirstName,
		"wallet_currency": c.engine.WalletCurrency,
		"market_currency": c.engine.WalletCurrency,
	}
}

func (c *SettingsContext) Markup(ctx context.Context) [][]models.Button { return nil }

// P2PContext shows the peer-to-peer trade fee screen.
type P2PContext struct{}

func (c *P2PContext) Ctx(ctx context.Context) map[string]any {
	return map[string]any{
		"buy_fee":  0,
		"sell_fee": 1,
	}
}

func (c *P2PContext) Markup(ctx context.Context) [][]models.Button { return nil }

// StockContext shows the exchange fee screen.
type StockContext struct{}

func (c *StockContext) Ctx(ctx context.Context) map[string]any {
	return map[string]any{
		"taker_fee": 0,
		"maker_fee": 1,
	}
}

func (c *StockContext) Markup(ctx context.Context) [][]models.Button { return nil }

// CurrencySelectContext offers one button per supported currency; the action
// that follows is determined by the trigger already on the chain.
type CurrencySelectContext struct{}

func (c *CurrencySelectContext) Ctx(ctx context.Context) map[string]any {
	return map[string]any{}
}

func (c *CurrencySelectContext) Markup(ctx context.Context) [][]models.Button {
	row := make([]models.Button, 0, len(triggers.Currencies))
	for _, currency := range triggers.Currencies {
		row = append(row, models.Button{Label: currency, Payload: currency})
	}
	return [][]models.Button{row}
}

// CurrencyStepContext prompts for the next input of a multi-step flow: an
// amount for check/bill creation, an address for withdrawal, or shows the
// deposit address for replenishment. The flow is read from chain position.
type CurrencyStepContext struct {
	engine *Engine
	user   models.User
	chain  []string
}

func (c *CurrencyStepContext) Ctx(ctx context.Context) map[string]any {
	currency := c.chain[len(c.chain)-1]
	parent := ""
	if len(c.chain) >= 2 {
		parent = c.chain[len(c.chain)-2]
	}

	var prompt string
	switch parent {
	case triggers.CreateCheck, triggers.CreateBill:
		settings := c.engine.settings(ctx)
		limit := settings.Limits[currency]
		prompt = fmt.Sprintf("Введите сумму %s от %s до %s.\nДоступно: %s",
			currency, formatAmount(limit.Min), formatAmount(limit.Max),
			formatAmount(c.user.Wallets[currency].Balance))
	case triggers.Withdraw:
		prompt = fmt.Sprintf("Введите адрес кошелька %s:", currency)
	case triggers.Replenish:
		prompt = c.replenishPrompt(ctx, currency)
	default:
		prompt = fmt.Sprintf("Валюта %s выбрана.", currency)
	}

	return map[string]any{"step_prompt": prompt}
}

func (c *CurrencyStepContext) replenishPrompt(ctx context.Context, currency string) string {
	unavailable := fmt.Sprintf("Пополнение %s временно недоступно.", currency)

	unit, err := c.engine.Units.Unit(currency)
	if err != nil {
		log.Printf("No wallet unit for %s: %v", currency, err)
		return unavailable
	}

	address := c.user.Wallets[currency].Address
	if address == "" {
		var secret string
		address, secret, err = unit.GenerateAddress(ctx, c.user.ID)
		if err != nil {
			log.Printf("Failed to generate %s address for user %d: %v", currency, c.user.ID, err)
			return unavailable
		}
		if err := c.engine.Users.SetWalletAddress(ctx, c.user.ID, currency, address, secret); err != nil {
			log.Printf("Failed to store %s address for user %d: %v", currency, c.user.ID, err)
			return unavailable
		}
	}

	return fmt.Sprintf("Адрес для пополнения %s:\n<code>%s</code>\n%s",
		currency, address, unit.WalletURL(address))
}

func (c *CurrencyStepContext) Markup(ctx context.Context) [][]models.Button { return nil }

// VoucherListContext shows the user's checks or bills as a paginated button
// list; pressing a voucher sends its code back as free text input.
type VoucherListContext struct {
	engine *Engine
	user   models.User
	chain  []string
	page   int
}

func (c *VoucherListContext) trigger() string {
	if len(c.chain) > 0 && c.chain[len(c.chain)-1] == triggers.Bill {
		return triggers.Bill
	}
	return triggers.Check
}

func (c *VoucherListContext) buttons(ctx context.Context) []models.Button {
	var buttons []models.Button
	if c.trigger() == triggers.Bill {
		bills, err := c.engine.Vouchers.BillsByUser(ctx, c.user.ID)
		if err != nil {
			log.Printf("Failed to list bills for user %d: %v", c.user.ID, err)
			return nil
		}
		for _, bill := range bills {
			buttons = append(buttons, models.Button{
				Label:   fmt.Sprintf("%s %s · %s", bill.Amount, bill.Currency, bill.Status),
				Payload: bill.Code,
			})
		}
		return buttons
	}

	checks, err := c.engine.Vouchers.ChecksByUser(ctx, c.user.ID)
	if err != nil {
		log.Printf("Failed to list checks for user %d: %v", c.user.ID, err)
		return nil
	}
	for _, check := range checks {
		buttons = append(buttons, models.Button{
			Label:   fmt.Sprintf("%s %s · %s", check.Amount, check.Currency, check.Status),
			Payload: check.Code,
		})
	}
	return buttons
}

func (c *VoucherListContext) Ctx(ctx context.Context) map[string]any {
	return map[string]any{"total": len(c.buttons(ctx))}
}

func (c *VoucherListContext) Markup(ctx context.Context) [][]models.Button {
	settings := c.engine.settings(ctx)
	rows := Paginate(c.buttons(ctx), c.page, settings.PerPage, c.trigger())

	create := triggers.CreateCheck
	createLabel := "Создать чек"
	if c.trigger() == triggers.Bill {
		create = triggers.CreateBill
		createLabel = "Создать счёт"
	}
	return append(rows, []models.Button{{Label: createLabel, Payload: create}})
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
