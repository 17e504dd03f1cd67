package bot

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/crypted-pay/crypted-pay/internal/models"
	"github.com/crypted-pay/crypted-pay/internal/triggers"
)

// runValidators handles free text input. The validator is picked from the
// breadcrumbs preceding the input; the chain is rolled back to its last
// registered trigger before validation, so a failed attempt re-prompts the
// same step and a successful one commits the canonical value in place of the
// raw text.
func (e *Engine) runValidators(ctx context.Context, user models.User, chain []string) (string, error) {
	n := len(chain)
	input := strings.TrimSpace(chain[n-1])

	if err := e.clearChain(ctx, user.ID, chain); err != nil {
		return "", err
	}

	switch {
	case n >= 3 && chain[n-3] == triggers.CreateCheck:
		return e.checkAmount(ctx, user, chain, chain[n-2], input)
	case n >= 3 && chain[n-3] == triggers.CreateBill:
		return e.billAmount(ctx, user, chain, chain[n-2], input)
	case n >= 3 && chain[n-3] == triggers.Withdraw:
		return e.withdrawAddress(ctx, user, chain, chain[n-2], input)
	case n >= 4 && chain[n-4] == triggers.Withdraw:
		return e.withdrawAmount(ctx, user, chain, chain[n-3], chain[n-2], input)
	case n >= 2 && chain[n-2] == triggers.Check:
		return e.voucherView(ctx, input, false)
	case n >= 2 && chain[n-2] == triggers.Bill:
		return e.voucherView(ctx, input, true)
	default:
		return e.render(ctx, "not_found", map[string]any{})
	}
}

// clearChain pops the raw input off the tail and persists the result. This is
// the eager rollback: by the time a validator runs, the stored chain already
// points at the step being retried, so a rejection needs no further cleanup.
func (e *Engine) clearChain(ctx context.Context, userID int64, chain []string) error {
	if n := len(chain); n > 0 && !triggers.IsTrigger(chain[n-1]) {
		chain = chain[:n-1]
	}
	return e.Sessions.SetChain(ctx, userID, chain)
}

// commitChain replaces the raw input tail with its canonical form and
// persists the result, undoing the eager rollback for a successful step.
func (e *Engine) commitChain(ctx context.Context, userID int64, chain []string, canonical string) {
	committed := append(append([]string{}, chain[:len(chain)-1]...), canonical)
	if err := e.Sessions.SetChain(ctx, userID, committed); err != nil {
		log.Printf("Failed to commit chain for user %d: %v", userID, err)
	}
}

func (e *Engine) render(ctx context.Context, templateID string, vars map[string]any) (string, error) {
	text, err := e.Catalogue.Template(ctx, templateID)
	if err != nil {
		return "", err
	}
	return e.Renderer.Render(text, vars)
}

// checkAmount turns a valid amount into a check record and a hold covering
// the amount plus the network fee. Bounds are inclusive; the amount is not
// checked against the balance, the hold covers it after the fact.
func (e *Engine) checkAmount(ctx context.Context, user models.User, chain []string, crypto, input string) (string, error) {
	settings := e.settings(ctx)
	limit := settings.Limits[crypto]
	available := user.Wallets[crypto].Balance - user.Wallets[crypto].Hold

	v, err := strconv.ParseFloat(input, 64)
	if err != nil || v < limit.Min || v > limit.Max {
		return e.render(ctx, "errors/create_check_error", map[string]any{
			"crypto":           crypto,
			"balance":          formatAmount(available),
			"min_check_amount": formatAmount(limit.Min),
			"max_check_amount": formatAmount(limit.Max),
		})
	}

	amount := formatAmount(v)
	check, err := e.Vouchers.CreateCheck(ctx, user.ID, amount, crypto)
	if err != nil {
		log.Printf("Failed to create check for user %d: %v", user.ID, err)
		return e.render(ctx, "errors/create_check_error", map[string]any{
			"crypto":           crypto,
			"balance":          formatAmount(available),
			"min_check_amount": formatAmount(limit.Min),
			"max_check_amount": formatAmount(limit.Max),
		})
	}

	fee, err := e.Rates.NetworkFee(ctx, crypto)
	if err != nil {
		log.Printf("Failed to load %s network fee: %v", crypto, err)
		fee = 0
	}
	if err := e.Users.AddHold(ctx, user.ID, crypto, v+fee); err != nil {
		log.Printf("Failed to hold %s for user %d: %v", crypto, user.ID, err)
	}

	e.commitChain(ctx, user.ID, chain, amount)
	return e.render(ctx, "wallet/check", map[string]any{
		"code":            check.Code,
		"amount":          amount,
		"crypto":          crypto,
		"fiat_amount":     fiatAmount(v, e.rates(ctx)[crypto]),
		"wallet_currency": e.WalletCurrency,
		"bot_name":        e.BotName,
	})
}

// billAmount records a payment request. Unlike checks the bounds are
// exclusive and no balance is required: the payer funds the bill.
func (e *Engine) billAmount(ctx context.Context, user models.User, chain []string, crypto, input string) (string, error) {
	settings := e.settings(ctx)
	limit := settings.Limits[crypto]

	v, err := strconv.ParseFloat(input, 64)
	if err != nil || v <= limit.Min || v >= limit.Max {
		return e.render(ctx, "errors/create_bill_error", map[string]any{
			"crypto":          crypto,
			"balance":         formatAmount(user.Wallets[crypto].Balance),
			"min_bill_amount": formatAmount(limit.Min),
			"max_bill_amount": formatAmount(limit.Max),
		})
	}

	amount := formatAmount(v)
	bill, err := e.Vouchers.CreateBill(ctx, user.ID, amount, crypto)
	if err != nil {
		log.Printf("Failed to create bill for user %d: %v", user.ID, err)
		return e.render(ctx, "errors/create_bill_error", map[string]any{
			"crypto":          crypto,
			"balance":         formatAmount(user.Wallets[crypto].Balance),
			"min_bill_amount": formatAmount(limit.Min),
			"max_bill_amount": formatAmount(limit.Max),
		})
	}

	e.commitChain(ctx, user.ID, chain, amount)
	return e.render(ctx, "wallet/bill", map[string]any{
		"code":            bill.Code,
		"amount":          amount,
		"crypto":          crypto,
		"fiat_amount":     fiatAmount(v, e.rates(ctx)[crypto]),
		"wallet_currency": e.WalletCurrency,
		"bot_name":        e.BotName,
	})
}

// withdrawAddress checks the destination against the currency's own address
// rules and, when valid, keeps it on the chain for the amount step.
func (e *Engine) withdrawAddress(ctx context.Context, user models.User, chain []string, crypto, input string) (string, error) {
	unit, err := e.Units.Unit(crypto)
	if err != nil || !unit.ValidateAddress(input) {
		if err != nil {
			log.Printf("No wallet unit for %s: %v", crypto, err)
		}
		return e.render(ctx, "errors/invalid_address", map[string]any{})
	}

	e.commitChain(ctx, user.ID, chain, input)
	available := user.Wallets[crypto].Balance - user.Wallets[crypto].Hold
	return e.render(ctx, "wallet/withdraw_amount", map[string]any{
		"crypto":            crypto,
		"available_balance": formatAmount(available),
	})
}

// withdrawAmount sends coins to the address accepted in the previous step.
// The balance must cover the amount plus the live network fee.
func (e *Engine) withdrawAmount(ctx context.Context, user models.User, chain []string, crypto, address, input string) (string, error) {
	settings := e.settings(ctx)
	limit := settings.Limits[crypto]
	available := user.Wallets[crypto].Balance - user.Wallets[crypto].Hold

	fee := 0.0
	unit, unitErr := e.Units.Unit(crypto)
	if unitErr != nil {
		log.Printf("No wallet unit for %s: %v", crypto, unitErr)
	} else if fee, unitErr = unit.NetworkFee(ctx); unitErr != nil {
		log.Printf("Failed to fetch live %s fee: %v", crypto, unitErr)
		if fee, unitErr = e.Rates.NetworkFee(ctx, crypto); unitErr != nil {
			fee = 0
		}
	}

	failure := func() (string, error) {
		return e.render(ctx, "errors/withdraw_error", map[string]any{
			"crypto": crypto,
			"fee":    formatAmount(fee),
		})
	}

	v, err := strconv.ParseFloat(input, 64)
	if err != nil || v < limit.Min || v > limit.Max || available < v+fee {
		return failure()
	}
	if unit == nil {
		return failure()
	}

	secret, err := e.Users.WalletSecret(ctx, user.ID, crypto)
	if err != nil {
		log.Printf("No %s wallet secret for user %d: %v", crypto, user.ID, err)
		return failure()
	}
	txID, err := unit.SendCoins(ctx, secret, address, v)
	if err != nil {
		log.Printf("Failed to send %s for user %d: %v", crypto, user.ID, err)
		return failure()
	}
	if err := e.Users.AddHold(ctx, user.ID, crypto, v+fee); err != nil {
		log.Printf("Failed to hold %s for user %d: %v", crypto, user.ID, err)
	}

	e.commitChain(ctx, user.ID, chain, formatAmount(v))
	return e.render(ctx, "wallet/withdraw_success", map[string]any{
		"tx_hash": txID,
	})
}

// voucherView looks up a check or bill by the code the user pasted.
func (e *Engine) voucherView(ctx context.Context, code string, bill bool) (string, error) {
	var kind, amount, crypto, status string
	if bill {
		record, err := e.Vouchers.BillByCode(ctx, code)
		if err != nil {
			return e.render(ctx, "not_found", map[string]any{})
		}
		kind, amount, crypto, status = "Счёт", record.Amount, record.Currency, record.Status
	} else {
		record, err := e.Vouchers.CheckByCode(ctx, code)
		if err != nil {
			return e.render(ctx, "not_found", map[string]any{})
		}
		kind, amount, crypto, status = "Чек", record.Amount, record.Currency, record.Status
	}

	v, _ := strconv.ParseFloat(amount, 64)
	return e.render(ctx, "wallet/voucher_view", map[string]any{
		"kind":            kind,
		"code":            code,
		"amount":          amount,
		"crypto":          crypto,
		"status":          status,
		"fiat_amount":     fiatAmount(v, e.rates(ctx)[crypto]),
		"wallet_currency": e.WalletCurrency,
	})
}

// fiatAmount converts a crypto amount at the current rate, rounded to cents.
func fiatAmount(v, rate float64) string {
	return strconv.FormatFloat(math.Round(v*rate*100)/100, 'f', -1, 64)
}
