// Package catalogue holds the built-in response catalogue: per-trigger screen
// specs, text templates and static keyboards. The database catalogue overrides
// entries; anything missing there falls back to these defaults.
package catalogue

import (
	"github.com/crypted-pay/crypted-pay/internal/models"
	"github.com/crypted-pay/crypted-pay/internal/triggers"
)

// Context tags used by the resolver's registration table.
const (
	CtxDefault        = "default"
	CtxStart          = "start"
	CtxWallet         = "wallet"
	CtxSettings       = "settings"
	CtxP2P            = "p2p"
	CtxStock          = "stock"
	CtxCurrencySelect = "currency_select"
	CtxCurrencyStep   = "currency_step"
	CtxVoucherList    = "voucher_list"
	CtxNotFound       = "not_found"
)

var responses = map[string]models.ResponseSpec{
	triggers.Start: {
		Trigger:    triggers.Start,
		TemplateID: "start",
		Context:    CtxStart,
		KeyboardID: "main_menu",
	},
	triggers.Wallet: {
		Trigger:    triggers.Wallet,
		TemplateID: "wallet/index",
		Context:    CtxWallet,
	},
	triggers.Replenish: {
		Trigger:    triggers.Replenish,
		TemplateID: "wallet/choose_currency",
		Context:    CtxCurrencySelect,
	},
	triggers.Withdraw: {
		Trigger:    triggers.Withdraw,
		TemplateID: "wallet/choose_currency",
		Context:    CtxCurrencySelect,
	},
	triggers.Check: {
		Trigger:    triggers.Check,
		TemplateID: "wallet/checks",
		Context:    CtxVoucherList,
	},
	triggers.CreateCheck: {
		Trigger:    triggers.CreateCheck,
		TemplateID: "wallet/choose_currency",
		Context:    CtxCurrencySelect,
	},
	triggers.Bill: {
		Trigger:    triggers.Bill,
		TemplateID: "wallet/bills",
		Context:    CtxVoucherList,
	},
	triggers.CreateBill: {
		Trigger:    triggers.CreateBill,
		TemplateID: "wallet/choose_currency",
		Context:    CtxCurrencySelect,
	},
	triggers.Settings: {
		Trigger:    triggers.Settings,
		TemplateID: "settings",
		Context:    CtxSettings,
	},
	triggers.P2P: {
		Trigger:    triggers.P2P,
		TemplateID: "p2p",
		Context:    CtxP2P,
	},
	triggers.Stock: {
		Trigger:    triggers.Stock,
		TemplateID: "stock",
		Context:    CtxStock,
	},
	triggers.BTC: {Trigger: triggers.BTC, TemplateID: "wallet/currency_step", Context: CtxCurrencyStep},
	triggers.ETH: {Trigger: triggers.ETH, TemplateID: "wallet/currency_step", Context: CtxCurrencyStep},
	triggers.TRX: {Trigger: triggers.TRX, TemplateID: "wallet/currency_step", Context: CtxCurrencyStep},
	triggers.TON: {Trigger: triggers.TON, TemplateID: "wallet/currency_step", Context: CtxCurrencyStep},
}

var templates = map[string]string{
	"start": "Привет, {{.first_name}}!\n" +
		"Это кошелёк с мультивалютным балансом: чеки, счета и переводы.\n" +
		"Наш {{.channel_link}} и {{.chat_link}}.",

	"wallet/index": "<b>Кошелёк</b>\n{{.balances}}\n" +
		"Общий баланс: ≈{{.total_balance}} {{.wallet_currency}}",

	"wallet/choose_currency": "Выберите валюту:",

	"wallet/currency_step": "{{.step_prompt}}",

	"wallet/checks": "<b>Ваши чеки</b>\nВсего: {{.total}}\n" +
		"Нажмите на чек, чтобы посмотреть его, или создайте новый.",

	"wallet/bills": "<b>Ваши счета</b>\nВсего: {{.total}}\n" +
		"Нажмите на счёт, чтобы посмотреть его, или создайте новый.",

	"wallet/check": "Чек создан!\nКод: <code>{{.code}}</code>\n" +
		"Сумма: {{.amount}} {{.crypto}} (≈{{.fiat_amount}} {{.wallet_currency}})\n" +
		"Перешлите код получателю — он обналичит его у @{{.bot_name}}.",

	"wallet/bill": "Счёт создан!\nКод: <code>{{.code}}</code>\n" +
		"Сумма: {{.amount}} {{.crypto}} (≈{{.fiat_amount}} {{.wallet_currency}})\n" +
		"Перешлите код плательщику — он оплатит его у @{{.bot_name}}.",

	"wallet/voucher_view": "{{.kind}} <code>{{.code}}</code>\n" +
		"Сумма: {{.amount}} {{.crypto}} (≈{{.fiat_amount}} {{.wallet_currency}})\n" +
		"Статус: {{.status}}",

	"wallet/withdraw_amount": "Адрес принят.\n" +
		"Введите сумму вывода {{.crypto}}. Доступно: {{.available_balance}}",

	"wallet/withdraw_success": "Монеты успешно отправлены\n{{.tx_hash}}",

	"errors/create_check_error": "Не удалось создать чек.\nВалюта: {{.crypto}}, доступно: {{.balance}}\n" +
		"Введите сумму от {{.min_check_amount}} до {{.max_check_amount}}.",

	"errors/create_bill_error": "Не удалось создать счёт.\nВалюта: {{.crypto}}, доступно: {{.balance}}\n" +
		"Введите сумму от {{.min_bill_amount}} до {{.max_bill_amount}}.",

	"errors/withdraw_error": "Вывод не выполнен.\nПроверьте сумму и баланс: комиссия сети {{.fee}} {{.crypto}}.",

	"errors/invalid_address": "Неправильный адрес кошелька",

	"settings": "<b>Настройки</b>\nПользователь: {{.user}}\n" +
		"Валюта кошелька: {{.wallet_currency}}\nВалюта рынка: {{.market_currency}}",

	"p2p": "<b>P2P</b>\nКомиссия покупки: {{.buy_fee}}%\nКомиссия продажи: {{.sell_fee}}%",

	"stock": "<b>Биржа</b>\nКомиссия тейкера: {{.taker_fee}}%\nКомиссия мейкера: {{.maker_fee}}%",

	"not_found": "Ответ не найден",
}

var keyboards = map[string][][]models.Button{
	"main_menu": {
		{
			{Label: "Кошелёк", Payload: triggers.Wallet},
			{Label: "Настройки", Payload: triggers.Settings},
		},
		{
			{Label: "P2P", Payload: triggers.P2P},
			{Label: "Биржа", Payload: triggers.Stock},
		},
	},
}

// Response returns the built-in screen spec for a trigger.
func Response(trigger string) (models.ResponseSpec, bool) {
	spec, ok := responses[trigger]
	return spec, ok
}

// Template returns the built-in template text by id.
func Template(id string) (string, bool) {
	text, ok := templates[id]
	return text, ok
}

// Keyboard returns a built-in static keyboard by id.
func Keyboard(id string) ([][]models.Button, bool) {
	kb, ok := keyboards[id]
	return kb, ok
}

// DefaultSettings returns the seed bot settings used when the database record
// does not exist yet.
func DefaultSettings() models.BotSettings {
	return models.BotSettings{
		Limits: map[string]models.Limit{
			triggers.BTC: {Min: 0.0001, Max: 0.1},
			triggers.ETH: {Min: 0.001, Max: 1},
			triggers.TRX: {Min: 1, Max: 10000},
			triggers.TON: {Min: 1, Max: 1000},
		},
		PerPage:     5,
		ChannelLink: "https://t.me/crypted_pay",
		ChatLink:    "https://t.me/crypted_pay_chat",
	}
}
