package triggers

// The trigger catalogue is closed: every button payload and every screen the bot
// can show is one of these identifiers. Free text that is not a member of the
// set is remapped to UserInput for resolution.
const (
	Start     = "/start"
	UserInput = "user_input"

	BTC = "BTC"
	ETH = "ETH"
	TRX = "TRX"
	TON = "TON"

	Wallet    = "wallet"
	Replenish = "replenish"
	Withdraw  = "withdraw"

	Check       = "check"
	CreateCheck = "create_check"
	Bill        = "bill"
	CreateBill  = "create_bill"

	Settings = "settings"
	P2P      = "p2p"
	Stock    = "stock"
)

// Currencies lists the supported currency triggers.
var Currencies = []string{BTC, ETH, TRX, TON}

var all = map[string]struct{}{
	Start:     {},
	UserInput: {},

	BTC: {},
	ETH: {},
	TRX: {},
	TON: {},

	Wallet:    {},
	Replenish: {},
	Withdraw:  {},

	Check:       {},
	CreateCheck: {},
	Bill:        {},
	CreateBill:  {},

	Settings: {},
	P2P:      {},
	Stock:    {},
}

// IsTrigger reports whether s is a member of the registry.
func IsTrigger(s string) bool {
	_, ok := all[s]
	return ok
}

// IsCurrency reports whether s is one of the currency triggers.
func IsCurrency(s string) bool {
	for _, c := range Currencies {
		if s == c {
			return true
		}
	}
	return false
}

// All returns every registered trigger.
func All() []string {
	out := make([]string, 0, len(all))
	for t := range all {
		out = append(out, t)
	}
	return out
}
