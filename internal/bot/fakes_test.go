package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/crypted-pay/crypted-pay/internal/catalogue"
	"github.com/crypted-pay/crypted-pay/internal/models"
	"github.com/crypted-pay/crypted-pay/pkg/telegram"
	"github.com/crypted-pay/crypted-pay/pkg/wallet"
)

type fakeSessions struct {
	chains       map[int64][]string
	lastMessages map[int64]int
	lastTriggers map[int64]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		chains:       map[int64][]string{},
		lastMessages: map[int64]int{},
		lastTriggers: map[int64]string{},
	}
}

func (s *fakeSessions) Chain(ctx context.Context, userID int64) ([]string, error) {
	return s.chains[userID], nil
}

func (s *fakeSessions) SetChain(ctx context.Context, userID int64, chain []string) error {
	s.chains[userID] = append([]string{}, chain...)
	return nil
}

func (s *fakeSessions) LastMessageID(ctx context.Context, userID int64) (int, error) {
	return s.lastMessages[userID], nil
}

func (s *fakeSessions) SetLastMessageID(ctx context.Context, userID int64, messageID int) error {
	s.lastMessages[userID] = messageID
	return nil
}

func (s *fakeSessions) SetLastTrigger(ctx context.Context, userID int64, trigger string) error {
	s.lastTriggers[userID] = trigger
	return nil
}

// fakeCatalogue serves the built-in catalogue only.
type fakeCatalogue struct{}

func (fakeCatalogue) Response(ctx context.Context, trigger string) (models.ResponseSpec, error) {
	spec, ok := catalogue.Response(trigger)
	if !ok {
		return models.ResponseSpec{}, fmt.Errorf("no response for %s", trigger)
	}
	return spec, nil
}

func (fakeCatalogue) Template(ctx context.Context, id string) (string, error) {
	text, ok := catalogue.Template(id)
	if !ok {
		return "", fmt.Errorf("no template %s", id)
	}
	return text, nil
}

func (fakeCatalogue) Keyboard(ctx context.Context, id string) ([][]models.Button, error) {
	kb, ok := catalogue.Keyboard(id)
	if !ok {
		return nil, fmt.Errorf("no keyboard %s", id)
	}
	return kb, nil
}

func (fakeCatalogue) Settings(ctx context.Context) (models.BotSettings, error) {
	return catalogue.DefaultSettings(), nil
}

type fakeUsers struct {
	users   map[int64]models.User
	holds   map[string]float64
	secrets map[string]string
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{
		users:   map[int64]models.User{},
		holds:   map[string]float64{},
		secrets: map[string]string{},
	}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) UpsertUser(ctx context.Context, user models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		f.users[user.ID] = user
	}
	return nil
}

func (f *fakeUsers) User(ctx context.Context, userID int64) (models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return models.User{}, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeUsers) SetWalletAddress(ctx context.Context, userID int64, currency, address, secret string) error {
	return nil
}

func (f *fakeUsers) AddHold(ctx context.Context, userID int64, currency string, amount float64) error {
	f.holds[fmt.Sprintf("%d/%s", userID, currency)] += amount
	return nil
}

func (f *fakeUsers) WalletSecret(ctx context.Context, userID int64, currency string) (string, error) {
	secret, ok := f.secrets[fmt.Sprintf("%d/%s", userID, currency)]
	if !ok {
		return "", errors.New("no secret")
	}
	return secret, nil
}

type fakeVouchers struct {
	checks []models.Check
	bills  []models.Bill
	nextID int
}

func (f *fakeVouchers) CreateCheck(ctx context.Context, userID int64, amount, currency string) (models.Check, error) {
	f.nextID++
	check := models.Check{
		ID:       f.nextID,
		UserID:   userID,
		Amount:   amount,
		Currency: currency,
		Status:   models.CheckStatusNew,
		Code:     fmt.Sprintf("check-%d", f.nextID),
	}
	f.checks = append(f.checks, check)
	return check, nil
}

func (f *fakeVouchers) CreateBill(ctx context.Context, userID int64, amount, currency string) (models.Bill, error) {
	f.nextID++
	bill := models.Bill{
		ID:       f.nextID,
		UserID:   userID,
		Amount:   amount,
		Currency: currency,
		Status:   models.BillStatusNew,
		Code:     fmt.Sprintf("bill-%d", f.nextID),
	}
	f.bills = append(f.bills, bill)
	return bill, nil
}

func (f *fakeVouchers) CheckByCode(ctx context.Context, code string) (models.Check, error) {
	for _, c := range f.checks {
		if c.Code == code {
			return c, nil
		}
	}
	return models.Check{}, errors.New("check not found")
}

func (f *fakeVouchers) BillByCode(ctx context.Context, code string) (models.Bill, error) {
	for _, b := range f.bills {
		if b.Code == code {
			return b, nil
		}
	}
	return models.Bill{}, errors.New("bill not found")
}

func (f *fakeVouchers) ChecksByUser(ctx context.Context, userID int64) ([]models.Check, error) {
	return f.checks, nil
}

func (f *fakeVouchers) BillsByUser(ctx context.Context, userID int64) ([]models.Bill, error) {
	return f.bills, nil
}

type fakeRates struct {
	rates map[string]float64
	fees  map[string]float64
}

func (f *fakeRates) Rates(ctx context.Context) (map[string]float64, error) {
	return f.rates, nil
}

func (f *fakeRates) NetworkFee(ctx context.Context, currency string) (float64, error) {
	return f.fees[currency], nil
}

// fakeUnit gives the tests full control over address checks, fees and sends.
type fakeUnit struct {
	symbol    string
	valid     func(string) bool
	fee       float64
	txID      string
	sendErr   error
	sentTo    string
	sentValue float64
}

func (u *fakeUnit) Symbol() string { return u.symbol }

func (u *fakeUnit) ValidateAddress(address string) bool {
	if u.valid == nil {
		return true
	}
	return u.valid(address)
}

func (u *fakeUnit) WalletURL(address string) string { return "https://explorer.test/" + address }

func (u *fakeUnit) Balance(ctx context.Context, address string) (float64, error) { return 0, nil }

func (u *fakeUnit) NetworkFee(ctx context.Context) (float64, error) { return u.fee, nil }

func (u *fakeUnit) GenerateAddress(ctx context.Context, userID int64) (string, string, error) {
	return "generated-address", "generated-secret", nil
}

func (u *fakeUnit) SendCoins(ctx context.Context, secret, toAddress string, amount float64) (string, error) {
	if u.sendErr != nil {
		return "", u.sendErr
	}
	u.sentTo = toAddress
	u.sentValue = amount
	return u.txID, nil
}

type fakeUnits struct {
	units map[string]*fakeUnit
}

func (f *fakeUnits) Unit(symbol string) (wallet.Unit, error) {
	u, ok := f.units[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown cryptocurrency: %s", symbol)
	}
	return u, nil
}

type sentMessage struct {
	chatID int64
	text   string
	markup *telegram.InlineKeyboardMarkup
}

type fakeTransport struct {
	ops       []string
	sent      []sentMessage
	deleted   []int
	answered  []string
	nextMsgID int
}

func (t *fakeTransport) SendMessage(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) (int, error) {
	t.ops = append(t.ops, "send")
	t.sent = append(t.sent, sentMessage{chatID: chatID, text: text, markup: markup})
	t.nextMsgID++
	return t.nextMsgID, nil
}

func (t *fakeTransport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	t.ops = append(t.ops, "delete")
	t.deleted = append(t.deleted, messageID)
	return nil
}

func (t *fakeTransport) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	t.answered = append(t.answered, callbackQueryID)
	return nil
}

func newTestEngine(sessions *fakeSessions, users *fakeUsers, vouchers *fakeVouchers, rates *fakeRates, units *fakeUnits, transport *fakeTransport) *Engine {
	return &Engine{
		Sessions:       sessions,
		Catalogue:      fakeCatalogue{},
		Users:          users,
		Vouchers:       vouchers,
		Rates:          rates,
		Units:          units,
		Transport:      transport,
		Renderer:       NewRenderer(),
		BotName:        "CryptedPayBot",
		WalletCurrency: "USD",
	}
}
