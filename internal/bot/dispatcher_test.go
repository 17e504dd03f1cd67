package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crypted-pay/crypted-pay/internal/triggers"
	"github.com/crypted-pay/crypted-pay/pkg/telegram"
)

func messageUpdate(userID int64, text string) telegram.Update {
	return telegram.Update{
		Message: &telegram.Message{
			From: &telegram.User{ID: userID, FirstName: "Ivan"},
			Chat: &telegram.Chat{ID: userID},
			Text: text,
		},
	}
}

func callbackUpdate(userID int64, data string) telegram.Update {
	return telegram.Update{
		CallbackQuery: &telegram.CallbackQuery{
			ID:   "cb-1",
			From: &telegram.User{ID: userID, FirstName: "Ivan"},
			Data: data,
		},
	}
}

func TestHandleUpdateStart(t *testing.T) {
	sessions := newFakeSessions()
	transport := &fakeTransport{}
	engine := newTestEngine(sessions, newFakeUsers(), &fakeVouchers{},
		&fakeRates{rates: map[string]float64{}}, &fakeUnits{}, transport)

	err := engine.HandleUpdate(context.Background(), messageUpdate(7, "/start"))
	require.NoError(t, err)

	require.Len(t, transport.sent, 1)
	assert.Contains(t, transport.sent[0].text, "Привет, Ivan!")
	assert.Equal(t, []string{triggers.Start}, sessions.chains[7])
	assert.Equal(t, triggers.Start, sessions.lastTriggers[7])

	// The static main menu keyboard wins over context markup.
	require.NotNil(t, transport.sent[0].markup)
	assert.Equal(t, "Кошелёк", transport.sent[0].markup.InlineKeyboard[0][0].Text)

	// The sent message id is recorded for next-turn deletion.
	assert.Equal(t, 1, sessions.lastMessages[7])
}

func TestHandleUpdateDeletesBeforeSending(t *testing.T) {
	sessions := newFakeSessions()
	sessions.lastMessages[7] = 41
	transport := &fakeTransport{nextMsgID: 41}
	engine := newTestEngine(sessions, newFakeUsers(), &fakeVouchers{},
		&fakeRates{rates: map[string]float64{}}, &fakeUnits{}, transport)

	err := engine.HandleUpdate(context.Background(), messageUpdate(7, "/start"))
	require.NoError(t, err)

	assert.Equal(t, []string{"delete", "send"}, transport.ops)
	assert.Equal(t, []int{41}, transport.deleted)
	assert.Equal(t, 42, sessions.lastMessages[7])
}

func TestHandleUpdateCallbackNavigation(t *testing.T) {
	sessions := newFakeSessions()
	sessions.chains[7] = []string{triggers.Start}
	transport := &fakeTransport{}
	engine := newTestEngine(sessions, newFakeUsers(), &fakeVouchers{},
		&fakeRates{rates: map[string]float64{}}, &fakeUnits{}, transport)

	err := engine.HandleUpdate(context.Background(), callbackUpdate(7, triggers.Wallet))
	require.NoError(t, err)

	assert.Equal(t, []string{triggers.Start, triggers.Wallet}, sessions.chains[7])
	require.Len(t, transport.sent, 1)
	assert.Contains(t, transport.sent[0].text, "Кошелёк")
	assert.Equal(t, []string{"cb-1"}, transport.answered)

	// Context markup carries the trailing back row.
	kb := transport.sent[0].markup.InlineKeyboard
	backRow := kb[len(kb)-1]
	require.Len(t, backRow, 1)
	assert.Equal(t, "‹ Назад", backRow[0].Text)
	assert.Equal(t, triggers.Start, backRow[0].CallbackData)
}

func TestHandleUpdateBreadcrumbTruncates(t *testing.T) {
	sessions := newFakeSessions()
	sessions.chains[7] = []string{triggers.Start, triggers.Wallet, triggers.Check}
	transport := &fakeTransport{}
	engine := newTestEngine(sessions, newFakeUsers(), &fakeVouchers{},
		&fakeRates{rates: map[string]float64{}}, &fakeUnits{}, transport)

	err := engine.HandleUpdate(context.Background(), callbackUpdate(7, triggers.Wallet))
	require.NoError(t, err)
	assert.Equal(t, []string{triggers.Start, triggers.Wallet}, sessions.chains[7])
}

func TestHandleUpdateFreeTextRemapsToUserInput(t *testing.T) {
	sessions := newFakeSessions()
	sessions.chains[7] = []string{triggers.Start, triggers.CreateCheck, triggers.BTC}
	transport := &fakeTransport{}
	vouchers := &fakeVouchers{}
	engine := newTestEngine(sessions, newFakeUsers(), vouchers,
		&fakeRates{rates: map[string]float64{}}, &fakeUnits{}, transport)

	err := engine.HandleUpdate(context.Background(), messageUpdate(7, "garbage"))
	require.NoError(t, err)

	// Validation rejected the text and rolled the chain back one level.
	require.Len(t, transport.sent, 1)
	assert.Contains(t, transport.sent[0].text, "Не удалось создать чек")
	assert.Equal(t, []string{triggers.Start, triggers.CreateCheck, triggers.BTC}, sessions.chains[7])
	assert.Empty(t, vouchers.checks)

	// Free text turns still get a back row.
	kb := transport.sent[0].markup.InlineKeyboard
	require.Len(t, kb, 1)
	assert.Equal(t, "‹ Назад", kb[0][0].Text)
}

func TestHandleUpdatePayloadPage(t *testing.T) {
	trigger, page := splitPayload("check|3")
	assert.Equal(t, "check", trigger)
	assert.Equal(t, 3, page)

	trigger, page = splitPayload("check")
	assert.Equal(t, "check", trigger)
	assert.Equal(t, 1, page)

	trigger, page = splitPayload("check|garbage")
	assert.Equal(t, "check", trigger)
	assert.Equal(t, 1, page)
}

func TestHandleUpdateUnknownCallbackFallsBack(t *testing.T) {
	sessions := newFakeSessions()
	transport := &fakeTransport{}
	engine := newTestEngine(sessions, newFakeUsers(), &fakeVouchers{},
		&fakeRates{rates: map[string]float64{}}, &fakeUnits{}, transport)

	// A free-text turn with no pending input flow lands on the generic screen.
	err := engine.HandleUpdate(context.Background(), messageUpdate(7, "что это"))
	require.NoError(t, err)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "Ответ не найден", transport.sent[0].text)
}

// brokenCatalogue serves a template referencing a variable no context supplies.
type brokenCatalogue struct {
	fakeCatalogue
}

func (brokenCatalogue) Template(ctx context.Context, id string) (string, error) {
	return "{{.no_such_variable}}", nil
}

func TestHandleUpdateTemplateMismatchIsFatal(t *testing.T) {
	sessions := newFakeSessions()
	transport := &fakeTransport{}
	engine := newTestEngine(sessions, newFakeUsers(), &fakeVouchers{},
		&fakeRates{rates: map[string]float64{}}, &fakeUnits{}, transport)
	engine.Catalogue = brokenCatalogue{}

	// A configuration defect fails the turn: the error surfaces to the
	// caller and the user receives no message.
	err := engine.HandleUpdate(context.Background(), messageUpdate(7, "/start"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_variable")
	assert.Empty(t, transport.sent)
	assert.Zero(t, sessions.lastMessages[7])
}

func TestHandleUpdateIgnoresEmptyUpdates(t *testing.T) {
	transport := &fakeTransport{}
	engine := newTestEngine(newFakeSessions(), newFakeUsers(), &fakeVouchers{},
		&fakeRates{rates: map[string]float64{}}, &fakeUnits{}, transport)

	require.NoError(t, engine.HandleUpdate(context.Background(), telegram.Update{}))
	assert.Empty(t, transport.sent)
}
