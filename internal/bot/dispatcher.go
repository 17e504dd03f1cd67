package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/crypted-pay/crypted-pay/internal/catalogue"
	"github.com/crypted-pay/crypted-pay/internal/models"
	"github.com/crypted-pay/crypted-pay/internal/triggers"
	"github.com/crypted-pay/crypted-pay/pkg/telegram"
)

// Engine orchestrates one update at a time: chain mutation, screen
// resolution, validation and delivery. It is stateless across calls; all
// state lives in the session and user stores.
type Engine struct {
	Sessions  SessionStore
	Catalogue Catalogue
	Users     UserStore
	Vouchers  VoucherStore
	Rates     RateSource
	Units     Units
	Transport Transport
	Renderer  *Renderer

	BotName        string
	WalletCurrency string
}

// HandleUpdate processes one inbound update end to end. An error means the
// turn failed on a configuration defect (template/context mismatch); the
// caller logs it and still acknowledges the webhook.
func (e *Engine) HandleUpdate(ctx context.Context, update telegram.Update) error {
	var from *telegram.User
	var trigger string
	page := 1

	switch {
	case update.Message != nil:
		from = update.Message.From
		trigger = strings.TrimSpace(update.Message.Text)
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
		trigger, page = splitPayload(update.CallbackQuery.Data)
	default:
		return nil
	}
	if from == nil || trigger == "" {
		return nil
	}

	user := models.User{
		ID:           from.ID,
		Username:     from.Username,
		FirstName:    from.FirstName,
		LastName:     from.LastName,
		LanguageCode: from.LanguageCode,
	}
	if err := e.Users.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	if loaded, err := e.Users.User(ctx, user.ID); err == nil {
		user = loaded
	} else {
		log.Printf("Failed to load profile for user %d: %v", user.ID, err)
	}

	// Delete-then-send keeps at most one live message per user. Best effort.
	if last, err := e.Sessions.LastMessageID(ctx, user.ID); err == nil && last != 0 {
		if err := e.Transport.DeleteMessage(ctx, user.ID, last); err != nil {
			log.Printf("Failed to delete message %d for user %d: %v", last, user.ID, err)
		}
	}

	if err := e.Sessions.SetLastTrigger(ctx, user.ID, trigger); err != nil {
		log.Printf("Failed to record last trigger for user %d: %v", user.ID, err)
	}

	chain, err := e.Sessions.Chain(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load chain: %w", err)
	}
	chain = Advance(chain, trigger)
	// Persist before resolution so every resolver observes post-navigation
	// state.
	if err := e.Sessions.SetChain(ctx, user.ID, chain); err != nil {
		return fmt.Errorf("failed to persist chain: %w", err)
	}

	resolved := trigger
	if !triggers.IsTrigger(trigger) {
		resolved = triggers.UserInput
	}

	var text string
	var kb [][]models.Button
	if resolved == triggers.UserInput {
		text, err = e.runValidators(ctx, user, chain)
		kb = [][]models.Button{backRow(chain)}
	} else {
		text, kb, err = e.resolveScreen(ctx, user, chain, resolved, page)
	}
	if err != nil {
		return err
	}

	messageID, err := e.Transport.SendMessage(ctx, user.ID, text, Markup(kb))
	if err != nil {
		log.Printf("Failed to send message to user %d: %v", user.ID, err)
	} else if err := e.Sessions.SetLastMessageID(ctx, user.ID, messageID); err != nil {
		log.Printf("Failed to record message id for user %d: %v", user.ID, err)
	}

	if update.CallbackQuery != nil {
		if err := e.Transport.AnswerCallbackQuery(ctx, update.CallbackQuery.ID); err != nil {
			log.Printf("Failed to answer callback query: %v", err)
		}
	}
	return nil
}

// splitPayload parses "<trigger>|<page>" callback data; a missing or bad page
// defaults to 1.
func splitPayload(data string) (string, int) {
	trigger, pageStr, found := strings.Cut(data, "|")
	if !found {
		return data, 1
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	return trigger, page
}

// settings loads the shared bot settings, degrading to the built-in defaults
// when the store is unavailable.
func (e *Engine) settings(ctx context.Context) models.BotSettings {
	settings, err := e.Catalogue.Settings(ctx)
	if err != nil {
		log.Printf("Failed to load bot settings: %v", err)
		return catalogue.DefaultSettings()
	}
	return settings
}

// rates loads the shared exchange rates, degrading to an empty map: a missing
// rate renders as zero, never as a failure.
func (e *Engine) rates(ctx context.Context) map[string]float64 {
	rates, err := e.Rates.Rates(ctx)
	if err != nil {
		log.Printf("Failed to load rates: %v", err)
		return map[string]float64{}
	}
	return rates
}
