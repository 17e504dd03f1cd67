package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/crypted-pay/crypted-pay/internal/catalogue"
	"github.com/crypted-pay/crypted-pay/internal/models"
)

// ErrNotFound is returned when neither the database nor the built-in
// catalogue has an entry.
var ErrNotFound = errors.New("catalogue entry not found")

// Response returns the screen spec for a trigger: the database row when an
// operator has overridden it, otherwise the built-in default.
func (s *Store) Response(ctx context.Context, trigger string) (models.ResponseSpec, error) {
	var spec models.ResponseSpec
	var keyboardID *string
	err := s.pool.QueryRow(ctx,
		`SELECT trigger, template_id, context, keyboard_id FROM responses WHERE trigger = $1`,
		trigger).Scan(&spec.Trigger, &spec.TemplateID, &spec.Context, &keyboardID)
	if err == nil {
		if keyboardID != nil {
			spec.KeyboardID = *keyboardID
		}
		return spec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		// Database trouble degrades to the built-in catalogue.
		log.Printf("Error querying response for trigger %q: %v", trigger, err)
	}

	if spec, ok := catalogue.Response(trigger); ok {
		return spec, nil
	}
	return models.ResponseSpec{}, ErrNotFound
}

// Template returns the template text by id, database first.
func (s *Store) Template(ctx context.Context, id string) (string, error) {
	var text string
	err := s.pool.QueryRow(ctx, `SELECT text FROM templates WHERE id = $1`, id).Scan(&text)
	if err == nil {
		return text, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("Error querying template %q: %v", id, err)
	}

	if text, ok := catalogue.Template(id); ok {
		return text, nil
	}
	return "", fmt.Errorf("%w: template %s", ErrNotFound, id)
}

// Keyboard returns a static keyboard by id, database first.
func (s *Store) Keyboard(ctx context.Context, id string) ([][]models.Button, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT buttons FROM keyboards WHERE id = $1`, id).Scan(&raw)
	if err == nil {
		var kb [][]models.Button
		if err := json.Unmarshal(raw, &kb); err != nil {
			return nil, fmt.Errorf("failed to unmarshal keyboard %s: %w", id, err)
		}
		return kb, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("Error querying keyboard %q: %v", id, err)
	}

	if kb, ok := catalogue.Keyboard(id); ok {
		return kb, nil
	}
	return nil, fmt.Errorf("%w: keyboard %s", ErrNotFound, id)
}

// Settings returns the shared bot settings record, creating it with defaults
// on first use.
func (s *Store) Settings(ctx context.Context) (models.BotSettings, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM bot_settings WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		settings := catalogue.DefaultSettings()
		data, marshalErr := json.Marshal(settings)
		if marshalErr != nil {
			return models.BotSettings{}, fmt.Errorf("failed to marshal default settings: %w", marshalErr)
		}
		if _, execErr := s.pool.Exec(ctx,
			`INSERT INTO bot_settings (id, data) VALUES (1, $1) ON CONFLICT (id) DO NOTHING`,
			data); execErr != nil {
			return models.BotSettings{}, fmt.Errorf("failed to seed bot settings: %w", execErr)
		}
		return settings, nil
	}
	if err != nil {
		return models.BotSettings{}, fmt.Errorf("failed to load bot settings: %w", err)
	}

	var settings models.BotSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return models.BotSettings{}, fmt.Errorf("failed to unmarshal bot settings: %w", err)
	}
	return settings, nil
}
