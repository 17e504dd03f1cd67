package db

import (
	"context"
	"fmt"

	"github.com/crypted-pay/crypted-pay/internal/models"
)

// UpsertUser creates the user profile on first contact and refreshes the
// account fields on every later one.
func (s *Store) UpsertUser(ctx context.Context, user models.User) error {
	query := `
        INSERT INTO users (user_id, username, first_name, last_name, language_code, updated_at)
        VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
        ON CONFLICT (user_id)
        DO UPDATE SET username = $2, first_name = $3, last_name = $4,
                      language_code = $5, updated_at = CURRENT_TIMESTAMP;
    `
	_, err := s.pool.Exec(ctx, query,
		user.ID, user.Username, user.FirstName, user.LastName, user.LanguageCode)
	if err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", user.ID, err)
	}
	return nil
}

// User loads a profile together with its per-currency wallets.
func (s *Store) User(ctx context.Context, userID int64) (models.User, error) {
	var user models.User
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, username, first_name, last_name, language_code FROM users WHERE user_id = $1`,
		userID).Scan(&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.LanguageCode)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT currency, address, balance::float8, hold::float8 FROM wallets WHERE user_id = $1`,
		userID)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load wallets for user %d: %w", userID, err)
	}
	defer rows.Close()

	user.Wallets = make(map[string]models.Wallet)
	for rows.Next() {
		var currency string
		var wallet models.Wallet
		if err := rows.Scan(&currency, &wallet.Address, &wallet.Balance, &wallet.Hold); err != nil {
			return models.User{}, fmt.Errorf("failed to scan wallet row: %w", err)
		}
		user.Wallets[currency] = wallet
	}
	if err := rows.Err(); err != nil {
		return models.User{}, fmt.Errorf("failed to iterate wallet rows: %w", err)
	}
	return user, nil
}

// SetWalletAddress stores a freshly generated deposit address and its secret.
func (s *Store) SetWalletAddress(ctx context.Context, userID int64, currency, address, secret string) error {
	query := `
        INSERT INTO wallets (user_id, currency, address, secret)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, currency)
        DO UPDATE SET address = $3, secret = $4, updated_at = CURRENT_TIMESTAMP;
    `
	if _, err := s.pool.Exec(ctx, query, userID, currency, address, secret); err != nil {
		return fmt.Errorf("failed to set wallet address for user %d: %w", userID, err)
	}
	return nil
}

// AddHold reserves an amount on the user's wallet (live check amount + fee).
func (s *Store) AddHold(ctx context.Context, userID int64, currency string, amount float64) error {
	query := `
        INSERT INTO wallets (user_id, currency, hold)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, currency)
        DO UPDATE SET hold = wallets.hold + $3, updated_at = CURRENT_TIMESTAMP;
    `
	if _, err := s.pool.Exec(ctx, query, userID, currency, amount); err != nil {
		return fmt.Errorf("failed to update hold for user %d: %w", userID, err)
	}
	return nil
}

// WalletSecret returns the stored signing secret for a user's wallet.
func (s *Store) WalletSecret(ctx context.Context, userID int64, currency string) (string, error) {
	var secret string
	err := s.pool.QueryRow(ctx,
		`SELECT secret FROM wallets WHERE user_id = $1 AND currency = $2`,
		userID, currency).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("failed to load wallet secret for user %d: %w", userID, err)
	}
	return secret, nil
}
