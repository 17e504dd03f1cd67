package db

import (
	"context"
	"fmt"
)

// UpsertRate atomically replaces the stored exchange rate for one currency.
func (s *Store) UpsertRate(ctx context.Context, currency string, rate float64) error {
	query := `
        INSERT INTO rates (currency, rate, updated_at)
        VALUES ($1, $2, CURRENT_TIMESTAMP)
        ON CONFLICT (currency)
        DO UPDATE SET rate = $2, updated_at = CURRENT_TIMESTAMP;
    `
	if _, err := s.pool.Exec(ctx, query, currency, rate); err != nil {
		return fmt.Errorf("failed to upsert rate for %s: %w", currency, err)
	}
	return nil
}

// Rates returns all stored exchange rates keyed by currency.
func (s *Store) Rates(ctx context.Context) (map[string]float64, error) {
	rows, err := s.pool.Query(ctx, `SELECT currency, rate FROM rates`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]float64)
	for rows.Next() {
		var currency string
		var rate float64
		if err := rows.Scan(&currency, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan rate row: %w", err)
		}
		rates[currency] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rate rows: %w", err)
	}
	return rates, nil
}

// UpsertNetworkFee atomically replaces the stored network fee for one currency.
func (s *Store) UpsertNetworkFee(ctx context.Context, currency string, fee float64) error {
	query := `
        INSERT INTO network_fees (currency, fee, updated_at)
        VALUES ($1, $2, CURRENT_TIMESTAMP)
        ON CONFLICT (currency)
        DO UPDATE SET fee = $2, updated_at = CURRENT_TIMESTAMP;
    `
	if _, err := s.pool.Exec(ctx, query, currency, fee); err != nil {
		return fmt.Errorf("failed to upsert network fee for %s: %w", currency, err)
	}
	return nil
}

// NetworkFee returns the stored network fee for a currency, zero when the
// refresher has not run yet.
func (s *Store) NetworkFee(ctx context.Context, currency string) (float64, error) {
	var fee float64
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE((SELECT fee FROM network_fees WHERE currency = $1), 0)`,
		currency).Scan(&fee)
	if err != nil {
		return 0, fmt.Errorf("failed to load network fee for %s: %w", currency, err)
	}
	return fee, nil
}
