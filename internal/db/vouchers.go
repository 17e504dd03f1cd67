package db

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"

	"github.com/crypted-pay/crypted-pay/internal/models"
)

// generateUniqueCode derives a short shareable voucher code from a UUID4.
func generateUniqueCode() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])[:12]
}

// CreateCheck inserts a new check voucher with a fresh unique code.
func (s *Store) CreateCheck(ctx context.Context, userID int64, amount, currency string) (models.Check, error) {
	check := models.Check{
		UserID:   userID,
		Amount:   amount,
		Currency: currency,
		Status:   models.CheckStatusNew,
		Code:     generateUniqueCode(),
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO checks (user_id, amount, currency, status, code)
         VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		check.UserID, check.Amount, check.Currency, check.Status, check.Code,
	).Scan(&check.ID, &check.CreatedAt)
	if err != nil {
		return models.Check{}, fmt.Errorf("failed to create check: %w", err)
	}
	return check, nil
}

// CreateBill inserts a new bill voucher with a fresh unique code.
func (s *Store) CreateBill(ctx context.Context, userID int64, amount, currency string) (models.Bill, error) {
	bill := models.Bill{
		UserID:   userID,
		Amount:   amount,
		Currency: currency,
		Status:   models.BillStatusNew,
		Code:     generateUniqueCode(),
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO bills (user_id, amount, currency, status, code)
         VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		bill.UserID, bill.Amount, bill.Currency, bill.Status, bill.Code,
	).Scan(&bill.ID, &bill.CreatedAt)
	if err != nil {
		return models.Bill{}, fmt.Errorf("failed to create bill: %w", err)
	}
	return bill, nil
}

const checkColumns = `id, user_id, amount::text, currency, status, code, created_at`

// CheckByCode looks a check up by its shareable code.
func (s *Store) CheckByCode(ctx context.Context, code string) (models.Check, error) {
	var check models.Check
	err := s.pool.QueryRow(ctx,
		`SELECT `+checkColumns+` FROM checks WHERE code = $1`, code,
	).Scan(&check.ID, &check.UserID, &check.Amount, &check.Currency,
		&check.Status, &check.Code, &check.CreatedAt)
	if err != nil {
		return models.Check{}, fmt.Errorf("failed to find check by code: %w", err)
	}
	return check, nil
}

// BillByCode looks a bill up by its shareable code.
func (s *Store) BillByCode(ctx context.Context, code string) (models.Bill, error) {
	var bill models.Bill
	err := s.pool.QueryRow(ctx,
		`SELECT `+checkColumns+` FROM bills WHERE code = $1`, code,
	).Scan(&bill.ID, &bill.UserID, &bill.Amount, &bill.Currency,
		&bill.Status, &bill.Code, &bill.CreatedAt)
	if err != nil {
		return models.Bill{}, fmt.Errorf("failed to find bill by code: %w", err)
	}
	return bill, nil
}

// ChecksByUser returns the user's checks, newest first.
func (s *Store) ChecksByUser(ctx context.Context, userID int64) ([]models.Check, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+checkColumns+` FROM checks WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query checks: %w", err)
	}
	defer rows.Close()

	var checks []models.Check
	for rows.Next() {
		var check models.Check
		if err := rows.Scan(&check.ID, &check.UserID, &check.Amount, &check.Currency,
			&check.Status, &check.Code, &check.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check row: %w", err)
		}
		checks = append(checks, check)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate check rows: %w", err)
	}
	return checks, nil
}

// BillsByUser returns the user's bills, newest first.
func (s *Store) BillsByUser(ctx context.Context, userID int64) ([]models.Bill, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+checkColumns+` FROM bills WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var bill models.Bill
		if err := rows.Scan(&bill.ID, &bill.UserID, &bill.Amount, &bill.Currency,
			&bill.Status, &bill.Code, &bill.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill row: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bill rows: %w", err)
	}
	return bills, nil
}
