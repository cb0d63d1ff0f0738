package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/splitmate/splitmate/internal/models"
	"github.com/splitmate/splitmate/internal/storage"
)

// CreateExchangeRate persists a new exchange rate. The decimal rate is
// stored as text to keep it exact.
func (s *SQLiteStore) CreateExchangeRate(ctx context.Context, rate *models.ExchangeRate) error {
	if rate.ID == "" {
		rate.ID = uuid.New().String()
	}
	if rate.CreatedAt == 0 {
		rate.CreatedAt = time.Now().Unix()
	}
	if rate.EffectiveDate == 0 {
		rate.EffectiveDate = rate.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchange_rates (id, from_currency, to_currency, rate, effective_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rate.ID, rate.FromCurrency, rate.ToCurrency, rate.Rate.String(), rate.EffectiveDate, rate.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert exchange rate: %w", err)
	}
	return nil
}

// ListExchangeRates retrieves all exchange rates, newest effective first.
func (s *SQLiteStore) ListExchangeRates(ctx context.Context) ([]*models.ExchangeRate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_currency, to_currency, rate, effective_date, created_at
		 FROM exchange_rates ORDER BY effective_date DESC, from_currency, to_currency`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	defer rows.Close()

	var rates []*models.ExchangeRate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchange rates: %w", err)
	}
	return rates, nil
}

// LatestRate returns the most recent rate for the pair effective on or
// before date. Ties on effective date resolve to the most recently recorded
// rate, then by ID, so repeated lookups always pick the same row.
func (s *SQLiteStore) LatestRate(ctx context.Context, from, to string, date int64) (*models.ExchangeRate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, from_currency, to_currency, rate, effective_date, created_at
		 FROM exchange_rates
		 WHERE from_currency = ? AND to_currency = ? AND effective_date <= ?
		 ORDER BY effective_date DESC, created_at DESC, id LIMIT 1`,
		from, to, date,
	)

	rate := &models.ExchangeRate{}
	var raw string
	err := row.Scan(&rate.ID, &rate.FromCurrency, &rate.ToCurrency, &raw, &rate.EffectiveDate, &rate.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: rate %s/%s at %d", storage.ErrNotFound, from, to, date)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}

	rate.Rate, err = decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored rate %q: %w", raw, err)
	}
	return rate, nil
}

func scanRate(rows *sql.Rows) (*models.ExchangeRate, error) {
	rate := &models.ExchangeRate{}
	var raw string
	if err := rows.Scan(&rate.ID, &rate.FromCurrency, &rate.ToCurrency, &raw, &rate.EffectiveDate, &rate.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored rate %q: %w", raw, err)
	}
	rate.Rate = parsed
	return rate, nil
}
