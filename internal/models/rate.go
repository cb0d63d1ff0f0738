package models

import "github.com/shopspring/decimal"

// ExchangeRate is the conversion rate between two currencies effective on a
// given date. Rates are supplied externally (admin endpoint or sync job);
// the balance calculator only reads them.
type ExchangeRate struct {
	// ID is the unique identifier for the rate row (UUID format).
	ID string

	// FromCurrency and ToCurrency are ISO 4217 codes.
	FromCurrency string
	ToCurrency   string

	// Rate converts an amount in FromCurrency to ToCurrency:
	// converted = amount * Rate. Stored as an exact decimal, not a float.
	Rate decimal.Decimal

	// EffectiveDate is the Unix timestamp from which this rate applies. A
	// lookup for date D picks the latest rate with EffectiveDate <= D.
	EffectiveDate int64

	// CreatedAt is the Unix timestamp when the rate was recorded.
	CreatedAt int64
}
