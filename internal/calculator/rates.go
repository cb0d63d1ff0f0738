package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/splitmate/splitmate/internal/models"
)

// RateProvider supplies exchange rates for converting foreign-currency
// transactions into the group's default currency. Implementations typically
// read externally-synced rates from storage.
type RateProvider interface {
	// Rate returns the conversion rate from one currency to another,
	// effective on the given date (Unix seconds). The second return value is
	// false when no rate is known for that pair and date.
	Rate(from, to string, date int64) (decimal.Decimal, bool)
}

// convert applies rate to an amount in minor units, rounding half-up to the
// nearest minor unit of the target currency.
func convert(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

// convertShares converts each share to the target currency so that, for
// consistent input, the converted shares sum exactly to convertedTotal.
//
// Each share is floored first; the leftover minor units (at most one per
// share, pure rounding residue) are then handed out by largest fractional
// remainder, member ID breaking ties. If the residue exceeds what rounding
// alone can produce the input shares did not sum to the expense total, and
// each share is instead rounded independently so the inconsistency stays
// visible in the sheet total rather than being silently absorbed.
func convertShares(shares []models.ParticipantShare, rate decimal.Decimal, convertedTotal int64) []models.ParticipantShare {
	type fractional struct {
		index int
		frac  decimal.Decimal
	}

	converted := make([]models.ParticipantShare, len(shares))
	fracs := make([]fractional, len(shares))
	var floorSum int64
	for i, s := range shares {
		exact := decimal.NewFromInt(s.Amount).Mul(rate)
		floor := exact.Floor()
		converted[i] = models.ParticipantShare{MemberID: s.MemberID, Amount: floor.IntPart()}
		fracs[i] = fractional{index: i, frac: exact.Sub(floor)}
		floorSum += floor.IntPart()
	}

	residue := convertedTotal - floorSum
	if residue < 0 || residue > int64(len(shares)) {
		// Not a rounding artifact: shares don't sum to the total. Round each
		// share on its own and let the imbalance show.
		for i, s := range shares {
			converted[i].Amount = convert(s.Amount, rate)
		}
		return converted
	}

	sort.Slice(fracs, func(i, j int) bool {
		if !fracs[i].frac.Equal(fracs[j].frac) {
			return fracs[i].frac.GreaterThan(fracs[j].frac)
		}
		return shares[fracs[i].index].MemberID < shares[fracs[j].index].MemberID
	})
	for i := int64(0); i < residue; i++ {
		converted[fracs[i].index].Amount++
	}
	return converted
}
