package services

import (
	"fmt"
	"teises_draugas_go/models"

	"github.com/shopspring/decimal"
)

type feeBand struct {
	upTo decimal.Decimal
	fee  decimal.Decimal
}

var courtFeeBands = []feeBand{
	{decimal.NewFromInt(290), decimal.NewFromInt(14)},
	{decimal.NewFromInt(580), decimal.NewFromInt(28)},
	{decimal.NewFromInt(1450), decimal.NewFromInt(43)},
	{decimal.NewFromInt(2900), decimal.NewFromInt(72)},
}

var (
	courtFeeRate = decimal.RequireFromString("0.03")
	courtFeeCap  = decimal.NewFromInt(145)
)

// CalculateCourtFee returns the stamp duty (žyminis mokestis) for a small claim.
// Above the last band it is 3% of the amount rounded to whole euros, capped at 145.
func CalculateCourtFee(amount decimal.Decimal) decimal.Decimal {
	for _, band := range courtFeeBands {
		if amount.LessThanOrEqual(band.upTo) {
			return band.fee
		}
	}
	return decimal.Min(amount.Mul(courtFeeRate).Round(0), courtFeeCap)
}

// ValidateClaimAmount enforces 0 < amount <= 5000 EUR with at most two decimals.
func ValidateClaimAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("claim amount must be positive")
	}
	if amount.GreaterThan(models.MaxClaimAmount) {
		return fmt.Errorf("claim amount exceeds the %s EUR small-claims limit", models.MaxClaimAmount)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("claim amount must have at most two decimal places")
	}
	return nil
}
