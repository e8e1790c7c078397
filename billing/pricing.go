package billing

import (
	"math"

	"truckshop-backend/models"
)

// AutoPrice computes a part line's final price from the catalog unit
// cost, rounded to cents.
func AutoPrice(quantity int, unitCost, markupPercent float64) float64 {
	if quantity < 1 || !isNumber(unitCost) || !isNumber(markupPercent) {
		return 0
	}
	return RoundCents(float64(quantity) * unitCost * (1 + markupPercent/100))
}

// RoundCents rounds half away from zero to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// DefaultMiscFees builds the fee lines the edit form preloads for a new
// invoice: the percentage shop-supply fee and the flat disposal fee.
// Both stay ordinary misc fees afterwards; the user can edit or remove
// them like any other line.
func DefaultMiscFees(subtotal float64, settings models.ShopSettings) models.MiscFeeList {
	var fees models.MiscFeeList
	if settings.ShopSupplyFeePercent > 0 {
		fees = append(fees, models.MiscFee{
			Description: "Shop supplies",
			Amount:      RoundCents(subtotal * settings.ShopSupplyFeePercent / 100),
		})
	}
	if settings.DisposalFee > 0 {
		fees = append(fees, models.MiscFee{
			Description: "Disposal fee",
			Amount:      settings.DisposalFee,
		})
	}
	return fees
}
