// Package billing holds the pure invoice money math. Nothing in here
// touches the database; the service layer feeds it the current form
// state and writes the results back.
package billing

import (
	"math"

	"truckshop-backend/models"
)

// Totals is the result of one aggregation pass over an invoice form.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	CCFee      float64 `json:"ccFee"`
	GrandTotal float64 `json:"grandTotal"`
}

// ComputeTotals aggregates labor, parts, misc fees, tax and the card
// surcharge into a single consistent set of figures.
//
// Tax is computed from the labor/parts base selected by the settings;
// misc fees join after tax and are never taxed themselves, matching the
// shop's established billing behavior (a disposal fee is untaxed even
// where local rules might say otherwise).
func ComputeTotals(labor []models.LaborItem, parts []models.PartItem, fees models.MiscFeeList, paymentMethod string, settings models.ShopSettings) Totals {
	var laborTotal float64
	for _, item := range labor {
		if !isNumber(item.Hours) || !isNumber(item.Rate) {
			continue
		}
		laborTotal += item.Hours * item.Rate
	}

	var partsTotal float64
	for _, item := range parts {
		if !isNumber(item.FinalPrice) {
			continue
		}
		partsTotal += item.FinalPrice
	}

	subtotal := laborTotal + partsTotal

	var taxableBase float64
	switch settings.TaxAppliesTo {
	case models.TaxAppliesLabor:
		taxableBase = laborTotal
	case models.TaxAppliesParts:
		taxableBase = partsTotal
	default:
		taxableBase = subtotal
	}
	tax := taxableBase * settings.TaxRate / 100

	var feesTotal float64
	for _, fee := range fees {
		if !isNumber(fee.Amount) {
			continue
		}
		feesTotal += fee.Amount
	}

	preSurcharge := subtotal + tax + feesTotal

	var ccFee float64
	if models.IsCardMethod(paymentMethod) {
		ccFee = preSurcharge * settings.CreditCardFeePercent / 100
	}

	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		CCFee:      ccFee,
		GrandTotal: preSurcharge + ccFee,
	}
}

// ApplyTotals writes the computed figures onto the invoice header and
// reports whether anything actually changed. Callers that recompute on
// every edit rely on this equality guard to avoid a feedback loop where
// writing the total triggers another recompute.
func ApplyTotals(inv *models.Invoice, t Totals) bool {
	if inv.Subtotal == t.Subtotal && inv.Tax == t.Tax && inv.CCFee == t.CCFee && inv.Total == t.GrandTotal {
		return false
	}
	inv.Subtotal = t.Subtotal
	inv.Tax = t.Tax
	inv.CCFee = t.CCFee
	inv.Total = t.GrandTotal
	return true
}

func isNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
