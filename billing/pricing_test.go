package billing

import (
	"math"
	"testing"

	"truckshop-backend/models"
)

func TestAutoPrice(t *testing.T) {
	tests := []struct {
		name          string
		quantity      int
		unitCost      float64
		markupPercent float64
		want          float64
	}{
		{"three units with 20 percent markup", 3, 10, 20, 36.00},
		{"single unit no markup", 1, 49.99, 0, 49.99},
		{"markup rounds to cents", 2, 12.25, 10, 26.95},
		{"zero cost part", 4, 0, 25, 0},
		{"invalid quantity", 0, 10, 20, 0},
		{"non-numeric cost", 2, math.NaN(), 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AutoPrice(tt.quantity, tt.unitCost, tt.markupPercent)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AutoPrice(%d, %v, %v) = %v, want %v",
					tt.quantity, tt.unitCost, tt.markupPercent, got, tt.want)
			}
		})
	}
}

func TestDefaultMiscFees(t *testing.T) {
	settings := models.ShopSettings{ShopSupplyFeePercent: 5, DisposalFee: 15}

	fees := DefaultMiscFees(400, settings)
	if len(fees) != 2 {
		t.Fatalf("fee lines = %d, want 2", len(fees))
	}
	if fees[0].Amount != 20 {
		t.Errorf("shop supply fee = %v, want 20", fees[0].Amount)
	}
	if fees[1].Amount != 15 {
		t.Errorf("disposal fee = %v, want 15", fees[1].Amount)
	}

	// A shop with neither configured gets no prefilled lines.
	if fees := DefaultMiscFees(400, models.ShopSettings{}); len(fees) != 0 {
		t.Errorf("unexpected default fees: %v", fees)
	}
}

func TestRoundCents(t *testing.T) {
	if got := RoundCents(13.019999999999998); got != 13.02 {
		t.Errorf("RoundCents = %v, want 13.02", got)
	}
	if got := RoundCents(36.000000000000004); got != 36 {
		t.Errorf("RoundCents = %v, want 36", got)
	}
}
