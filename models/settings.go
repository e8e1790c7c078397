package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TaxAppliesLabor = "labor"
	TaxAppliesParts = "parts"
	TaxAppliesBoth  = "both"
)

// ShopSettings is a singleton row of shop-wide billing configuration.
type ShopSettings struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	TaxRate              float64 `gorm:"type:decimal(10,4);default:0.0"`
	TaxAppliesTo         string  `gorm:"type:varchar(10);default:'both'"`
	CreditCardFeePercent float64 `gorm:"type:decimal(10,4);default:0.0"`
	ShopLaborRate        float64 `gorm:"type:decimal(10,2);default:0.0"`
	RoadLaborRate        float64 `gorm:"type:decimal(10,2);default:0.0"`
	DefaultPartsMarkup   float64 `gorm:"type:decimal(10,4);default:0.0"`
	ShopSupplyFeePercent float64 `gorm:"type:decimal(10,4);default:0.0"`
	DisposalFee          float64 `gorm:"type:decimal(10,2);default:0.0"`

	UpdatedAt time.Time
}

func (s *ShopSettings) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// GetSettings returns the singleton settings row, creating it with zero
// values on first use.
func GetSettings(db *gorm.DB) (ShopSettings, error) {
	var settings ShopSettings
	err := db.FirstOrCreate(&settings, ShopSettings{}).Error
	return settings, err
}
