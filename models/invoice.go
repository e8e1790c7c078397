package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvoiceStatusPending = "pending"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
)

type Invoice struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	JobID           uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	InvoiceDate   time.Time `gorm:"not null"`
	WorkPerformed string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20);default:'pending'"`
	PaymentMethod string    `gorm:"type:varchar(20)"`

	Subtotal float64 `gorm:"type:decimal(10,2);not null"`
	Tax      float64 `gorm:"type:decimal(10,2);default:0.0"`
	CCFee    float64 `gorm:"type:decimal(10,2);default:0.0"`
	Total    float64 `gorm:"type:decimal(10,2);not null"`

	// Misc fees are kept on the header as an embedded list rather than
	// their own table; they are flat signed amounts with no catalog
	// reference of their own.
	MiscFees MiscFeeList `gorm:"type:jsonb"`

	LaborItems []LaborItem `gorm:"foreignKey:InvoiceID"`
	PartItems  []PartItem  `gorm:"foreignKey:InvoiceID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

type LaborItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Description string  `gorm:"not null"`
	Hours       float64 `gorm:"not null"`
	Rate        float64 `gorm:"type:decimal(10,2);not null"`
}

func (l *LaborItem) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

type PartItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID  `gorm:"type:uuid;index;not null"`
	PartID    *uuid.UUID `gorm:"type:uuid;index"`

	Description   string
	Quantity      int     `gorm:"default:1"`
	UnitCost      float64 `gorm:"type:decimal(10,2);default:0.0"`
	MarkupPercent float64 `gorm:"type:decimal(10,2);default:0.0"`
	FinalPrice    float64 `gorm:"type:decimal(10,2);default:0.0"`

	// Once a user edits FinalPrice by hand the auto-pricing step leaves
	// it alone until the part, quantity or markup changes again.
	PriceOverridden bool `gorm:"default:false"`
}

func (p *PartItem) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

type MiscFee struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"` // signed, negative acts as a discount
}

// MiscFeeList stores the fee list as a jsonb column on the invoice header
type MiscFeeList []MiscFee

func (l MiscFeeList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(MiscFeeList{})
	}
	return json.Marshal(l)
}

func (l *MiscFeeList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("type assertion to []byte failed")
	}
}
