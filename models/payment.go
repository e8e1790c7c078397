package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentMethodCash      = "cash"
	PaymentMethodCheck     = "check"
	PaymentMethodEFSCheck  = "efs_check"
	PaymentMethodCardSwipe = "cc_physical"
	PaymentMethodStripe    = "stripe"
	PaymentMethodOther     = "other"
)

// IsCardMethod reports whether a payment method carries the card surcharge.
func IsCardMethod(method string) bool {
	return method == PaymentMethodCardSwipe || method == PaymentMethodStripe
}

type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Method    string  `gorm:"type:varchar(20);not null"`
	Amount    float64 `gorm:"type:decimal(10,2);not null"`
	Reference string  `gorm:"uniqueIndex"` // transaction id from the processor, or check number
	PaidAt    time.Time

	CreatedAt time.Time
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
