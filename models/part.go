package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Part struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	PartNumber  string    `gorm:"uniqueIndex;not null"`
	Description string    `gorm:"not null"`
	Vendor      string
	UnitCost    float64 `gorm:"type:decimal(10,2);not null"`
	InStock     int     `gorm:"default:0"`
	IsActive    bool    `gorm:"default:true"`

	gorm.Model
}

func (p *Part) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
