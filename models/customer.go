package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`

	Name       string `gorm:"not null"`
	Company    string
	Phone      string `gorm:"not null;index"`
	Email      string
	USDOT      string `gorm:"column:usdot"`
	Notes      string
	TotalJobs  int     `gorm:"default:0"`
	TotalSpent float64 `gorm:"type:decimal(10,2);default:0.0"`
	LastVisit  *time.Time
	IsActive   bool `gorm:"default:true"`

	Jobs     []Job     `gorm:"foreignKey:CustomerID"`
	Invoices []Invoice `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
