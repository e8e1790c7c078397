package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	JobStatusOpen      = "open"
	JobStatusCompleted = "completed"
	JobStatusInvoiced  = "invoiced"
)

type Job struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`

	JobNumber  string `gorm:"uniqueIndex;not null"`
	UnitNumber string // fleet unit the truck belongs to
	VIN        string `gorm:"column:vin"`
	Complaint  string `gorm:"type:text"`
	Status     string `gorm:"type:varchar(20);default:'open'"`
	OpenedAt   time.Time
	ClosedAt   *time.Time

	Customer Customer `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

func (j *Job) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return
}
