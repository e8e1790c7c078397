// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"truckshop-backend/models"
	"truckshop-backend/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Invoices still unpaid this many days after being sent get a reminder.
const overdueAfterDays = 14

type ReminderService struct {
	db        *gorm.DB
	transport Transport
}

func NewReminderService(db *gorm.DB, transport Transport) *ReminderService {
	return &ReminderService{db: db, transport: transport}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendOverdueReminders)

	c.Start()
	log.Println("Overdue invoice reminder scheduler started")
}

func (s *ReminderService) SendOverdueReminders() {
	log.Println("Starting overdue invoice processing...")

	cutoff := time.Now().AddDate(0, 0, -overdueAfterDays)

	var invoices []models.Invoice
	if err := s.db.Where("status = ? AND invoice_date < ?", models.InvoiceStatusSent, cutoff).
		Find(&invoices).Error; err != nil {
		log.Printf("Failed to fetch overdue invoices: %v", err)
		return
	}

	for _, inv := range invoices {
		s.sendReminder(inv)
	}

	log.Println("Overdue invoice processing completed")
}

func (s *ReminderService) sendReminder(inv models.Invoice) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", inv.CustomerID).Error; err != nil {
		log.Printf("Invoice %s: failed to load customer: %v", inv.InvoiceNumber, err)
		return
	}

	age := utils.DaysBetween(inv.InvoiceDate, time.Now())
	message := fmt.Sprintf("Hi %s, invoice %s for $%.2f is %d days past due. Please contact the shop to settle it.",
		customer.Name, inv.InvoiceNumber, inv.Total, age)

	status := "sent"
	errorMsg := ""
	if err := s.transport.Send(customer.Phone, message); err != nil {
		log.Printf("Failed to send reminder to %s: %v", customer.Phone, err)
		status = "failed"
		errorMsg = err.Error()
	}

	reminderLog := models.ReminderLog{
		InvoiceID:    inv.ID,
		CustomerID:   customer.ID,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      "sms",
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for invoice %s: %v", inv.InvoiceNumber, err)
	}
}
