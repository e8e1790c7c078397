// services/invoice_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"truckshop-backend/billing"
	"truckshop-backend/models"
	"truckshop-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ValidationError lists every invoice field that failed the pre-save
// check. All fields are checked before the error is raised; there is no
// short-circuit on the first violation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invoice validation failed: " + strings.Join(e.Fields, ", ")
}

// InvoiceForm is the editable state of an invoice as submitted by the
// client. ID is nil for a brand new invoice.
type InvoiceForm struct {
	ID            *uuid.UUID         `json:"id"`
	JobID         uuid.UUID          `json:"jobId"`
	CustomerID    uuid.UUID          `json:"customerId"`
	InvoiceDate   time.Time          `json:"invoiceDate"`
	WorkPerformed string             `json:"workPerformed"`
	PaymentMethod string             `json:"paymentMethod"`
	LaborItems    []models.LaborItem `json:"laborItems"`
	PartItems     []models.PartItem  `json:"partItems"`
	MiscFees      models.MiscFeeList `json:"miscFees"`
}

type PaymentDetails struct {
	Method    string  `json:"method" binding:"required,oneof=cash check efs_check cc_physical stripe other"`
	Amount    float64 `json:"amount" binding:"min=0"`
	Reference string  `json:"reference"`
}

type InvoiceService struct {
	db        *gorm.DB
	transport Transport
}

func NewInvoiceService(db *gorm.DB, transport Transport) *InvoiceService {
	return &InvoiceService{db: db, transport: transport}
}

// PriceParts re-prices every part line that has a catalog reference and
// has not been manually overridden. A reference that no longer resolves
// in the catalog is skipped silently and the line keeps whatever price
// it already holds.
func (s *InvoiceService) PriceParts(items []models.PartItem) []models.PartItem {
	for i := range items {
		item := &items[i]
		if item.PartID == nil || item.PriceOverridden {
			continue
		}

		// A stale or deleted catalog reference is tolerated: the line
		// keeps the price it already holds.
		var part models.Part
		if err := s.db.First(&part, "id = ?", *item.PartID).Error; err != nil {
			continue
		}

		item.UnitCost = part.UnitCost
		if item.Description == "" {
			item.Description = part.Description
		}
		item.FinalPrice = billing.AutoPrice(item.Quantity, part.UnitCost, item.MarkupPercent)
	}
	return items
}

// Preview prices the part lines and computes totals without writing
// anything. The edit form calls this after every change. A brand new
// form with no fees yet also gets the shop's default fee lines back.
func (s *InvoiceService) Preview(form *InvoiceForm) ([]models.PartItem, models.MiscFeeList, billing.Totals, error) {
	settings, err := models.GetSettings(s.db)
	if err != nil {
		return nil, nil, billing.Totals{}, fmt.Errorf("load settings: %w", err)
	}

	items := s.PriceParts(form.PartItems)
	totals := billing.ComputeTotals(form.LaborItems, items, form.MiscFees, form.PaymentMethod, settings)

	var suggested models.MiscFeeList
	if form.ID == nil && len(form.MiscFees) == 0 {
		suggested = billing.DefaultMiscFees(totals.Subtotal, settings)
	}

	return items, suggested, totals, nil
}

// Save validates the form, then upserts the invoice header and replaces
// its labor and part lines. Header write, line deletes and line inserts
// run inside one transaction, so a failed step leaves no half-written
// invoice behind. Two sessions saving the same invoice still race
// last-write-wins: whichever transaction commits second wipes the other
// session's line items.
func (s *InvoiceService) Save(form *InvoiceForm, userID uuid.UUID) (*models.Invoice, error) {
	settings, err := models.GetSettings(s.db)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	form.PartItems = s.PriceParts(form.PartItems)
	totals := billing.ComputeTotals(form.LaborItems, form.PartItems, form.MiscFees, form.PaymentMethod, settings)

	if err := validateForm(form, totals); err != nil {
		return nil, err
	}

	inv := models.Invoice{
		JobID:           form.JobID,
		CustomerID:      form.CustomerID,
		CreatedByUserID: userID,
		InvoiceDate:     form.InvoiceDate,
		WorkPerformed:   form.WorkPerformed,
		PaymentMethod:   form.PaymentMethod,
		Status:          models.InvoiceStatusPending,
		MiscFees:        form.MiscFees,
	}
	billing.ApplyTotals(&inv, totals)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if form.ID == nil {
			inv.InvoiceNumber = utils.GenerateInvoiceNumber()
			if err := tx.Omit("LaborItems", "PartItems").Create(&inv).Error; err != nil {
				return fmt.Errorf("insert invoice header: %w", err)
			}
		} else {
			var existing models.Invoice
			if err := tx.First(&existing, "id = ?", *form.ID).Error; err != nil {
				return fmt.Errorf("load invoice: %w", err)
			}
			inv.ID = existing.ID
			inv.InvoiceNumber = existing.InvoiceNumber
			inv.Status = existing.Status
			inv.CreatedByUserID = existing.CreatedByUserID
			inv.CreatedAt = existing.CreatedAt
			if err := tx.Omit("LaborItems", "PartItems").Save(&inv).Error; err != nil {
				return fmt.Errorf("update invoice header: %w", err)
			}
		}

		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.LaborItem{}).Error; err != nil {
			return fmt.Errorf("clear labor items: %w", err)
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.PartItem{}).Error; err != nil {
			return fmt.Errorf("clear part items: %w", err)
		}

		labor := make([]models.LaborItem, len(form.LaborItems))
		copy(labor, form.LaborItems)
		for i := range labor {
			labor[i].ID = uuid.New()
			labor[i].InvoiceID = inv.ID
		}
		if err := tx.Create(&labor).Error; err != nil {
			return fmt.Errorf("insert labor items: %w", err)
		}
		inv.LaborItems = labor

		if len(form.PartItems) > 0 {
			parts := make([]models.PartItem, len(form.PartItems))
			copy(parts, form.PartItems)
			for i := range parts {
				parts[i].ID = uuid.New()
				parts[i].InvoiceID = inv.ID
			}
			if err := tx.Create(&parts).Error; err != nil {
				return fmt.Errorf("insert part items: %w", err)
			}
			inv.PartItems = parts
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

func validateForm(form *InvoiceForm, totals billing.Totals) error {
	var fields []string

	if form.JobID == uuid.Nil {
		fields = append(fields, "jobId")
	}
	if form.InvoiceDate.IsZero() {
		fields = append(fields, "invoiceDate")
	}
	if strings.TrimSpace(form.WorkPerformed) == "" {
		fields = append(fields, "workPerformed")
	}
	if len(form.LaborItems) == 0 {
		fields = append(fields, "laborItems")
	}
	if totals.GrandTotal <= 0 {
		fields = append(fields, "total")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// MarkPaid records a payment and then flips the invoice status. The
// payment insert comes first; if it fails the status write never runs.
// The two writes stay separate on purpose.
func (s *InvoiceService) MarkPaid(invoiceID uuid.UUID, details PaymentDetails) error {
	var inv models.Invoice
	if err := s.db.First(&inv, "id = ?", invoiceID).Error; err != nil {
		return fmt.Errorf("load invoice: %w", err)
	}

	payment := models.Payment{
		InvoiceID: invoiceID,
		Method:    details.Method,
		Amount:    details.Amount,
		Reference: details.Reference,
		PaidAt:    time.Now(),
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return fmt.Errorf("record payment: %w", err)
	}

	if err := s.db.Model(&models.Invoice{}).Where("id = ?", invoiceID).
		Update("status", models.InvoiceStatusPaid).Error; err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}

	if err := s.db.Model(&models.Customer{}).Where("id = ?", inv.CustomerID).
		Updates(map[string]interface{}{
			"total_spent": gorm.Expr("total_spent + ?", payment.Amount),
			"last_visit":  time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("update customer stats: %w", err)
	}

	return nil
}

// Send renders a static snapshot of the invoice and dispatches it to the
// customer. The status only moves to 'sent' after the transport reports
// success; a transport failure leaves the invoice untouched and the
// error goes back to the caller as-is.
func (s *InvoiceService) Send(invoiceID uuid.UUID) error {
	var inv models.Invoice
	if err := s.db.Preload("LaborItems").Preload("PartItems").
		First(&inv, "id = ?", invoiceID).Error; err != nil {
		return fmt.Errorf("load invoice: %w", err)
	}

	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", inv.CustomerID).Error; err != nil {
		return fmt.Errorf("load customer: %w", err)
	}

	if err := s.transport.Send(customer.Phone, RenderInvoiceText(&inv, &customer)); err != nil {
		return err
	}

	return s.db.Model(&models.Invoice{}).Where("id = ?", invoiceID).
		Update("status", models.InvoiceStatusSent).Error
}

// RenderInvoiceText builds the plain-text snapshot that goes out over SMS.
func RenderInvoiceText(inv *models.Invoice, customer *models.Customer) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - Invoice %s for %s\n", inv.InvoiceDate.Format("01/02/2006"), inv.InvoiceNumber, customer.Name)
	if inv.WorkPerformed != "" {
		fmt.Fprintf(&b, "Work performed: %s\n", inv.WorkPerformed)
	}
	for _, item := range inv.LaborItems {
		fmt.Fprintf(&b, "Labor: %s - %.2f hrs @ $%.2f\n", item.Description, item.Hours, item.Rate)
	}
	for _, item := range inv.PartItems {
		fmt.Fprintf(&b, "Part: %s x%d - $%.2f\n", item.Description, item.Quantity, item.FinalPrice)
	}
	for _, fee := range inv.MiscFees {
		fmt.Fprintf(&b, "%s: $%.2f\n", fee.Description, fee.Amount)
	}
	fmt.Fprintf(&b, "Subtotal: $%.2f  Tax: $%.2f", inv.Subtotal, inv.Tax)
	if inv.CCFee > 0 {
		fmt.Fprintf(&b, "  Card fee: $%.2f", inv.CCFee)
	}
	fmt.Fprintf(&b, "\nTotal due: $%.2f", inv.Total)

	return b.String()
}
