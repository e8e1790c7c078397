package services

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"truckshop-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeTransport struct {
	err      error
	lastTo   string
	lastBody string
	calls    int
}

func (f *fakeTransport) Send(to, body string) error {
	f.calls++
	f.lastTo = to
	f.lastBody = body
	return f.err
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Job{},
		&models.Part{},
		&models.Invoice{},
		&models.LaborItem{},
		&models.PartItem{},
		&models.Payment{},
		&models.ShopSettings{},
		&models.ReminderLog{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func seedShop(t *testing.T, db *gorm.DB) (models.Customer, models.Job) {
	t.Helper()

	settings := models.ShopSettings{
		TaxRate:              8.5,
		TaxAppliesTo:         models.TaxAppliesBoth,
		CreditCardFeePercent: 3,
	}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	customer := models.Customer{
		Name:     "Hauling Co",
		Phone:    "+15551234567",
		IsActive: true,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	job := models.Job{
		CustomerID: customer.ID,
		JobNumber:  "RO-20260801-TEST01",
		UnitNumber: "Unit 42",
		Complaint:  "Loss of power under load",
		Status:     models.JobStatusOpen,
		OpenedAt:   time.Now(),
	}
	if err := db.Create(&job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}

	return customer, job
}

func baseForm(customer models.Customer, job models.Job) *InvoiceForm {
	return &InvoiceForm{
		JobID:         job.ID,
		CustomerID:    customer.ID,
		InvoiceDate:   time.Now(),
		WorkPerformed: "Replaced injector on cylinder 4",
		PaymentMethod: models.PaymentMethodCash,
		LaborItems: []models.LaborItem{
			{Description: "Injector replacement", Hours: 2, Rate: 150},
		},
		PartItems: []models.PartItem{
			{Description: "Injector", Quantity: 1, FinalPrice: 100, PriceOverridden: true},
		},
	}
}

func TestSaveCreatesInvoiceWithItems(t *testing.T) {
	db := newTestDB(t)
	customer, job := seedShop(t, db)
	svc := NewInvoiceService(db, &fakeTransport{})

	inv, err := svc.Save(baseForm(customer, job), uuid.New())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if inv.InvoiceNumber == "" {
		t.Error("invoice number not assigned")
	}
	if inv.Status != models.InvoiceStatusPending {
		t.Errorf("status = %q, want pending", inv.Status)
	}
	if math.Abs(inv.Subtotal-400) > 1e-6 {
		t.Errorf("Subtotal = %v, want 400", inv.Subtotal)
	}
	if math.Abs(inv.Tax-34) > 1e-6 {
		t.Errorf("Tax = %v, want 34", inv.Tax)
	}
	if math.Abs(inv.Total-434) > 1e-6 {
		t.Errorf("Total = %v, want 434", inv.Total)
	}

	var laborCount, partCount int64
	db.Model(&models.LaborItem{}).Where("invoice_id = ?", inv.ID).Count(&laborCount)
	db.Model(&models.PartItem{}).Where("invoice_id = ?", inv.ID).Count(&partCount)
	if laborCount != 1 || partCount != 1 {
		t.Errorf("line rows = %d labor / %d parts, want 1/1", laborCount, partCount)
	}
}

func TestSaveCardMethodPicksUpSurcharge(t *testing.T) {
	db := newTestDB(t)
	customer, job := seedShop(t, db)
	svc := NewInvoiceService(db, &fakeTransport{})

	form := baseForm(customer, job)
	form.PaymentMethod = models.PaymentMethodStripe

	inv, err := svc.Save(form, uuid.New())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if math.Abs(inv.CCFee-13.02) > 1e-6 {
		t.Errorf("CCFee = %v, want 13.02", inv.CCFee)
	}
	if math.Abs(inv.Total-447.02) > 1e-6 {
		t.Errorf("Total = %v, want 447.02", inv.Total)
	}
}

func TestSaveCollectsAllValidationErrors(t *testing.T) {
	db := newTestDB(t)
	customer, job := seedShop(t, db)
	svc := NewInvoiceService(db, &fakeTransport{})

	form := baseForm(customer, job)
	form.LaborItems = nil
	form.WorkPerformed = ""

	_, err := svc.Save(form, uuid.New())

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("violations = %v, want exactly [workPerformed laborItems]", verr.Fields)
	}
	if verr.Fields[0] != "workPerformed" || verr.Fields[1] != "laborItems" {
		t.Errorf("violations = %v, want [workPerformed laborItems]", verr.Fields)
	}

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	if count != 0 {
		t.Errorf("invoice rows written despite validation failure: %d", count)
	}
}

func TestSaveReplacesLineItems(t *testing.T) {
	db := newTestDB(t)
	customer, job := seedShop(t, db)
	svc := NewInvoiceService(db, &fakeTransport{})

	inv, err := svc.Save(baseForm(customer, job), uuid.New())
	if err != nil {
		t.Fatalf("initial Save failed: %v", err)
	}

	form := baseForm(customer, job)
	form.ID = &inv.ID
	form.LaborItems = []models.LaborItem{
		{Description: "Diag", Hours: 1, Rate: 150},
		{Description: "Injector replacement", Hours: 2, Rate: 150},
	}
	form.PartItems = nil

	updated, err := svc.Save(form, uuid.New())
	if err != nil {
		t.Fatalf("re-save failed: %v", err)
	}
	if updated.ID != inv.ID {
		t.Fatalf("re-save changed invoice identity: %s vs %s", updated.ID, inv.ID)
	}
	if updated.InvoiceNumber != inv.InvoiceNumber {
		t.Errorf("re-save changed invoice number: %s vs %s", updated.InvoiceNumber, inv.InvoiceNumber)
	}

	var laborCount, partCount int64
	db.Model(&models.LaborItem{}).Where("invoice_id = ?", inv.ID).Count(&laborCount)
	db.Model(&models.PartItem{}).Where("invoice_id = ?", inv.ID).Count(&partCount)
	if laborCount != 2 {
		t.Errorf("labor rows = %d, want 2 (old rows replaced)", laborCount)
	}
	if partCount != 0 {
		t.Errorf("part rows = %d, want 0 (old rows replaced)", partCount)
	}
}

// Two sessions editing the same invoice race last-write-wins: the full
// delete-then-insert replacement means whichever session saves second
// wipes the other's line items. This is a known gap, asserted here so a
// future optimistic-locking fix has something to prove itself against.
func TestConcurrentSavesLoseFirstSessionsItems(t *testing.T) {
	db := newTestDB(t)
	customer, job := seedShop(t, db)
	svc := NewInvoiceService(db, &fakeTransport{})

	inv, err := svc.Save(baseForm(customer, job), uuid.New())
	if err != nil {
		t.Fatalf("initial Save failed: %v", err)
	}

	sessionA := baseForm(customer, job)
	sessionA.ID = &inv.ID
	sessionA.PartItems = append(sessionA.PartItems,
		models.PartItem{Description: "Fuel filter", Quantity: 1, FinalPrice: 45, PriceOverridden: true})

	sessionB := baseForm(customer, job)
	sessionB.ID = &inv.ID
	sessionB.PartItems = append(sessionB.PartItems,
		models.PartItem{Description: "Air filter", Quantity: 1, FinalPrice: 60, PriceOverridden: true})

	if _, err := svc.Save(sessionA, uuid.New()); err != nil {
		t.Fatalf("session A save failed: %v", err)
	}
	if _, err := svc.Save(sessionB, uuid.New()); err != nil {
		t.Fatalf("session B save failed: %v", err)
	}

	var parts []models.PartItem
	db.Where("invoice_id = ?", inv.ID).Find(&parts)

	for _, p := range parts {
		if p.Description == "Fuel filter" {
			t.Error("session A's part survived; last-write-wins gap appears to be closed — update this probe alongside that change")
		}
	}

	found := false
	for _, p := range parts {
		if p.Description == "Air filter" {
			found = true
		}
	}
	if !found {
		t.Error("session B's part missing after its own save")
	}
}

func TestMarkPaidSetsStatusAndRollsUpCustomer(t *testing.T) {
	db := newTestDB(t)
	customer, job := seedShop(t, db)
	svc := NewInvoiceService(db, &fakeTransport{})

	inv, err := svc.Save(baseForm(customer, job), uuid.New())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	err = svc.MarkPaid(inv.ID, PaymentDetails{
		Method:    models.PaymentMethodCheck,
		Amount:    inv.Total,
		Reference: "CHK-1042",
	})
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	var reloaded models.Invoice
	db.First(&reloaded, "id = ?", inv.ID)
	if reloaded.Status != models.InvoiceStatusPaid {
		t.Errorf("status = %q, want paid", reloaded.Status)
	}

	var paymentCount int64
	db.Model(&models.Payment{}).Where("invoice_id = ?", inv.ID).Count(&paymentCount)
	if paymentCount != 1 {
		t.Errorf("payment rows = %d, want 1", paymentCount)
	}

	var updatedCustomer models.Customer
	db.First(&updatedCustomer, "id = ?", customer.ID)
	if math.Abs(updatedCustomer.TotalSpent-inv.Total) > 1e-6 {
		t.Errorf("customer TotalSpent = %v, want %v", updatedCustomer.TotalSpent, inv.Total)
	}
}

func TestMarkPaidPaymentFailureLeavesStatus(t *testing.T) {
	db := newTestDB(t)
	customer, job := seedShop(t, db)
	svc := NewInvoiceService(db, &fakeTransport{})

	inv, err := svc.Save(baseForm(customer, job), uuid.New())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Occupy the transaction reference so the payment insert below hits
	// the unique index and fails.
	blocker := models.Payment{
		InvoiceID: inv.ID,
		Method:    models.PaymentMethodCheck,
		Amount:    1,
		Reference: "CHK-DUP",
		PaidAt:    time.Now(),
	}
	if err := db.Create(&blocker).Error; err != nil {
		t.Fatalf("seed blocking payment: %v", err)
	}

	err = svc.MarkPaid(inv.ID, PaymentDetails{
		Method:    models.PaymentMethodCheck,
		Amount:    inv.Total,
		Reference: "CHK-DUP",
	})
	if err == nil {
		t.Fatal("expected payment insert to fail")
	}

	var reloaded models.Invoice
	db.First(&reloaded, "id = ?", inv.ID)
	if reloaded.Status != models.InvoiceStatusPending {
		t.Errorf("status = %q after failed payment, want pending (status write must not run)", reloaded.Status)
	}
}

func TestSendMarksSentOnlyOnTransportSuccess(t *testing.T) {
	db := newTestDB(t)
	customer, job := seedShop(t, db)

	transport := &fakeTransport{}
	svc := NewInvoiceService(db, transport)

	inv, err := svc.Save(baseForm(customer, job), uuid.New())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := svc.Send(inv.ID); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if transport.lastTo != customer.Phone {
		t.Errorf("sent to %q, want %q", transport.lastTo, customer.Phone)
	}
	if transport.lastBody == "" {
		t.Error("empty invoice snapshot sent")
	}

	var reloaded models.Invoice
	db.First(&reloaded, "id = ?", inv.ID)
	if reloaded.Status != models.InvoiceStatusSent {
		t.Errorf("status = %q, want sent", reloaded.Status)
	}
}

func TestSendTransportFailureLeavesStatus(t *testing.T) {
	db := newTestDB(t)
	customer, job := seedShop(t, db)

	transportErr := errors.New("twilio: 30007 message filtered")
	svc := NewInvoiceService(db, &fakeTransport{err: transportErr})

	inv, err := svc.Save(baseForm(customer, job), uuid.New())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	err = svc.Send(inv.ID)
	if !errors.Is(err, transportErr) {
		t.Fatalf("transport error not surfaced verbatim: %v", err)
	}

	var reloaded models.Invoice
	db.First(&reloaded, "id = ?", inv.ID)
	if reloaded.Status != models.InvoiceStatusPending {
		t.Errorf("status = %q after failed send, want pending", reloaded.Status)
	}
}

func TestPreviewComputesTotalsWithoutWriting(t *testing.T) {
	db := newTestDB(t)
	customer, job := seedShop(t, db)
	svc := NewInvoiceService(db, &fakeTransport{})

	form := baseForm(customer, job)
	_, _, totals, err := svc.Preview(form)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	if math.Abs(totals.GrandTotal-434) > 1e-6 {
		t.Errorf("GrandTotal = %v, want 434", totals.GrandTotal)
	}

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	if count != 0 {
		t.Errorf("preview wrote %d invoice rows", count)
	}
}

func TestPreviewSuggestsDefaultFeesForNewInvoices(t *testing.T) {
	db := newTestDB(t)
	customer, job := seedShop(t, db)
	svc := NewInvoiceService(db, &fakeTransport{})

	db.Model(&models.ShopSettings{}).Where("1 = 1").
		Updates(map[string]interface{}{"shop_supply_fee_percent": 5, "disposal_fee": 15})

	form := baseForm(customer, job)
	_, suggested, _, err := svc.Preview(form)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if len(suggested) != 2 {
		t.Fatalf("suggested fees = %v, want shop supplies and disposal", suggested)
	}

	// Existing invoices keep whatever fees they have; nothing is suggested.
	id := uuid.New()
	form.ID = &id
	_, suggested, _, err = svc.Preview(form)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if len(suggested) != 0 {
		t.Errorf("suggested fees for existing invoice: %v", suggested)
	}
}

func TestPricePartsResolvesCatalogAndSkipsMissing(t *testing.T) {
	db := newTestDB(t)
	seedShop(t, db)
	svc := NewInvoiceService(db, &fakeTransport{})

	part := models.Part{
		PartNumber:  "FF-2200",
		Description: "Fuel filter",
		UnitCost:    10,
		IsActive:    true,
	}
	if err := db.Create(&part).Error; err != nil {
		t.Fatalf("seed part: %v", err)
	}

	stale := uuid.New()
	items := []models.PartItem{
		{PartID: &part.ID, Quantity: 3, MarkupPercent: 20},
		{PartID: &stale, Quantity: 2, MarkupPercent: 10, FinalPrice: 55},
		{PartID: &part.ID, Quantity: 1, MarkupPercent: 20, FinalPrice: 99, PriceOverridden: true},
	}

	priced := svc.PriceParts(items)

	if math.Abs(priced[0].FinalPrice-36) > 1e-6 {
		t.Errorf("catalog item FinalPrice = %v, want 36.00", priced[0].FinalPrice)
	}
	if priced[0].Description != "Fuel filter" {
		t.Errorf("catalog description not filled in: %q", priced[0].Description)
	}
	if priced[1].FinalPrice != 55 {
		t.Errorf("stale reference should keep its price, got %v", priced[1].FinalPrice)
	}
	if priced[2].FinalPrice != 99 {
		t.Errorf("overridden price recomputed to %v, want 99 untouched", priced[2].FinalPrice)
	}
}
