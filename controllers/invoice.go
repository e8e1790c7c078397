// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"

	"truckshop-backend/config"
	"truckshop-backend/models"
	"truckshop-backend/services"
	"truckshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceController struct {
	Service *services.InvoiceService
}

func NewInvoiceController(service *services.InvoiceService) *InvoiceController {
	return &InvoiceController{Service: service}
}

// CreateInvoice saves a new invoice from a submitted form.
func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	userUUID, ok := currentUser(c)
	if !ok {
		return
	}

	var form services.InvoiceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	form.ID = nil

	// The customer comes from the selected job, not the form
	var job models.Job
	if err := config.DB.First(&job, "id = ?", form.JobID).Error; err == nil {
		form.CustomerID = job.CustomerID
	}

	invoice, err := ic.Service.Save(&form, userUUID)
	if err != nil {
		respondSaveError(c, err)
		return
	}

	// A freshly invoiced job leaves the open board
	config.DB.Model(&models.Job{}).Where("id = ?", form.JobID).
		Update("status", models.JobStatusInvoiced)

	c.JSON(http.StatusCreated, invoice)
}

// UpdateInvoice re-saves an existing invoice; its labor and part lines
// are replaced wholesale with the submitted ones.
func (ic *InvoiceController) UpdateInvoice(c *gin.Context) {
	userUUID, ok := currentUser(c)
	if !ok {
		return
	}

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var form services.InvoiceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	form.ID = &invoiceUUID

	var job models.Job
	if err := config.DB.First(&job, "id = ?", form.JobID).Error; err == nil {
		form.CustomerID = job.CustomerID
	}

	invoice, err := ic.Service.Save(&form, userUUID)
	if err != nil {
		respondSaveError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// PreviewInvoice prices the part lines and computes totals without
// persisting anything. The edit form calls this after every change and
// writes the figures back into its local state.
func (ic *InvoiceController) PreviewInvoice(c *gin.Context) {
	var form services.InvoiceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	items, suggestedFees, totals, err := ic.Service.Preview(&form)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute totals")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"partItems":     items,
		"suggestedFees": suggestedFees,
		"totals":        totals,
	})
}

func (ic *InvoiceController) GetInvoices(c *gin.Context) {
	query := config.DB.Preload("LaborItems").Preload("PartItems")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []models.Invoice
	if err := query.Order("invoice_date DESC").Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("LaborItems").Preload("PartItems").
		First(&invoice, "id = ?", invoiceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// SendInvoice texts the invoice snapshot to the customer and marks it
// sent. A transport failure leaves the status alone.
func (ic *InvoiceController) SendInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	if err := ic.Service.Send(invoiceUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
			return
		}
		utils.RespondWithError(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice sent"})
}

// MarkInvoicePaid records a payment against the invoice and flips its
// status to paid.
func (ic *InvoiceController) MarkInvoicePaid(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var details services.PaymentDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := ic.Service.MarkPaid(invoiceUUID, details); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice marked as paid"})
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found in context")
		return uuid.Nil, false
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userUUID, true
}

func respondSaveError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}
	utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save invoice")
}
