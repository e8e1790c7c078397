package controllers

import (
	"net/http"
	"time"

	"truckshop-backend/config"
	"truckshop-backend/models"
	"truckshop-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TotalCustomers int64           `json:"totalCustomers"`
	OpenJobs       int64           `json:"openJobs"`
	MonthlyRevenue float64         `json:"monthlyRevenue"`
	UnpaidTotal    float64         `json:"unpaidTotal"`
	UnpaidCount    int64           `json:"unpaidCount"`
	RecentInvoices []RecentInvoice `json:"recentInvoices"`
}

type RecentInvoice struct {
	InvoiceNumber string    `json:"invoiceNumber"`
	CustomerName  string    `json:"customerName"`
	Total         float64   `json:"total"`
	Status        string    `json:"status"`
	InvoiceDate   time.Time `json:"invoiceDate"`
}

func GetDashboardOverview(c *gin.Context) {
	var overview DashboardOverview

	config.DB.Model(&models.Customer{}).Where("deleted_at IS NULL").Count(&overview.TotalCustomers)

	config.DB.Model(&models.Job{}).
		Where("status = ? AND deleted_at IS NULL", models.JobStatusOpen).
		Count(&overview.OpenJobs)

	// Revenue counts payments received this month, not invoices written
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	config.DB.Model(&models.Payment{}).
		Where("paid_at >= ?", firstOfMonth).
		Select("COALESCE(SUM(amount), 0)").Scan(&overview.MonthlyRevenue)

	config.DB.Model(&models.Invoice{}).
		Where("status != ?", models.InvoiceStatusPaid).
		Select("COALESCE(SUM(total), 0)").Scan(&overview.UnpaidTotal)

	config.DB.Model(&models.Invoice{}).
		Where("status != ?", models.InvoiceStatusPaid).
		Count(&overview.UnpaidCount)

	rows, err := config.DB.Model(&models.Invoice{}).
		Select("invoices.invoice_number, customers.name AS customer_name, invoices.total, invoices.status, invoices.invoice_date").
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Order("invoices.invoice_date DESC").
		Limit(5).Rows()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var ri RecentInvoice
		if err := rows.Scan(&ri.InvoiceNumber, &ri.CustomerName, &ri.Total, &ri.Status, &ri.InvoiceDate); err != nil {
			continue
		}
		overview.RecentInvoices = append(overview.RecentInvoices, ri)
	}

	c.JSON(http.StatusOK, overview)
}
