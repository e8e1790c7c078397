package controllers

import (
	"errors"
	"net/http"
	"time"

	"truckshop-backend/config"
	"truckshop-backend/models"
	"truckshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateJobInput struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
	UnitNumber string    `json:"unitNumber"`
	VIN        string    `json:"vin"`
	Complaint  string    `json:"complaint" binding:"required"`
}

type UpdateJobInput struct {
	UnitNumber *string `json:"unitNumber"`
	VIN        *string `json:"vin"`
	Complaint  *string `json:"complaint"`
	Status     *string `json:"status" binding:"omitempty,oneof=open completed invoiced"`
}

func CreateJob(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	var input CreateJobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", input.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	job := models.Job{
		CustomerID:      input.CustomerID,
		CreatedByUserID: userUUID,
		JobNumber:       utils.GenerateJobNumber(),
		UnitNumber:      input.UnitNumber,
		VIN:             input.VIN,
		Complaint:       input.Complaint,
		Status:          models.JobStatusOpen,
		OpenedAt:        time.Now(),
	}

	if err := config.DB.Create(&job).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create job")
		return
	}

	// Keep a running count on the customer card
	config.DB.Model(&models.Customer{}).Where("id = ?", customer.ID).
		Update("total_jobs", gorm.Expr("total_jobs + ?", 1))

	c.JSON(http.StatusCreated, job)
}

func GetJobs(c *gin.Context) {
	query := config.DB.Preload("Customer")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var jobs []models.Job
	if err := query.Order("opened_at DESC").Find(&jobs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve jobs")
		return
	}

	c.JSON(http.StatusOK, jobs)
}

func GetJob(c *gin.Context) {
	jobUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	var job models.Job
	if err := config.DB.Preload("Customer").First(&job, "id = ?", jobUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Job not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, job)
}

func UpdateJob(c *gin.Context) {
	jobUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	var input UpdateJobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var job models.Job
	if err := config.DB.First(&job, "id = ?", jobUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Job not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.UnitNumber != nil {
		job.UnitNumber = *input.UnitNumber
	}
	if input.VIN != nil {
		job.VIN = *input.VIN
	}
	if input.Complaint != nil {
		job.Complaint = *input.Complaint
	}
	if input.Status != nil {
		job.Status = *input.Status
		if *input.Status != models.JobStatusOpen && job.ClosedAt == nil {
			now := time.Now()
			job.ClosedAt = &now
		}
	}

	if err := config.DB.Save(&job).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update job")
		return
	}

	c.JSON(http.StatusOK, job)
}

func DeleteJob(c *gin.Context) {
	jobUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	var job models.Job
	if err := config.DB.First(&job, "id = ?", jobUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Job not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if job.Status == models.JobStatusInvoiced {
		utils.RespondWithError(c, http.StatusBadRequest, "Invoiced jobs cannot be deleted")
		return
	}

	if err := config.DB.Delete(&job).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete job")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}
