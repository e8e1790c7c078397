package controllers

import (
	"errors"
	"net/http"

	"truckshop-backend/config"
	"truckshop-backend/models"
	"truckshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreatePartInput struct {
	PartNumber  string  `json:"partNumber" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Vendor      string  `json:"vendor"`
	UnitCost    float64 `json:"unitCost" binding:"min=0"`
	InStock     int     `json:"inStock" binding:"min=0"`
}

type UpdatePartInput struct {
	PartNumber  *string  `json:"partNumber"`
	Description *string  `json:"description"`
	Vendor      *string  `json:"vendor"`
	UnitCost    *float64 `json:"unitCost" binding:"omitempty,min=0"`
	InStock     *int     `json:"inStock" binding:"omitempty,min=0"`
	IsActive    *bool    `json:"isActive"`
}

func CreatePart(c *gin.Context) {
	var input CreatePartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.Part
	result := config.DB.Where("part_number = ?", input.PartNumber).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Part number already exists")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	part := models.Part{
		PartNumber:  input.PartNumber,
		Description: input.Description,
		Vendor:      input.Vendor,
		UnitCost:    input.UnitCost,
		InStock:     input.InStock,
		IsActive:    true,
	}

	if err := config.DB.Create(&part).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create part")
		return
	}

	c.JSON(http.StatusCreated, part)
}

func GetParts(c *gin.Context) {
	query := config.DB
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("part_number ILIKE ? OR description ILIKE ?", like, like)
	}

	var parts []models.Part
	if err := query.Order("part_number").Find(&parts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve parts")
		return
	}

	c.JSON(http.StatusOK, parts)
}

func GetPart(c *gin.Context) {
	partUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid part ID format")
		return
	}

	var part models.Part
	if err := config.DB.First(&part, "id = ?", partUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Part not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, part)
}

func UpdatePart(c *gin.Context) {
	partUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid part ID format")
		return
	}

	var input UpdatePartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var part models.Part
	if err := config.DB.First(&part, "id = ?", partUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Part not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.PartNumber != nil {
		part.PartNumber = *input.PartNumber
	}
	if input.Description != nil {
		part.Description = *input.Description
	}
	if input.Vendor != nil {
		part.Vendor = *input.Vendor
	}
	if input.UnitCost != nil {
		part.UnitCost = *input.UnitCost
	}
	if input.InStock != nil {
		part.InStock = *input.InStock
	}
	if input.IsActive != nil {
		part.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&part).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update part")
		return
	}

	c.JSON(http.StatusOK, part)
}

// DeletePart soft deletes a catalog entry. Invoice part lines that
// reference it keep their stored price; auto-pricing simply stops
// resolving the reference.
func DeletePart(c *gin.Context) {
	partUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid part ID format")
		return
	}

	var part models.Part
	if err := config.DB.First(&part, "id = ?", partUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Part not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&part).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete part")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Part deleted successfully"})
}
