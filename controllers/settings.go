package controllers

import (
	"net/http"

	"truckshop-backend/config"
	"truckshop-backend/models"
	"truckshop-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateSettingsInput struct {
	TaxRate              *float64 `json:"taxRate" binding:"omitempty,min=0"`
	TaxAppliesTo         *string  `json:"taxAppliesTo" binding:"omitempty,oneof=labor parts both"`
	CreditCardFeePercent *float64 `json:"creditCardFeePercent" binding:"omitempty,min=0"`
	ShopLaborRate        *float64 `json:"shopLaborRate" binding:"omitempty,min=0"`
	RoadLaborRate        *float64 `json:"roadLaborRate" binding:"omitempty,min=0"`
	DefaultPartsMarkup   *float64 `json:"defaultPartsMarkup" binding:"omitempty,min=0"`
	ShopSupplyFeePercent *float64 `json:"shopSupplyFeePercent" binding:"omitempty,min=0"`
	DisposalFee          *float64 `json:"disposalFee" binding:"omitempty,min=0"`
}

// GetShopSettings returns the shop-wide billing configuration. The edit
// form fetches this once per session.
func GetShopSettings(c *gin.Context) {
	settings, err := models.GetSettings(config.DB)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

func UpdateShopSettings(c *gin.Context) {
	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	settings, err := models.GetSettings(config.DB)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	if input.TaxRate != nil {
		settings.TaxRate = *input.TaxRate
	}
	if input.TaxAppliesTo != nil {
		settings.TaxAppliesTo = *input.TaxAppliesTo
	}
	if input.CreditCardFeePercent != nil {
		settings.CreditCardFeePercent = *input.CreditCardFeePercent
	}
	if input.ShopLaborRate != nil {
		settings.ShopLaborRate = *input.ShopLaborRate
	}
	if input.RoadLaborRate != nil {
		settings.RoadLaborRate = *input.RoadLaborRate
	}
	if input.DefaultPartsMarkup != nil {
		settings.DefaultPartsMarkup = *input.DefaultPartsMarkup
	}
	if input.ShopSupplyFeePercent != nil {
		settings.ShopSupplyFeePercent = *input.ShopSupplyFeePercent
	}
	if input.DisposalFee != nil {
		settings.DisposalFee = *input.DisposalFee
	}

	if err := config.DB.Save(&settings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}
