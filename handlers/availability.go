package handlers

import (
	"net/http"

	"booked/models"

	"github.com/gin-gonic/gin"
)

// GetAvailability returns the full slot grid for a professional and date,
// exceptions merged onto the available-by-default baseline.
func GetAvailability(c *gin.Context) {
	professionalID := c.Param("professionalID")
	date := c.Query("date")

	day, err := BookingSvc.QueryAvailability(c.Request.Context(), professionalID, date)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// ProvisionUnavailability bulk-blocks slots over a date range. Professionals
// may only provision their own calendar; admins may provision any.
func ProvisionUnavailability(c *gin.Context) {
	var req models.ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if c.GetString("role") == string(models.RoleProfessional) && req.ProfessionalID != c.GetString("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot provision another professional's calendar"})
		return
	}

	count, err := BookingSvc.ProvisionUnavailability(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProvisionResult{SlotsAffected: count})
}
