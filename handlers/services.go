package handlers

import (
	"errors"
	"net/http"

	catalogRepo "booked/database/repository/catalog"
	"booked/models"

	"github.com/gin-gonic/gin"
)

// CatalogRepo is wired in main before the router starts serving.
var CatalogRepo catalogRepo.ServiceRepository

// ListServices returns the active service catalog.
func ListServices(c *gin.Context) {
	services, err := CatalogRepo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch services"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// GetService returns one catalog entry.
func GetService(c *gin.Context) {
	svc, err := CatalogRepo.GetByID(c.Request.Context(), c.Param("serviceID"))
	if errors.Is(err, catalogRepo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch service"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

// CreateService adds a catalog entry. Admin only.
func CreateService(c *gin.Context) {
	var svc models.Service
	if err := c.ShouldBindJSON(&svc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if svc.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	svc.Active = true

	if err := CatalogRepo.Create(c.Request.Context(), &svc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create service"})
		return
	}
	c.JSON(http.StatusCreated, svc)
}
