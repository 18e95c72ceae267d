package handlers

import (
	"errors"
	"net/http"
	"time"

	userRepo "booked/database/repository/user"
	"booked/models"
	"booked/utils"

	"github.com/gin-gonic/gin"
)

// UserRepo is wired in main before the router starts serving.
var UserRepo userRepo.UserRepository

const tokenLifetime = 24 * time.Hour

// RegisterUser creates an identity record and issues its bearer token. All
// creation goes through models.NewUser so defaults are set in one place.
func RegisterUser(c *gin.Context) {
	var input struct {
		Name  string      `json:"name" binding:"required"`
		Email string      `json:"email" binding:"required,email"`
		Role  models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	switch input.Role {
	case models.RoleClient, models.RoleProfessional:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be client or professional"})
		return
	}

	if existing, err := UserRepo.GetByEmail(c.Request.Context(), input.Email); err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	user := models.NewUser(input.Name, input.Email, input.Role)
	if err := UserRepo.Create(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role), tokenLifetime)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// GetUser returns one identity record.
func GetUser(c *gin.Context) {
	user, err := UserRepo.GetByID(c.Request.Context(), c.Param("userID"))
	if errors.Is(err, userRepo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, user)
}
