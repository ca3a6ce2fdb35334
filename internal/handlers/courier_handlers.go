package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grocerydash/grocery-dashboard-golang/internal/auth"
	"github.com/grocerydash/grocery-dashboard-golang/internal/models"
)

//
// --- Delivery-Courier Auth Handlers ---
//

// RegisterCourierInput adds the courier-specific fields on top of the
// common register payload.
type RegisterCourierInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Vehicle  string `json:"vehicle"`
}

// RegisterCourier is the handler for POST /api/delivery/auth/register.
func (h *Handlers) RegisterCourier(c *gin.Context) {
	var input RegisterCourierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var exists bool
	err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM couriers WHERE email = ?)", input.Email).Scan(&exists)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		respondError(c, http.StatusConflict, "User Already Exists")
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO couriers (email, password_hash, full_name, phone, vehicle, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		input.Email, password.Hash, input.FullName, input.Phone, input.Vehicle, now, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create courier")
		return
	}
	id, err := result.LastInsertId()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get new courier ID")
		return
	}

	token, err := auth.GenerateToken(id, auth.ScopeCourier)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":       id,
			"email":    input.Email,
			"fullName": input.FullName,
			"vehicle":  input.Vehicle,
		},
	})
}

// LoginCourier is the handler for POST /api/delivery/auth/login.
func (h *Handlers) LoginCourier(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var courier models.Courier
	err := h.DB.QueryRow(
		"SELECT id, email, password_hash, full_name, vehicle FROM couriers WHERE email = ?",
		input.Email,
	).Scan(&courier.ID, &courier.Email, &courier.PasswordHash, &courier.FullName, &courier.Vehicle)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusBadRequest, "Invalid credentials")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	password := models.Password{Hash: courier.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to verify password")
		return
	}
	if !match {
		respondError(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(courier.ID, auth.ScopeCourier)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       courier.ID,
			"email":    courier.Email,
			"fullName": courier.FullName,
			"vehicle":  courier.Vehicle,
		},
	})
}

// GetCurrentCourier is the handler for GET /api/delivery/auth/me.
func (h *Handlers) GetCurrentCourier(c *gin.Context) {
	id := courierID(c)

	var courier models.Courier
	err := h.DB.QueryRow(
		"SELECT id, email, full_name, phone, vehicle FROM couriers WHERE id = ?", id,
	).Scan(&courier.ID, &courier.Email, &courier.FullName, &courier.Phone, &courier.Vehicle)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": courier})
}
