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
// --- Store-Admin Auth Handlers ---
//

// RegisterAdmin is the handler for POST /api/admin/auth/register.
// New admins start with the plain "user" role; creating a store
// promotes them to "store-owner".
func (h *Handlers) RegisterAdmin(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var exists bool
	err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM admins WHERE email = ?)", input.Email).Scan(&exists)
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
		INSERT INTO admins (email, password_hash, full_name, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		input.Email, password.Hash, input.FullName, models.AdminRoleUser, now, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create admin")
		return
	}
	adminID, err := result.LastInsertId()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get new admin ID")
		return
	}

	token, err := auth.GenerateToken(adminID, auth.ScopeStoreAdmin)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":       adminID,
			"email":    input.Email,
			"fullName": input.FullName,
			"role":     models.AdminRoleUser,
		},
	})
}

// LoginAdmin is the handler for POST /api/admin/auth/login.
func (h *Handlers) LoginAdmin(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var admin models.Admin
	err := h.DB.QueryRow(
		"SELECT id, email, password_hash, full_name, role FROM admins WHERE email = ?",
		input.Email,
	).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.FullName, &admin.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusBadRequest, "Invalid credentials")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	password := models.Password{Hash: admin.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to verify password")
		return
	}
	if !match {
		respondError(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(admin.ID, auth.ScopeStoreAdmin)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       admin.ID,
			"email":    admin.Email,
			"fullName": admin.FullName,
			"role":     admin.Role,
		},
	})
}

// GetCurrentAdmin is the handler for GET /api/admin/auth/me.
func (h *Handlers) GetCurrentAdmin(c *gin.Context) {
	id := adminID(c)

	var admin models.Admin
	err := h.DB.QueryRow(`
		SELECT id, email, full_name, role, phone_number,
		       address_line, city, state, pin, country
		FROM admins WHERE id = ?`, id).Scan(
		&admin.ID, &admin.Email, &admin.FullName, &admin.Role, &admin.PhoneNumber,
		&admin.Address.Address, &admin.Address.City, &admin.Address.State,
		&admin.Address.Pin, &admin.Address.Country,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": admin})
}

// GetMyStore is the handler for GET /api/admin/auth/store/me.
// It returns the store owned by the authenticated admin.
func (h *Handlers) GetMyStore(c *gin.Context) {
	id := adminID(c)

	store, err := h.scanStore(h.DB.QueryRow(storeSelect+" WHERE admin_id = ?", id))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Store not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}
