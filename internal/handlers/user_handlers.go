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
// --- Customer Auth Handlers ---
//

// RegisterInput is shared by the customer and admin register endpoints.
// It is separate from the table models so callers can never submit an
// id or a role.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required"`
}

// LoginInput is shared by all three login endpoints.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser is the handler for POST /api/auth/register.
func (h *Handlers) RegisterUser(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// 2. --- Reject Duplicate Email ---
	var exists bool
	err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", input.Email).Scan(&exists)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		respondError(c, http.StatusConflict, "User Already Exists")
		return
	}

	// 3. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	// 4. --- Save to Database ---
	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO users (email, password_hash, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		input.Email, password.Hash, input.FullName, now, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}
	userID, err := result.LastInsertId()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get new user ID")
		return
	}

	// 5. --- Issue Token ---
	token, err := auth.GenerateToken(userID, auth.ScopeCustomer)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":       userID,
			"email":    input.Email,
			"fullName": input.FullName,
		},
	})
}

// LoginUser is the handler for POST /api/auth/login.
func (h *Handlers) LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// A single generic message for both unknown email and wrong
	// password, so login cannot be used to probe for accounts.
	var user models.User
	err := h.DB.QueryRow(
		"SELECT id, email, password_hash, full_name FROM users WHERE email = ?",
		input.Email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusBadRequest, "Invalid credentials")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to verify password")
		return
	}
	if !match {
		respondError(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user.ID, auth.ScopeCustomer)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"fullName": user.FullName,
		},
	})
}

// GetCurrentUser is the handler for GET /api/auth/me.
func (h *Handlers) GetCurrentUser(c *gin.Context) {
	userID := customerID(c)

	var user models.User
	err := h.DB.QueryRow(`
		SELECT id, email, full_name, phone_number,
		       address_line, city, state, pin, country
		FROM users WHERE id = ?`, userID).Scan(
		&user.ID, &user.Email, &user.FullName, &user.PhoneNumber,
		&user.Address.Address, &user.Address.City, &user.Address.State,
		&user.Address.Pin, &user.Address.Country,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUserInput defines the JSON for PUT /api/user. All fields are
// optional; an address update takes priority over the scalar fields.
type UpdateUserInput struct {
	FullName    *string         `json:"fullName"`
	PhoneNumber *string         `json:"phoneNumber"`
	Address     *models.Address `json:"address"`
}

// UpdateUser is the handler for PUT /api/user.
func (h *Handlers) UpdateUser(c *gin.Context) {
	userID := customerID(c)

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// An address payload replaces the address and nothing else;
	// otherwise the scalar fields are patched individually.
	var err error
	if input.Address != nil {
		_, err = h.DB.Exec(`
			UPDATE users
			SET address_line = ?, city = ?, state = ?, pin = ?, country = ?, updated_at = ?
			WHERE id = ?`,
			input.Address.Address, input.Address.City, input.Address.State,
			input.Address.Pin, input.Address.Country, time.Now(), userID)
	} else {
		if input.FullName != nil {
			_, err = h.DB.Exec("UPDATE users SET full_name = ?, updated_at = ? WHERE id = ?",
				*input.FullName, time.Now(), userID)
		}
		if err == nil && input.PhoneNumber != nil {
			_, err = h.DB.Exec("UPDATE users SET phone_number = ?, updated_at = ? WHERE id = ?",
				*input.PhoneNumber, time.Now(), userID)
		}
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	// Return the fresh profile.
	var user models.User
	err = h.DB.QueryRow(`
		SELECT id, email, full_name, phone_number,
		       address_line, city, state, pin, country
		FROM users WHERE id = ?`, userID).Scan(
		&user.ID, &user.Email, &user.FullName, &user.PhoneNumber,
		&user.Address.Address, &user.Address.City, &user.Address.State,
		&user.Address.Pin, &user.Address.Country,
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch updated user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}
