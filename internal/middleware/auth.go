package middleware

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grocerydash/grocery-dashboard-golang/internal/auth"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID    = "userID"
	CtxAdminID   = "adminID"
	CtxStoreID   = "storeID"
	CtxCourierID = "courierID"
)

// abortError writes the standard error envelope and stops the chain.
func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   true,
		"status":  status,
		"message": message,
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// principalID validates the bearer token and checks it carries the
// expected scope. Scope mismatches are 403, everything else 401.
func principalID(c *gin.Context, wantScope string) (int64, bool) {
	tokenString, ok := bearerToken(c)
	if !ok {
		abortError(c, http.StatusUnauthorized, "Authentication required")
		return 0, false
	}

	id, scope, err := auth.ValidateToken(tokenString)
	if err != nil {
		abortError(c, http.StatusUnauthorized, "Invalid Token")
		return 0, false
	}
	if scope != wantScope {
		abortError(c, http.StatusForbidden, "Access Denied")
		return 0, false
	}

	return id, true
}

// CustomerAuth guards customer routes. The token subject must still
// exist in the users table.
func CustomerAuth(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := principalID(c, auth.ScopeCustomer)
		if !ok {
			return
		}

		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", id).Scan(&exists)
		if err != nil {
			abortError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			abortError(c, http.StatusUnauthorized, "User not found")
			return
		}

		c.Set(CtxUserID, id)
		c.Next()
	}
}

// AdminAuth guards store-admin routes. Besides the admin id it also
// resolves the admin's store (0 when no store has been created yet) so
// dashboard handlers can scope their queries.
func AdminAuth(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := principalID(c, auth.ScopeStoreAdmin)
		if !ok {
			return
		}

		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM admins WHERE id = ?)", id).Scan(&exists)
		if err != nil {
			abortError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			abortError(c, http.StatusUnauthorized, "User not found")
			return
		}

		var storeID int64
		err = db.QueryRow("SELECT id FROM stores WHERE admin_id = ?", id).Scan(&storeID)
		if err != nil && err != sql.ErrNoRows {
			abortError(c, http.StatusInternalServerError, "Failed to resolve store")
			return
		}

		c.Set(CtxAdminID, id)
		c.Set(CtxStoreID, storeID)
		c.Next()
	}
}

// CourierAuth guards delivery routes.
func CourierAuth(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := principalID(c, auth.ScopeCourier)
		if !ok {
			return
		}

		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM couriers WHERE id = ?)", id).Scan(&exists)
		if err != nil {
			abortError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			abortError(c, http.StatusUnauthorized, "User not found")
			return
		}

		c.Set(CtxCourierID, id)
		c.Next()
	}
}
