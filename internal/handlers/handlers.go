package handlers

import (
	"database/sql"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/grocerydash/grocery-dashboard-golang/internal/middleware"
	"github.com/grocerydash/grocery-dashboard-golang/internal/payment"
)

// Handlers holds all dependencies for the route handlers. Everything
// is injected from main; there is no package-level state.
type Handlers struct {
	DB      *sql.DB
	Gateway payment.SignatureVerifier
}

// respondError writes the standard error envelope with a matching
// HTTP status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   true,
		"status":  status,
		"message": message,
	})
}

// --- Authenticated principal accessors ---
// The auth middlewares guarantee these keys are present, so a missing
// key is a programming error (route registered without middleware).

func customerID(c *gin.Context) int64 {
	return c.MustGet(middleware.CtxUserID).(int64)
}

func adminID(c *gin.Context) int64 {
	return c.MustGet(middleware.CtxAdminID).(int64)
}

func adminStoreID(c *gin.Context) int64 {
	return c.MustGet(middleware.CtxStoreID).(int64)
}

func courierID(c *gin.Context) int64 {
	return c.MustGet(middleware.CtxCourierID).(int64)
}

// --- Pagination & sorting helpers ---

// pageParams reads ?page and ?limit with the given default page size.
func pageParams(c *gin.Context, defaultLimit int) (limit, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return limit, (page - 1) * limit
}

// sortClause builds an ORDER BY fragment from ?sortBy and ?order.
// Sort keys are whitelisted per endpoint; anything unknown falls back
// to the default so user input never reaches the SQL text.
func sortClause(c *gin.Context, allowed map[string]string, defaultKey string) string {
	column, ok := allowed[c.DefaultQuery("sortBy", defaultKey)]
	if !ok {
		column = allowed[defaultKey]
	}

	direction := "DESC"
	switch c.DefaultQuery("order", c.DefaultQuery("sortOrder", "desc")) {
	case "asc":
		direction = "ASC"
	}

	return column + " " + direction
}
