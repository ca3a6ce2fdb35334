package handlers

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grocerydash/grocery-dashboard-golang/internal/models"
)

//
// --- Store Handlers ---
//

const storeSelect = `
	SELECT id, name, type, location, opening_time, closing_time, contact_number,
	       rating, description, image, banner, admin_id, store_code, created_at, updated_at
	FROM stores`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (h *Handlers) scanStore(row scanner) (*models.Store, error) {
	var store models.Store
	err := row.Scan(
		&store.ID, &store.Name, &store.Type, &store.Location,
		&store.OpeningTime, &store.ClosingTime, &store.ContactNumber,
		&store.Rating, &store.Description, &store.Image, &store.Banner,
		&store.AdminID, &store.StoreCode, &store.CreatedAt, &store.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// generateStoreCode returns a random 6-character hex code.
func generateStoreCode() string {
	buf := make([]byte, 3)
	rand.Read(buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}

// CreateStoreInput defines the JSON for POST /api/stores.
type CreateStoreInput struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Location      *string `json:"location"`
	ContactNumber string  `json:"contactNumber"`
	OpeningTime   string  `json:"openingTime"`
	ClosingTime   string  `json:"closingTime"`
	Description   string  `json:"description"`
	Image         *string `json:"image"`
	Banner        *string `json:"banner"`
}

// missingStoreFields names every required field absent from the input,
// so the 400 message tells the caller exactly what to fix.
func missingStoreFields(input CreateStoreInput) []string {
	var missing []string
	required := map[string]string{
		"name":          input.Name,
		"type":          input.Type,
		"contactNumber": input.ContactNumber,
		"openingTime":   input.OpeningTime,
		"closingTime":   input.ClosingTime,
		"description":   input.Description,
	}
	for _, field := range []string{"name", "type", "contactNumber", "openingTime", "closingTime", "description"} {
		if required[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// CreateStore is the handler for POST /api/stores (store-admin only).
// Creating a store promotes the admin to the store-owner role.
func (h *Handlers) CreateStore(c *gin.Context) {
	id := adminID(c)

	// 1. --- Bind & Validate ---
	var input CreateStoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if missing := missingStoreFields(input); len(missing) > 0 {
		respondError(c, http.StatusBadRequest, "Missing required fields "+strings.Join(missing, ","))
		return
	}

	validType := false
	for _, t := range models.StoreTypes {
		if input.Type == t {
			validType = true
			break
		}
	}
	if !validType {
		respondError(c, http.StatusBadRequest, "Invalid store type. Allowed types are: "+strings.Join(models.StoreTypes, ", "))
		return
	}

	// 2. --- Reject Duplicate Name ---
	var exists bool
	if err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM stores WHERE name = ?)", input.Name).Scan(&exists); err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		respondError(c, http.StatusConflict, "Store with this name already exists")
		return
	}

	// 3. --- Generate a Unique Store Code ---
	storeCode := generateStoreCode()
	for {
		var taken bool
		if err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM stores WHERE store_code = ?)", storeCode).Scan(&taken); err != nil {
			respondError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if !taken {
			break
		}
		storeCode = generateStoreCode()
	}

	// 4. --- Insert Store & Promote Admin ---
	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO stores (name, type, location, opening_time, closing_time, contact_number,
		                    description, image, banner, admin_id, store_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Name, input.Type, input.Location, input.OpeningTime, input.ClosingTime,
		input.ContactNumber, input.Description, input.Image, input.Banner, id, storeCode, now, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create store")
		return
	}
	storeID, err := result.LastInsertId()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get new store ID")
		return
	}

	if _, err := h.DB.Exec("UPDATE admins SET role = ?, updated_at = ? WHERE id = ?",
		models.AdminRoleStoreOwner, now, id); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update admin role")
		return
	}

	store := models.Store{
		ID: storeID, Name: input.Name, Type: input.Type, Location: input.Location,
		OpeningTime: input.OpeningTime, ClosingTime: input.ClosingTime,
		ContactNumber: input.ContactNumber, Description: input.Description,
		Image: input.Image, Banner: input.Banner, AdminID: id, StoreCode: storeCode,
		CreatedAt: now, UpdatedAt: now,
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Store created successfully",
		"store":   store,
	})
}

// GetStore is the handler for GET /api/stores/:id.
func (h *Handlers) GetStore(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid Store ID")
		return
	}

	store, err := h.scanStore(h.DB.QueryRow(storeSelect+" WHERE id = ?", storeID))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Store not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, store)
}

// ListStores is the handler for GET /api/stores.
func (h *Handlers) ListStores(c *gin.Context) {
	rows, err := h.DB.Query(storeSelect)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch stores")
		return
	}
	defer rows.Close()

	stores := []*models.Store{}
	for rows.Next() {
		store, err := h.scanStore(rows)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan store")
			return
		}
		stores = append(stores, store)
	}
	if err = rows.Err(); err != nil {
		respondError(c, http.StatusInternalServerError, "Error iterating stores")
		return
	}

	c.JSON(http.StatusOK, stores)
}

// TopStores is the handler for GET /api/stores/top/store.
// Stores are ranked by rating.
func (h *Handlers) TopStores(c *gin.Context) {
	limit, offset := pageParams(c, 5)

	rows, err := h.DB.Query(storeSelect+" ORDER BY rating DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch stores")
		return
	}
	defer rows.Close()

	stores := []*models.Store{}
	for rows.Next() {
		store, err := h.scanStore(rows)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan store")
			return
		}
		stores = append(stores, store)
	}
	if err = rows.Err(); err != nil {
		respondError(c, http.StatusInternalServerError, "Error iterating stores")
		return
	}

	c.JSON(http.StatusOK, stores)
}

// StoreProducts is the handler for GET /api/stores/:id/products.
func (h *Handlers) StoreProducts(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid Store ID")
		return
	}

	limit, offset := pageParams(c, 10)
	orderBy := sortClause(c, map[string]string{
		"name":      "name",
		"price":     "price",
		"createdAt": "created_at",
	}, "name")

	products, err := h.queryProducts(
		productSelect+" WHERE store_id = ? ORDER BY "+orderBy+" LIMIT ? OFFSET ?",
		storeID, limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, products)
}
