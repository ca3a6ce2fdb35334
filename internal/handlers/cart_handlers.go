package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

//
// --- Cart Handlers (Customer-Only) ---
//

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ProductID int64 `json:"product" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// AddToCart is the handler for POST /api/carts.
// The line price is snapshotted from the product's current price; it
// is not recomputed if the product price changes later.
func (h *Handlers) AddToCart(c *gin.Context) {
	userID := customerID(c)

	// 1. --- Bind & Validate JSON ---
	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	// 2. --- Fetch the Product for its Price ---
	var price float64
	err := h.DB.QueryRow("SELECT price FROM products WHERE id = ?", input.ProductID).Scan(&price)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// 3. --- Insert the Line with its Price Snapshot ---
	linePrice := price * float64(input.Quantity)
	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO cart_items (user_id, product_id, quantity, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, input.ProductID, input.Quantity, linePrice, now, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}
	itemID, err := result.LastInsertId()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get new cart item ID")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       itemID,
		"product":  input.ProductID,
		"quantity": input.Quantity,
		"price":    linePrice,
	})
}

// GetCart is the handler for GET /api/carts.
// Each line comes back with its product and the product's store.
func (h *Handlers) GetCart(c *gin.Context) {
	userID := customerID(c)

	rows, err := h.DB.Query(`
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.price,
		       ci.created_at, ci.updated_at,
		       p.name, p.price, p.stock, p.status,
		       s.id, s.name
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		JOIN stores s ON p.store_id = s.id
		WHERE ci.user_id = ?`, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch cart items")
		return
	}
	defer rows.Close()

	type cartLine struct {
		ID        int64     `json:"id"`
		UserID    int64     `json:"userId"`
		ProductID int64     `json:"product"`
		Quantity  int       `json:"quantity"`
		Price     float64   `json:"price"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
		Details   struct {
			Name         string  `json:"name"`
			CurrentPrice float64 `json:"price"`
			Stock        int     `json:"stock"`
			Status       string  `json:"status"`
			StoreID      int64   `json:"store"`
			StoreName    string  `json:"storeName"`
		} `json:"productDetails"`
	}

	items := []cartLine{}
	for rows.Next() {
		var line cartLine
		if err := rows.Scan(
			&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &line.Price,
			&line.CreatedAt, &line.UpdatedAt,
			&line.Details.Name, &line.Details.CurrentPrice, &line.Details.Stock,
			&line.Details.Status, &line.Details.StoreID, &line.Details.StoreName,
		); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan cart item")
			return
		}
		items = append(items, line)
	}
	if err = rows.Err(); err != nil {
		respondError(c, http.StatusInternalServerError, "Error iterating cart items")
		return
	}

	c.JSON(http.StatusOK, items)
}

// UpdateCartItemInput defines the JSON for updating a line's quantity.
type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// UpdateCartItem is the handler for PUT /api/carts/:id.
// The price snapshot is recomputed from the product's current price.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	userID := customerID(c)

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ID")
		return
	}

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Quantity is required to update")
		return
	}

	// 1. --- Fetch the Line (scoped to the caller) ---
	var productID int64
	err = h.DB.QueryRow(
		"SELECT product_id FROM cart_items WHERE id = ? AND user_id = ?", itemID, userID,
	).Scan(&productID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Cart item not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// 2. --- Re-snapshot the Price ---
	var price float64
	err = h.DB.QueryRow("SELECT price FROM products WHERE id = ?", productID).Scan(&price)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// 3. --- Execute Update ---
	_, err = h.DB.Exec(
		"UPDATE cart_items SET quantity = ?, price = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		input.Quantity, price*float64(input.Quantity), time.Now(), itemID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated successfully"})
}

// DeleteCartItem is the handler for DELETE /api/carts/:id.
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	userID := customerID(c)

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ID")
		return
	}

	result, err := h.DB.Exec("DELETE FROM cart_items WHERE id = ? AND user_id = ?", itemID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete cart item")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		respondError(c, http.StatusNotFound, "Cart item not found")
		return
	}

	c.Status(http.StatusNoContent)
}
