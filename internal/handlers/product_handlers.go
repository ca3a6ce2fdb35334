package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/grocerydash/grocery-dashboard-golang/internal/models"
)

//
// --- Product Handlers ---
//

const productSelect = `
	SELECT id, store_id, name, slug, description, price, discount_percentage, stock,
	       sku, weight, is_featured, images, tags, status, created_at, updated_at
	FROM products`

// scanProduct scans one product row, decoding the JSON image/tag
// columns.
func scanProduct(row scanner) (*models.Product, error) {
	var product models.Product
	var images, tags sql.NullString

	err := row.Scan(
		&product.ID, &product.StoreID, &product.Name, &product.Slug, &product.Description,
		&product.Price, &product.DiscountPercentage, &product.Stock,
		&product.SKU, &product.Weight, &product.IsFeatured, &images, &tags,
		&product.Status, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if images.Valid && images.String != "" {
		_ = json.Unmarshal([]byte(images.String), &product.Images)
	}
	if tags.Valid && tags.String != "" {
		_ = json.Unmarshal([]byte(tags.String), &product.Tags)
	}

	return &product, nil
}

// queryProducts runs a productSelect-shaped query and scans all rows.
func (h *Handlers) queryProducts(query string, args ...any) ([]*models.Product, error) {
	rows, err := h.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// attachCategories loads the id+name category refs for one product.
func (h *Handlers) attachCategories(product *models.Product) error {
	rows, err := h.DB.Query(`
		SELECT c.id, c.name
		FROM product_categories pc
		JOIN categories c ON pc.category_id = c.id
		WHERE pc.product_id = ?`, product.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ref models.CategoryRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return err
		}
		product.Categories = append(product.Categories, ref)
	}
	return rows.Err()
}

// productSortKeys is the whitelist for catalog sorting.
var productSortKeys = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
}

// ListProducts is the handler for GET /api/products.
// Supports pagination, sorting, and status/store filters.
func (h *Handlers) ListProducts(c *gin.Context) {
	limit, offset := pageParams(c, 10)
	orderBy := sortClause(c, productSortKeys, "createdAt")

	// Optional filters.
	where := []string{"1=1"}
	args := []any{}
	if status := c.Query("status"); status != "" {
		where = append(where, "status = ?")
		args = append(args, status)
	}
	if store := c.Query("store"); store != "" {
		storeID, err := strconv.ParseInt(store, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid Store ID")
			return
		}
		where = append(where, "store_id = ?")
		args = append(args, storeID)
	}

	args = append(args, limit, offset)
	products, err := h.queryProducts(
		productSelect+" WHERE "+strings.Join(where, " AND ")+" ORDER BY "+orderBy+" LIMIT ? OFFSET ?",
		args...)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct is the handler for GET /api/products/:id.
// The response embeds the owning store.
func (h *Handlers) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid Product ID")
		return
	}

	product, err := scanProduct(h.DB.QueryRow(productSelect+" WHERE id = ?", productID))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Product Not Found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	store, err := h.scanStore(h.DB.QueryRow(storeSelect+" WHERE id = ?", product.StoreID))
	if err != nil && err != sql.ErrNoRows {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	product.Store = store

	if err := h.attachCategories(product); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load categories")
		return
	}

	c.JSON(http.StatusOK, product)
}

// ProductsByCategory is the handler for GET /api/products/category/:category.
// The parameter may be a category id or a category name; only active
// products are returned.
func (h *Handlers) ProductsByCategory(c *gin.Context) {
	limit, offset := pageParams(c, 10)
	orderBy := sortClause(c, productSortKeys, "createdAt")
	param := c.Param("category")

	var categoryID int64
	var err error
	if id, convErr := strconv.ParseInt(param, 10, 64); convErr == nil {
		err = h.DB.QueryRow("SELECT id FROM categories WHERE id = ?", id).Scan(&categoryID)
	} else {
		err = h.DB.QueryRow("SELECT id FROM categories WHERE name = ?", param).Scan(&categoryID)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Category Not Found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	products, err := h.queryProducts(productSelect+`
		JOIN product_categories pc ON pc.product_id = products.id
		WHERE pc.category_id = ? AND status = 'active'
		ORDER BY `+orderBy+" LIMIT ? OFFSET ?",
		categoryID, limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// RelatedProducts is the handler for GET /api/products/:id/related.
// Related means sharing at least one category, active, excluding the
// product itself.
func (h *Handlers) RelatedProducts(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid Product ID")
		return
	}

	var exists bool
	if err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)", productID).Scan(&exists); err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		respondError(c, http.StatusNotFound, "Product Not Found")
		return
	}

	products, err := h.queryProducts(productSelect+`
		WHERE id <> ? AND status = 'active' AND id IN (
			SELECT pc.product_id FROM product_categories pc
			WHERE pc.category_id IN (
				SELECT category_id FROM product_categories WHERE product_id = ?
			)
		)
		LIMIT 10`,
		productID, productID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch related products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// FeaturedProducts is the handler for GET /api/products/featured-products/top.
func (h *Handlers) FeaturedProducts(c *gin.Context) {
	limit, offset := pageParams(c, 10)
	orderBy := sortClause(c, productSortKeys, "createdAt")

	products, err := h.queryProducts(
		productSelect+" WHERE is_featured = TRUE AND status = 'active' ORDER BY "+orderBy+" LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch featured products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// OtherStoreListing is one row of the other-stores comparison.
type OtherStoreListing struct {
	ID           int64        `json:"id"`
	Price        float64      `json:"price"`
	StoreDetails models.Store `json:"storeDetails"`
}

// ProductOtherStores is the handler for GET /api/products/:id/other-stores.
// It finds listings with the same SKU in other stores for price
// comparison.
func (h *Handlers) ProductOtherStores(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid Product ID")
		return
	}
	limit, offset := pageParams(c, 10)

	var sku string
	err = h.DB.QueryRow("SELECT sku FROM products WHERE id = ?", productID).Scan(&sku)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Product Not Found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.DB.Query(`
		SELECT p.id, p.price,
		       s.id, s.name, s.type, s.location, s.opening_time, s.closing_time,
		       s.contact_number, s.rating, s.description, s.image, s.banner,
		       s.admin_id, s.store_code, s.created_at, s.updated_at
		FROM products p
		JOIN stores s ON p.store_id = s.id
		WHERE p.sku = ? AND p.id <> ?
		LIMIT ? OFFSET ?`, sku, productID, limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch listings")
		return
	}
	defer rows.Close()

	listings := []OtherStoreListing{}
	for rows.Next() {
		var l OtherStoreListing
		s := &l.StoreDetails
		if err := rows.Scan(
			&l.ID, &l.Price,
			&s.ID, &s.Name, &s.Type, &s.Location, &s.OpeningTime, &s.ClosingTime,
			&s.ContactNumber, &s.Rating, &s.Description, &s.Image, &s.Banner,
			&s.AdminID, &s.StoreCode, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to scan listing")
			return
		}
		listings = append(listings, l)
	}
	if err = rows.Err(); err != nil {
		respondError(c, http.StatusInternalServerError, "Error iterating listings")
		return
	}

	c.JSON(http.StatusOK, listings)
}

//
// --- Store-Admin Catalog Handlers ---
//

// ProductInput defines the JSON for creating or replacing a product.
type ProductInput struct {
	Name               string   `json:"name" binding:"required"`
	Description        string   `json:"description"`
	Price              float64  `json:"price" binding:"required,gte=0"`
	DiscountPercentage float64  `json:"discountPercentage" binding:"gte=0,lte=100"`
	Stock              int      `json:"stock" binding:"gte=0"`
	SKU                string   `json:"sku" binding:"required"`
	Weight             float64  `json:"weight" binding:"required,gt=0"`
	IsFeatured         bool     `json:"isFeatured"`
	Images             []string `json:"images"`
	Tags               []string `json:"tags"`
	Categories         []int64  `json:"categories"`
	Status             string   `json:"status"`
}

func marshalList(list []string) string {
	if list == nil {
		list = []string{}
	}
	out, _ := json.Marshal(list)
	return string(out)
}

// CreateProduct is the handler for POST /api/products (store-admin).
// The product always lands in the admin's own store.
func (h *Handlers) CreateProduct(c *gin.Context) {
	storeID := adminStoreID(c)
	if storeID == 0 {
		respondError(c, http.StatusBadRequest, "Create a store before adding products")
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	status := input.Status
	if status == "" {
		status = models.ProductActive
	}

	// All referenced categories must exist.
	if len(input.Categories) > 0 {
		placeholders := strings.Repeat("?,", len(input.Categories)-1) + "?"
		args := make([]any, len(input.Categories))
		for i, id := range input.Categories {
			args[i] = id
		}
		var count int
		if err := h.DB.QueryRow(
			"SELECT COUNT(*) FROM categories WHERE id IN ("+placeholders+")", args...,
		).Scan(&count); err != nil {
			respondError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if count != len(input.Categories) {
			respondError(c, http.StatusBadRequest, "One or more categories do not exist")
			return
		}
	}

	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO products (store_id, name, slug, description, price, discount_percentage,
		                      stock, sku, weight, is_featured, images, tags, status,
		                      created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		storeID, input.Name, slug.Make(input.Name), input.Description, input.Price,
		input.DiscountPercentage, input.Stock, input.SKU, input.Weight, input.IsFeatured,
		marshalList(input.Images), marshalList(input.Tags), status, now, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}
	productID, err := result.LastInsertId()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get new product ID")
		return
	}

	for _, categoryID := range input.Categories {
		if _, err := h.DB.Exec(
			"INSERT INTO product_categories (product_id, category_id) VALUES (?, ?)",
			productID, categoryID); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to link category")
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Product created successfully",
		"productId": productID,
	})
}

// UpdateProduct is the handler for PUT /api/products/:id (store-admin).
// The update is scoped to the admin's store so one store can never
// edit another store's catalog.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	storeID := adminStoreID(c)
	if storeID == 0 {
		respondError(c, http.StatusBadRequest, "Create a store before editing products")
		return
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid Product ID")
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	status := input.Status
	if status == "" {
		status = models.ProductActive
	}

	result, err := h.DB.Exec(`
		UPDATE products
		SET name = ?, slug = ?, description = ?, price = ?, discount_percentage = ?,
		    stock = ?, sku = ?, weight = ?, is_featured = ?, images = ?, tags = ?,
		    status = ?, updated_at = ?
		WHERE id = ? AND store_id = ?`,
		input.Name, slug.Make(input.Name), input.Description, input.Price,
		input.DiscountPercentage, input.Stock, input.SKU, input.Weight, input.IsFeatured,
		marshalList(input.Images), marshalList(input.Tags), status, time.Now(),
		productID, storeID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check affected rows")
		return
	}
	if rowsAffected == 0 {
		respondError(c, http.StatusNotFound, "Product not found in your store")
		return
	}

	// Re-link categories when the caller sent a set.
	if input.Categories != nil {
		if _, err := h.DB.Exec("DELETE FROM product_categories WHERE product_id = ?", productID); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update categories")
			return
		}
		for _, categoryID := range input.Categories {
			if _, err := h.DB.Exec(
				"INSERT INTO product_categories (product_id, category_id) VALUES (?, ?)",
				productID, categoryID); err != nil {
				respondError(c, http.StatusInternalServerError, "Failed to link category")
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}
