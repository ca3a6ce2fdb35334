package handlers

import (
	"database/sql"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/grocerydash/grocery-dashboard-golang/internal/models"
)

//
// --- Category Handlers ---
//

const categorySelect = `
	SELECT id, name, slug, description, image, is_featured, created_at, updated_at
	FROM categories`

func scanCategory(row scanner) (*models.Category, error) {
	var category models.Category
	err := row.Scan(
		&category.ID, &category.Name, &category.Slug, &category.Description,
		&category.Image, &category.IsFeatured, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategoryInput defines the JSON for POST /api/categories.
type CreateCategoryInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Image       *string `json:"image"`
	IsFeatured  bool    `json:"isFeatured"`
}

// CreateCategory is the handler for POST /api/categories (store-admin).
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	categorySlug := slug.Make(input.Name)

	var exists bool
	if err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM categories WHERE slug = ?)", categorySlug).Scan(&exists); err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		respondError(c, http.StatusConflict, "Category already exists")
		return
	}

	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO categories (name, slug, description, image, is_featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		input.Name, categorySlug, input.Description, input.Image, input.IsFeatured, now, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}
	categoryID, err := result.LastInsertId()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get new category ID")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Category created successfully",
		"category": models.Category{
			ID: categoryID, Name: input.Name, Slug: categorySlug,
			Description: input.Description, Image: input.Image,
			IsFeatured: input.IsFeatured, CreatedAt: now, UpdatedAt: now,
		},
	})
}

// listCategories shares the paginated list logic between the full and
// featured-only endpoints.
func (h *Handlers) listCategories(c *gin.Context, featuredOnly bool) ([]*models.Category, int, error) {
	limit, offset := pageParams(c, 10)

	where := ""
	if featuredOnly {
		where = " WHERE is_featured = TRUE"
	}

	var total int
	if err := h.DB.QueryRow("SELECT COUNT(*) FROM categories" + where).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := h.DB.Query(categorySelect+where+" LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		categories = append(categories, category)
	}
	return categories, total, rows.Err()
}

// ListCategories is the handler for GET /api/categories.
func (h *Handlers) ListCategories(c *gin.Context) {
	limit, _ := pageParams(c, 10)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	categories, total, err := h.listCategories(c, false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"total":      total,
		"page":       page,
		"pages":      int(math.Ceil(float64(total) / float64(limit))),
	})
}

// FeaturedCategories is the handler for GET /api/categories/featured.
func (h *Handlers) FeaturedCategories(c *gin.Context) {
	limit, _ := pageParams(c, 10)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	categories, total, err := h.listCategories(c, true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch featured categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"featuredCategories": categories,
		"total":              total,
		"page":               page,
		"pages":              int(math.Ceil(float64(total) / float64(limit))),
	})
}

// GetCategory is the handler for GET /api/categories/category/:id.
func (h *Handlers) GetCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ID")
		return
	}

	category, err := scanCategory(h.DB.QueryRow(categorySelect+" WHERE id = ?", categoryID))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Category Not Found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, category)
}

// UpdateCategoryInput defines the JSON for PUT /api/categories/:id.
// All fields are optional.
type UpdateCategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsFeatured  *bool   `json:"isFeatured"`
}

// UpdateCategory is the handler for PUT /api/categories/:id (store-admin).
func (h *Handlers) UpdateCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ID")
		return
	}

	var input UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Build the SET clause from the fields actually present.
	set := "updated_at = ?"
	args := []any{time.Now()}
	if input.Name != nil {
		set += ", name = ?, slug = ?"
		args = append(args, *input.Name, slug.Make(*input.Name))
	}
	if input.Description != nil {
		set += ", description = ?"
		args = append(args, *input.Description)
	}
	if input.IsFeatured != nil {
		set += ", is_featured = ?"
		args = append(args, *input.IsFeatured)
	}
	args = append(args, categoryID)

	result, err := h.DB.Exec("UPDATE categories SET "+set+" WHERE id = ?", args...)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully"})
}

// DeleteCategory is the handler for DELETE /api/categories/:id (store-admin).
func (h *Handlers) DeleteCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ID")
		return
	}

	result, err := h.DB.Exec("DELETE FROM categories WHERE id = ?", categoryID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
