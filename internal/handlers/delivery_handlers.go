package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grocerydash/grocery-dashboard-golang/internal/models"
)

//
// --- Delivery Handlers ---
//

// ListDeliveryOrders is the handler for GET /api/delivery/orders.
// Couriers see orders that have progressed past confirmation. Orders
// already out for delivery or delivered are only visible to the
// courier they belong to.
func (h *Handlers) ListDeliveryOrders(c *gin.Context) {
	courier := courierID(c)
	limit, offset := pageParams(c, 10)
	orderBy := sortClause(c, orderSortKeys, "createdAt")

	where := " WHERE o.status NOT IN (?, ?)"
	args := []any{models.StatusPending, models.StatusOrderConfirmed}

	if status := c.Query("status"); status != "" {
		where += " AND o.status = ?"
		args = append(args, status)
		switch models.OrderStatus(status) {
		case models.StatusOutForDelivery, models.StatusDelivered:
			where += " AND o.courier_id = ?"
			args = append(args, courier)
		}
	}

	args = append(args, limit, offset)
	orders, err := h.queryOrders(
		orderSelect+where+" ORDER BY "+orderBy+" LIMIT ? OFFSET ?", args...)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetDeliveryOrder is the handler for GET /api/delivery/orders/:id.
// The path parameter may be the numeric id or the order number.
// Pending orders are hidden from couriers.
func (h *Handlers) GetDeliveryOrder(c *gin.Context) {
	order, err := h.findOrder(c.Param("id"), "o.status <> ?", models.StatusPending)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateDeliveryStatusInput is the body of PUT /api/delivery/orders/:id/status.
type UpdateDeliveryStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateDeliveryStatus is the handler for PUT /api/delivery/orders/:id/status.
// Couriers may only move an order to out_for_delivery, delivered or
// cancelled. Picking an order up claims it: the assignment is a
// conditional UPDATE so two couriers can never both win the same order.
func (h *Handlers) UpdateDeliveryStatus(c *gin.Context) {
	courier := courierID(c)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var input UpdateDeliveryStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Status is required")
		return
	}

	// 1. --- Fetch the Current State ---
	var current models.OrderStatus
	var assignedTo sql.NullInt64
	err = h.DB.QueryRow(
		"SELECT status, courier_id FROM orders WHERE id = ?", orderID).
		Scan(&current, &assignedTo)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	// 2. --- Decide the Transition ---
	update, err := models.CourierTransition(current, assignedTo.Valid, models.OrderStatus(input.Status))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyPickedUp):
			respondError(c, http.StatusBadRequest, "Order already picked up")
		case errors.Is(err, models.ErrCourierAssigned):
			respondError(c, http.StatusBadRequest, "Order already assigned to a delivery person")
		default:
			allowed := make([]string, 0, len(models.CourierStatuses()))
			for _, s := range models.CourierStatuses() {
				allowed = append(allowed, string(s))
			}
			respondError(c, http.StatusBadRequest,
				"Invalid status. Allowed statuses are: "+strings.Join(allowed, ", "))
		}
		return
	}

	// 3. --- Apply It ---
	now := time.Now()
	if update.AssignCourier {
		// The predicate re-checks assignment so a racing pickup loses
		// cleanly instead of stealing the order.
		result, err := h.DB.Exec(`
			UPDATE orders SET status = ?, courier_id = ?, updated_at = ?
			WHERE id = ? AND courier_id IS NULL AND status <> ?`,
			update.Status, courier, now, orderID, models.StatusOutForDelivery)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update order")
			return
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to check affected rows")
			return
		}
		if rowsAffected == 0 {
			respondError(c, http.StatusConflict, "Order already assigned to a delivery person")
			return
		}
	} else {
		if _, err := h.DB.Exec(
			"UPDATE orders SET status = ?, payment_status = ?, updated_at = ? WHERE id = ?",
			update.Status, *update.PaymentStatus, now, orderID); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update order")
			return
		}
	}

	order, err := h.findOrder(c.Param("id"), "")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch updated order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"order":   order,
	})
}
