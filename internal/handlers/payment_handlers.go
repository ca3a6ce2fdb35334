package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grocerydash/grocery-dashboard-golang/internal/models"
)

//
// --- Payment Verification ---
//

// VerifyPaymentInput is the callback payload the payment gateway hands
// to the client after a checkout attempt.
type VerifyPaymentInput struct {
	GatewayOrderID   string `json:"gatewayOrderId" binding:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

// VerifyPayment is the handler for POST /api/orders/:id/verify-payment.
// It recomputes the gateway signature over the order/payment id pair
// and, on a match, marks the payment completed and the order paid in
// one transaction. A bad signature marks the payment failed.
func (h *Handlers) VerifyPayment(c *gin.Context) {
	var input VerifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "gatewayOrderId, gatewayPaymentId and signature are required")
		return
	}

	order, err := h.findOrder(c.Param("id"), "")
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	var paymentID int64
	err = h.DB.QueryRow(
		"SELECT id FROM payments WHERE gateway_order_id = ? AND order_id = ?",
		input.GatewayOrderID, order.ID).Scan(&paymentID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Payment not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to fetch payment")
		return
	}

	if !h.Gateway.Verify(input.GatewayOrderID, input.GatewayPaymentID, input.Signature) {
		if _, err := h.DB.Exec(
			"UPDATE payments SET status = ? WHERE id = ?",
			models.PaymentRecordFailed, paymentID); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update payment")
			return
		}
		respondError(c, http.StatusBadRequest, "Invalid payment signature")
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"UPDATE payments SET status = ?, gateway_payment_id = ?, gateway_signature = ? WHERE id = ?",
		models.PaymentRecordCompleted, input.GatewayPaymentID, input.Signature, paymentID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update payment")
		return
	}
	if _, err := tx.Exec(
		"UPDATE orders SET payment_status = ?, updated_at = ? WHERE id = ?",
		models.PaymentPaid, time.Now(), order.ID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if err := tx.Commit(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to commit payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment verified successfully"})
}
