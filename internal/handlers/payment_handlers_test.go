package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// testGatewaySignature signs the callback payload with the secret the
// test handlers are configured with.
func testGatewaySignature(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte("test-gateway-secret"))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSuccess(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT o.id, o.store_id, o.order_number").
		WithArgs(int64(301)).
		WillReturnRows(orderRow(301, "pending", nil))
	expectOrderItems(mock, 301)

	mock.ExpectQuery("SELECT id FROM payments WHERE gateway_order_id = \\? AND order_id = \\?").
		WithArgs("order_abc", int64(301)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(41)))

	sig := testGatewaySignature("order_abc", "pay_123")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status = \\?, gateway_payment_id = \\?").
		WithArgs("completed", "pay_123", sig, int64(41)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE orders SET payment_status = \\?").
		WithArgs("paid", sqlmock.AnyArg(), int64(301)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := fmt.Sprintf(
		`{"gatewayOrderId": "order_abc", "gatewayPaymentId": "pay_123", "signature": "%s"}`, sig)
	rr := perform(t, http.MethodPost, "/orders/:id/verify-payment", asCustomer(1),
		h.VerifyPayment, "/orders/301/verify-payment", body)

	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Payment verified successfully")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyPaymentBadSignatureMarksFailed(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT o.id, o.store_id, o.order_number").
		WithArgs(int64(301)).
		WillReturnRows(orderRow(301, "pending", nil))
	expectOrderItems(mock, 301)

	mock.ExpectQuery("SELECT id FROM payments WHERE gateway_order_id = \\? AND order_id = \\?").
		WithArgs("order_abc", int64(301)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(41)))

	// A tampered signature must fail the payment, never the order.
	mock.ExpectExec("UPDATE payments SET status = \\?").
		WithArgs("failed", int64(41)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{"gatewayOrderId": "order_abc", "gatewayPaymentId": "pay_123", "signature": "bogus"}`
	rr := perform(t, http.MethodPost, "/orders/:id/verify-payment", asCustomer(1),
		h.VerifyPayment, "/orders/301/verify-payment", body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid payment signature")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyPaymentUnknownGatewayOrder(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT o.id, o.store_id, o.order_number").
		WithArgs(int64(301)).
		WillReturnRows(orderRow(301, "pending", nil))
	expectOrderItems(mock, 301)

	mock.ExpectQuery("SELECT id FROM payments WHERE gateway_order_id = \\? AND order_id = \\?").
		WithArgs("order_zzz", int64(301)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	body := `{"gatewayOrderId": "order_zzz", "gatewayPaymentId": "pay_123", "signature": "x"}`
	rr := perform(t, http.MethodPost, "/orders/:id/verify-payment", asCustomer(1),
		h.VerifyPayment, "/orders/301/verify-payment", body)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Payment not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyPaymentMissingFields(t *testing.T) {
	h, mock := newTestHandlers(t)

	rr := perform(t, http.MethodPost, "/orders/:id/verify-payment", asCustomer(1),
		h.VerifyPayment, "/orders/301/verify-payment", `{"gatewayOrderId": "order_abc"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
