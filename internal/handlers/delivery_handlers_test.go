package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var orderColumns = []string{
	"id", "store_id", "order_number", "customer_id", "customer_name",
	"customer_email", "customer_phone", "shipping_address", "billing_address",
	"total_amount", "status", "payment_status", "payment_method", "notes",
	"courier_id", "created_at", "updated_at", "name",
}

// orderRow builds a full orders row in orderSelect column order.
func orderRow(id int64, status string, courierID any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(orderColumns).AddRow(
		id, int64(3), "ORD-2608-0421", int64(1), "Asha Rao",
		"asha@example.com", "9876543210", "12 Hill Road, Pune", nil,
		40.0, status, "pending", "cod", nil,
		courierID, now, now, "Fresh Mart")
}

func expectOrderItems(mock sqlmock.Sqlmock, orderID int64) {
	mock.ExpectQuery("SELECT oi.id, oi.order_id, oi.product_id").
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "order_id", "product_id", "quantity", "price", "name"}).
			AddRow(int64(901), orderID, int64(5), 2, 20.0, "Basmati Rice 5kg"))
}

func TestUpdateDeliveryStatusRejectsUnknownStatus(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT status, courier_id FROM orders WHERE id = \\?").
		WithArgs(int64(301)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "courier_id"}).
			AddRow("ready_for_pickup", nil))

	rr := perform(t, http.MethodPut, "/delivery/orders/:id/status", asCourier(9),
		h.UpdateDeliveryStatus, "/delivery/orders/301/status", `{"status": "refunded"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(),
		"Invalid status. Allowed statuses are: out_for_delivery, delivered, cancelled")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeliveryStatusAlreadyPickedUp(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT status, courier_id FROM orders WHERE id = \\?").
		WithArgs(int64(301)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "courier_id"}).
			AddRow("out_for_delivery", int64(4)))

	rr := perform(t, http.MethodPut, "/delivery/orders/:id/status", asCourier(9),
		h.UpdateDeliveryStatus, "/delivery/orders/301/status", `{"status": "out_for_delivery"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Order already picked up")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeliveryStatusPickupAssignsCourier(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT status, courier_id FROM orders WHERE id = \\?").
		WithArgs(int64(301)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "courier_id"}).
			AddRow("ready_for_pickup", nil))

	mock.ExpectExec("UPDATE orders SET status = \\?, courier_id = \\?").
		WithArgs("out_for_delivery", int64(9), sqlmock.AnyArg(), int64(301), "out_for_delivery").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery("SELECT o.id, o.store_id, o.order_number").
		WithArgs(int64(301)).
		WillReturnRows(orderRow(301, "out_for_delivery", int64(9)))
	expectOrderItems(mock, 301)

	rr := perform(t, http.MethodPut, "/delivery/orders/:id/status", asCourier(9),
		h.UpdateDeliveryStatus, "/delivery/orders/301/status", `{"status": "out_for_delivery"}`)

	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Order status updated successfully")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeliveryStatusPickupRaceLoses(t *testing.T) {
	h, mock := newTestHandlers(t)

	// The read said unassigned, but another courier claimed the order
	// in between: the conditional UPDATE touches zero rows.
	mock.ExpectQuery("SELECT status, courier_id FROM orders WHERE id = \\?").
		WithArgs(int64(301)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "courier_id"}).
			AddRow("ready_for_pickup", nil))

	mock.ExpectExec("UPDATE orders SET status = \\?, courier_id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rr := perform(t, http.MethodPut, "/delivery/orders/:id/status", asCourier(9),
		h.UpdateDeliveryStatus, "/delivery/orders/301/status", `{"status": "out_for_delivery"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Order already assigned to a delivery person")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeliveryStatusDeliveredMarksPaid(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT status, courier_id FROM orders WHERE id = \\?").
		WithArgs(int64(301)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "courier_id"}).
			AddRow("out_for_delivery", int64(9)))

	mock.ExpectExec("UPDATE orders SET status = \\?, payment_status = \\?").
		WithArgs("delivered", "paid", sqlmock.AnyArg(), int64(301)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery("SELECT o.id, o.store_id, o.order_number").
		WithArgs(int64(301)).
		WillReturnRows(orderRow(301, "delivered", int64(9)))
	expectOrderItems(mock, 301)

	rr := perform(t, http.MethodPut, "/delivery/orders/:id/status", asCourier(9),
		h.UpdateDeliveryStatus, "/delivery/orders/301/status", `{"status": "delivered"}`)

	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeliveryStatusInvalidID(t *testing.T) {
	h, mock := newTestHandlers(t)

	rr := perform(t, http.MethodPut, "/delivery/orders/:id/status", asCourier(9),
		h.UpdateDeliveryStatus, "/delivery/orders/ORD-2608-0421/status", `{"status": "delivered"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid order ID")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDeliveryOrderHidesPending(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT o.id, o.store_id, o.order_number").
		WithArgs(int64(301), "pending").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	rr := perform(t, http.MethodGet, "/delivery/orders/:id", asCourier(9),
		h.GetDeliveryOrder, "/delivery/orders/301", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
