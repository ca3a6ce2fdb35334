package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartSnapshotsPrice(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT price FROM products WHERE id = \\?").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(20.0))

	// The line stores price * quantity as of right now, not a reference
	// to the product's live price.
	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs(int64(1), int64(5), int64(3), 60.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))

	rr := perform(t, http.MethodPost, "/carts", asCustomer(1), h.AddToCart,
		"/carts", `{"product": 5, "quantity": 3}`)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var got struct {
		ID       int64   `json:"id"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, 60.0, got.Price)
	assert.Equal(t, 3, got.Quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToCartUnknownProduct(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT price FROM products WHERE id = \\?").
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}))

	rr := perform(t, http.MethodPost, "/carts", asCustomer(1), h.AddToCart,
		"/carts", `{"product": 999, "quantity": 1}`)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToCartRejectsZeroQuantity(t *testing.T) {
	h, mock := newTestHandlers(t)

	rr := perform(t, http.MethodPost, "/carts", asCustomer(1), h.AddToCart,
		"/carts", `{"product": 5, "quantity": 0}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCartItemRecomputesSnapshot(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT product_id FROM cart_items WHERE id = \\? AND user_id = \\?").
		WithArgs(int64(11), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(int64(5)))

	mock.ExpectQuery("SELECT price FROM products WHERE id = \\?").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(20.0))

	mock.ExpectExec("UPDATE cart_items SET quantity = \\?, price = \\?").
		WithArgs(int64(5), 100.0, sqlmock.AnyArg(), int64(11), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := perform(t, http.MethodPut, "/carts/:id", asCustomer(1), h.UpdateCartItem,
		"/carts/11", `{"quantity": 5}`)

	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCartItemScopedToOwner(t *testing.T) {
	h, mock := newTestHandlers(t)

	// Someone else's line: zero rows deleted surfaces as a 404.
	mock.ExpectExec("DELETE FROM cart_items WHERE id = \\? AND user_id = \\?").
		WithArgs(int64(11), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rr := perform(t, http.MethodDelete, "/carts/:id", asCustomer(2), h.DeleteCartItem,
		"/carts/11", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
