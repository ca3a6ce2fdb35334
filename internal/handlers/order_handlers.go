package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/grocerydash/grocery-dashboard-golang/internal/models"
)

//
// --- Order Handlers ---
//

// OrderItemInput is one proposed line of an order.
type OrderItemInput struct {
	Product  int64   `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderCustomerInput is the contact snapshot submitted with an order.
type OrderCustomerInput struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	ShippingAddress string  `json:"shippingAddress"`
	BillingAddress  *string `json:"billingAddress"`
}

// OrderInput is one proposed order in the batch.
type OrderInput struct {
	Store         int64               `json:"store"`
	Customer      *OrderCustomerInput `json:"customer"`
	Items         []OrderItemInput    `json:"items"`
	TotalAmount   float64             `json:"totalAmount"`
	PaymentMethod string              `json:"paymentMethod"`
	Notes         *string             `json:"notes"`
}

// PlaceOrdersInput is the body of POST /api/orders.
type PlaceOrdersInput struct {
	Orders []OrderInput `json:"orders"`
}

// validateOrderInput checks a proposed order before any database work.
// It returns a message naming what is wrong, or "" when the entry is
// well formed.
func validateOrderInput(input OrderInput) string {
	var missing []string
	if input.Store == 0 {
		missing = append(missing, "store")
	}
	if input.Customer == nil {
		missing = append(missing, "customer")
	}
	if input.TotalAmount == 0 {
		missing = append(missing, "totalAmount")
	}
	if input.PaymentMethod == "" {
		missing = append(missing, "paymentMethod")
	}
	if len(missing) > 0 {
		return "Missing required fields " + strings.Join(missing, ",")
	}

	if len(input.Items) == 0 {
		return "Items are required"
	}

	if input.Customer.Name == "" || input.Customer.Email == "" || input.Customer.ShippingAddress == "" {
		return "Invalid customer structure"
	}

	for _, item := range input.Items {
		if item.Product == 0 || item.Quantity < 1 || item.Price <= 0 {
			return "Invalid items structure"
		}
	}

	return ""
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (the retry signal for the random order-number suffix).
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// placeOrder runs one order entry end to end inside a transaction:
// product resolution, the conditional stock decrements, the order and
// item inserts, and the pending payment record for non-COD methods.
// Stock can never go negative: each decrement carries a "stock >= qty"
// predicate, and any failed line rolls the whole entry back.
//
// It returns the created order, or a client status + message.
func (h *Handlers) placeOrder(userID int64, input OrderInput) (*models.Order, int, string) {
	tx, err := h.DB.Begin()
	if err != nil {
		return nil, http.StatusInternalServerError, "Failed to start transaction"
	}
	defer tx.Rollback() // Safety net; no-op after Commit.

	// 1. --- Resolve Products (scoped to the claimed store) ---
	placeholders := strings.Repeat("?,", len(input.Items)-1) + "?"
	args := []any{input.Store}
	for _, item := range input.Items {
		args = append(args, item.Product)
	}

	type productInfo struct {
		name  string
		stock int
	}
	found := map[int64]productInfo{}

	rows, err := tx.Query(
		"SELECT id, name, stock FROM products WHERE store_id = ? AND id IN ("+placeholders+")",
		args...)
	if err != nil {
		return nil, http.StatusInternalServerError, "Failed to resolve products"
	}
	for rows.Next() {
		var id int64
		var info productInfo
		if err := rows.Scan(&id, &info.name, &info.stock); err != nil {
			rows.Close()
			return nil, http.StatusInternalServerError, "Failed to scan product"
		}
		found[id] = info
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, http.StatusInternalServerError, "Failed to resolve products"
	}

	for _, item := range input.Items {
		info, ok := found[item.Product]
		if !ok {
			return nil, http.StatusBadRequest,
				fmt.Sprintf("Product with ID %d does not exist in this store", item.Product)
		}
		if info.stock < item.Quantity {
			return nil, http.StatusBadRequest,
				fmt.Sprintf("Insufficient quantity for product %s", info.name)
		}
	}

	// 2. --- Decrement Stock ---
	// The WHERE predicate re-checks stock so two concurrent orders can
	// never both take the last units; the loser rolls back untouched.
	now := time.Now()
	for _, item := range input.Items {
		result, err := tx.Exec(
			"UPDATE products SET stock = stock - ?, updated_at = ? WHERE id = ? AND stock >= ?",
			item.Quantity, now, item.Product, item.Quantity)
		if err != nil {
			return nil, http.StatusInternalServerError, "Failed to update stock"
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, http.StatusInternalServerError, "Failed to check affected rows"
		}
		if rowsAffected == 0 {
			return nil, http.StatusBadRequest,
				fmt.Sprintf("Insufficient quantity for product %s", found[item.Product].name)
		}
	}

	// 3. --- Create the Order ---
	// The 4-digit order-number suffix is random; retry on the rare
	// collision with the unique index.
	var orderID int64
	var orderNumber string
	for attempt := 0; ; attempt++ {
		orderNumber = models.NewOrderNumber(now)
		result, err := tx.Exec(`
			INSERT INTO orders (store_id, order_number, customer_id, customer_name,
			                    customer_email, customer_phone, shipping_address, billing_address,
			                    total_amount, status, payment_status, payment_method, notes,
			                    created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			input.Store, orderNumber, userID, input.Customer.Name,
			input.Customer.Email, input.Customer.Phone, input.Customer.ShippingAddress,
			input.Customer.BillingAddress, input.TotalAmount, models.StatusPending,
			models.PaymentPending, input.PaymentMethod, input.Notes, now, now)
		if err != nil {
			if isDuplicateKey(err) && attempt < 4 {
				continue
			}
			return nil, http.StatusInternalServerError, "Failed to create order"
		}
		orderID, err = result.LastInsertId()
		if err != nil {
			return nil, http.StatusInternalServerError, "Failed to get new order ID"
		}
		break
	}

	order := &models.Order{
		ID:          orderID,
		StoreID:     input.Store,
		OrderNumber: orderNumber,
		Customer: models.OrderCustomer{
			ID:              userID,
			Name:            input.Customer.Name,
			Email:           input.Customer.Email,
			Phone:           input.Customer.Phone,
			ShippingAddress: input.Customer.ShippingAddress,
			BillingAddress:  input.Customer.BillingAddress,
		},
		TotalAmount:   input.TotalAmount,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// 4. --- Create the Order Items ---
	for _, item := range input.Items {
		result, err := tx.Exec(
			"INSERT INTO order_items (order_id, product_id, quantity, price) VALUES (?, ?, ?, ?)",
			orderID, item.Product, item.Quantity, item.Price)
		if err != nil {
			return nil, http.StatusInternalServerError, "Failed to save order item"
		}
		itemID, _ := result.LastInsertId()
		order.Items = append(order.Items, models.OrderItem{
			ID:          itemID,
			OrderID:     orderID,
			ProductID:   item.Product,
			Quantity:    item.Quantity,
			Price:       item.Price,
			ProductName: found[item.Product].name,
		})
	}

	// 5. --- Open a Payment Record (non-COD only) ---
	// The gateway order id is a local stub until a real gateway
	// integration creates one; verify-payment matches against it.
	if !strings.EqualFold(input.PaymentMethod, "cod") {
		gatewayOrderID := "order_" + uuid.NewString()
		if _, err := tx.Exec(`
			INSERT INTO payments (order_id, gateway_order_id, status, created_at)
			VALUES (?, ?, ?, ?)`,
			orderID, gatewayOrderID, models.PaymentRecordPending, now); err != nil {
			return nil, http.StatusInternalServerError, "Failed to create payment record"
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, http.StatusInternalServerError, "Failed to commit order"
	}

	return order, 0, ""
}

// PlaceOrders is the handler for POST /api/orders.
// The body carries a batch of proposed orders. Entries are processed
// in order and the batch short-circuits on the first failure: earlier
// entries stay committed, later ones are not attempted.
func (h *Handlers) PlaceOrders(c *gin.Context) {
	userID := customerID(c)

	var input PlaceOrdersInput
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Orders) == 0 {
		respondError(c, http.StatusBadRequest, "Invalid order data")
		return
	}

	createdOrders := []*models.Order{}
	for _, entry := range input.Orders {
		if msg := validateOrderInput(entry); msg != "" {
			respondError(c, http.StatusBadRequest, msg)
			return
		}

		order, status, msg := h.placeOrder(userID, entry)
		if status != 0 {
			respondError(c, status, msg)
			return
		}
		createdOrders = append(createdOrders, order)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Orders placed successfully",
		"orders":  createdOrders,
	})
}

//
// --- Order Retrieval ---
//

const orderSelect = `
	SELECT o.id, o.store_id, o.order_number, o.customer_id, o.customer_name,
	       o.customer_email, o.customer_phone, o.shipping_address, o.billing_address,
	       o.total_amount, o.status, o.payment_status, o.payment_method, o.notes,
	       o.courier_id, o.created_at, o.updated_at, s.name
	FROM orders o
	LEFT JOIN stores s ON o.store_id = s.id`

var orderSortKeys = map[string]string{
	"createdAt":   "o.created_at",
	"totalAmount": "o.total_amount",
	"status":      "o.status",
}

func scanOrder(row scanner) (*models.Order, error) {
	var order models.Order
	var phone, storeName sql.NullString

	err := row.Scan(
		&order.ID, &order.StoreID, &order.OrderNumber, &order.Customer.ID,
		&order.Customer.Name, &order.Customer.Email, &phone,
		&order.Customer.ShippingAddress, &order.Customer.BillingAddress,
		&order.TotalAmount, &order.Status, &order.PaymentStatus, &order.PaymentMethod,
		&order.Notes, &order.CourierID, &order.CreatedAt, &order.UpdatedAt, &storeName,
	)
	if err != nil {
		return nil, err
	}

	order.Customer.Phone = phone.String
	order.StoreName = storeName.String
	return &order, nil
}

// queryOrders runs an orderSelect-shaped query and attaches the line
// items of every returned order.
func (h *Handlers) queryOrders(query string, args ...any) ([]*models.Order, error) {
	rows, err := h.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := h.loadOrderItems(order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// loadOrderItems fills in an order's lines, joined with product names.
func (h *Handlers) loadOrderItems(order *models.Order) error {
	rows, err := h.DB.Query(`
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, p.name
		FROM order_items oi
		LEFT JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = ?`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		var productName sql.NullString
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Quantity, &item.Price, &productName); err != nil {
			return err
		}
		item.ProductName = productName.String
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

// findOrder fetches one order by numeric id or by order number, with
// an optional extra WHERE fragment.
func (h *Handlers) findOrder(ref string, extraWhere string, extraArgs ...any) (*models.Order, error) {
	where := " WHERE o.order_number = ?"
	args := []any{ref}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		where = " WHERE o.id = ?"
		args = []any{id}
	}
	if extraWhere != "" {
		where += " AND " + extraWhere
		args = append(args, extraArgs...)
	}

	order, err := scanOrder(h.DB.QueryRow(orderSelect+where, args...))
	if err != nil {
		return nil, err
	}
	if err := h.loadOrderItems(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListMyOrders is the handler for GET /api/orders.
func (h *Handlers) ListMyOrders(c *gin.Context) {
	userID := customerID(c)
	limit, offset := pageParams(c, 10)
	orderBy := sortClause(c, orderSortKeys, "createdAt")

	orders, err := h.queryOrders(
		orderSelect+" WHERE o.customer_id = ? ORDER BY "+orderBy+" LIMIT ? OFFSET ?",
		userID, limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder is the handler for GET /api/orders/:id.
// The path parameter may be the numeric id or the order number.
func (h *Handlers) GetOrder(c *gin.Context) {
	order, err := h.findOrder(c.Param("id"), "")
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

//
// --- Store-Admin Dashboard ---
//

// ListStoreOrders is the handler for GET /api/orders/all/dashboard.
// It returns the orders of the admin's own store.
func (h *Handlers) ListStoreOrders(c *gin.Context) {
	storeID := adminStoreID(c)
	if storeID == 0 {
		respondError(c, http.StatusBadRequest, "Create a store to view orders")
		return
	}

	limit, offset := pageParams(c, 10)
	orderBy := sortClause(c, orderSortKeys, "createdAt")

	orders, err := h.queryOrders(
		orderSelect+" WHERE o.store_id = ? ORDER BY "+orderBy+" LIMIT ? OFFSET ?",
		storeID, limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetStoreOrder is the handler for GET /api/orders/:id/dashboard.
func (h *Handlers) GetStoreOrder(c *gin.Context) {
	storeID := adminStoreID(c)
	if storeID == 0 {
		respondError(c, http.StatusBadRequest, "Create a store to view orders")
		return
	}

	order, err := h.findOrder(c.Param("id"), "o.store_id = ?", storeID)
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
