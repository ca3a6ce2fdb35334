package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/grocerydash/grocery-dashboard-golang/internal/middleware"
	"github.com/grocerydash/grocery-dashboard-golang/internal/payment"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestHandlers returns a Handlers wired to a sqlmock database and a
// fixed gateway secret.
func newTestHandlers(t *testing.T) (*Handlers, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Handlers{DB: db, Gateway: payment.NewHMACVerifier("test-gateway-secret")}, mock
}

// Auth-middleware stand-ins. Tests exercise the handlers directly and
// inject the principal the real middleware would have resolved.

func asPublic() gin.HandlerFunc {
	return func(c *gin.Context) {}
}

func asCustomer(id int64) gin.HandlerFunc {
	return func(c *gin.Context) { c.Set(middleware.CtxUserID, id) }
}

func asAdmin(adminID, storeID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxAdminID, adminID)
		c.Set(middleware.CtxStoreID, storeID)
	}
}

func asCourier(id int64) gin.HandlerFunc {
	return func(c *gin.Context) { c.Set(middleware.CtxCourierID, id) }
}

// perform registers one route and plays a single request against it.
func perform(t *testing.T, method, pattern string, principal gin.HandlerFunc,
	handler gin.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.Handle(method, pattern, principal, handler)

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
