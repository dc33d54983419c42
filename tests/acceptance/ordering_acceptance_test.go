package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/controllers"
	"github.com/chiyadani/chiyadani-api/middleware"
	"github.com/chiyadani/chiyadani-api/models"
	"github.com/chiyadani/chiyadani-api/services"
	"github.com/chiyadani/chiyadani-api/tests/testutil"
)

// OrderingAcceptanceTestSuite drives the whole service over real HTTP, from
// QR scan to settled bill
type OrderingAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	db     *gorm.DB
	cfg    *config.Config
}

func (suite *OrderingAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")
	suite.cfg = testutil.TestConfig()
}

func (suite *OrderingAcceptanceTestSuite) SetupTest() {
	suite.db = testutil.OpenTestDatabase(suite.T())
	suite.NoError(suite.db.Create(&models.Settings{RestaurantName: "Chiyadani", TableCount: 10}).Error)
	suite.NoError(suite.db.Create(&models.MenuItem{Name: "Milk Tea", Category: string(models.CategoryTea), Price: 50, Available: true}).Error)
	suite.NoError(suite.db.Create(&models.MenuItem{Name: "Chocolate Cake", Category: string(models.CategoryPastry), Price: 150, Available: true}).Error)
	testutil.SeedStaff(suite.T(), suite.db, "admin", "admin123", "admin")

	services.InitSessionResolver(suite.db)
	services.InitCartStore()
	services.NewMockOrderEvents().SetAsMockForTesting()
	services.NewMockSubscriptionService().SetAsMockForTesting()
	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()
	services.InitImageService(mockS3)

	suite.server = httptest.NewServer(suite.createRouter())
}

func (suite *OrderingAcceptanceTestSuite) TearDownTest() {
	if suite.server != nil {
		suite.server.Close()
	}
}

func (suite *OrderingAcceptanceTestSuite) createRouter() *gin.Engine {
	router := gin.New()

	v1 := router.Group("/api/v1")
	guarded := v1.Group("", middleware.RequireSubscription())
	{
		guarded.GET("/session", controllers.ResolveSession)
		guarded.POST("/session/scan", controllers.ScanTable)
		guarded.POST("/session/phone", controllers.SavePhone)
		guarded.GET("/table/:table/menu", controllers.ListTableMenu)
		guarded.POST("/table/:table/cart/items", controllers.AddCartItem)
		guarded.POST("/table/:table/orders", controllers.SubmitOrder)
		guarded.POST("/auth/login", controllers.Login)
	}
	staff := guarded.Group("", middleware.EnsureValidToken(suite.cfg))
	{
		staff.GET("/orders", controllers.ListOrders)
		staff.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
		staff.POST("/bills", controllers.CreateBill)
		staff.POST("/bills/:id/pay", controllers.PayBill)
		staff.GET("/transactions", controllers.ListTransactions)
		staff.GET("/dashboard", controllers.GetDashboardStats)
	}

	return router
}

func (suite *OrderingAcceptanceTestSuite) do(method, path, deviceID, token string, body interface{}) (*http.Response, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, suite.server.URL+path, &buf)
	suite.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if deviceID != "" {
		req.Header.Set("X-Device-ID", deviceID)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	suite.NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	suite.NoError(err)
	var parsed map[string]interface{}
	if len(raw) > 0 {
		suite.NoError(json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func data(parsed map[string]interface{}) map[string]interface{} {
	d, _ := parsed["data"].(map[string]interface{})
	return d
}

// TestDineInToSettledBill runs a complete restaurant visit: the customer
// scans, orders and is served; staff bill the table and take payment.
func (suite *OrderingAcceptanceTestSuite) TestDineInToSettledBill() {
	device := "acceptance-device"

	resp, body := suite.do(http.MethodGet, "/api/v1/session", device, "", nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("fresh", data(body)["outcome"])

	resp, _ = suite.do(http.MethodPost, "/api/v1/session/scan", device, "", gin.H{"table": 6})
	suite.Equal(http.StatusOK, resp.StatusCode)
	resp, _ = suite.do(http.MethodPost, "/api/v1/session/phone", device, "", gin.H{"phone": "9841000000"})
	suite.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = suite.do(http.MethodPost, "/api/v1/table/6/cart/items", device, "", gin.H{"menu_item_id": 1})
	suite.Equal(http.StatusOK, resp.StatusCode)
	resp, _ = suite.do(http.MethodPost, "/api/v1/table/6/cart/items", device, "", gin.H{"menu_item_id": 2})
	suite.Equal(http.StatusOK, resp.StatusCode)

	resp, body = suite.do(http.MethodPost, "/api/v1/table/6/orders", device, "", nil)
	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.Equal(float64(200), data(body)["total"])

	// Staff side: log in and walk the order to served
	resp, body = suite.do(http.MethodPost, "/api/v1/auth/login", "", "", gin.H{"username": "admin", "password": "admin123"})
	suite.Equal(http.StatusOK, resp.StatusCode)
	token, _ := data(body)["token"].(string)
	suite.NotEmpty(token)

	for _, status := range []string{"accepted", "preparing", "ready", "served"} {
		resp, _ = suite.do(http.MethodPatch, "/api/v1/orders/1/status", "", token, gin.H{"status": status})
		suite.Equal(http.StatusOK, resp.StatusCode, status)
	}

	// Bill the table with a discount and settle in cash
	resp, body = suite.do(http.MethodPost, "/api/v1/bills", "", token, gin.H{"table": 6, "discount": 20})
	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.Equal(float64(180), data(body)["total"])

	resp, _ = suite.do(http.MethodPost, "/api/v1/bills/1/pay", "", token, gin.H{"payment_method": "cash"})
	suite.Equal(http.StatusOK, resp.StatusCode)

	resp, body = suite.do(http.MethodGet, "/api/v1/dashboard", "", token, nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(float64(180), data(body)["today_revenue"])
	suite.Equal(float64(0), data(body)["active_orders"])

	// The visit also built customer purchase history
	var customer models.Customer
	suite.NoError(suite.db.Where("phone = ?", "9841000000").First(&customer).Error)
	suite.Equal(1, customer.TotalOrders)
	suite.Equal(200, customer.TotalSpent)
}

// TestLockedTableRedirect verifies a request for a table beyond the
// configured count carries the landing redirect
func (suite *OrderingAcceptanceTestSuite) TestLockedTableRedirect() {
	resp, body := suite.do(http.MethodGet, "/api/v1/table/99/menu", "some-device", "", nil)
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	errObj, _ := body["error"].(map[string]interface{})
	suite.Equal("INVALID_TABLE", errObj["code"])
	suite.Equal("/", errObj["redirect"])
}

func TestOrderingAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderingAcceptanceTestSuite))
}
