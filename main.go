package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/controllers"
	"github.com/chiyadani/chiyadani-api/middleware"
	"github.com/chiyadani/chiyadani-api/models"
	"github.com/chiyadani/chiyadani-api/services"
)

func main() {
	log.Println("Starting Chiyadani table-ordering API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Settings{},
		&models.Staff{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.SessionEntry{},
		&models.Bill{},
		&models.Transaction{},
		&models.Customer{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if err := seedDefaults(db); err != nil {
		log.Fatalf("Failed to seed defaults: %v", err)
	}

	// Wire services
	services.InitSessionResolver(db)
	services.InitCartStore()
	services.InitSubscriptionService(cfg)

	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)

	if _, err := services.InitOrderEvents(cfg.AMQPURL); err != nil {
		log.Fatalf("Failed to connect to message broker: %v", err)
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the full route tree. The subscription guard wraps
// everything except health and the subscription endpoints themselves, so a
// locked install can still refresh its verdict.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		v1.GET("/subscription", controllers.GetSubscriptionStatus)
		v1.POST("/subscription/refresh", controllers.RefreshSubscription)
	}

	guarded := v1.Group("", middleware.RequireSubscription())
	{
		// Customer-facing surface
		guarded.GET("/session", controllers.ResolveSession)
		guarded.POST("/session/scan", controllers.ScanTable)
		guarded.POST("/session/phone", controllers.SavePhone)
		guarded.POST("/session/install-prompt", controllers.DismissInstallPrompt)

		guarded.GET("/settings", controllers.GetPublicSettings)

		guarded.GET("/table/:table/menu", controllers.ListTableMenu)
		guarded.GET("/table/:table/cart", controllers.GetCart)
		guarded.POST("/table/:table/cart/items", controllers.AddCartItem)
		guarded.PATCH("/table/:table/cart/items/:menuItemId", controllers.UpdateCartItem)
		guarded.PUT("/table/:table/cart/notes", controllers.SetCartNotes)
		guarded.POST("/table/:table/orders", controllers.SubmitOrder)

		// Staff login
		guarded.POST("/auth/login", controllers.Login)
	}

	staff := guarded.Group("", middleware.EnsureValidToken(cfg))
	{
		staff.GET("/auth/me", controllers.Me)

		staff.GET("/menu", controllers.ListMenu)

		staff.GET("/orders", controllers.ListOrders)
		staff.GET("/orders/:id", controllers.GetOrder)
		staff.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)

		staff.POST("/bills", controllers.CreateBill)
		staff.GET("/bills", controllers.ListBills)
		staff.POST("/bills/:id/pay", controllers.PayBill)
		staff.GET("/transactions", controllers.ListTransactions)

		staff.GET("/dashboard", controllers.GetDashboardStats)
	}

	admin := staff.Group("", middleware.RequireAdmin())
	{
		admin.POST("/menu", controllers.CreateMenuItem)
		admin.PATCH("/menu/:id", controllers.UpdateMenuItem)
		admin.DELETE("/menu/:id", controllers.DeleteMenuItem)
		admin.POST("/menu/:id/image", controllers.UploadMenuItemImage)

		admin.GET("/admin/settings", controllers.GetSettings)
		admin.PUT("/admin/settings", controllers.UpdateSettings)
		admin.GET("/admin/settings/qrcodes", controllers.ListTableQRCodes)
		admin.POST("/settings/logo", controllers.UploadLogo)
	}

	return router
}

// seedDefaults creates the settings row, demo staff accounts and a starter
// menu on first boot. Existing data is never touched.
func seedDefaults(db *gorm.DB) error {
	var settingsCount int64
	if err := db.Model(&models.Settings{}).Count(&settingsCount).Error; err != nil {
		return err
	}
	if settingsCount == 0 {
		settings := models.Settings{
			RestaurantName: "Chiyadani",
			TableCount:     10,
			BaseURL:        "https://chiyadani.example.com",
		}
		if err := db.Create(&settings).Error; err != nil {
			return err
		}
		log.Println("Seeded default settings")
	}

	var staffCount int64
	if err := db.Model(&models.Staff{}).Count(&staffCount).Error; err != nil {
		return err
	}
	if staffCount == 0 {
		for _, account := range []struct {
			username, password, name, role string
		}{
			{"admin", "admin123", "Administrator", "admin"},
			{"counter", "counter123", "Counter Staff", "counter"},
		} {
			hash, err := services.HashPassword(account.password)
			if err != nil {
				return err
			}
			staff := models.Staff{
				Username:     account.username,
				PasswordHash: hash,
				Name:         account.name,
				Role:         account.role,
			}
			if err := db.Create(&staff).Error; err != nil {
				return err
			}
		}
		log.Println("Seeded demo staff accounts")
	}

	var menuCount int64
	if err := db.Model(&models.MenuItem{}).Count(&menuCount).Error; err != nil {
		return err
	}
	if menuCount == 0 {
		items := []models.MenuItem{
			{Name: "Milk Tea", Price: 50, Category: string(models.CategoryTea), Available: true},
			{Name: "Black Tea", Price: 30, Category: string(models.CategoryTea), Available: true},
			{Name: "French Fries", Price: 120, Category: string(models.CategorySnacks), Available: true},
			{Name: "Samosa", Price: 40, Category: string(models.CategorySnacks), Available: true},
			{Name: "Lemonade", Price: 80, Category: string(models.CategoryColdDrink), Available: true},
			{Name: "Chocolate Cake", Price: 150, Category: string(models.CategoryPastry), Available: true},
		}
		if err := db.Create(&items).Error; err != nil {
			return err
		}
		log.Println("Seeded starter menu")
	}

	return nil
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Chiyadani API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
