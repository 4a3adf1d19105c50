package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/akramer2025-dev/brandstore-sub001/internal/handler"
	"github.com/akramer2025-dev/brandstore-sub001/internal/middleware"
	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"
	"github.com/akramer2025-dev/brandstore-sub001/internal/service"
	"github.com/akramer2025-dev/brandstore-sub001/internal/ws"
	"github.com/akramer2025-dev/brandstore-sub001/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Vendor{}, &model.CapitalTransaction{},
		&model.Product{},
		&model.OfflineSupplier{}, &model.OfflineProduct{}, &model.SupplierPayment{},
		&model.RawMaterial{}, &model.MaterialMovement{},
		&model.Fabric{}, &model.FabricCut{},
		&model.Production{}, &model.ProductionMaterial{},
		&model.Notification{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	capitalRepo := repository.NewCapitalRepo(db)
	productRepo := repository.NewProductRepo(db)
	offlineRepo := repository.NewOfflineRepo(db)
	warehouseRepo := repository.NewWarehouseRepo(db)
	productionRepo := repository.NewProductionRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)

	notificationService := service.NewNotificationService(notificationRepo, wsHub)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo, vendorRepo)
	vendorService := service.NewVendorService(vendorRepo)
	capitalService := service.NewCapitalService(capitalRepo, vendorRepo, db, notificationService)
	productService := service.NewProductService(productRepo, capitalRepo, offlineRepo, db, wsHub, notificationService)
	offlineService := service.NewOfflineService(offlineRepo, vendorRepo, db, notificationService)
	warehouseService := service.NewWarehouseService(warehouseRepo, db, wsHub)
	productionService := service.NewProductionService(productionRepo, warehouseRepo, productRepo, db, notificationService)
	dashboardService := service.NewDashboardService(capitalRepo, productRepo, offlineRepo, warehouseRepo, notificationRepo)
	facebookService := service.NewFacebookService(productRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)
	vendorHandler := handler.NewVendorHandler(vendorService)
	capitalHandler := handler.NewCapitalHandler(capitalService)
	productHandler := handler.NewProductHandler(productService)
	offlineHandler := handler.NewOfflineHandler(offlineService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	productionHandler := handler.NewProductionHandler(productionService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	reportHandler := handler.NewReportHandler(offlineService)
	facebookHandler := handler.NewFacebookHandler(facebookService)
	chatHandler := handler.NewChatHandler()
	uploadHandler := handler.NewUploadHandler()

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Brandstore Platform v1.0",
		BodyLimit: 10 * 1024 * 1024,
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat) // Heartbeat uses Auth but available to all authenticated

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Vendor scope: VENDOR users are pinned to their store, admins pass vendor_id
	vendorScoped := protected.Group("", middleware.RequireVendorScope())

	// Dashboard Routes
	vendorScoped.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashboardHandler.GetVendorStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePrivilege("dashboard:view"), dashboardHandler.GetStockMovement)

	// Vendor Management Routes (admin console)
	protected.Get("/vendors", vendorHandler.GetVendors)
	protected.Get("/vendors/:id", vendorHandler.GetVendor)
	protected.Post("/vendors", middleware.RequirePrivilege("user:create"), vendorHandler.CreateVendor)
	protected.Put("/vendors/:id", middleware.RequirePrivilege("user:update"), vendorHandler.UpdateVendor)
	protected.Put("/vendors/:id/active", middleware.RequirePrivilege("user:update"), vendorHandler.SetActive)

	// Capital Ledger Routes
	vendorScoped.Get("/vendor/capital", middleware.RequirePrivilege("capital:view"), capitalHandler.GetLedger)
	vendorScoped.Post("/vendor/capital/deposit", middleware.RequirePrivilege("capital:deposit"), capitalHandler.Deposit)
	vendorScoped.Post("/vendor/capital/withdraw", middleware.RequirePrivilege("capital:withdraw"), capitalHandler.Withdraw)

	// Product Routes
	vendorScoped.Get("/products", middleware.RequirePrivilege("product:view"), productHandler.GetProducts)
	vendorScoped.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.CreateProduct)
	protected.Get("/products/:id", middleware.RequirePrivilege("product:view"), productHandler.GetProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateProduct)
	protected.Post("/products/:id/sale", middleware.RequirePrivilege("product:sale"), productHandler.RecordSale)
	protected.Put("/products/:id/visibility", middleware.RequirePrivilege("product:update"), productHandler.SetVisibility)

	// Offline Bookkeeping Routes
	vendorScoped.Get("/vendor/offline-suppliers", middleware.RequirePrivilege("offline:view"), offlineHandler.GetSuppliers)
	vendorScoped.Post("/vendor/offline-suppliers", middleware.RequirePrivilege("offline:manage"), offlineHandler.CreateSupplier)
	protected.Post("/vendor/offline-suppliers/:id/payments", middleware.RequirePrivilege("offline:payment"), offlineHandler.PaySupplier)
	vendorScoped.Get("/vendor/offline-products", middleware.RequirePrivilege("offline:view"), offlineHandler.GetOfflineProducts)
	vendorScoped.Post("/vendor/offline-products", middleware.RequirePrivilege("offline:manage"), offlineHandler.CreateOfflineProduct)
	protected.Post("/vendor/offline-products/:id/sale", middleware.RequirePrivilege("offline:manage"), offlineHandler.RecordOfflineSale)
	vendorScoped.Get("/vendor/offline-products/report", middleware.RequirePrivilege("offline:view"), offlineHandler.GetReport)
	vendorScoped.Get("/vendor/offline-products/report/export", middleware.RequirePrivilege("report:export"), reportHandler.ExportOfflineReport)

	// Warehouse Routes
	protected.Get("/materials", middleware.RequirePrivilege("material:view"), warehouseHandler.GetMaterials)
	protected.Post("/materials", middleware.RequirePrivilege("material:create"), warehouseHandler.CreateMaterial)
	protected.Get("/materials/movement", middleware.RequirePrivilege("material:view"), warehouseHandler.GetMovements)
	protected.Post("/materials/movement", middleware.RequirePrivilege("material:movement"), warehouseHandler.RecordMovement)
	vendorScoped.Get("/fabrics", middleware.RequirePrivilege("fabric:manage"), warehouseHandler.GetFabrics)
	vendorScoped.Post("/fabrics", middleware.RequirePrivilege("fabric:manage"), warehouseHandler.CreateFabric)
	protected.Post("/fabrics/:id/cuts", middleware.RequirePrivilege("fabric:manage"), warehouseHandler.CutFabric)

	// Production Routes
	protected.Get("/production", middleware.RequirePrivilege("production:view"), productionHandler.GetProductions)
	protected.Post("/production", middleware.RequirePrivilege("production:create"), productionHandler.CompleteOrder)

	// Notification Routes
	vendorScoped.Get("/vendor/notifications", notificationHandler.Poll)
	vendorScoped.Put("/vendor/notifications/read", notificationHandler.MarkAllRead)

	// Facebook Ads Routes
	vendorScoped.Post("/facebook/fix-missing-ads", middleware.RequirePrivilege("facebook:manage"), facebookHandler.FixMissingAds)

	// Proxy Routes (chat assistant + image upload)
	protected.Post("/chat", chatHandler.Chat)
	protected.Post("/upload", uploadHandler.Upload)

	// User Management Routes (with privilege checks)
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("✅ MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets limited privileges (exclude user management)
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			// Exclude user creation, update, delete, and privilege update
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Println("✅ ADMIN role assigned limited privileges")
	}

	// VENDOR gets the store-facing privileges only
	vendorRole, err := roleRepo.FindByCode(model.RoleVendor)
	if err == nil && len(vendorRole.Privileges) == 0 {
		vendorPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			switch p.Code {
			case "product:view", "product:create", "product:update", "product:sale",
				"capital:view", "capital:deposit", "capital:withdraw",
				"offline:view", "offline:manage", "offline:payment",
				"material:view", "material:create", "material:movement",
				"fabric:manage", "production:view", "production:create",
				"dashboard:view", "report:export", "facebook:manage":
				vendorPrivileges = append(vendorPrivileges, p)
			}
		}
		db.Model(&vendorRole).Association("Privileges").Replace(vendorPrivileges)
		log.Println("✅ VENDOR role assigned store privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		// Create admin user
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
