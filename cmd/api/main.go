package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go-clinic-pos/internal/events"
	"go-clinic-pos/internal/handler"
	"go-clinic-pos/internal/middleware"
	"go-clinic-pos/internal/model"
	"go-clinic-pos/internal/repository"
	"go-clinic-pos/internal/service"
	"go-clinic-pos/internal/ws"
	"go-clinic-pos/pkg/database"

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
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.CatalogItem{}, &model.CatalogSupply{},
		&model.InventoryItem{}, &model.Lot{}, &model.StockMovement{},
		&model.Shift{}, &model.CashMovement{},
		&model.Transaction{}, &model.TransactionLine{}, &model.PaymentTender{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. WebSocket Hub + event bus. Every domain event is broadcast to
	// connected front-desk screens; the patient-flow module listens for
	// ordered studies the same way.
	wsHub := ws.NewHub()
	go wsHub.Run()

	bus := events.NewBus()
	bus.Subscribe(wsHub.Publish)

	// 5. Dependency Injection (Wiring Layers)
	catalogRepo := repository.NewCatalogRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	shiftRepo := repository.NewShiftRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	catalogService := service.NewCatalogService(catalogRepo)
	invService := service.NewInventoryService(inventoryRepo, bus)
	shiftService := service.NewShiftService(shiftRepo, txRepo, bus)
	orderService := service.NewOrderService(catalogRepo, invService, shiftService)
	saleService := service.NewSaleService(orderService, shiftService, invService, catalogRepo, txRepo, bus, paymentEpsilon())
	historyService := service.NewHistoryService(txRepo, shiftRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	// Re-adopt a shift left open by a crash or restart
	if err := shiftService.Restore(); err != nil {
		log.Fatalf("Failed to restore open shift: %v", err)
	}

	catalogHandler := handler.NewCatalogHandler(catalogService)
	invHandler := handler.NewInventoryHandler(invService)
	shiftHandler := handler.NewShiftHandler(shiftService)
	orderHandler := handler.NewOrderHandler(orderService)
	saleHandler := handler.NewSaleHandler(saleService, orderService)
	historyHandler := handler.NewHistoryHandler(historyService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Clinic POS v1.0",
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

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Catalog Routes (read-only price list)
	protected.Get("/catalog", middleware.RequirePrivilege("catalog:view"), catalogHandler.GetCatalog)
	protected.Get("/catalog/code/:code", middleware.RequirePrivilege("catalog:view"), catalogHandler.GetCatalogItemByCode)
	protected.Get("/catalog/:id", middleware.RequirePrivilege("catalog:view"), catalogHandler.GetCatalogItem)

	// Inventory Routes (read-only from the register's point of view)
	protected.Get("/inventory", middleware.RequirePrivilege("inventory:view"), invHandler.GetItems)
	protected.Get("/inventory/:id", middleware.RequirePrivilege("inventory:view"), invHandler.GetItem)
	protected.Get("/inventory/:id/availability", middleware.RequirePrivilege("inventory:view"), invHandler.GetAvailability)
	protected.Get("/inventory/:id/movements", middleware.RequirePrivilege("inventory:view"), invHandler.GetMovements)

	// Shift (cash drawer) Routes
	protected.Post("/shifts/open", middleware.RequirePrivilege("register:open"), shiftHandler.OpenShift)
	protected.Post("/shifts/movements", middleware.RequirePrivilege("register:movement"), shiftHandler.RecordMovement)
	protected.Post("/shifts/close", middleware.RequirePrivilege("register:close"), shiftHandler.CloseShift)
	protected.Get("/shifts/current", shiftHandler.GetCurrentShift)
	protected.Get("/shifts", shiftHandler.GetShifts)
	protected.Get("/shifts/:id", shiftHandler.GetShift)
	protected.Get("/shifts/:id/sales", middleware.RequirePrivilege("history:view"), saleHandler.GetShiftTransactions)

	// Order (cart) Routes
	orders := protected.Group("/orders", middleware.RequirePrivilege("order:manage"))
	orders.Post("", orderHandler.CreateOrder)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Delete("/:id", orderHandler.DiscardOrder)
	orders.Post("/:id/items", orderHandler.AddItem)
	orders.Post("/:id/manual-items", orderHandler.AddManualItem)
	orders.Patch("/:id/lines/:index", orderHandler.UpdateLine)
	orders.Delete("/:id/lines/:index", orderHandler.RemoveLine)
	orders.Put("/:id/discount", orderHandler.SetDiscount)
	orders.Put("/:id/notes", orderHandler.SetNotes)
	orders.Put("/:id/patient", orderHandler.AttachPatient)

	// Sale Routes
	protected.Post("/sales", middleware.RequirePrivilege("sale:create"), saleHandler.CommitSale)
	protected.Get("/sales/:id", middleware.RequirePrivilege("history:view"), saleHandler.GetTransaction)

	// History Routes
	protected.Get("/history", middleware.RequirePrivilege("history:view"), historyHandler.GetFeed)
	protected.Get("/history/summary", middleware.RequirePrivilege("history:view"), historyHandler.GetDaySummary)

	// User Management Routes (with privilege checks)
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update"), userHandler.UpdateUserPrivileges)

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

// paymentEpsilon reads PAYMENT_EPSILON, falling back to the default
// tolerance when unset or invalid.
func paymentEpsilon() float64 {
	raw := os.Getenv("PAYMENT_EPSILON")
	if raw == "" {
		return service.DefaultPaymentEpsilon
	}
	eps, err := strconv.ParseFloat(raw, 64)
	if err != nil || eps <= 0 {
		log.Printf("Warning: invalid PAYMENT_EPSILON %q, using default", raw)
		return service.DefaultPaymentEpsilon
	}
	return eps
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
		log.Println("MASTER_ADMIN role assigned all privileges")
	}

	// CASHIER runs the register but never manages staff
	cashierRole, err := roleRepo.FindByCode(model.RoleCashier)
	if err == nil && len(cashierRole.Privileges) == 0 {
		cashierPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" {
				cashierPrivileges = append(cashierPrivileges, p)
			}
		}
		db.Model(&cashierRole).Association("Privileges").Replace(cashierPrivileges)
		log.Println("CASHIER role assigned register privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
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
			log.Println("Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
