package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-warehouse-ws/internal/handler"
	"go-warehouse-ws/internal/middleware"
	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
	"go-warehouse-ws/internal/service"
	"go-warehouse-ws/internal/ws"
	"go-warehouse-ws/pkg/database"
	"go-warehouse-ws/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
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
	db.AutoMigrate(
		&model.User{},
		&model.InventoryItem{},
		&model.Transaction{},
		&model.ExchangeQueueItem{},
		&model.BomGuide{},
		&model.WarehouseZone{},
		&model.WorkDiary{},
		&model.WorkDiaryComment{},
		&model.WorkNotification{},
		&model.StoredFile{},
	)

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	itemRepo := repository.NewItemRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	exchangeRepo := repository.NewExchangeRepo(db)
	bomRepo := repository.NewBomRepo(db)
	warehouseRepo := repository.NewWarehouseRepo(db)
	diaryRepo := repository.NewDiaryRepo(db)
	fileRepo := repository.NewFileRepo(db)

	// Inventory and exchange mutate the same stock rows, so they share one
	// per-code lock registry
	stockLocks := service.NewCodeLocks()
	invService := service.NewInventoryService(itemRepo, txRepo, exchangeRepo, db, wsHub, stockLocks)
	exchangeService := service.NewExchangeService(exchangeRepo, itemRepo, txRepo, db, stockLocks)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	bomService := service.NewBomService(bomRepo, itemRepo)
	warehouseService := service.NewWarehouseService(warehouseRepo)
	dashService := service.NewDashboardService(itemRepo, txRepo, exchangeRepo)
	diaryService := service.NewDiaryService(diaryRepo, userRepo, wsHub)
	exportService := service.NewExportService(itemRepo, txRepo, bomRepo)
	fileService := service.NewFileService(fileRepo, os.Getenv("UPLOAD_DIR"))
	systemService := service.NewSystemService(db)

	// 5. Seed default admin user and warehouse layout
	seedAdminAndLayout(db, userRepo, warehouseService)

	invHandler := handler.NewInventoryHandler(invService, exchangeService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	bomHandler := handler.NewBomHandler(bomService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	dashHandler := handler.NewDashboardHandler(dashService)
	diaryHandler := handler.NewDiaryHandler(diaryService)
	exportHandler := handler.NewExportHandler(exportService)
	fileHandler := handler.NewFileHandler(fileService)
	systemHandler := handler.NewSystemHandler(systemService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Warehouse Inventory WS v1.0",
		BodyLimit: 50 * 1024 * 1024,
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Get("/me", middleware.RequireAuth(userRepo), authHandler.Me)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Inventory Routes
	protected.Get("/inventory", invHandler.GetItems)
	protected.Get("/inventory/:code", invHandler.GetItem)
	protected.Post("/inventory", middleware.RequirePermission(model.PermManageInventory), invHandler.CreateItem)
	protected.Put("/inventory/:code", middleware.RequirePermission(model.PermManageInventory), invHandler.UpdateItem)
	protected.Delete("/inventory/:code", middleware.RequirePermission(model.PermManageInventory), invHandler.DeleteItem)
	protected.Put("/inventory/:id/stock", middleware.RequirePermission(model.PermManageInventory), invHandler.AdjustStock)

	// Transaction Routes
	protected.Get("/transactions", invHandler.GetTransactions)
	protected.Get("/transactions/:id", invHandler.GetTransaction)
	protected.Post("/transactions", middleware.RequirePermission(model.PermProcessTransactions), invHandler.CreateTransaction)

	// Exchange Queue Routes
	protected.Get("/exchange-queue", invHandler.GetExchangeQueue)
	protected.Post("/exchange-queue/:id/process", middleware.RequirePermission(model.PermProcessExchange), invHandler.ProcessExchange)

	// BOM Routes
	protected.Get("/bom", bomHandler.GetGuides)
	protected.Get("/bom/:name", bomHandler.GetGuide)
	protected.Get("/bom/:name/check", bomHandler.CheckAvailability)
	protected.Post("/bom", middleware.RequirePermission(model.PermManageBom), bomHandler.AddGuideLine)
	protected.Delete("/bom/:name", middleware.RequirePermission(model.PermManageBom), bomHandler.DeleteGuide)

	// Warehouse Layout Routes
	protected.Get("/warehouse/layout", warehouseHandler.GetLayout)
	protected.Get("/warehouse/parse-location", warehouseHandler.ParseLocation)
	protected.Post("/warehouse/zones", middleware.RequirePermission(model.PermManageWarehouse), warehouseHandler.CreateZone)
	protected.Put("/warehouse/zones/:id", middleware.RequirePermission(model.PermManageWarehouse), warehouseHandler.UpdateZone)
	protected.Delete("/warehouse/zones/:id", middleware.RequirePermission(model.PermManageWarehouse), warehouseHandler.DeleteZone)

	// Dashboard Routes
	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)

	// Work Diary Routes
	protected.Get("/work-diaries", diaryHandler.GetDiaries)
	protected.Get("/work-diaries/:id", diaryHandler.GetDiary)
	protected.Post("/work-diaries", middleware.RequirePermission(model.PermCreateDiary), diaryHandler.CreateDiary)
	protected.Put("/work-diaries/:id", middleware.RequirePermission(model.PermEditDiary), diaryHandler.UpdateDiary)
	protected.Post("/work-diaries/:id/complete", diaryHandler.CompleteDiary)
	protected.Delete("/work-diaries/:id", middleware.RequirePermission(model.PermDeleteDiary), diaryHandler.DeleteDiary)
	protected.Get("/work-diaries/:id/comments", diaryHandler.GetComments)
	protected.Post("/work-diaries/:id/comments", diaryHandler.CreateComment)

	// Notification Routes
	protected.Get("/notifications", diaryHandler.GetNotifications)
	protected.Put("/notifications/:id/read", diaryHandler.MarkNotificationRead)

	// User Management Routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePermission(model.PermManageUsers), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePermission(model.PermManageUsers), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePermission(model.PermManageUsers), userHandler.DeleteUser)
	protected.Put("/users/:id/permissions", middleware.RequireCriticalPermission(model.PermManagePermissions), userHandler.UpdatePermissions)

	// Export Routes
	protected.Get("/export/inventory", middleware.RequirePermission(model.PermDownloadInventory), exportHandler.ExportInventory)
	protected.Get("/export/transactions", middleware.RequirePermission(model.PermDownloadTransactions), exportHandler.ExportTransactions)
	protected.Get("/export/bom", middleware.RequirePermission(model.PermDownloadBom), exportHandler.ExportBomGuides)

	// File Routes
	protected.Get("/files", fileHandler.GetFiles)
	protected.Get("/files/:id/download", fileHandler.Download)
	protected.Post("/files", middleware.RequirePermission(model.PermAccessExcelManagement), fileHandler.Upload)
	protected.Delete("/files/:id", middleware.RequirePermission(model.PermBackupData), fileHandler.Delete)

	// System Routes (critical permissions, super admin only)
	protected.Post("/system/reset", middleware.RequireCriticalPermission(model.PermResetData), systemHandler.Reset)
	protected.Get("/system/backup", middleware.RequirePermission(model.PermBackupData), systemHandler.DownloadBackup)
	protected.Post("/system/restore", middleware.RequireCriticalPermission(model.PermRestoreData), systemHandler.RestoreBackup)

	// WebSocket Route (token passed as query parameter)
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		userID := uuid.Nil
		if claims, err := jwt.ValidateToken(c.Query("token")); err == nil {
			userID = claims.UserID
		}

		wsHub.Register <- &ws.Client{Conn: c, UserID: userID}
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdminAndLayout creates the default super admin and the standard zone
// grid on first boot
func seedAdminAndLayout(db *gorm.DB, userRepo repository.UserRepository, warehouseService service.WarehouseService) {
	if _, err := userRepo.FindByUsername("admin"); err != nil {
		admin := &model.User{
			Username:   "admin",
			Role:       model.RoleSuperAdmin,
			Department: "관리부",
			Position:   "시스템 관리자",
			IsManager:  true,
			IsActive:   true,
		}
		model.ApplyRolePermissions(admin, model.RoleSuperAdmin)
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		if err := admin.SetPassword(password); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin (super_admin)")
		}
	}

	if err := warehouseService.EnsureDefaultLayout(); err != nil {
		log.Printf("Warning: Failed to seed warehouse layout: %v", err)
	}
}
