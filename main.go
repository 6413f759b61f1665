package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"seefinish-platform/handlers"
	"seefinish-platform/middleware"
	"seefinish-platform/models"
	"seefinish-platform/services"
	"seefinish-platform/utils"
	"seefinish-platform/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // image uploads cap at 5MB, leave headroom for multipart overhead
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Service-Token, X-User-ID, X-Username",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Viewer context is optional on every route; RequireViewer gates
	// mutations per route group.
	app.Use(middleware.ViewerContextMiddleware())

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Roast{},
		&models.Debate{},
		&models.DebateParticipant{},
		&models.Like{},
		&models.Comment{},
		&models.Follow{},
		&models.Notification{},
		&models.Transaction{},
		&models.SolBalanceMock{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	paymentURL := os.Getenv("PAYMENT_FUNCTION_URL")
	if paymentURL == "" {
		log.Fatal("PAYMENT_FUNCTION_URL environment variable not set")
	}
	serviceToken := os.Getenv("PLATFORM_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("PLATFORM_SERVICE_TOKEN environment variable not set")
	}
	paymentClient := services.NewPaymentClient(paymentURL, serviceToken)

	roastService := services.NewRoastService(db)
	debateService := services.NewDebateService(db, paymentClient)
	profileService := services.NewProfileService(db)
	searchService := services.NewSearchService(db)
	notificationService := services.NewNotificationService(db)
	walletService := services.NewWalletService(db, paymentClient)
	marketplaceService := services.NewMarketplaceService(paymentClient)

	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profileSync := workers.NewProfileSyncWorker(db, 30*time.Second, authServiceURL, serviceToken)
	profileSync.Start(ctx)

	paymentStatusClient := workers.NewPaymentStatusClient(db)
	go workers.PollPayments(ctx, paymentStatusClient, 10*time.Second)

	roastService.StartViralScheduler()
	profileService.StartRankScheduler()

	handlers.SetupRoastRoutes(app, roastService)
	handlers.SetupDebateRoutes(app, debateService)
	handlers.SetupSocialRoutes(app, profileService, searchService, notificationService)
	handlers.SetupWalletRoutes(app, walletService, marketplaceService)

	go func() {
		if err := app.Listen(":5200"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5200")
	log.Println("✅ Profile sync worker running (every 30s)")
	log.Println("✅ Payment status polling running (every 10s)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
