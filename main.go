package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"social-gaming-system/handlers"
	"social-gaming-system/middleware"
	"social-gaming-system/models"
	"social-gaming-system/realtime"
	"social-gaming-system/services"
	"social-gaming-system/utils"
	"social-gaming-system/workers"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	logger, err := utils.InitLogger()
	if err != nil {
		log.Fatal("failed to initialize logger:", err)
	}
	defer logger.Sync()

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // game actions are tiny JSON bodies
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
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

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Name",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Game{},
		&models.GameInvitation{},
		&models.Friendship{},
		&models.GoldPurchase{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatal("failed to connect to Redis:", err)
	}

	wsSecret := os.Getenv("REALTIME_TOKEN_SECRET")
	if wsSecret == "" {
		log.Fatal("REALTIME_TOKEN_SECRET environment variable not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(rdb, []byte(wsSecret), logger)
	go hub.Run(ctx)

	ledgerService := services.NewLedgerService(db)
	settlementService := services.NewSettlementService(db, ledgerService, hub)
	gameService := services.NewGameService(db, settlementService, hub)
	invitationService := services.NewInvitationService(db, ledgerService, hub)
	profileService := services.NewProfileService(db)
	paymentService := services.NewPaymentService(db, ledgerService, hub)

	invitationService.StartCleanupScheduler(settlementService)

	reconcileClient := workers.NewReconcileClient(db, settlementService)
	go workers.PollUnsettledGames(ctx, reconcileClient, 30*time.Second)

	handlers.SetupGameRoutes(app, gameService, invitationService)
	handlers.SetupInvitationRoutes(app, invitationService)
	handlers.SetupProfileRoutes(app, profileService, paymentService, []byte(wsSecret))

	// The WebSocket hub runs on its own listener: the upgrade handshake
	// cannot pass through the fasthttp stack or carry gateway headers.
	wsAddr := os.Getenv("WS_ADDR")
	if wsAddr == "" {
		wsAddr = ":5301"
	}
	wsMux := http.NewServeMux()
	wsMux.HandleFunc("/ws", hub.ServeWS)
	wsServer := &http.Server{Addr: wsAddr, Handler: wsMux}
	go func() {
		logger.Info("realtime listener running", zap.String("addr", wsAddr))
		if err := wsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("realtime listener error", zap.Error(err))
		}
	}()

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Realtime hub running on", wsAddr)
	log.Println("✅ Settlement reconciliation worker running (every 30s)")
	log.Println("✅ Stale invitation sweeper running (every 10m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	wsServer.Shutdown(shutdownCtx)
	app.ShutdownWithContext(shutdownCtx)
}
