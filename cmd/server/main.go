package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"promptadmin-backend-go/internal/api"
	"promptadmin-backend-go/internal/config"
	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/middleware"
	"promptadmin-backend-go/internal/storage"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firestore ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore", zap.Error(err))
	}
	firestoreClient := db.GetFirestoreClient()
	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	zapLogger.Info("Firestore client initialized successfully.")

	// --- 4. Initialize Object Storage (S3) ---
	objectStore, err := storage.NewS3Store(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize S3 object store", zap.Error(err))
	}
	zapLogger.Info("S3 object store initialized successfully.", zap.String("bucket", appConfig.S3Bucket))

	// --- 5. Initialize Repositories ---
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	categoryRepo := db.NewFirestoreCategoryRepository(firestoreClient)
	countryRepo := db.NewFirestoreCountryRepository(firestoreClient)
	promptRepo := db.NewFirestorePromptRepository(firestoreClient)
	planRepo := db.NewFirestorePlanRepository(firestoreClient)
	subscriptionRepo := db.NewFirestoreSubscriptionRepository(firestoreClient)
	generationRepo := db.NewFirestoreGenerationRepository(firestoreClient)
	feedbackRepo := db.NewFirestoreFeedbackRepository(firestoreClient)
	auditRepo := db.NewFirestoreAuditRepository(firestoreClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 6. Initialize Services ---
	auditService := core.NewAuditService(auditRepo)
	authService, err := core.NewAuthService(userRepo, auditService, appConfig.JWTSecret)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize AuthService", zap.Error(err))
	}
	userService := core.NewUserService(userRepo, subscriptionRepo, generationRepo, feedbackRepo, objectStore, auditService)
	categoryService := core.NewCategoryService(categoryRepo, promptRepo, countryRepo, auditService)
	countryService := core.NewCountryService(countryRepo, categoryRepo, auditService)
	promptService := core.NewPromptService(promptRepo, categoryRepo, objectStore, auditService)
	planService := core.NewPlanService(planRepo, subscriptionRepo, auditService)
	subscriptionService := core.NewSubscriptionService(subscriptionRepo, userRepo, planRepo, auditService)
	generationService := core.NewGenerationService(generationRepo)
	feedbackService := core.NewFeedbackService(feedbackRepo, auditService)
	zapLogger.Info("Core services initialized successfully.")

	// --- 7. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// --- 8. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. API might not be accessible from a web frontend.")
	}

	// --- 9. Setup API Routes ---
	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		authService,
		userService,
		categoryService,
		countryService,
		promptService,
		planService,
		subscriptionService,
		generationService,
		feedbackService,
	)

	// --- 10. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 11. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	if err := firestoreClient.Close(); err != nil {
		zapLogger.Warn("Failed to close Firestore client", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
