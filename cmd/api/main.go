package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"evenapp/internal/adapter/api"
	"evenapp/internal/adapter/api/handler"
	apimiddleware "evenapp/internal/adapter/api/middleware"
	"evenapp/internal/adapter/api/router"
	"evenapp/internal/adapter/repository"
	"evenapp/internal/adapter/repository/memory"
	domainrepo "evenapp/internal/domain/repository"
	"evenapp/internal/domain/service"
	"evenapp/internal/infrastructure/firebase"
	"evenapp/internal/infrastructure/postgres"
	"evenapp/internal/infrastructure/ratelimit"
	"evenapp/internal/infrastructure/websocket"
	"evenapp/internal/usecase"
	"evenapp/pkg/config"
	"evenapp/pkg/logger"
)

type reviewStore struct {
	txManager interface {
		domainrepo.TxManager
		handler.Pinger
	}
	reviews domainrepo.ReviewRepository
	windows domainrepo.WeekWindowRepository
	strikes domainrepo.StrikeRepository
	grants  domainrepo.EmergencyGrantRepository
	close   func()
}

func openStore(ctx context.Context, cfg *config.Config) (*reviewStore, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Using in-memory review storage; data is lost on restart. Identity and chat still use Firebase")
		store := memory.NewStore()
		return &reviewStore{
			txManager: store,
			reviews:   memory.NewReviewRepository(store),
			windows:   memory.NewWeekWindowRepository(store),
			strikes:   memory.NewStrikeRepository(store),
			grants:    memory.NewEmergencyGrantRepository(store),
			close:     func() {},
		}, nil
	}

	if cfg.DBAutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DatabaseDSN); err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &reviewStore{
		txManager: postgres.NewTxManager(pool),
		reviews:   repository.NewPostgresReviewRepository(pool),
		windows:   repository.NewPostgresWeekWindowRepository(pool),
		strikes:   repository.NewPostgresStrikeRepository(pool),
		grants:    repository.NewPostgresEmergencyGrantRepository(pool),
		close:     pool.Close,
	}, nil
}

func firebaseCredentials(cfg *config.Config) option.ClientOption {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON))
	}

	if _, err := os.Stat(cfg.FirebaseServiceAccountPath); os.IsNotExist(err) {
		logger.L().Fatalf("Service account file does not exist: %s", cfg.FirebaseServiceAccountPath)
	}

	logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
	return option.WithCredentialsFile(cfg.FirebaseServiceAccountPath)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt := firebaseCredentials(cfg)

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		logger.L().Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		logger.L().Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		logger.L().Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.L().Fatalf("Failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	defer store.close()

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)
	if cfg.IsDevelopment() {
		if err := firebaseAuthClient.TestConnection(ctx); err != nil {
			logger.Warn("Firebase Auth connection test failed: %v", err)
		}
	}
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	quotaUseCase := usecase.NewWeeklyQuotaUseCase(store.windows)
	grantUseCase := usecase.NewEmergencyGrantUseCase(store.grants)
	strikeUseCase := usecase.NewStrikeUseCase(store.strikes, store.reviews, store.txManager, wsManager)
	reviewUseCase := usecase.NewReviewUseCase(
		store.reviews,
		firebaseAuthClient,
		chatRepo,
		store.txManager,
		quotaUseCase,
		strikeUseCase,
		grantUseCase,
		service.NewContentFilter(cfg.ModerationKeywords),
		wsManager,
	)

	handler.Setup(reviewUseCase, strikeUseCase, grantUseCase)
	handler.SetupHealthHandler(store.txManager)
	handler.SetupDevTokenHandler(firebaseAuthClient)

	limiter := ratelimit.NewRateLimiter(map[string]ratelimit.Policy{
		ratelimit.ActionSubmitReview: {PerMinute: cfg.ReviewRateLimitPerMinute},
	})
	limiter.StartCleanupRoutine(ctx)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.WSAllowedOrigins)

	router.Setup(e, authMiddleware, limiter)
	router.SetupWebSocketRouter(e, wsHandler, authMiddleware)
	router.SetupDevRouter(e, cfg.Environment)

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.L().Fatalf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
