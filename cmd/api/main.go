package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"unitra/internal/config"
	"unitra/internal/database"
	"unitra/internal/domain"
	"unitra/internal/middleware"
	"unitra/internal/modules/auth"
	"unitra/internal/modules/health"
	"unitra/internal/modules/translate"
	"unitra/internal/pkg/quota"
	"unitra/internal/pkg/ratelimit"
	"unitra/internal/pkg/token"
	"unitra/internal/repository"
	"unitra/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.UsageLog{}); err != nil {
		log.Fatal(err)
	}

	st, err := store.NewRedis(cfg.RedisURL, cfg.StoreTimeout)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	codec := token.New(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	limiter := ratelimit.New(st)
	tracker := quota.New(st)

	userRepo := repository.NewUserRepository(db)
	usageLogRepo := repository.NewUsageLogRepository(db)

	authService := auth.NewService(userRepo, codec, st, tracker, cfg.StoreFailOpen)
	authHandler := auth.NewHandler(authService)

	engine := translate.NewHTTPEngine(cfg.MTServiceURL, cfg.MTAPIKey, cfg.MTTimeout)
	translateService := translate.NewService(engine, tracker, usageLogRepo, cfg.StoreFailOpen)
	translateHandler := translate.NewHandler(translateService)

	healthHandler := health.NewHandler(db, st)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS())

	healthHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		translateHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(codec, st, cfg.StoreFailOpen))
		authHandler.RegisterProtectedRoutes(protected)

		translateGroup := protected.Group("/translate")
		translateGroup.Use(middleware.RateLimit(limiter, "translate", cfg.StoreFailOpen))
		translateHandler.RegisterProtectedRoutes(translateGroup)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
