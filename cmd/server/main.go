package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Brownie44l1/sellerhub/internal/apiclient"
	"github.com/Brownie44l1/sellerhub/internal/config"
	"github.com/Brownie44l1/sellerhub/internal/db"
	"github.com/Brownie44l1/sellerhub/internal/handlers"
	"github.com/Brownie44l1/sellerhub/internal/logging"
	"github.com/Brownie44l1/sellerhub/internal/repository"
	"github.com/Brownie44l1/sellerhub/internal/service"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/Brownie44l1/sellerhub/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	logging.Init(cfg.LogLevel)
	log := logging.For("main")
	log.Info("Configuration loaded")

	ctx := context.Background()
	checks := map[string]handlers.Check{}

	// 2. Optional journal database
	var (
		journal       service.Journal = service.NopJournal{}
		journalReader handlers.JournalReader
	)
	if cfg.JournalEnabled() {
		pool, err := db.NewPool(ctx, cfg.DBUrl)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to database")
		}
		defer pool.Close()

		repo := repository.NewJournalRepository(pool)
		journal, journalReader = repo, repo
		checks["postgres"] = pool.Ping
	} else {
		log.Info("DB_URL not set, journal disabled")
	}

	// 3. Client storage: Redis when configured, in-process otherwise
	var clientStore store.Store
	if cfg.RedisAddr != "" {
		rdb, err := db.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to redis")
		}
		defer rdb.Close()

		clientStore = store.NewRedisStore(rdb, cfg.SessionTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn("REDIS_ADDR not set, client storage is in-memory and lost on restart")
		clientStore = store.NewMemoryStore(cfg.SessionTTL)
	}

	// 4. Initialize layers
	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	sessions := session.NewManager(api, clientStore)
	views := service.NewWalletViews(api)

	withdrawService := service.NewWithdrawService(api, views, sessions, journal, cfg.WithdrawAccountName)
	paymentService := service.NewPaymentService(api, journal, cfg.SupportChatPath)
	orderService := service.NewOrderService(api, views, sessions, journal, service.SystemClock)
	cartService := service.NewCartService(clientStore)
	kycService := service.NewKYCService(api, journal)

	// 5. Setup Gin router
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	if origins := cfg.AllowedOrigins(); len(origins) == 1 && origins[0] == "*" {
		// Credentialed requests cannot use a literal "*".
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsConfig.AllowOrigins = origins
	}
	router.Use(cors.New(corsConfig))

	handlers.NewHealthHandler(checks).RegisterRoutes(router)

	v1 := router.Group("/api/v1",
		handlers.ClientID(cfg.SessionTTL, cfg.CookieSecure),
		handlers.LoadSession(sessions),
	)
	handlers.NewAuthHandler(sessions, views).RegisterRoutes(v1)
	handlers.NewWalletHandler(views, withdrawService).RegisterRoutes(v1)
	handlers.NewPaymentHandler(paymentService).RegisterRoutes(v1)
	handlers.NewOrderHandler(orderService, cfg.OrderTick).RegisterRoutes(v1)
	handlers.NewCartHandler(cartService).RegisterRoutes(v1)
	handlers.NewKYCHandler(kycService).RegisterRoutes(v1)
	handlers.NewActivityHandler(journalReader).RegisterRoutes(v1)

	// 6. Drop wallet views nobody has touched in a while
	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	go pruneViews(pruneCtx, views, cfg.ViewIdleTTL)

	// 7. Start server with graceful shutdown
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exited")
}

func pruneViews(ctx context.Context, views *service.WalletViews, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := views.Prune(idle); n > 0 {
				logging.For("main").WithFields(logrus.Fields{"pruned": n}).Debug("wallet views pruned")
			}
		}
	}
}
