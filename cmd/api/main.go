package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "taxclarity/api/swagger" // swagger docs
	"taxclarity/internal/config"
	"taxclarity/internal/database"
	"taxclarity/internal/events"
	"taxclarity/internal/handler"
	"taxclarity/internal/lock"
	"taxclarity/internal/logger"
	"taxclarity/internal/mail"
	"taxclarity/internal/middleware"
	"taxclarity/internal/push"
	"taxclarity/internal/repository"
	"taxclarity/internal/scheduler"
	"taxclarity/internal/service"
	"taxclarity/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           TaxClarity NG API
// @version         1.0
// @description     Matches a user's tax profile to the applicable rule and manages their compliance checklist.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("invalid timezone", "error", err)
	}

	db, err := database.NewConnection(cfg.DBDriver, cfg.DSN(), log)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	if cfg.DBDriver == "sqlite" {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	log.Info("database connected", "driver", cfg.DBDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Without REDIS_ADDR everything stays in-process, which is fine for one instance.
	var (
		bus    = events.NewLocalBus()
		locker = lock.NewLocal()
	)
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis ping failed", "addr", cfg.RedisAddr, "error", err)
		}
		defer rdb.Close()

		redisBus, err := events.NewRedisBus(log, rdb, cfg.RedisChannel)
		if err != nil {
			log.Fatal("redis bus init failed", "error", err)
		}
		bus = redisBus
		locker = lock.NewRedis(rdb, "taxclarity:lock:", 30*time.Second)
		log.Info("redis connected", "addr", cfg.RedisAddr)
	}
	defer bus.Close()

	// WebSocket hub receives checklist events for connected owners
	wsHub := websocket.NewHub(log)
	go wsHub.Run(ctx)
	if err := bus.StartForwarder(ctx, wsHub.HandleEvent); err != nil {
		log.Fatal("event forwarder failed", "error", err)
	}

	clock := service.NewClock(loc, time.Now)
	pushSender := push.NewOneSignal(log, push.Config{
		AppID:   cfg.OneSignalAppID,
		APIKey:  cfg.OneSignalAPIKey,
		BaseURL: cfg.OneSignalBaseURL,
		Timeout: cfg.HTTPClientTimeout,
	})
	mailSender := mail.NewResend(log, mail.Config{
		APIKey:    cfg.ResendAPIKey,
		FromEmail: cfg.ResendFromEmail,
		BaseURL:   cfg.ResendBaseURL,
		Timeout:   cfg.HTTPClientTimeout,
	})

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	ruleRepo := repository.NewTaxRuleRepository(db)
	templateRepo := repository.NewActionItemTemplateRepository(db)
	profileRepo := repository.NewTaxProfileRepository(db)
	itemRepo := repository.NewActionItemRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	profileService := service.NewProfileService(txManager, profileRepo, auditRepo, log)
	checklistService := service.NewChecklistService(txManager, templateRepo, itemRepo, auditRepo, bus, clock, log)
	matcher := service.NewRuleMatcher(ruleRepo, log)
	taxCheckService := service.NewTaxCheckService(profileService, matcher, checklistService, locker, log)
	taxRuleService := service.NewTaxRuleService(ruleRepo)
	deviceService := service.NewDeviceService(txManager, deviceRepo, notificationRepo, auditRepo, log)
	emailService := service.NewEmailService(mailSender, log)
	reminderService := service.NewReminderService(itemRepo, deviceRepo, notificationRepo, pushSender, clock, cfg.ReminderConcurrency, log)
	auditService := service.NewAuditService(auditRepo)

	secret := []byte(cfg.JWTSecret)
	auth := middleware.RequireUser(secret)
	// Separate budgets so emails do not eat into questionnaire submissions.
	taxCheckLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	emailLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	taxCheckLimiter.StartSweeper(ctx)
	emailLimiter.StartSweeper(ctx)

	// Initialize Handlers
	taxCheckHandler := handler.NewTaxCheckHandler(taxCheckService, auth, taxCheckLimiter.Limit())
	profileHandler := handler.NewProfileHandler(profileService, auth)
	actionItemHandler := handler.NewActionItemHandler(checklistService, auth)
	taxRuleHandler := handler.NewTaxRuleHandler(taxRuleService)
	deviceHandler := handler.NewDeviceHandler(deviceService, auth)
	emailHandler := handler.NewEmailHandler(emailService, auth, emailLimiter.Limit())
	reminderHandler := handler.NewReminderHandler(reminderService, middleware.RequireCronSecret(cfg.CronSecret))
	auditHandler := handler.NewAuditHandler(auditService, auth)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Cron-Secret"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, secret)
	})

	// API Routing
	taxCheckHandler.RegisterRoutes(router.Group(""))
	profileHandler.RegisterRoutes(router.Group(""))
	actionItemHandler.RegisterRoutes(router.Group(""))
	taxRuleHandler.RegisterRoutes(router.Group(""))
	deviceHandler.RegisterRoutes(router.Group(""))
	emailHandler.RegisterRoutes(router.Group(""))
	reminderHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	if cfg.ReminderEnabled {
		go scheduler.NewDaily(reminderService, cfg.ReminderHour, loc, log).Run(ctx)
		log.Info("reminder scheduler enabled", "hour", cfg.ReminderHour, "timezone", cfg.Timezone)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
