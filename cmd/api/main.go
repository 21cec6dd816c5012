package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"dormwash/internal/config"
	"dormwash/internal/database"
	"dormwash/internal/middleware"
	"dormwash/internal/modules/admin"
	"dormwash/internal/modules/auth"
	"dormwash/internal/modules/booking"
	"dormwash/internal/modules/hostel"
	"dormwash/internal/modules/machine"
	"dormwash/internal/modules/message"
	"dormwash/internal/modules/payment"
	"dormwash/internal/modules/wallet"
	"dormwash/internal/notification"
	jwtsvc "dormwash/internal/pkg/jwt"
	"dormwash/internal/pkg/validator"
	"dormwash/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			cfgPath = "config.yaml"
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Database.DSN == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := wallet.Migrate(db); err != nil {
		log.Fatalf("migrate wallet: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	hostelRepo := repository.NewHostelRepository(db)
	machineRepo := repository.NewMachineRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	pushRepo := repository.NewPushSubscriptionRepository(db)

	j := jwtsvc.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var mailer notification.Mailer
	if cfg.SMTP.Host != "" {
		mailer = notification.NewSMTPMailer(cfg.SMTP)
	} else {
		mailer = notification.NewDevConsoleMailer(true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pushPool := notification.NewWorkerPool(cfg.Push.WorkerPoolSize, db, &webpush.Options{
		Subscriber:      cfg.Push.Subject,
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		TTL:             cfg.Push.TTL,
	})
	pushPool.Start(ctx)

	walletService := wallet.NewService(db)
	walletHandler := wallet.NewHandler(walletService)

	authService := auth.NewService(userRepo, hostelRepo, j, cfg.Auth.StudentEmailDomain)
	authHandler := auth.NewHandler(authService)

	hostelService := hostel.NewService(hostelRepo, machineRepo)
	hostelHandler := hostel.NewHandler(hostelService)

	machineService := machine.NewService(machineRepo, hostelRepo, bookingRepo)
	machineHandler := machine.NewHandler(machineService)

	bookingService := booking.NewService(bookingRepo, machineRepo, userRepo, mailer, pushPool)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(orderRepo, walletService, cfg.Gateway, log.Printf)
	paymentHandler := payment.NewHandler(paymentService)

	messageHub := message.NewHub()
	defer messageHub.Close()
	messageService := message.NewService(messageRepo, userRepo, messageHub)
	messageHandler := message.NewHandler(messageService, messageHub, j)

	adminService := admin.NewService(userRepo, hostelRepo, machineRepo, bookingRepo, orderRepo)
	adminHandler := admin.NewHandler(adminService)

	pushHandler := notification.NewHandler(pushRepo, cfg.Push.PublicKey)

	validator.RegisterGinValidators()

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst))

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := gocache.New(cacheTTL, 2*cacheTTL)
	cacheMW := middleware.Cache(cacheStore, cacheTTL)

	messageHandler.RegisterWS(r)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			hostelHandler.RegisterRoutes(protected)
			machineHandler.RegisterRoutes(protected, cacheMW)
			bookingHandler.RegisterRoutes(protected, cacheMW)
			walletHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			messageHandler.RegisterRoutes(protected)
			adminHandler.RegisterRoutes(protected)
			pushHandler.RegisterRoutes(protected)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
