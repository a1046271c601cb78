package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"emysore/config"
	"emysore/handler"
	"emysore/middleware"
	"emysore/notification"
	"emysore/repository"
	"emysore/routes"
	"emysore/schema"
	"emysore/service"
	"emysore/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadConfig()

	db, err := connectDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	if err := schema.InitializeSchema(db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Repositories
	complaintRepo := repository.NewComplaintRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	cityServiceRepo := repository.NewCityServiceRepository(db)

	// Delivery channels
	emailSender := notification.NewEmailSender(cfg.Notify.EmailAPIURL, cfg.Notify.EmailAPIKey, cfg.Notify.EmailFrom)
	smsSender := notification.NewSMSSender(cfg.Notify.SMSAPIURL, cfg.Notify.SMSAPIKey)
	dispatcher := notification.NewDispatcher(
		emailSender,
		smsSender,
		cfg.Notify.QueueSize,
		time.Duration(cfg.Notify.ChannelTimeoutSeconds)*time.Second,
	)
	dispatcher.Start(cfg.Notify.Workers)

	// Services
	enrichment := service.NewEnrichmentClient(cfg.ML.ServiceURL, time.Duration(cfg.ML.TimeoutSeconds)*time.Second)
	storage := service.NewStorageService(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL)
	notificationService := service.NewNotificationService(notificationRepo, dispatcher)
	complaintService := service.NewComplaintService(
		complaintRepo, auditRepo, userRepo, departmentRepo,
		enrichment, storage, notificationService,
	)
	escalationService := service.NewEscalationService(
		complaintRepo, complaintService,
		time.Duration(cfg.Escalation.SLAHours)*time.Hour,
	)
	userService := service.NewUserService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)

	// Background escalation sweep
	escalationWorker := worker.NewEscalationWorker(
		escalationService,
		time.Duration(cfg.Escalation.WorkerIntervalSeconds)*time.Second,
	)
	escalationWorker.Start()

	// HTTP surface
	authMW := middleware.NewAuthMiddleware(userService, cfg.Auth.JWTSecret)
	router := routes.SetupRoutes(&routes.Handlers{
		Auth:          handler.NewAuthHandler(userService),
		Complaints:    handler.NewComplaintHandler(complaintService),
		Notifications: handler.NewNotificationHandler(notificationService),
		Departments:   handler.NewDepartmentHandler(departmentRepo),
		CityServices:  handler.NewCityServiceHandler(cityServiceRepo),
		AuthMW:        authMW,
		UploadDir:     storage.UploadDir(),
	})

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown: stop taking requests, then stop the sweep and drain
	// in-flight notification deliveries.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	escalationWorker.Stop()
	dispatcher.Stop()

	log.Println("Shutdown complete")
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
