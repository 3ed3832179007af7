package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gatherly/internal/leads/handler"
	"gatherly/internal/leads/repository"
	"gatherly/internal/leads/service"
	"gatherly/internal/leads/validator"
	"gatherly/pkg/analytics"
	"gatherly/pkg/config"
	"gatherly/pkg/geo"
	"gatherly/pkg/mailer"
	"gatherly/pkg/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load("leads")
	log := cfg.Log
	log.Info("Starting leads service")

	mongoClient := connectMongoDB(cfg)
	defer mongoClient.Disconnect(context.Background())

	mailer.Init(mailer.Config{
		SendGridAPIKey: cfg.SendGridAPIKey,
		FromEmail:      cfg.EmailFrom,
		FromName:       cfg.EmailFromName,
	}, log)
	analytics.Init(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	defer analytics.Default().Close()

	leadService := initServices(mongoClient, cfg)

	server := setupHTTPServer(cfg, leadService, mongoClient)

	run(cfg, server)
}

func connectMongoDB(cfg *config.Config) *mongo.Client {
	log := cfg.Log

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	return client
}

func initServices(mongoClient *mongo.Client, cfg *config.Config) service.LeadService {
	log := cfg.Log

	db := mongoClient.Database(cfg.MongoDatabaseName)
	leadRepo := repository.NewMongoLeadRepository(db, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()
	if err := leadRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to ensure lead indexes", "error", err)
	}

	geoResolver := geo.NewResolver(cfg.GeocodeEndpoint, cfg.GeocodeTimeout, log)

	// The welcome email is a single best-effort attempt; the retry
	// wrapper in pkg/mailer is reserved for other delivery paths.
	leadService := service.NewLeadService(
		leadRepo,
		validator.NewLeadValidator(),
		geoResolver,
		mailer.Default(),
		analytics.Default(),
		cfg,
	)

	log.Info("Lead service initialized")
	return leadService
}

func setupHTTPServer(cfg *config.Config, leadService service.LeadService, mongoClient *mongo.Client) *http.Server {
	log := cfg.Log

	healthRouter := httprouter.New()
	healthHandler := handler.NewHealthHandler(mongoClient, log)
	healthHandler.RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(log)(healthHTTPHandler)

	leadHandler := handler.NewLeadHandler(leadService, log)

	publicRouter := httprouter.New()
	leadHandler.RegisterPublicRoutes(publicRouter)

	// Middleware order: Recovery → Logging → MaxSize → ContentType → Router
	var publicHTTPHandler http.Handler = publicRouter
	publicHTTPHandler = middleware.ContentTypeValidation(log)(publicHTTPHandler)
	publicHTTPHandler = middleware.MaxBodySize(int64(cfg.MaxRequestSize))(publicHTTPHandler)
	publicHTTPHandler = middleware.RequestLogging(log)(publicHTTPHandler)
	publicHTTPHandler = middleware.Recovery(log)(publicHTTPHandler)

	adminRouter := httprouter.New()
	leadHandler.RegisterAdminRoutes(adminRouter)

	var adminHTTPHandler http.Handler = adminRouter
	adminHTTPHandler = middleware.AdminAuth(cfg.AdminPassword, log)(adminHTTPHandler)
	adminHTTPHandler = middleware.RequestLogging(log)(adminHTTPHandler)
	adminHTTPHandler = middleware.Recovery(log)(adminHTTPHandler)
	if cfg.AdminPassword == "" {
		log.Warn("No admin password configured, admin endpoints will reject all requests")
	}

	mux := http.NewServeMux()
	mux.Handle("/health", healthHTTPHandler)
	mux.Handle("/ready", healthHTTPHandler)
	mux.Handle("/api/v1/admin/", adminHTTPHandler)
	mux.Handle("/", publicHTTPHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	log.Info("HTTP server configured", "port", cfg.Port)
	return server
}

func run(cfg *config.Config, server *http.Server) {
	log := cfg.Log

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "address", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)
		gracefulShutdown(cfg, server)
	}
}

func gracefulShutdown(cfg *config.Config, server *http.Server) {
	log := cfg.Log

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		if err := server.Close(); err != nil {
			log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	log.Info("Server stopped gracefully")
}
