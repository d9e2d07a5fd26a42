package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gurkanusta/WorkNest/config"
	"github.com/gurkanusta/WorkNest/handlers"
	"github.com/gurkanusta/WorkNest/logging"
	"github.com/gurkanusta/WorkNest/repositories"
	"github.com/gurkanusta/WorkNest/services"
	"github.com/gurkanusta/WorkNest/utils"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting WorkNest API...")

	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_LOAD_ERROR, Description: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection error: %v", err)
	}

	db := client.Database(cfg.MongoDBName)
	userRepo := repositories.NewUserRepository(db.Collection("users"))
	projectRepo := repositories.NewProjectRepository(db.Collection("projects"))
	memberRepo := repositories.NewMemberRepository(db.Collection("members"))
	taskRepo := repositories.NewTaskRepository(db.Collection("tasks"))

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatal(err)
	}
	if err := memberRepo.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatal(err)
	}
	if err := taskRepo.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatal(err)
	}

	mailBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	var mailer services.EmailSender
	if cfg.SMTP.Password != "" {
		mailer = utils.NewSMTPSender(cfg.SMTP)
	}

	jwtService := services.NewJWTService(cfg.JWT)
	authService := services.NewAuthService(userRepo, jwtService)
	projectService := services.NewProjectService(projectRepo, memberRepo, userRepo, mailer, mailBreaker)
	taskService := services.NewTaskService(taskRepo, projectService)

	router := handlers.NewRouter(
		handlers.NewAuthHandler(authService),
		handlers.NewProjectHandler(projectService),
		handlers.NewTaskHandler(taskService),
		jwtService,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      enableCORS(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVICE_LISTENING, Description: WorkNest API listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatalf("Event ID: SERVER_FAILED, Description: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("Event ID: SERVICE_STOPPING, Description: Shutting down WorkNest API...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SHUTDOWN_ERROR, Description: %v", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
