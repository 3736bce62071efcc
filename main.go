package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brandflow-backend/config"
	"brandflow-backend/controllers"
	"brandflow-backend/models"
	"brandflow-backend/routes"
	"brandflow-backend/services"

	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Campaign{},
		&models.Post{},
		&models.Product{},
		&models.NotificationSetting{},
		&models.NotificationLog{},
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	gateway := services.NewTwilioGateway()
	logs := services.NewDispatchLogStore(config.DB)
	scheduler := services.NewScheduler(
		services.NewPreferenceStore(config.DB, models.RoleClient),
		services.NewCandidateSource(config.DB),
		logs,
		gateway,
	)
	scheduler.Start()

	notifications := &controllers.NotificationController{
		Gateway:   gateway,
		Scheduler: scheduler,
		Logs:      logs,
	}

	r := routes.SetupRouter(notifications)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
