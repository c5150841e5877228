package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"rentsafe/server/config"
	"rentsafe/server/internal/aggregator"
	"rentsafe/server/internal/api"
	"rentsafe/server/internal/bus"
	"rentsafe/server/internal/database"
	"rentsafe/server/internal/models"
	"rentsafe/server/internal/notify"
	"rentsafe/server/internal/scheduler"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	logger.Infof("Using database at: %s", cfg.DatabasePath)

	changeBus := bus.NewBus(cfg.Aggregator.BusBufferSize, logger)
	defer changeBus.Close()

	db, err := database.NewDatabase(cfg.DatabasePath, changeBus, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	hub := aggregator.NewHub(models.WatchedCollections, db, changeBus, logger)
	defer hub.Stop()

	notifier := notify.NewService(logger)

	sweeper := scheduler.NewScheduler(db, notifier, logger,
		cfg.Compliance.SweepHour, cfg.Compliance.ExpiryWindowDays)
	sweeper.Start()
	defer sweeper.Stop()

	handler := api.NewHandler(db, hub, notifier, cfg, logger)

	router := gin.Default()
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
