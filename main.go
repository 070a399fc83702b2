package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sevasetu-backend/controller"
	"sevasetu-backend/dal"
	"sevasetu-backend/models"
	"sevasetu-backend/utils"
	"sevasetu-backend/utils/logger"
	"sevasetu-backend/worker"

	"github.com/gin-gonic/gin"
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	Init()

	ctx := context.Background()
	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)

	appLogger.Infof("Starting %s %s (%s)", config.AppName, config.AppVersion, config.AppEnv)
	appLogger.Debugf("Config loaded :: %s", utils.PrintPrettyJSON(config))

	// Provision tables before the API starts accepting traffic.
	dbclient, err := dal.NewDynamoDBClient(config, appLogger)
	if err != nil {
		log.Fatalf("Failed to create database client: %v", err)
	}

	provisionWorker, err := worker.NewWorker(dbclient, config, appLogger)
	if err != nil {
		log.Fatalf("Failed to create provisioning worker: %v", err)
	}
	if err := provisionWorker.Start(); err != nil {
		log.Fatalf("Failed to start provisioning worker: %v", err)
	}
	if err := provisionWorker.WaitUntilDone(ctx); err != nil {
		log.Fatalf("Provisioning worker did not finish: %v", err)
	}

	c, err := controller.NewController(ctx, config, appLogger)
	if err != nil {
		log.Fatalf("Failed to create controller: %v", err)
	}

	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Serve in the background so the main goroutine can wait for signals.
	go func() {
		if err := c.RegisterRoutes(ctx, config, r, appLogger); err != nil {
			appLogger.Errorf("Server stopped: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Server shutdown: %v", err)
	}
	c.Close()
}
