package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zapleads/zapleads/config"
	infraCampaign "github.com/zapleads/zapleads/infrastructure/campaign"
	"github.com/zapleads/zapleads/infrastructure/database"
	infraMaps "github.com/zapleads/zapleads/infrastructure/maps"
	infraMessaging "github.com/zapleads/zapleads/infrastructure/messaging"
	"github.com/zapleads/zapleads/ui/rest"
	"github.com/zapleads/zapleads/usecase"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Run the REST API and the campaign worker",
	Run:   runRest,
}

func init() {
	rootCmd.AddCommand(restCmd)
}

func runRest(_ *cobra.Command, _ []string) {
	db, driver, err := database.Open(config.DBURI)
	if err != nil {
		logrus.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repo := infraCampaign.NewRepository(db, driver)
	if err := repo.InitializeSchema(); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	mapsClient := infraMaps.NewClient(config.MapsBaseURL, config.MapsAPIKey, config.GatewayTimeout)
	messagingClient := infraMessaging.NewClient(config.MessagingBaseURL, config.MessagingAPIKey, config.GatewayTimeout)

	scheduler := usecase.NewDispatchScheduler()
	processor := usecase.NewCampaignProcessor(repo, mapsClient, messagingClient, scheduler)
	worker := usecase.NewCampaignWorker(repo, processor, scheduler, messagingClient, config.WorkerPollInterval)
	service := usecase.NewCampaignService(repo, scheduler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	app := fiber.New(fiber.Config{DisableStartupMessage: !config.AppDebug})
	app.Use(recover.New())
	if config.AppDebug {
		app.Use(fiberLogger.New())
	}
	rest.InitRestCampaign(app, service, worker)

	go func() {
		if err := app.Listen(":" + config.AppPort); err != nil {
			logrus.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	logrus.Infof("Listening on port %s", config.AppPort)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	logrus.Info("Shutting down")
	_ = app.Shutdown()
	worker.Stop()
}
