package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"canteen/cmd"
	httpin "canteen/internal/adapters/in/http"
	"canteen/internal/adapters/in/ws"
	"canteen/internal/adapters/out/postgres/inventoryrepo"
	"canteen/internal/adapters/out/postgres/orderrepo"
	"canteen/internal/adapters/out/postgres/walletrepo"
	"canteen/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustOpenDB(configs)
	mustMigrate(gormDB)

	app := cmd.NewCompositionRoot(configs, gormDB)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	jobManager := jobs.NewJobManager(
		app.CreateProgressOrdersCommandHandler(),
		app.CreateRebuildSnapshotCommandHandler(),
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		logger.Error("Failed to start jobs", "error", err)
		os.Exit(1)
	}

	e := buildWebServer(&app)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil {
			e.Logger.Info("Web server stopped: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	jobManager.StopAll()
	app.FanoutService().Close()
	_ = e.Close()
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func mustMigrate(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&walletrepo.WalletDTO{},
		&inventoryrepo.InventoryItemDTO{},
		&inventoryrepo.CatalogItemDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

func buildWebServer(app *cmd.CompositionRoot) *echo.Echo {
	e := echo.New()

	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateUpdateOrderStatusCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateListQueueQueryHandler(),
		app.CreateGetWalletBalanceQueryHandler(),
	)
	server.RegisterRoutes(e)

	stream := ws.NewStream(app.FanoutService())
	e.GET("/ws", echo.WrapHandler(stream.Handler()))

	return e
}
