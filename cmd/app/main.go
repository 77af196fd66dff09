package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres/assignmentrepo"
	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/suborderrepo"
	"dispatch/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	db := openDatabase(configs)
	app := cmd.NewCompositionRoot(configs, db)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	sweepHandler, err := app.CreateSweepExpiredCommandHandler(logger)
	if err != nil {
		log.Fatalf("Failed to create sweep handler: %v", err)
	}

	jobManager := jobs.NewJobManager(sweepHandler, configs.SweepCronSpec, logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Fatalf("Error loading .env file")
	}

	return cmd.Config{
		HTTPPort:   os.Getenv("HTTP_PORT"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  os.Getenv("DB_SSLMODE"),

		BroadcastRadiusKm: envFloat("BROADCAST_RADIUS_KM", 10),
		RecencyWindow:     envDuration("LOCATION_RECENCY_WINDOW", 30*time.Minute),
		ExpiryWindow:      envDuration("BROADCAST_EXPIRY_WINDOW", 3*time.Minute),
		RatePerKm:         envFloat("RATE_PER_KM", 8),
		NoResponsePenalty: envFloat("NO_RESPONSE_PENALTY", 10),
		SweepCronSpec:     envString("SWEEP_CRON_SPEC", "*/30 * * * * *"),
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return value
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&courierrepo.CourierDTO{},
		&suborderrepo.SubOrderDTO{},
		&assignmentrepo.AssignmentDTO{},
		&assignmentrepo.BroadcastDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func startWebServer(app cmd.CompositionRoot, port string) {
	dispatchHandler, err := app.CreateDispatchAssignmentCommandHandler()
	if err != nil {
		log.Fatalf("Failed to create dispatch handler: %v", err)
	}

	claimHandler, err := app.CreateClaimAssignmentCommandHandler()
	if err != nil {
		log.Fatalf("Failed to create claim handler: %v", err)
	}

	nearbyHandler, err := app.CreateGetNearbyCouriersQueryHandler()
	if err != nil {
		log.Fatalf("Failed to create nearby couriers handler: %v", err)
	}

	assignmentsHandler, err := app.CreateGetCourierAssignmentsQueryHandler()
	if err != nil {
		log.Fatalf("Failed to create courier assignments handler: %v", err)
	}

	server := httpin.NewServer(
		dispatchHandler,
		claimHandler,
		app.CreateCompleteAssignmentCommandHandler(),
		app.CreateRegisterCourierCommandHandler(),
		app.CreateReportLocationCommandHandler(),
		app.CreateWithdrawCommandHandler(),
		nearbyHandler,
		assignmentsHandler,
		app.CreateGetCourierEarningsQueryHandler(),
		app.CreateGetDeliveryStatsQueryHandler(),
		app.CreateGetLiveLocationQueryHandler(),
	)

	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
