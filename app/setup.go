package app

import (
	"fmt"
	"os"
	"time"

	"github.com/databridge-consult/databridge-api/api"
	"github.com/databridge-consult/databridge-api/config"
	"github.com/databridge-consult/databridge-api/database"
	"github.com/databridge-consult/databridge-api/router"
	"github.com/databridge-consult/databridge-api/services/cron"
	"github.com/databridge-consult/databridge-api/utils/auth"
	"github.com/databridge-consult/databridge-api/utils/middleware"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Seed superadmin account if configured
	hasher := auth.NewPasswordHasher(getEnv.BCRYPT_COST)
	if err := database.NewSeeder(store.GetDB(), hasher).SeedAll(); err != nil {
		print("Warning: database seeding failed\n")
		print("Error: ", err.Error(), "\n")
		// Seeding is bootstrap convenience, not a startup requirement.
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		cronManager = cron.NewCronManager(store)
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Attach security middleware stack
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	})

	// Setup Routes
	router.SetupRoutes(app, store)

	// Get the PORT & Start the Server
	return server.Run()
}
