package bootstrap

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/kkolkov/students-api/internal/app/controllers"
	appMigrations "github.com/kkolkov/students-api/internal/app/migrations"
	appRepos "github.com/kkolkov/students-api/internal/app/repositories"
	appRoutes "github.com/kkolkov/students-api/internal/app/routes"
	appServices "github.com/kkolkov/students-api/internal/app/services"
	"github.com/kkolkov/students-api/internal/config"
	"github.com/kkolkov/students-api/internal/db"
	appMiddleware "github.com/kkolkov/students-api/internal/middleware"
	"github.com/kkolkov/students-api/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	StudentService    appServices.StudentService
	StudentController *appControllers.StudentController
	Repos             *appRepos.Repositories
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the SQLite database and ensures the schema is present.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.SQLiteDB, error) {
	lgr.Info().Str("path", cfg.Database.Path).Msg("Opening database...")
	database, err := db.NewSQLiteDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to open database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.DB.PingContext(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		_ = database.Close()
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.DB)
	if err := migrator.Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		_ = database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(database *db.SQLiteDB, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router, deps.StudentController)

	return router
}
