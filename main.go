package main

import (
	golog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quartz-render/config"
	"quartz-render/database"
	"quartz-render/encoder"
	"quartz-render/export"
	"quartz-render/ffmpeg"
	"quartz-render/handlers"
	"quartz-render/jobs"
	"quartz-render/render"
)

func main() {

	initLogger()

	log.Infof("GitSHA: %s", config.GetGitSHA())
	log.Infof("BuildDate: %s", config.GetBuildDate())

	ffmpeg.Init(log)
	render.Init(log)
	encoder.Init(log)
	jobs.Init(log)
	export.Init(log)

	gormLogger := logger.New(
		golog.New(os.Stdout, "\r\n", golog.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			ParameterizedQueries:      true,        // Don't include params in the SQL log
			Colorful:                  false,       // Disable color
		},
	)

	err := os.MkdirAll(config.GetDataDir(), 0700)
	if err != nil {
		log.Panicf("failed to create data dir %s", config.GetDataDir())
	}
	err = os.MkdirAll(config.GetConfigDir(), 0700)
	if err != nil {
		log.Panicf("failed to create config dir %s", config.GetConfigDir())
	}

	// Initialize database
	dbPath := filepath.Join(config.GetConfigDir(), "jobs.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Panicf("failed to connect to database %s", dbPath)
	}

	// set only a single connection so we don't actually have concurrent writes
	sqlDB, err := db.DB()
	if err != nil {
		log.Panicln("failed to retrieve database")
	}
	sqlDB.SetMaxOpenConns(1)

	// Migrate the schema
	db.AutoMigrate(&jobs.Record{})

	database.Init(db, log)
	defer database.Fini()

	registry := export.NewRegistry()
	handlers.Init(log, registry)

	go maintenanceWorker()

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Routes
	e.GET("/api/health", handlers.Health)
	e.GET("/api/status", handlers.StatusGet)
	e.POST("/api/render", handlers.RenderPost)
	e.GET("/api/jobs/:id", handlers.JobGet)
	e.POST("/api/jobs/:id/cancel", handlers.JobCancel)
	e.GET("/api/jobs/:id/events", handlers.JobEvents)

	// Start server
	e.Logger.Fatal(e.Start(config.GetListenAddr()))
}
