package main

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/gofiber/swagger/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/esdrassantos06/go-adserver/internal/adapters/handlers"
	"github.com/esdrassantos06/go-adserver/internal/adapters/middleware"
	"github.com/esdrassantos06/go-adserver/internal/adapters/repositories"
	"github.com/esdrassantos06/go-adserver/internal/config"
	"github.com/esdrassantos06/go-adserver/internal/core/services"

	_ "github.com/esdrassantos06/go-adserver/docs"
)

// @title           Ad Rotation API
// @version         1.0.0
// @description     API for slot-based ad rotation with impression counting and advertiser reports

// @host      localhost:8080
// @BasePath  /

// @schemes   http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	startTime := time.Now()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal(err)
	}
	opt.PoolSize = 50
	opt.MinIdleConns = 20
	opt.MaxRetries = 2
	opt.PoolTimeout = 2 * time.Second
	opt.DialTimeout = 2 * time.Second
	opt.ReadTimeout = 1 * time.Second
	opt.WriteTimeout = 1 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute
	opt.ConnMaxLifetime = 30 * time.Minute
	rdb := redis.NewClient(opt)

	adRepo := repositories.NewRedisRepo(rdb)
	clickRepo := repositories.NewPostgresRepo(db)
	assetRepo, err := repositories.NewFSAssetRepo(cfg.AssetDir)
	if err != nil {
		log.Fatal(err)
	}

	adService := services.NewAdService(adRepo, clickRepo, assetRepo, slogger)
	reportService := services.NewReportService(adRepo, clickRepo, slogger)
	assetService := services.NewAssetService(adRepo, assetRepo)

	httpHandler := handlers.NewHTTPHandler(adService, reportService, assetService)
	advertiserMiddleware := middleware.NewAdvertiserMiddleware()

	app := fiber.New(fiber.Config{
		ServerHeader:      "AdServer",
		AppName:           "Ad Rotation API",
		DisableKeepalive:  false,
		ReduceMemoryUsage: true,
	})
	app.Use(logger.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	origins := []string{cfg.AllowedOrigin}
	if cfg.AllowedOrigin == "" {
		origins = []string{"*"}
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: true,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Cookie", "Range", "X-Advertiser-Id"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Ad Rotation API",
			"version":   "1.0.0",
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"uptime":    time.Since(startTime).String(),
			"swagger":   fmt.Sprintf("%s/swagger", cfg.BaseURL),
		})
	})

	app.Post("/slots/:slot/ads", advertiserMiddleware.Extract, httpHandler.UploadAd)
	app.Get("/slots/:slot/ad", httpHandler.NextAd)
	app.Get("/slots/:slot/ads/:id", httpHandler.GetAd)
	app.Get("/slots/:slot/ads/:id/asset", httpHandler.ServeAsset)
	app.Post("/slots/:slot/ads/:id/count", httpHandler.CountImpression)
	app.Get("/slots/:slot/ads/:id/redirect", httpHandler.RedirectClick)

	me := app.Group("/me", advertiserMiddleware.RequireAdvertiser)
	me.Get("/report", httpHandler.Report)
	me.Get("/final_report", httpHandler.FinalReport)

	app.Post("/initialize", httpHandler.Initialize)

	log.Fatal(app.Listen(":" + cfg.Port))
}
