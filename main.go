package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pub-scope/config"
	"pub-scope/models"
	"pub-scope/providers/openalex"
	"pub-scope/providers/wos"
	"pub-scope/resolver"
	"pub-scope/services"
)

var coverageRequestsCounter prometheus.Counter

func init() {
	coverageRequestsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coverage_requests_total",
			Help: "Total number of coverage reconciliation requests served.",
		},
	)
	prometheus.MustRegister(coverageRequestsCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection (Roster + Identifier-Lookup)
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to roster database", zap.Error(err))
	}
	logging.Info("Successfully connected to roster database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.Employee{}, &models.AuthorIdentifier{})

	// Resolver lädt das rang-gefilterte Roster einmal beim Start.
	res, err := resolver.New(db, logging)
	if err != nil {
		logging.Fatal("Failed to load roster", zap.Error(err))
	}

	// Setup Source Adapters
	wosFetcher := wos.NewFetcher(cfg, logging)
	alexFetcher := openalex.NewFetcher(cfg, logging)
	coverageService := services.NewCoverageService(cfg, logging, res, wosFetcher, alexFetcher)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "pub-scope"})
	})

	// Setup Routes
	setupAuthorRoutes(router, res, logging)
	setupCoverageRoutes(router, coverageService, logging)

	// Setup Cron: Roster periodisch neu laden, damit Personal-Änderungen
	// ohne Neustart ankommen.
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.RosterReloadSchedule, func() {
		logging.Info("Running scheduled roster reload...")
		if err := res.Reload(context.Background()); err != nil {
			logging.Error("Roster reload failed", zap.Error(err))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupAuthorRoutes(router *gin.Engine, res *resolver.Resolver, log *zap.Logger) {
	rg := router.Group("/authors")

	// GET - Dropdown-Optionen: alle Namen des gefilterten Rosters
	rg.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"authors": res.Names()})
	})

	// GET - Roster-Zeile zu einem Anzeigenamen
	rg.GET("/info", func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'name' is required"})
			return
		}
		emp, err := res.EmployeeInfo(name)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"first_name": emp.FirstName,
			"last_name":  emp.LastName,
			"position":   emp.Position,
			"department": emp.Department,
			"college":    emp.College,
		})
	})
}

func setupCoverageRoutes(router *gin.Engine, coverageService *services.CoverageService, log *zap.Logger) {
	rg := router.Group("/coverage")

	// GET - Ein Reconcile-Lauf, auf alle Dashboard-Ansichten projiziert.
	// Die Präsentationsschicht rendert Summary, Quell-Tabellen und die
	// kombinierte Unikat-Liste aus DERSELBEN Antwort, statt dreimal zu
	// rechnen.
	rg.GET("/", func(c *gin.Context) {
		author := c.Query("author")
		if author == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'author' is required"})
			return
		}

		minYear := 2000
		if raw := c.Query("min_year"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_year"})
				return
			}
			minYear = parsed
		}

		view, err := coverageService.Run(c.Request.Context(), author, minYear)
		if err != nil {
			log.Error("Coverage run failed", zap.String("author", author), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "coverage run failed"})
			return
		}
		coverageRequestsCounter.Inc()

		c.JSON(http.StatusOK, view)
	})
}
