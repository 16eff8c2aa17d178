package main

import (
	"log"
	"time"

	"freight-desk/internal/core/cache"
	"freight-desk/internal/core/config"
	"freight-desk/internal/core/database"
	"freight-desk/internal/core/logger"
	"freight-desk/internal/core/server"
	milestoneadapter "freight-desk/internal/features/milestones/adapters"
	milestonehandler "freight-desk/internal/features/milestones/handler"
	milestoneports "freight-desk/internal/features/milestones/ports"
	milestoneservice "freight-desk/internal/features/milestones/service"
	partneradapter "freight-desk/internal/features/partners/adapters"
	partnerhandler "freight-desk/internal/features/partners/handler"
	partnerports "freight-desk/internal/features/partners/ports"
	partnerservice "freight-desk/internal/features/partners/service"
	quoteadapter "freight-desk/internal/features/quotes/adapters"
	quotehandler "freight-desk/internal/features/quotes/handler"
	quoteports "freight-desk/internal/features/quotes/ports"
	quoteservice "freight-desk/internal/features/quotes/service"
	tariffadapter "freight-desk/internal/features/tariffs/adapters"
	tariffhandler "freight-desk/internal/features/tariffs/handler"
	tariffports "freight-desk/internal/features/tariffs/ports"
	tariffservice "freight-desk/internal/features/tariffs/service"

	"go.uber.org/zap"
)

// @title Freight Desk API
// @version 1.0
// @description Shipment costing and progress engine for a freight forwarding office.
// @contact.name API Support
// @contact.email support@freight-desk.local
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	db, err := database.Open(cfg.Database.ConnString())
	if err != nil {
		l.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()

	// Tariff repositories, with an optional Redis read-through for zone rules
	var zoneRepo tariffports.ZoneRuleRepository = tariffadapter.NewPostgresZoneRuleRepository(db)
	bracketRepo := tariffadapter.NewPostgresRateBracketRepository(db)

	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			l.Fatal("Redis connection failed", zap.Error(err))
		}
		ttl := time.Duration(cfg.Redis.ZoneCacheTTLSeconds) * time.Second
		zoneRepo = tariffadapter.NewCachedZoneRuleRepository(zoneRepo, redisCache, ttl)
		l.Info("Zone rule cache enabled", zap.Duration("ttl", ttl))
	}

	zones := tariffservice.NewZoneResolver(zoneRepo)
	tariffs := tariffservice.NewTariffResolver(zones, bracketRepo, cfg.BaseCurrency)
	tariffHdl := tariffhandler.NewTariffHandler(zones, tariffs, bracketRepo, cfg.MarginPercent)

	// Partner catalog: CRM backend when configured, built-in list otherwise
	var catalog partnerports.PartnerCatalog
	if cfg.CRM.URL != "" {
		crmAdapter := partneradapter.NewCRMAdapter(cfg.CRM)
		if err := crmAdapter.HealthCheck(); err != nil {
			l.Fatal("CRM health check failed", zap.Error(err))
		}
		l.Info("CRM connection verified")
		catalog = crmAdapter
	} else {
		catalog = partneradapter.NewStaticCatalog(partneradapter.DefaultPartners)
		l.Info("Using built-in partner catalog")
	}

	recommender := partnerservice.NewRecommender(catalog)
	recommendHdl := partnerhandler.NewRecommendHandler(recommender)

	// Quote extraction, with an optional exchange rate provider
	var fx quoteports.FxRateProvider
	if cfg.FX.URL != "" {
		fx = quoteadapter.NewFxAdapter(cfg.FX.URL)
	}
	extractor := quoteservice.NewExtractor(cfg.BaseCurrency)
	quoteHdl := quotehandler.NewQuoteHandler(extractor, fx, cfg.BaseCurrency)

	// Milestone engine, publishing status changes when a broker is configured
	var publisher milestoneports.StatusEventPublisher = milestoneadapter.NewNoopPublisher()
	if cfg.Kafka.Broker != "" {
		kafkaPublisher := milestoneadapter.NewKafkaPublisher(cfg.Kafka.Broker, cfg.Kafka.StatusTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		l.Info("Status event publishing enabled", zap.String("topic", cfg.Kafka.StatusTopic))
	}

	engine := milestoneservice.NewEngine(
		milestoneadapter.NewPostgresProgressRepository(db),
		milestoneadapter.NewPostgresHistoryRepository(db),
		publisher,
	)
	milestoneHdl := milestonehandler.NewMilestoneHandler(engine)

	srv := server.New(cfg)

	srv.App.Get("/tariffs/zone", tariffHdl.GetZone)
	srv.App.Get("/tariffs/rate", tariffHdl.GetRate)
	srv.App.Post("/tariffs/calculate", tariffHdl.Calculate)
	srv.App.Post("/partners/recommend", recommendHdl.Recommend)
	srv.App.Post("/quotes/extract", quoteHdl.Extract)
	srv.App.Get("/milestones", milestoneHdl.ListDefinitions)
	srv.App.Post("/shipments/:id/progress", milestoneHdl.Start)
	srv.App.Put("/shipments/:id/milestone", milestoneHdl.Advance)
	srv.App.Get("/shipments/:id/milestones", milestoneHdl.View)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
