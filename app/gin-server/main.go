package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/skillvue/skillvue-backend/config"
	"github.com/skillvue/skillvue-backend/internal/api/handlers"
	"github.com/skillvue/skillvue-backend/internal/api/middleware"
	"github.com/skillvue/skillvue-backend/internal/api/routes"
	"github.com/skillvue/skillvue-backend/internal/cache"
	"github.com/skillvue/skillvue-backend/internal/logger"
	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/providers/generator"
	"github.com/skillvue/skillvue-backend/internal/providers/stt"
	memrepo "github.com/skillvue/skillvue-backend/internal/repositories/memory"
	mongorepo "github.com/skillvue/skillvue-backend/internal/repositories/mongo"
	pgrepo "github.com/skillvue/skillvue-backend/internal/repositories/postgres"
	"github.com/skillvue/skillvue-backend/internal/services"
	"github.com/skillvue/skillvue-backend/internal/storage"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()
	ctx := context.Background()

	// Postgres holds templates and the audit ledger
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("postgres init failed")
	}
	if err := config.PostgresDB.AutoMigrate(&models.CollegeJobTemplate{}, &models.AuditEntry{}); err != nil {
		log.WithError(err).Fatal("postgres migration failed")
	}
	log.Info("postgres connected")

	// Durable session store; in-memory fallback for local runs
	var sessionStore services.SessionStore
	if config.MongoConfigured() {
		if err := config.InitMongo(); err != nil {
			log.WithError(err).Fatal("mongo init failed")
		}
		if err := config.EnsureMongoIndexes(); err != nil {
			log.WithError(err).Fatal("mongo index setup failed")
		}
		sessionStore = mongorepo.NewSessionRepo(config.MongoDatabase())
		log.Info("mongo connected")
	} else {
		sessionStore = memrepo.NewSessionRepo()
		log.Warn("MONGO_URI not set; sessions held in memory only")
	}

	// Read cache in front of the session store
	var sessionCache cache.Cache
	if config.RedisConfigured() {
		if err := config.InitRedis(); err != nil {
			log.WithError(err).Fatal("redis init failed")
		}
		sessionCache = cache.NewRedisCache(config.RedisClient)
		log.Info("redis connected")
	} else {
		sessionCache = cache.NewMemoryCache()
		log.Warn("REDIS_ADDR not set; using in-process cache")
	}

	// Generator collaborators: Vertex when configured, canned otherwise
	var questionGen generator.QuestionGenerator
	var reportGen generator.ReportGenerator
	if project := os.Getenv("GOOGLE_CLOUD_PROJECT"); project != "" {
		vg, err := generator.NewVertexGemini(ctx, project, os.Getenv("VERTEX_LOCATION"), os.Getenv("VERTEX_MODEL"))
		if err != nil {
			log.WithError(err).Fatal("vertex init failed")
		}
		defer vg.Close()
		questionGen, reportGen = vg, vg
		log.Info("vertex generator ready")
	} else {
		st := generator.NewStatic()
		questionGen, reportGen = st, st
		log.Warn("GOOGLE_CLOUD_PROJECT not set; using static generators")
	}

	// Optional presence collaborators
	var transcriber stt.Provider
	if os.Getenv("ENABLE_STT") == "true" {
		gs, err := stt.NewGoogleSpeech(ctx)
		if err != nil {
			log.WithError(err).Fatal("speech init failed")
		}
		defer gs.Close()
		transcriber = gs
	}
	var photoUploader storage.Uploader
	if bucket := os.Getenv("PRESENCE_PHOTO_BUCKET"); bucket != "" {
		up, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.WithError(err).Fatal("gcs init failed")
		}
		defer up.Close()
		photoUploader = up
	}

	auditRepo := pgrepo.NewAuditRepo(config.PostgresDB)
	audit := services.NewAuditRecorder(auditRepo, log)

	sessionSvc := services.NewSessionService(sessionStore, sessionCache, audit, questionGen, reportGen)
	presenceSvc := services.NewPresenceService(sessionStore, sessionCache, audit, transcriber, photoUploader)
	shareSvc := services.NewShareService(sessionStore, audit)
	templateSvc := services.NewTemplateService(pgrepo.NewTemplateRepo(config.PostgresDB), audit)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Session:  handlers.NewSessionHandler(sessionSvc),
		Presence: handlers.NewPresenceHandler(presenceSvc),
		Share:    handlers.NewShareHandler(shareSvc),
		Template: handlers.NewTemplateHandler(templateSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
