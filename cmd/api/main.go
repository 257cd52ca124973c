package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/config"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/auth"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/cache"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/database"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/http/handlers"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/integration/gotrue"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/integration/resend"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/integration/storage"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/mail"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/queue"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/realtime"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/worker"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/telemetry"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/usecase"
)

const serviceName = "leadflow-crm"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, serviceName, cfg.OTLPEndpoint)

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, cfg.DefaultStages); err != nil {
		log.Fatal(err)
	}

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	userRepo := database.NewUserRepository(db)
	stageRepo := database.NewPipelineStageRepository(db)
	followupRepo := database.NewFollowupRepository(db)
	activityRepo := database.NewActivityRepository(db)
	templateRepo := database.NewEmailTemplateRepository(db)
	emailLogRepo := database.NewEmailLogRepository(db)

	// 2. Cache, realtime and broker
	var routeCache usecase.RouteCache = cache.NopCache{}
	var cachePinger handlers.Pinger
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[cache] redis unavailable, caching disabled: %v", err)
		} else {
			defer rdb.Close()
			redisCache := cache.NewRedisCache(rdb, cfg.CacheTTL())
			routeCache = redisCache
			cachePinger = redisCache
		}
	}

	hub := realtime.NewHub()
	go hub.Run(ctx)

	var board entity.BoardPublisher = hub
	var broker handlers.BrokerStatus
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("[queue] rabbitmq unavailable, publishing board events locally: %v", err)
		} else {
			defer rabbitMQ.Close()
			board = queue.NewProducer(rabbitMQ.Ch)
			broker = rabbitMQ
			consumer := queue.NewConsumer(rabbitMQ.ConsumeCh, hub)
			go func() {
				if err := consumer.Start(ctx, rabbitMQ.Queue); err != nil {
					log.Printf("[queue] consumer stopped: %v", err)
				}
			}()
		}
	}

	// 3. Providers
	var sender usecase.EmailSender
	switch {
	case cfg.ResendAPIKey != "":
		sender = resend.NewClient(cfg.ResendAPIKey, cfg.ResendURL)
	case cfg.MailHost != "":
		sender = mail.NewSMTPSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass)
	default:
		log.Printf("[email] no provider configured, outbound email disabled")
	}

	var provider usecase.IdentityProvider
	switch cfg.AuthProvider {
	case config.AuthProviderGoTrue:
		provider = gotrue.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseServiceRoleKey)
	default:
		var mailer auth.ResetMailer
		if sender != nil {
			mailer = mail.NewResetMailer(sender, cfg.ResendEmailFrom)
		}
		provider = auth.NewLocalProvider(database.NewCredentialRepository(db), cfg.JWTSecret, mailer)
	}

	var objects usecase.ObjectStorage
	if cfg.SupabaseURL != "" {
		objects = storage.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)
	}

	// 4. UseCases
	leadUC := usecase.NewLeadUseCase(leadRepo, userRepo, activityRepo, routeCache, board)
	transferUC := usecase.NewImportExportUseCase(leadRepo, routeCache)
	followupUC := usecase.NewFollowupUseCase(leadRepo, followupRepo, routeCache, cfg.Location())
	pipelineUC := usecase.NewPipelineUseCase(stageRepo, leadRepo, routeCache)
	dashboardUC := usecase.NewDashboardUseCase(leadRepo, followupRepo, routeCache, cfg.Location())
	emailUC := usecase.NewEmailUseCase(leadRepo, emailLogRepo, activityRepo, sender, cfg.ResendEmailFrom, routeCache)
	templateUC := usecase.NewTemplateUseCase(templateRepo, leadRepo, routeCache)
	userUC := usecase.NewUserUseCase(userRepo, provider, objects, routeCache)
	authUC := usecase.NewAuthUseCase(provider, userRepo, cfg.AppURL)

	// 5. Workers
	watcher := worker.NewFollowupWatcher(followupRepo, cfg.FollowupWatchInterval())
	go watcher.Start(ctx)

	// 6. Router
	router := newRouter(routerDeps{
		Verifier:    auth.NewVerifier(cfg.JWTSecret),
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimitPerMinute,
		Auth:        handlers.NewAuthHandler(authUC),
		Leads:       handlers.NewLeadHandler(leadUC, transferUC, cfg.Location()),
		Followups:   handlers.NewFollowupHandler(followupUC),
		Pipeline:    handlers.NewPipelineHandler(pipelineUC),
		Dashboard:   handlers.NewDashboardHandler(dashboardUC),
		Emails:      handlers.NewEmailHandler(emailUC),
		Templates:   handlers.NewTemplateHandler(templateUC),
		Users:       handlers.NewUserHandler(userUC),
		Realtime:    handlers.NewRealtimeHandler(hub, cfg.CORSOrigins),
		Health:      handlers.NewHealthHandler(db, cachePinger, broker, sender != nil),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[http] %s listening on %s (auth provider: %s)", serviceName, srv.Addr, cfg.AuthProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[http] server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[http] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[http] shutdown error: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("[otel] shutdown error: %v", err)
	}
}
