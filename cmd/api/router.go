package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/http/handlers"
	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/http/middleware"
)

type routerDeps struct {
	Verifier    middleware.TokenVerifier
	CORSOrigins []string
	RateLimit   int

	Auth      *handlers.AuthHandler
	Leads     *handlers.LeadHandler
	Followups *handlers.FollowupHandler
	Pipeline  *handlers.PipelineHandler
	Dashboard *handlers.DashboardHandler
	Emails    *handlers.EmailHandler
	Templates *handlers.TemplateHandler
	Users     *handlers.UserHandler
	Realtime  *handlers.RealtimeHandler
	Health    *handlers.HealthHandler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Metrics)

	r.Get("/healthz", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	limiter := middleware.NewRateLimiter(d.RateLimit, time.Minute)
	r.Route("/auth", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/signup", d.Auth.SignUp)
		r.Post("/login", d.Auth.SignIn)
		r.Post("/refresh", d.Auth.Refresh)
		r.Post("/forgot-password", d.Auth.ForgotPassword)
		r.Post("/update-password", d.Auth.UpdatePassword)
	})

	authenticate := middleware.Authenticate(d.Verifier)

	r.With(authenticate).Get("/ws/pipeline", d.Realtime.Pipeline)

	r.Route("/api", func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/me", d.Users.Me)
		r.Put("/profile/{id}", d.Users.UpdateProfile)
		r.Get("/sales-reps", d.Leads.SalesReps)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", d.Leads.List)
			r.Post("/", d.Leads.Create)
			r.Get("/export", d.Leads.Export)
			r.Post("/import", d.Leads.Import)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.Leads.Get)
				r.Put("/", d.Leads.Update)
				r.Delete("/", d.Leads.Delete)
				r.Patch("/status", d.Leads.UpdateStatus)
				r.Get("/score", d.Leads.Score)
				r.Post("/activities", d.Leads.CreateActivity)
				r.Post("/followups", d.Followups.Create)
				r.Post("/emails", d.Emails.Send)
			})
		})

		r.Patch("/followups/{id}", d.Followups.UpdateStatus)

		r.Get("/pipeline", d.Pipeline.Board)
		r.Get("/pipeline/stages", d.Pipeline.ListStages)

		r.Get("/templates", d.Templates.List)
		r.Get("/templates/{id}", d.Templates.Get)
		r.Get("/templates/{id}/preview", d.Templates.Preview)

		r.Route("/rep", func(r chi.Router) {
			r.Use(middleware.RequireRole(entity.RoleSalesRep))
			r.Get("/dashboard", d.Dashboard.Rep)
			r.Get("/followups", d.Followups.ListMine)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(entity.RoleAdmin))
			r.Get("/dashboard", d.Dashboard.Admin)

			r.Post("/pipeline/stages", d.Pipeline.CreateStage)
			r.Put("/pipeline/stages/{id}", d.Pipeline.UpdateStage)
			r.Delete("/pipeline/stages/{id}", d.Pipeline.DeleteStage)

			r.Post("/templates", d.Templates.Create)
			r.Put("/templates/{id}", d.Templates.Update)
			r.Delete("/templates/{id}", d.Templates.Delete)

			r.Get("/users", d.Users.List)
			r.Post("/users", d.Users.Create)
			r.Patch("/users/{id}/role", d.Users.UpdateRole)
			r.Delete("/users/{id}", d.Users.Delete)
		})
	})

	return otelhttp.NewHandler(r, "leadflow-crm")
}
