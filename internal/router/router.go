package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/engine"
	"github.com/fieldreach/intelligence-api/internal/handler"
)

// Config wraps the router behaviour toggles
type Config struct {
	Engine            *engine.Engine
	EnableSecurity    bool
	EnableCORS        bool
	EnableGatewayMode bool
}

// NewChiRouter initialize a chi.Router with the full engine API surface,
// observability endpoints and the configured middleware chain
func NewChiRouter(config Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CustomZapLogger)
	r.Use(middleware.Recoverer)

	if config.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/isalive", handler.IsAlive)
	r.Handle("/metrics", promhttp.Handler())

	engineHandler := handler.NewEngineHandler(config.Engine)

	r.Route("/api/v1", func(rapi chi.Router) {
		if config.EnableSecurity && !config.EnableGatewayMode {
			tokenAuth := jwtauth.New("HS256", []byte(viper.GetString("API_JWT_SIGNING_KEY")), nil)
			rapi.Use(jwtauth.Verifier(tokenAuth))
			rapi.Use(CustomAuthenticator)
		} else if config.EnableGatewayMode {
			// requests are pre-verified by the gateway, no local token check
			zap.L().Info("Router started in gateway mode")
		}

		rapi.Route("/engine", func(re chi.Router) {
			re.Post("/events", engineHandler.PostEvent)

			re.Route("/triggers", func(rt chi.Router) {
				rt.Get("/", handler.GetTriggers)
				rt.Post("/", handler.PostTrigger)
				rt.Post("/validate", handler.ValidateTrigger)
				rt.Get("/{id}", handler.GetTrigger)
				rt.Put("/{id}", handler.PutTrigger)
				rt.Delete("/{id}", handler.DeleteTrigger)
			})

			re.Route("/decisions", func(rd chi.Router) {
				rd.Get("/", handler.GetDecisions)
				rd.Get("/{id}", handler.GetDecision)
				rd.Post("/{id}/executed", handler.PostDecisionExecuted)
			})

			re.Route("/budgets", func(rb chi.Router) {
				rb.Get("/{candidateID}", handler.GetBudgets)
				rb.Put("/{candidateID}", handler.PutBudget)
				rb.Post("/{candidateID}/spend", handler.PostSpend)
			})

			re.Route("/contacts", func(rc chi.Router) {
				rc.Post("/{contactID}/channels/{channel}", engineHandler.PostContact)
				rc.Get("/{contactID}/fatigue", handler.GetContactFatigue)
			})

			re.Route("/outcomes", func(ro chi.Router) {
				ro.Get("/", handler.GetOutcomes)
				ro.Post("/", engineHandler.PostOutcome)
			})

			re.Route("/scheduler", func(rs chi.Router) {
				rs.Get("/jobs", handler.GetJobSchedules)
				rs.Post("/jobs", handler.PostJobSchedule)
				rs.Post("/jobs/validate", handler.ValidateJobSchedule)
				rs.Get("/jobs/{id}", handler.GetJobSchedule)
				rs.Put("/jobs/{id}", handler.PutJobSchedule)
				rs.Delete("/jobs/{id}", handler.DeleteJobSchedule)
				rs.Post("/trigger", handler.TriggerJobSchedule)
			})

			re.Post("/maintenance/fatigue/reset", engineHandler.PostFatigueReset)

			re.Get("/notifications", handler.NotificationsWSRegister)
		})
	})

	return r
}
