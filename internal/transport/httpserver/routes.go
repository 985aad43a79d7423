package httpserver

import (
	"net/http"
	"time"

	"cendra-go/internal/config"
	"cendra-go/internal/transport/httpserver/handler"
	authmw "cendra-go/internal/transport/httpserver/middleware"
	"cendra-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 30 * time.Second

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.JWTAuth, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(authmw.NewCORS(cfg.CORSAllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Route("/public", func(r chi.Router) {
			r.Post("/register", handlers.Register)
			r.Post("/token", handlers.Login)
			r.Get("/entities", handlers.ListPublicEntities)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/dashboard", handlers.GetDashboard)

			r.Get("/user", handlers.Me)
			r.Post("/user/affiliate", handlers.RegisterOwnAffiliate)
			r.Post("/user/photo", handlers.UploadOwnPhoto)

			r.Get("/entity", handlers.GetEntity)
			r.Post("/entity", handlers.CreateEntity)
			r.Patch("/entity", handlers.UpdateEntity)
			r.Post("/entity/join", handlers.JoinEntity)
			r.Post("/entity/logo", handlers.UploadEntityLogo)

			r.Get("/entity/positions", handlers.ListPositions)
			r.Post("/entity/positions", handlers.CreatePosition)
			r.Patch("/entity/positions/{id}", handlers.UpdatePosition)
			r.Delete("/entity/positions/{id}", handlers.DeletePosition)

			r.Get("/entity/directorate", handlers.ListDirectorates)
			r.Post("/entity/directorate", handlers.AssignDirectorate)
			r.Patch("/entity/directorate/{id}", handlers.UpdateDirectorate)
			r.Delete("/entity/directorate/{id}", handlers.DeleteDirectorate)

			r.Get("/entity/census", handlers.ListCensuses)
			r.Post("/entity/census", handlers.GenerateCensus)
			r.Get("/entity/census/{year}", handlers.GetCensus)
			r.Get("/entity/census/{year}/export", handlers.ExportCensus)

			r.Get("/affiliates", handlers.ListAffiliates)
			r.Post("/affiliates", handlers.CreateAffiliate)
			r.Get("/affiliates/export", handlers.ExportAffiliates)
			r.Patch("/affiliates/{id}", handlers.UpdateAffiliate)
			r.Delete("/affiliates/{id}", handlers.DeactivateAffiliate)
			r.Post("/affiliates/{id}/photo", handlers.UploadAffiliatePhoto)
			r.Get("/affiliates/{id}/payment-choice", handlers.GetPaymentChoice)
			r.Put("/affiliates/{id}/payment-choice", handlers.SavePaymentChoice)

			r.Get("/treasury", handlers.ListAccounts)
			r.Post("/treasury", handlers.CreateAccount)
			r.Get("/treasury/{id}", handlers.GetAccount)
			r.Get("/treasury/{id}/transactions", handlers.ListTransactions)
			r.Post("/treasury/{id}/incomes", handlers.RecordIncome)
			r.Post("/treasury/{id}/outcomes", handlers.RecordOutcome)

			r.Get("/news", handlers.ListNews)
			r.Post("/news", handlers.CreateNews)
			r.Patch("/news/{id}", handlers.UpdateNews)
			r.Delete("/news/{id}", handlers.DeleteNews)
		})
	})

	return r
}
