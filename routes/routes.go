package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/padelops/club-system/handlers"
	"github.com/padelops/club-system/middleware"
	"github.com/padelops/club-system/models"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes wires every HTTP endpoint. Read endpoints are public;
// mutations require a token, and club management additionally requires
// an admin or club admin role.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	clubHandler *handlers.ClubHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	bookingHandler *handlers.BookingHandler,
	billingHandler *handlers.BillingHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticated := middleware.Authenticate(jwtSecret)
	clubStaff := middleware.Authorize(models.RoleAdmin, models.RoleClubAdmin)

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/clubs", func(r chi.Router) {
		r.Get("/", clubHandler.List)
		r.Get("/{clubID}", clubHandler.GetByID)
		r.Get("/{clubID}/courts", bookingHandler.ListCourts)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Use(clubStaff)

			r.Post("/", clubHandler.Create)
			r.Post("/{clubID}/logo", clubHandler.UploadLogo)
			r.Put("/{clubID}/commission-rate", billingHandler.UpdateCommissionRate)
			r.Post("/{clubID}/commission-preview", billingHandler.PreviewCommission)
			r.Get("/{clubID}/billing-summary", billingHandler.Summary)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.GetByID)
		r.Get("/{tournamentID}/ws", webSocketHandler.SubscribeTournament)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Use(clubStaff)

			r.Post("/", tournamentHandler.Create)
			r.Put("/{tournamentID}/status", tournamentHandler.UpdateStatus)
			r.Post("/{tournamentID}/matches", tournamentHandler.AddMatch)
			r.Post("/{tournamentID}/draw", tournamentHandler.GenerateDraw)
			r.Post("/{tournamentID}/finalize", tournamentHandler.Finalize)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Use(authenticated)
		r.Use(clubStaff)

		r.Put("/{matchID}/result", matchHandler.RecordResult)
		r.Post("/{matchID}/resolve-conflict", matchHandler.ResolveConflict)
	})

	router.Route("/bookings", func(r chi.Router) {
		r.Use(authenticated)

		r.Post("/", bookingHandler.Create)
		r.Delete("/{bookingID}", bookingHandler.Cancel)
		r.Post("/{bookingID}/check-in", bookingHandler.CheckIn)
		r.Post("/{bookingID}/split", bookingHandler.SplitPayment)
	})

	router.Get("/courts/{courtID}/bookings", bookingHandler.ListForCourt)

	router.Route("/payments", func(r chi.Router) {
		r.Use(authenticated)
		r.Use(clubStaff)

		r.Post("/{paymentID}/confirm", billingHandler.ConfirmPayment)
		r.Post("/{paymentID}/payout", billingHandler.PayOut)
	})
}
