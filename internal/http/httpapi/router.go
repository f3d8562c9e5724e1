package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mentorhood/internal/http/handlers"
	"mentorhood/internal/middleware"
)

type Options struct {
	Logger             zerolog.Logger
	CORSAllowedOrigins []string
	RateLimitPerMin    int
	CountryLookup      middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	// I18N runs before Logger so the request line carries the resolved
	// country.
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.I18N("en", opts.CountryLookup),
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSAllowedOrigins),
		middleware.Metrics,
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", app.UsersRegister)
			r.Post("/login", app.UsersLogin)
			r.Get("/{user_id}", app.UsersGet)
			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthJWT(app.JWTSecret))
				r.Put("/{user_id}", app.UsersUpdate)
				r.Delete("/{user_id}", app.UsersDelete)
			})
		})

		r.Route("/mentors", func(r chi.Router) {
			r.Post("/", app.MentorsCreate)
			r.Get("/all", app.MentorsList)
			r.Get("/{user_id}", app.MentorsGet)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/create", app.SessionsCreate)
			r.Get("/mentor/{mentor_id}", app.SessionsListByMentor)
			r.Get("/{session_id}", app.SessionsGet)
		})

		r.Route("/ama-sessions", func(r chi.Router) {
			r.Get("/", app.AMASessionsList)
			r.Post("/", app.AMASessionsCreate)
			r.Get("/{session_id}", app.AMASessionsGet)
			r.Put("/{session_id}", app.AMASessionsUpdate)
			r.Delete("/{session_id}", app.AMASessionsDelete)
		})

		r.Route("/questionnaires", func(r chi.Router) {
			r.Get("/", app.QuestionnairesList)
			r.Post("/", app.QuestionnairesCreate)
			r.Get("/{id}", app.QuestionnairesGet)
			r.Post("/{id}/upvote", app.QuestionnairesUpvote)
			r.Post("/{id}/answer", app.QuestionnairesAnswer)
			r.Get("/{id}/answers", app.QuestionnairesAnswers)
		})

		r.Route("/registrations", func(r chi.Router) {
			r.Post("/", app.RegistrationsCreate)
			r.Get("/check/{session_id}/{email}", app.RegistrationsCheck)
			r.Get("/session/{session_id}", app.RegistrationsListBySession)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/create", app.BookingsCreate)
			r.Get("/", app.BookingsList)
			r.Get("/check/{session_id}/{email}", app.BookingsCheck)
			r.Get("/{booking_id}", app.BookingsGet)
		})

		r.Route("/tokens", func(r chi.Router) {
			r.Post("/initialize", app.TokensInitialize)
			r.Get("/balance", app.TokensBalance)
			r.Post("/spend", app.TokensSpend)
			r.Post("/add", app.TokensAdd)
		})

		r.Get("/dashboard/mentee/{email}", app.DashboardMentee)

		r.Post("/upload/profile-photo", app.UploadProfilePhoto)
	})

	return r
}
