package stub

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// NewRouter assembles the development backend. The route shapes mirror
// the production API so the console cannot tell them apart.
func NewRouter(store *Store, tokens *Tokens, checkoutURL string) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "worklens-stubapi"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	authHandler := NewAuthHandler(store, tokens)
	analysisHandler := NewAnalysisHandler(store)
	historyHandler := NewHistoryHandler(store)
	companyHandler := NewCompanyHandler(store, checkoutURL)
	directoryHandler := NewDirectoryHandler(store)

	r.Route("/api", func(r chi.Router) {
		r.Route("/Auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(tokens.Auth()))
				r.Use(authRequired(store))
				r.Post("/logout", authHandler.Logout)
				r.Post("/reset-password", authHandler.ResetPassword)
			})
		})

		r.Post("/Company/onboard", companyHandler.Onboard)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokens.Auth()))
			r.Use(authRequired(store))

			r.Get("/company/{companyID}/user-assignments/{userID}", companyHandler.UserAssignments)

			r.Get("/Company/effective", companyHandler.Effective)
			r.Put("/Company/effective", companyHandler.UpdateEffective)
			r.Route("/Company/{companyID}", func(r chi.Router) {
				r.Get("/subcompanies", companyHandler.SubCompanies)
				r.Post("/subcompanies", companyHandler.CreateSubCompany)
				r.Post("/subcompanies/{subCompanyID}/assign-superusers", companyHandler.AssignSuperUsers)
				r.Get("/superusers", companyHandler.SuperUsers)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", directoryHandler.List)
				r.Post("/", directoryHandler.Create)
				r.Post("/upload-excel", directoryHandler.UploadExcel)
				r.Put("/{id}", directoryHandler.Update)
				r.Patch("/{id}/activate", directoryHandler.Activate)
				r.Patch("/{id}/inactivate", directoryHandler.Inactivate)
			})

			r.Route("/metadata", func(r chi.Router) {
				r.Get("/businessunits", directoryHandler.Units)
				r.Post("/businessunits", directoryHandler.AddUnit)
				r.Get("/accesslevels", directoryHandler.AccessLevels)
				r.Post("/accesslevels", directoryHandler.AddAccessLevel)
			})

			r.Route("/AnalysisHistory", func(r chi.Router) {
				r.Post("/save", historyHandler.Save)
				r.Get("/all", historyHandler.List)
				r.Get("/ceo/ytd", historyHandler.YearToDate)
				r.Get("/{id}", historyHandler.Detail)
			})

			r.Route("/{category}", func(r chi.Router) {
				r.Post("/upload", analysisHandler.Upload)
				r.Get("/analysis", analysisHandler.Analysis)
			})
		})
	})

	return r
}

// authRequired rejects requests without a verified, unrevoked token.
func authRequired(store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				messageError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if store.IsRevoked(jwtauth.TokenFromHeader(r)) {
				messageError(w, http.StatusUnauthorized, "Token revoked")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
