// Package httpapi is the HTTP/JSON shell over the use cases. It does routing,
// decoding and error mapping only; every rule lives behind it.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/phuslu/log"

	"github.com/returntrack/returntrack-backend/internal/domain"
	"github.com/returntrack/returntrack-backend/internal/usecase/access"
	"github.com/returntrack/returntrack-backend/internal/usecase/records"
	"github.com/returntrack/returntrack-backend/internal/usecase/registration"
)

// Server wires the use cases to HTTP routes.
type Server struct {
	Records      *records.RecordService
	Registration *registration.RegistrationService
	Gate         *access.Gate
	Identity     domain.IdentityProvider
	Logger       log.Logger

	// WindowMonths is the listing window used when the client does not ask
	// for a specific one.
	WindowMonths int
}

// NewServer creates a new HTTP server instance
func NewServer(
	recordService *records.RecordService,
	registrationService *registration.RegistrationService,
	gate *access.Gate,
	identity domain.IdentityProvider,
	logger log.Logger,
	windowMonths int,
) *Server {
	return &Server{
		Records:      recordService,
		Registration: registrationService,
		Gate:         gate,
		Identity:     identity,
		Logger:       logger,
		WindowMonths: windowMonths,
	}
}

// Router builds the chi router with CORS, request logging and session
// resolution applied to every route.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(s.logRequests)
	r.Use(s.withSession)

	r.Route("/api", func(r chi.Router) {
		r.Get("/access", s.handleAccess)
		r.Post("/register", s.handleRegister)

		r.Route("/records", func(r chi.Router) {
			r.Get("/", s.handleListRecords)
			r.Post("/", s.handleCreateRecord)
			r.Get("/{id}", s.handleGetRecord)
			r.Patch("/{id}", s.handleUpdateRecord)
			r.Delete("/{id}", s.handleDeleteRecord)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/magic-link", s.handleMagicLink)
			r.Post("/callback", s.handleCallback)
			r.Post("/logout", s.handleLogout)
		})
	})

	return r
}
