package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

type contextKey int

const sessionKey contextKey = iota

// withSession resolves the bearer token once per request and stores the
// session (possibly nil) in the request context. A failed lookup is logged
// and treated as no session; the access gate decides what that means.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.Identity.CurrentSession(r.Context(), bearerToken(r))
		if err != nil {
			s.Logger.Warn().Err(err).Msg("session lookup failed")
			session = nil
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session stored by withSession, or nil.
func sessionFrom(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionKey).(*domain.Session)
	return session
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
