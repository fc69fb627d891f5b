package web

import (
	"context"
	"net/http"
	"time"

	"todomaster/internal/domain"
)

type sessionKey struct{}

type sessionValue struct {
	token string
	state *domain.SessionState
}

func sessionFrom(ctx context.Context) *domain.SessionState {
	if v, ok := ctx.Value(sessionKey{}).(sessionValue); ok && v.state != nil {
		return v.state
	}
	return &domain.SessionState{}
}

func tokenFrom(ctx context.Context) string {
	v, _ := ctx.Value(sessionKey{}).(sessionValue)
	return v.token
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "elapsed", time.Since(start))
	})
}

// withSession resolves the session cookie. A cookie that no longer resolves is dropped.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := sessionValue{state: &domain.SessionState{}}
		if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
			state, err := s.auth.SessionForToken(r.Context(), cookie.Value)
			switch {
			case err != nil:
				s.logger.Warn("session lookup failed", "err", err)
			case state.SignedIn():
				value = sessionValue{token: cookie.Value, state: state}
			default:
				clearSessionCookie(w)
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, value)))
	})
}

// protected sends signed-out visitors to the sign-up page
func (s *Server) protected(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sessionFrom(r.Context()).SignedIn() {
			redirect(w, r, "/signup")
			return
		}
		h(w, r)
	}
}

// guestOnly sends signed-in users to the list
func (s *Server) guestOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r.Context()).SignedIn() {
			redirect(w, r, "/")
			return
		}
		h(w, r)
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, session *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
