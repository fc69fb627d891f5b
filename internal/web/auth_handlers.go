package web

import (
	"net/http"

	"todomaster/internal/services"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", pageData{Title: "Log in", Providers: s.cfg.Auth.Providers})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if provider := r.PostFormValue("provider"); provider != "" {
		target, err := s.auth.SocialSignIn(r.Context(), provider, s.cfg.Auth.CallbackURL)
		if err != nil {
			s.render(w, r, statusFor(err), "login", pageData{
				Title:     "Log in",
				Providers: s.cfg.Auth.Providers,
				Error:     services.FailureResult(err).Message,
			})
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	email := r.PostFormValue("email")
	session, err := s.auth.Authenticate(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		s.render(w, r, statusFor(err), "login", pageData{
			Title:     "Log in",
			Providers: s.cfg.Auth.Providers,
			Email:     email,
			Error:     services.FailureResult(err).Message,
		})
		return
	}

	s.setSessionCookie(w, session)
	s.logger.Info("signed in", "user", session.UserID)
	redirect(w, r, "/")
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "signup", pageData{Title: "Sign up"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	name := r.PostFormValue("name")
	session, err := s.auth.Register(r.Context(), email, r.PostFormValue("password"), name)
	if err != nil {
		s.render(w, r, statusFor(err), "signup", pageData{
			Title: "Sign up",
			Email: email,
			Name:  name,
			Error: services.FailureResult(err).Message,
		})
		return
	}

	s.setSessionCookie(w, session)
	redirect(w, r, "/")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := tokenFrom(r.Context()); token != "" {
		if err := s.auth.Revoke(r.Context(), token); err != nil {
			s.logger.Warn("revoke session failed", "err", err)
		}
	}
	clearSessionCookie(w)
	redirect(w, r, "/login")
}
