package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/fitjournal/internal/auth"
	"github.com/2beens/fitjournal/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const TokenHeader = "X-FJ-TOKEN"

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type loginChecker interface {
	IsLogged(ctx context.Context, token string) (userID int, logged bool, err error)
}

type AuthMiddlewareHandler struct {
	loginChecker         loginChecker
	allowedPaths         map[string]bool
	allowedGetPaths      map[string]bool
	allowedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(loginChecker loginChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		loginChecker: loginChecker,
		allowedPaths: map[string]bool{
			"/":             true,
			"/version":      true,
			"/myip":         true,
			"/register":     true,
			"/login":        true,
			"/bmr":          true,
			"/health":       true,
			"/plans/detail": true,
		},
		allowedGetPaths: map[string]bool{
			// public plans listing, creating a plan requires a session
			"/plans": true,
		},
		allowedPathsPrefixes: []string{
			"/avatars/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(method, path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	if method == http.MethodGet && h.allowedGetPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequestToken reads the session token from the X-FJ-TOKEN header, falling back to a bearer token.
func RequestToken(r *http.Request) string {
	if token := r.Header.Get(TokenHeader); token != "" {
		return token
	}
	authHeader := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(authHeader, "Bearer "); found {
		return strings.TrimSpace(token)
	}
	return ""
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			pathAllowed := h.pathIsAlwaysAllowed(r.Method, r.URL.Path)

			authToken := RequestToken(r)
			if authToken == "" {
				if pathAllowed {
					span.SetStatus(codes.Ok, "ok")
					next.ServeHTTP(w, r)
					return
				}
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			userID, isLogged, err := h.loginChecker.IsLogged(ctx, authToken)
			if err != nil {
				log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "check-logged-err")
				span.RecordError(err)
				return
			}
			if !isLogged {
				if pathAllowed {
					span.SetStatus(codes.Ok, "ok")
					next.ServeHTTP(w, r)
					return
				}
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "not-logged")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), userID, authToken)))
		})
	}
}
