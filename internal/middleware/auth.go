package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/museum-mailer/internal/errs"
	"github.com/deppfellow/museum-mailer/internal/server"
	"github.com/labstack/echo/v4"
)

// IdentityFunc returns the authenticated caller for the request, if any.
type IdentityFunc func(c echo.Context) (string, bool)

// ClerkIdentity reads the caller from the Clerk session claims that
// LoadSession placed in the request context.
func ClerkIdentity(c echo.Context) (string, bool) {
	claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
	if !ok || claims == nil || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// AuthMiddleware guards the email routes.
//
// Loading the session and requiring it are split: LoadSession only
// verifies a bearer token when one is sent, RequireAuth rejects
// requests that end up with no caller identity.
type AuthMiddleware struct {
	server   *server.Server
	identity IdentityFunc
}

// NewAuthMiddleware constructs an AuthMiddleware backed by Clerk sessions.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server:   s,
		identity: ClerkIdentity,
	}
}

// LoadSession verifies "Authorization: Bearer <token>" with Clerk and
// stores the session claims in the request context.
//
// Requests without the header pass through untouched. An invalid or
// expired token is answered with the same 403 as a missing identity.
func (auth *AuthMiddleware) LoadSession() echo.MiddlewareFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(auth.rejectSession)),
		),
	)
}

func (auth *AuthMiddleware) rejectSession(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rejection := errs.Unauthorized()

	auth.server.Metrics.ObserveRejection(rejection.Code)

	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w.WriteHeader(http.StatusForbidden)

	if err := json.NewEncoder(w).Encode(rejection); err != nil {
		auth.server.Logger.Error().
			Err(err).
			Str("function", "LoadSession").
			Dur("duration", time.Since(start)).
			Msg("failed to write JSON response")
		return
	}

	auth.server.Logger.Warn().
		Str("function", "LoadSession").
		Str("path", r.URL.Path).
		Dur("duration", time.Since(start)).
		Msg("session token rejected")
}

// RequireAuth fails with Unauthorized (403) unless the request carries a
// caller identity. On success the identity is stored under UserIDKey and
// added to the request logger.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		userID, ok := auth.identity(c)
		if !ok {
			GetLogger(c).Warn().
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("request has no caller identity")

			return errs.Unauthorized()
		}

		c.Set(UserIDKey, userID)
		setLogger(c, GetLogger(c).With().Str("user_id", userID).Logger())

		GetLogger(c).Debug().
			Str("function", "RequireAuth").
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}
