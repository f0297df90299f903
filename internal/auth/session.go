package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habittracker/internal/model"
	"habittracker/pkg/logger"
	"habittracker/pkg/metrics"
)

// Session outcomes, also used as metric labels.
const (
	OutcomeAnonymous = "anonymous"
	OutcomeAccess    = "access"
	OutcomeRefreshed = "refreshed"
	OutcomeRejected  = "rejected"
)

// UserLookup is the slice of the user repository the session needs.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// Session authenticates requests from the auth cookies and rotates the token
// pair when only the refresh token is still good. It never rejects a request:
// anything that does not check out leaves the request anonymous.
type Session struct {
	codec   *TokenCodec
	users   UserLookup
	cookies Cookies
	logger  *zap.Logger
}

func NewSession(codec *TokenCodec, users UserLookup, cookies Cookies, logger *zap.Logger) *Session {
	return &Session{
		codec:   codec,
		users:   users,
		cookies: cookies,
		logger:  logger,
	}
}

// Authenticate returns r with the response writer and, when authenticated,
// the username attached to its context.
func (s *Session) Authenticate(w http.ResponseWriter, r *http.Request) *http.Request {
	ctx := WithResponseWriter(r.Context(), w)

	username, outcome := s.resolve(ctx, w, r)
	metrics.IncrementSessionOutcome(outcome)

	if username != "" {
		ctx = WithUsername(ctx, username)
	}
	return r.WithContext(ctx)
}

func (s *Session) resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, string) {
	log := logger.WithTrace(ctx, s.logger)

	access := cookieValue(r, AccessCookieName)
	refresh := cookieValue(r, RefreshCookieName)

	if access == "" && refresh == "" {
		return "", OutcomeAnonymous
	}

	if access != "" {
		claims, err := s.codec.VerifyAccess(access)
		if err == nil && claims.Username != "" {
			return claims.Username, OutcomeAccess
		}
		log.Debug("access token rejected", zap.Error(err))
	}

	if refresh == "" {
		return "", OutcomeRejected
	}

	claims, err := s.codec.VerifyRefresh(refresh)
	if err != nil || claims.Username == "" {
		log.Debug("refresh token rejected", zap.Error(err))
		return "", OutcomeRejected
	}

	user, err := s.users.FindByUsername(ctx, claims.Username)
	if err != nil {
		log.Debug("refresh token user lookup failed", zap.String("username", claims.Username), zap.Error(err))
		return "", OutcomeRejected
	}
	if user.TokenCount != claims.TokenCount {
		log.Debug("refresh token superseded",
			zap.String("username", user.Username),
			zap.Int("token_count", claims.TokenCount),
			zap.Int("current_count", user.TokenCount),
		)
		return "", OutcomeRejected
	}

	pair, err := s.codec.IssueTokens(user)
	if err != nil {
		log.Warn("failed to rotate tokens", zap.String("username", user.Username), zap.Error(err))
		return "", OutcomeRejected
	}
	s.cookies.SetAuthCookies(w, pair)

	return user.Username, OutcomeRefreshed
}

// Handler is the net/http form of the middleware.
func (s *Session) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, s.Authenticate(w, r))
	})
}

// GinMiddleware is the gin form of the middleware.
func (s *Session) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = s.Authenticate(c.Writer, c.Request)
		c.Next()
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
