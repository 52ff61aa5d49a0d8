package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/config"
)

// UserIDKey is the gin context key carrying the resolved user identity.
const UserIDKey = "user_id"

// DefaultUserID is used when auth is disabled and the client sends no
// identity header.
const DefaultUserID = "guest"

// Validator validates JWTs using JWKS.
type Validator struct {
	cfg  *config.Config
	log  zerolog.Logger
	jwks *keyfunc.JWKS
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	if !cfg.AuthEnabled {
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{
		cfg:  cfg,
		log:  log,
		jwks: jwks,
	}, nil
}

// Middleware resolves the caller's identity. With auth enabled it enforces a
// valid JWT and takes the subject claim; disabled it falls back to the
// X-User-ID header so local setups still get per-user scoping.
func (v *Validator) Middleware() gin.HandlerFunc {
	if v == nil || !v.cfg.AuthEnabled {
		return func(c *gin.Context) {
			userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
			if userID == "" {
				userID = DefaultUserID
			}
			c.Set(UserIDKey, userID)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		token, err := jwt.Parse(tokenString, v.jwks.Keyfunc,
			jwt.WithAudience(v.cfg.AuthAudience),
			jwt.WithIssuer(v.cfg.AuthIssuer),
			jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		)
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			abortUnauthorized(c, "token has no subject")
			return
		}

		c.Set(UserIDKey, subject)
		c.Next()
	}
}

// UserID returns the resolved identity for the request.
func UserID(c *gin.Context) string {
	if id, ok := c.Get(UserIDKey); ok {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	return DefaultUserID
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
}
