package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retail/backoffice/internal/infrastructure/auth"
	"github.com/retail/backoffice/internal/infrastructure/logger"
	"github.com/retail/backoffice/internal/interfaces/http/dto"
)

// Context keys set by the auth middleware
const (
	ActorIDContextKey  = "auth_actor_id"
	UsernameContextKey = "auth_username"
	RolesContextKey    = "auth_roles"
	ClaimsContextKey   = "auth_claims"
)

// AuthConfig holds authentication middleware configuration
type AuthConfig struct {
	// SkipPaths are path prefixes that bypass authentication entirely
	SkipPaths []string
	// AllowActorHeader enables the X-Actor-ID fallback when no bearer
	// token is present. Only set this outside production.
	AllowActorHeader bool
}

// DefaultAuthConfig returns the default authentication configuration
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		SkipPaths: []string{"/health"},
	}
}

// Auth validates bearer tokens and resolves the acting user for the request.
//
// Resolution order:
//  1. Authorization: Bearer <jwt> header, validated against the signing key
//     and the token blacklist (when one is configured).
//  2. X-Actor-ID header carrying a raw UUID, accepted only when
//     AllowActorHeader is set.
//
// Requests that resolve no actor are rejected with 401.
func Auth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, log *zap.Logger, cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		if header != "" {
			token, ok := extractBearerToken(header)
			if !ok {
				abortUnauthorized(c, "Invalid authorization header format")
				return
			}
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				abortUnauthorized(c, authErrorMessage(err))
				return
			}
			if blacklist != nil && isRevoked(c, blacklist, claims, log) {
				abortUnauthorized(c, "Token has been revoked")
				return
			}
			setActorContext(c, claims.ActorID, claims.Username, claims.Roles)
			c.Set(ClaimsContextKey, claims)
			c.Next()
			return
		}

		if cfg.AllowActorHeader {
			if actorID := c.GetHeader("X-Actor-ID"); actorID != "" {
				if _, err := uuid.Parse(actorID); err != nil {
					abortUnauthorized(c, "X-Actor-ID must be a valid UUID")
					return
				}
				setActorContext(c, actorID, "", nil)
				c.Next()
				return
			}
		}

		abortUnauthorized(c, "Authorization required")
	}
}

func extractBearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func authErrorMessage(err error) string {
	switch err {
	case auth.ErrExpiredToken:
		return "Token has expired"
	case auth.ErrTokenNotYetValid:
		return "Token is not valid yet"
	default:
		return "Invalid token"
	}
}

// isRevoked checks the blacklist for the token's JTI and for an
// actor-wide invalidation issued after the token was minted. Blacklist
// lookup failures are logged and treated as not revoked so that a Redis
// outage does not lock everyone out.
func isRevoked(c *gin.Context, blacklist auth.TokenBlacklist, claims *auth.Claims, log *zap.Logger) bool {
	ctx := c.Request.Context()

	if claims.ID != "" {
		revoked, err := blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			if log != nil {
				log.Warn("token blacklist check failed",
					zap.String("jti", claims.ID),
					zap.Error(err))
			}
		} else if revoked {
			return true
		}
	}

	issuedAt := claims.GetIssuedAtTime()
	if !issuedAt.IsZero() {
		invalidated, err := blacklist.IsActorTokenInvalidated(ctx, claims.ActorID, issuedAt)
		if err != nil {
			if log != nil {
				log.Warn("actor invalidation check failed",
					zap.String("actor_id", claims.ActorID),
					zap.Error(err))
			}
			return false
		}
		return invalidated
	}

	return false
}

func setActorContext(c *gin.Context, actorID, username string, roles []string) {
	c.Set(ActorIDContextKey, actorID)
	if username != "" {
		c.Set(UsernameContextKey, username)
	}
	if len(roles) > 0 {
		c.Set(RolesContextKey, roles)
	}

	ctx, _ := logger.WithActorID(c.Request.Context(), logger.FromContext(c.Request.Context()), actorID)
	c.Request = c.Request.WithContext(ctx)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(message))
}

// GetActorID returns the authenticated actor ID set by the Auth middleware
func GetActorID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(ActorIDContextKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetUsername returns the authenticated username, if any
func GetUsername(c *gin.Context) string {
	return c.GetString(UsernameContextKey)
}

// GetRoles returns the authenticated actor's roles, if any
func GetRoles(c *gin.Context) []string {
	if roles, ok := c.Get(RolesContextKey); ok {
		if r, ok := roles.([]string); ok {
			return r
		}
	}
	return nil
}

// GetClaims returns the full JWT claims when the request carried a token
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	if v, ok := c.Get(ClaimsContextKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims, true
		}
	}
	return nil, false
}
