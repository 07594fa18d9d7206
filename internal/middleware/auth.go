package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bclick/internal/apierror"
	"bclick/internal/model"
	"bclick/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	ClaimsKey = "claims"
	ActorKey  = "actor"
)

// IdentityClaims are the claims we read from identity provider tokens. The
// subject is the stable account id; role is optional and only consulted when
// a user is first synced.
type IdentityClaims struct {
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserResolver maps a verified subject to the internal user.
type UserResolver interface {
	Resolve(ctx context.Context, subject string) (*model.User, error)
}

// IdentityToken verifies the Bearer token issued by the identity provider.
// Issuer is checked only when configured.
func IdentityToken(secret, issuer string) gin.HandlerFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.WithCode("unauthenticated", "authentication required"))
			return
		}

		claims := &IdentityClaims{}
		token, err := parser.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.WithCode("invalid_token", "invalid or expired token"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// ResolveActor loads the internal user behind the token subject and stores
// it as the request actor. Must run after IdentityToken.
func ResolveActor(users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.WithCode("unauthenticated", "authentication required"))
			return
		}
		u, err := users.Resolve(c.Request.Context(), claims.Subject)
		if errors.Is(err, service.ErrUnknownUser) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.WithCode("user_not_synced", "user is not registered, call /api/users/sync first"))
			return
		}
		if err != nil {
			log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("resolve actor")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.WithCode("internal_error", "internal server error"))
			return
		}
		if !u.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.WithCode("forbidden", "account disabled"))
			return
		}
		c.Set(ActorKey, service.Actor{ID: u.ID, Role: u.Role})
		c.Next()
	}
}

// RequireRole rejects actors whose role is not in the allowed list.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		actor, ok := c.Get(ActorKey)
		if !ok || !allowed[actor.(service.Actor).Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.WithCode("forbidden", "insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetClaims returns the verified token claims, nil when absent.
func GetClaims(c *gin.Context) *IdentityClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*IdentityClaims)
	return claims
}

// GetActor returns the resolved actor. Only valid behind ResolveActor.
func GetActor(c *gin.Context) service.Actor {
	actor, _ := c.MustGet(ActorKey).(service.Actor)
	return actor
}
