package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bgoldmann/darkstore/internal/delivery/http/response"
	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

// ActorClaims is issued by the auth service. Subject carries the user id.
type ActorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func ParseActorToken(tokenString string, secret []byte) (domain.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Actor{}, err
	}

	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid {
		return domain.Actor{}, jwt.ErrTokenInvalidClaims
	}
	actor := domain.Actor{ID: claims.Subject, Role: domain.Role(claims.Role)}
	if actor.ID == "" || !actor.Role.Valid() {
		return domain.Actor{}, errors.New("token does not name a known actor")
	}
	return actor, nil
}

// AuthMiddleware turns a bearer token into the authenticated actor.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, http.StatusUnauthorized, response.ErrUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		actor, err := ParseActorToken(parts[1], secret)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.ErrUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}
