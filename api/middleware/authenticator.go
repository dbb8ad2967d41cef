package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mindshard/mindshard-server/api/httpbase"
	"github.com/mindshard/mindshard-server/common/config"
	"github.com/mindshard/mindshard-server/common/types"
)

// Authenticator accepts either the static platform API token or a user JWT
// issued by the auth component. Requests without an Authorization header pass
// through anonymously; routes that require a login add MustLogin on top.
func Authenticator(config *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiToken := config.APIToken

		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		if apiToken != "" && token == apiToken {
			httpbase.SetAuthType(c, httpbase.AuthTypeApiKey)
		} else {
			claims, err := parseJWTToken(config.JWT.SigningKey, token)
			if err != nil {
				slog.Debug("fail to parse jwt token", slog.String("token_get", token), slog.Any("error", err))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}

			httpbase.SetAuthType(c, httpbase.AuthTypeJwt)
			httpbase.SetCurrentUser(c, claims.CurrentUser)
			httpbase.SetSuiAddress(c, claims.SuiAddress)
		}

		c.Next()
	}
}

// MustLogin rejects requests that carry neither a valid JWT nor the platform
// API token.
func MustLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpbase.GetAuthType(c) == httpbase.AuthTypeApiKey {
			c.Next()
			return
		}
		if httpbase.GetCurrentUser(c) == "" {
			slog.Info("anonymous request to protected route", slog.Any("url", c.Request.URL))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

func parseJWTToken(signKey, tokenString string) (*types.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(signKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid JWT token,%w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid JWT token")
	}

	claims, ok := token.Claims.(*types.JWTClaims)
	if ok {
		return claims, nil
	}
	return nil, fmt.Errorf("JWT token claims not match: %+v", *token)
}
