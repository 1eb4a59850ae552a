package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthAccount represents an authenticated account from JWT
type AuthAccount struct {
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
}

// contextKey is used for storing the account in context
type contextKey string

const (
	accountContextKey contextKey = "authenticated_account"
)

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret    string
	Logger    *zap.Logger
	SkipPaths []string // Paths to skip JWT validation
}

// JWTMiddleware validates bearer tokens issued by the identity provider. The
// sub claim carries the account id; role and plan are NEVER read from the
// token because entitlements are re-derived from the store on every
// privileged decision.
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, skipPath := range config.SkipPaths {
				if strings.HasPrefix(path, skipPath) {
					return next(c)
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				config.Logger.Warn("Missing authorization header",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Authorization header required",
					"code":  "MISSING_AUTH_HEADER",
				})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				config.Logger.Warn("Invalid authorization header format",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid authorization header format. Expected: Bearer <token>",
					"code":  "INVALID_AUTH_FORMAT",
				})
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(config.Secret), nil
			})

			if err != nil {
				config.Logger.Warn("JWT validation failed",
					zap.Error(err),
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid or expired token",
					"code":  "INVALID_TOKEN",
				})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				config.Logger.Warn("Invalid JWT claims",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid token claims",
					"code":  "INVALID_CLAIMS",
				})
			}

			sub, _ := claims["sub"].(string)
			accountID, err := uuid.Parse(sub)
			if err != nil {
				config.Logger.Warn("Invalid account id in token",
					zap.String("path", path),
					zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Token subject must be a valid account id",
					"code":  "INVALID_ACCOUNT_ID_FORMAT",
				})
			}

			email, _ := claims["email"].(string)

			authAccount := &AuthAccount{
				AccountID: accountID,
				Email:     email,
			}

			ctx := context.WithValue(c.Request().Context(), accountContextKey, authAccount)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("account_id", accountID.String())

			config.Logger.Debug("Account authenticated",
				zap.String("account_id", accountID.String()),
				zap.String("path", path))

			return next(c)
		}
	}
}

// GetAccountFromContext extracts the authenticated account from the request context
func GetAccountFromContext(c echo.Context) (*AuthAccount, error) {
	account, ok := c.Request().Context().Value(accountContextKey).(*AuthAccount)
	if !ok || account == nil {
		return nil, fmt.Errorf("no authenticated account found in context")
	}
	return account, nil
}

// GetAccountID is a helper to get the authenticated account id
func GetAccountID(c echo.Context) (uuid.UUID, error) {
	account, err := GetAccountFromContext(c)
	if err != nil {
		return uuid.Nil, err
	}
	return account.AccountID, nil
}
