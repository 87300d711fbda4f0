package appMiddleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-itinerary-health/config"
	"github.com/FACorreiaa/go-itinerary-health/internal/api"
)

// Authenticate validates the Bearer access token and stores the user ID and
// role in the request context. It panics when no secret is configured.
func Authenticate(logger *slog.Logger, jwtCfg config.JWTConfig) func(next http.Handler) http.Handler {
	secretKey := []byte(jwtCfg.SecretKey)
	if len(secretKey) == 0 {
		logger.Error("FATAL: JWT Secret Key is not configured!")
		panic("JWT Secret Key cannot be empty")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				l.WarnContext(ctx, "Missing Authorization header")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				l.WarnContext(ctx, "Invalid Authorization header format")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}

			claims := &Claims{}
			opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
			if jwtCfg.Issuer != "" {
				opts = append(opts, jwt.WithIssuer(jwtCfg.Issuer))
			}
			token, err := jwt.ParseWithClaims(headerParts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secretKey, nil
			}, opts...)
			if err != nil || !token.Valid {
				l.WarnContext(ctx, "Token parsing/validation failed", slog.Any("error", err))
				msg := "Invalid or expired token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					msg = "Token has expired"
				}
				api.ErrorResponse(w, r, http.StatusUnauthorized, msg)
				return
			}

			if !api.VerifyAudience(claims.Audience, jwtCfg.Audience) {
				l.WarnContext(ctx, "Token audience mismatch", slog.Any("audience", claims.Audience))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid token audience")
				return
			}

			userID := claims.UserID
			if userID == "" {
				userID = claims.Subject
			}
			if userID == "" {
				l.WarnContext(ctx, "Token carries no user")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid token claims")
				return
			}

			ctx = context.WithValue(ctx, UserIDKey, userID)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
