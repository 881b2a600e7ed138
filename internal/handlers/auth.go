package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stanstork/timeline-notify/internal/authz"
	"github.com/stanstork/timeline-notify/internal/config"
	"github.com/stanstork/timeline-notify/internal/response"
)

const (
	ownerSubject = "owner"
	tokenTTL     = 24 * time.Hour
)

type AuthHandler struct {
	password  string
	jwtSecret string
	now       func() time.Time
	logger    zerolog.Logger
}

type loginRequest struct {
	Password string `json:"password"`
}

func NewAuthHandler(cfg *config.Config, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		password:  cfg.Password,
		jwtSecret: cfg.JWTSecret,
		now:       time.Now,
		logger:    logger.With().Str("handler", "auth").Logger(),
	}
}

// Login exchanges the platform password for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if req.Password != h.password {
		h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("login rejected")
		response.Unauthorized(w)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   ownerSubject,
		IssuedAt:  jwt.NewNumericDate(h.now()),
		ExpiresAt: jwt.NewNumericDate(h.now().Add(tokenTTL)),
	})
	tokenString, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sign token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"token": tokenString})
}

// JWTMiddleware validates the bearer token and records its subject.
func (h *AuthHandler) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			response.Unauthorized(w)
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w)
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(h.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			response.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(authz.WithSubject(r.Context(), claims.Subject)))
	})
}
