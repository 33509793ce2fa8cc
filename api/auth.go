package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/huvtsp/alumni/internal/apperr"
	"github.com/huvtsp/alumni/internal/schema"
)

// siteSubject is the token subject for visitors who passed the site gate.
const siteSubject = "site"

// AuthHandler guards the directory behind a single shared site password.
type AuthHandler struct {
	passwordHash  string
	jwtSecret     string
	tokenDuration time.Duration
	schemas       *schema.Loader
}

// NewAuthHandler creates a new AuthHandler. With an empty passwordHash no
// password validates, so no site token is ever issued; config validation
// only allows that in development.
func NewAuthHandler(passwordHash, jwtSecret string, tokenDuration time.Duration, schemas *schema.Loader) *AuthHandler {
	return &AuthHandler{passwordHash: passwordHash, jwtSecret: jwtSecret, tokenDuration: tokenDuration, schemas: schemas}
}

type passwordRequest struct {
	Password string `json:"password"`
}

type passwordResponse struct {
	Valid     bool   `json:"valid"`
	Token     string `json:"token,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

func (h *AuthHandler) ValidatePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeValid(r, h.schemas, schema.Password, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if h.passwordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)) != nil {
		logger.Info("site password rejected", slog.String("request_id", RequestID(r.Context())))
		writeJSON(w, passwordResponse{Valid: false}, http.StatusUnauthorized)
		return
	}

	now := time.Now()
	exp := now.Add(h.tokenDuration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   siteSubject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		writeError(w, r, apperr.Internal("Error signing token", err))
		return
	}

	writeJSON(w, passwordResponse{Valid: true, Token: tokenStr, ExpiresAt: exp.Unix()}, http.StatusOK)
}
