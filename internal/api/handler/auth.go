// internal/api/handler/auth.go
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"socialgraph/internal/service"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	responder
	users service.UserService
}

func NewAuthHandler(users service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{responder: responder{logger: logger}, users: users}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username  string   `json:"username" validate:"required,min=3,max=32"`
	Password  string   `json:"password" validate:"required,min=6,max=72"`
	Interests []string `json:"interests" validate:"max=50,dive,max=64"`
}

// Normalize trims the username so length rules apply to what gets stored.
func (req *RegisterRequest) Normalize() {
	req.Username = strings.TrimSpace(req.Username)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles user registration.
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if detail, ok := decodeAndValidate(r, &req); !ok {
		h.respondWithValidationError(w, detail)
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password, req.Interests)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, user.Summary())
}

// Login exchanges credentials for an identity token.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if detail, ok := decodeAndValidate(r, &req); !ok {
		h.respondWithValidationError(w, detail)
		return
	}

	token, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}
