package stub

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// AuthHandler serves the credential endpoints.
type AuthHandler struct {
	store  *Store
	tokens *Tokens
}

func NewAuthHandler(store *Store, tokens *Tokens) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		messageError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Email == "" || req.Password == "" {
		fieldErrors(w, http.StatusBadRequest, map[string][]string{
			"credentials": {"email and password are required"},
		})
		return
	}

	user, ok := h.store.Authenticate(req.Email, req.Password)
	if !ok {
		messageError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue token")
		messageError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":             token,
		"mustResetPassword": user.MustResetPassword,
	})
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		messageError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if len(req.NewPassword) < 8 {
		fieldErrors(w, http.StatusBadRequest, map[string][]string{
			"newPassword": {"password must be at least 8 characters long"},
		})
		return
	}

	email := subjectFromContext(r)
	if email == "" {
		messageError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if err := h.store.SetPassword(email, req.NewPassword); err != nil {
		pascalError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated."})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		messageError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	// Always answer the same way, registered or not.
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If the email is registered, a reset link has been sent.",
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if raw := jwtauth.TokenFromHeader(r); raw != "" {
		h.store.Revoke(raw)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

// subjectFromContext reads the authenticated user's email from the
// verified token claims.
func subjectFromContext(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}
