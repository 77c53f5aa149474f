// handlers/auth.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"mariua.net/obras/models"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Login exchanges e-mail and password for a 24h token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	if req.Username == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "Usuário e senha são obrigatórios")
		return
	}

	var u models.User
	if err := h.DB.WithContext(r.Context()).Where("email = ? AND is_active = ?", req.Username, true).First(&u).Error; err != nil {
		h.writeError(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		h.writeError(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	token, err := h.Auth.GenerateToken(u.ID.String(), u.Email, u.Name)
	if err != nil {
		h.Logger.Error("couldn't create token", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "couldn't create token")
		return
	}

	writeJSON(w, http.StatusOK, loginResp{
		Token:    token,
		Username: u.Email,
		Name:     u.Name,
	})
}
