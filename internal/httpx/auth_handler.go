package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bookport/bookport/internal/auth"
)

type AuthHandler struct {
	Users  *auth.Repo
	Tokens *auth.Tokens
	Log    *zap.Logger
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	NoHP     string `json:"no_hp"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "nama, email, dan password wajib diisi"})
		return
	}
	if len(req.Password) < 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "password minimal 6 karakter"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	taken, err := h.Users.EmailTaken(ctx, req.Email)
	if err != nil {
		writeErr(w, err)
		return
	}
	if taken {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email sudah terdaftar"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	id, err := h.Users.Create(ctx, req.Name, req.Email, hash, req.NoHP)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "registrasi berhasil", "userId": id})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// Same message for unknown email and wrong password.
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email atau password salah"})
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Nama, user.Email, user.Role)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id": user.ID, "nama": user.Nama, "email": user.Email, "role": user.Role,
		},
	})
}

func (h *AuthHandler) profile(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	user, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id": user.ID, "nama": user.Nama, "email": user.Email,
		"no_hp": user.NoHP, "alamat": user.Alamat, "role": user.Role,
	})
}

type profileReq struct {
	Nama   string `json:"nama"`
	NoHP   string `json:"no_hp"`
	Alamat string `json:"alamat"`
}

func (h *AuthHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())

	var req profileReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, claims.UserID, req.Nama, req.NoHP, req.Alamat); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}
