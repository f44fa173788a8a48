package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/challenge-pot/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// JWTSecret returns the HMAC signing key for auth tokens. It reads the
// environment at use time, not init time, so a JWT_SECRET loaded from
// .env after startup is honored. Override it in any real deployment.
func JWTSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("challenge-pot-staging-signing-key-2026")
}

type Handler struct {
	db *sql.DB
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Nickname = strings.TrimSpace(req.Nickname)

	if req.Nickname == "" || req.PinCode == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Nickname and PIN code are required"})
		return
	}
	if len([]rune(req.Nickname)) > 20 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Nickname must be 20 characters or fewer"})
		return
	}
	if !validPin(req.PinCode) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "PIN code must be 4-6 digits"})
		return
	}
	if req.ProfileID < 1 {
		req.ProfileID = 1
	}

	hashedPin, err := bcrypt.GenerateFromPassword([]byte(req.PinCode), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	var user models.User
	err = h.db.QueryRow(
		`INSERT INTO users (nickname, pin_code, profile_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, nickname, profile_id, created_at, updated_at`,
		req.Nickname, string(hashedPin), req.ProfileID, time.Now(), time.Now(),
	).Scan(&user.ID, &user.Nickname, &user.ProfileID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "This nickname is already taken"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create account"})
		return
	}

	token, err := generateToken(user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusCreated, models.AuthResponse{Token: token, User: user})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Nickname = strings.TrimSpace(req.Nickname)

	if req.Nickname == "" || req.PinCode == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Nickname and PIN code are required"})
		return
	}

	var user models.User
	var hashedPin string
	err := h.db.QueryRow(
		`SELECT id, nickname, pin_code, profile_id, created_at, updated_at FROM users WHERE nickname = $1`,
		req.Nickname,
	).Scan(&user.ID, &user.Nickname, &hashedPin, &user.ProfileID, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid nickname or PIN code"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPin), []byte(req.PinCode)); err != nil {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid nickname or PIN code"})
		return
	}

	token, err := generateToken(user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: user})
}

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uuid.UUID)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var user models.User
	err := h.db.QueryRow(
		`SELECT id, nickname, profile_id, created_at, updated_at FROM users WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Nickname, &user.ProfileID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func validPin(pin string) bool {
	if len(pin) < 4 || len(pin) > 6 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func generateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
