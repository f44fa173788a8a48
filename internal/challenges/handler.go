package challenges

import (
	"encoding/json"
	"net/http"

	"github.com/challenge-pot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (uuid.UUID, bool) {
	uid, ok := r.Context().Value("user_id").(uuid.UUID)
	return uid, ok
}

// ── Challenges ──────────────────────────────────────────

func (h *Handler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	challenge, err := h.service.Create(userID, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, challenge)
}

func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	list, err := h.service.ListMine(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list challenges"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"challenges": list})
}

func (h *Handler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	vars := mux.Vars(r)
	challenge, err := h.service.Get(vars["id"])
	if err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "challenge not found" {
			status = http.StatusNotFound
		}
		writeJSON(w, status, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, challenge)
}

func (h *Handler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.JoinChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	challenge, err := h.service.Join(userID, req.InviteCode)
	if err != nil {
		status := http.StatusBadRequest
		switch err.Error() {
		case "challenge not found":
			status = http.StatusNotFound
		case "already joined this challenge":
			status = http.StatusConflict
		case "challenge is full":
			status = http.StatusConflict
		}
		writeJSON(w, status, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, challenge)
}

func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	challengeID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid challenge ID"})
		return
	}

	participants, err := h.service.Participants(challengeID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list participants"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"participants": participants})
}

// ── Rankings ────────────────────────────────────────────

func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	challengeID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid challenge ID"})
		return
	}

	resp, err := h.service.Rankings(challengeID, userID)
	if err != nil {
		writeJSON(w, rankingErrorStatus(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	challengeID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid challenge ID"})
		return
	}

	resp, err := h.service.Results(challengeID, userID)
	if err != nil {
		status := rankingErrorStatus(err)
		if err.Error() == "challenge is not completed yet" {
			status = http.StatusConflict
		}
		writeJSON(w, status, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func rankingErrorStatus(err error) int {
	switch err.Error() {
	case "challenge not found":
		return http.StatusNotFound
	case "not a participant of this challenge":
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// ── Helpers ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
