package missions

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

func (h *Handler) ListMissions(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	challengeID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid challenge ID"})
		return
	}

	list, err := h.service.ListMissions(challengeID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list missions"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"missions": list})
}

func (h *Handler) LogMission(w http.ResponseWriter, r *http.Request) {
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

	var req models.LogMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.MissionID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "mission_id is required"})
		return
	}

	logEntry, err := h.service.LogMission(userID, challengeID, req)
	if err != nil {
		status := http.StatusBadRequest
		switch err.Error() {
		case "mission not found":
			status = http.StatusNotFound
		case "not a participant of this challenge":
			status = http.StatusForbidden
		}
		writeJSON(w, status, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, logEntry)
}

func (h *Handler) ListDayLogs(w http.ResponseWriter, r *http.Request) {
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

	logs, err := h.service.DayLogs(userID, challengeID, r.URL.Query().Get("date"))
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "not a participant of this challenge" {
			status = http.StatusForbidden
		}
		writeJSON(w, status, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": logs})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
