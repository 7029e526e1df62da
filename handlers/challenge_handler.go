package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"dailyDebugAPI/internal/types/challenge"
	"dailyDebugAPI/services"

	"github.com/gorilla/mux"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
}

func NewChallengeHandler(challengeService *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
	}
}

// GetTodaysChallenge serves the challenge of the day, answer fields stripped.
func (h *ChallengeHandler) GetTodaysChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ch, err := h.challengeService.GetChallengeByDate(ctx, services.TodayDate())
	if err != nil {
		respondWithError(w, http.StatusNotFound, "No challenge found for today")
		return
	}

	respondWithJSON(w, http.StatusOK, ch.Public())
}

func (h *ChallengeHandler) GetChallengeByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	ch, err := h.challengeService.GetChallengeByID(ctx, id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Challenge not found")
		return
	}

	respondWithJSON(w, http.StatusOK, ch.Public())
}

// GetPastChallenges lists active challenges before today, newest first.
func (h *ChallengeHandler) GetPastChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	challenges, err := h.challengeService.ListChallengesBefore(ctx, services.TodayDate())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch past challenges")
		return
	}

	public := make([]*challenge.Public, 0, len(challenges))
	for _, ch := range challenges {
		public = append(public, ch.Public())
	}

	respondWithJSON(w, http.StatusOK, public)
}

// CreateChallenge is the content ingestion path used by the migration script.
// It is guarded by a shared admin secret rather than user auth.
func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	secret := os.Getenv("ADMIN_API_SECRET")
	if secret == "" || r.Header.Get("X-Admin-Secret") != secret {
		respondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req challenge.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Date == "" || req.CorrectAnswer == "" {
		respondWithError(w, http.StatusBadRequest, "date and correctAnswer are required")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	ch, err := h.challengeService.CreateChallenge(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, ch)
}
