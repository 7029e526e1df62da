package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"dailyDebugAPI/internal/types/progress"
	"dailyDebugAPI/middleware"
	"dailyDebugAPI/services"

	"github.com/gorilla/mux"
)

// SolveHandler fronts the solving core. These routes sit behind optional
// auth: without a token the machine runs anonymously and nothing persists.
type SolveHandler struct {
	solveService *services.SolveService
	userService  *services.UserService
}

func NewSolveHandler(solveService *services.SolveService, userService *services.UserService) *SolveHandler {
	return &SolveHandler{
		solveService: solveService,
		userService:  userService,
	}
}

// resolveUserID maps the Clerk ID on the context (if any) to the internal
// user id used as the progress key. Unknown or anonymous callers get "".
func (h *SolveHandler) resolveUserID(ctx context.Context) string {
	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		return ""
	}
	u, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return ""
	}
	return u.ID
}

func challengeIDFrom(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

// GetProgress returns the seeded solve state for the challenge page. A
// terminal record already carries the explanation so the UI can pre-open it.
func (h *SolveHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	challengeID, err := challengeIDFrom(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	resp, err := h.solveService.GetSolveState(ctx, h.resolveUserID(ctx), challengeID)
	if err != nil {
		h.respondSolveError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *SolveHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	challengeID, err := challengeIDFrom(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	var req progress.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.solveService.Submit(ctx, h.resolveUserID(ctx), challengeID, req.Answer)
	if err != nil {
		h.respondSolveError(w, err)
		return
	}

	// Replays against a finished run changed nothing; keep them out of the
	// verdict counts.
	if !resp.Replay {
		switch {
		case resp.Correct:
			middleware.RecordVerdict("solved")
		case resp.Status == progress.StatusFailed:
			middleware.RecordVerdict("failed")
		default:
			middleware.RecordVerdict("incorrect")
		}
	}
	if !resp.ProgressSaved {
		middleware.RecordProgressSaveFailure()
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *SolveHandler) UseHint(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	challengeID, err := challengeIDFrom(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	resp, err := h.solveService.UseHint(ctx, h.resolveUserID(ctx), challengeID)
	if err != nil {
		h.respondSolveError(w, err)
		return
	}

	if !resp.ProgressSaved {
		middleware.RecordProgressSaveFailure()
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *SolveHandler) GiveUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	challengeID, err := challengeIDFrom(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	var req progress.GiveUpRequest
	if r.Body != nil {
		// Body is optional: an empty give-up just drops the draft.
		json.NewDecoder(r.Body).Decode(&req)
	}

	resp, err := h.solveService.GiveUp(ctx, h.resolveUserID(ctx), challengeID, req.Answer)
	if err != nil {
		h.respondSolveError(w, err)
		return
	}

	if !resp.ProgressSaved {
		middleware.RecordProgressSaveFailure()
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *SolveHandler) respondSolveError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrChallengeNotFound) {
		respondWithError(w, http.StatusNotFound, "Challenge not found")
		return
	}
	respondWithError(w, http.StatusInternalServerError, err.Error())
}
