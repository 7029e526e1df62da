package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"dailyDebugAPI/internal/types/subscription"
	"dailyDebugAPI/middleware"
	"dailyDebugAPI/services"
)

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
	userService         *services.UserService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService, userService *services.UserService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		userService:         userService,
	}
}

// GetSubscription returns the caller's subscription, defaulting to the free
// plan. The client derives isPremium from status+plan+period end, same rule
// as the server.
func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	sub, err := h.subscriptionService.GetSubscription(ctx, u.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch subscription")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"subscription": sub,
		"isPremium":    sub.IsPremium(time.Now()),
	})
}

// StartCheckout is the stubbed billing entry point.
func (h *SubscriptionHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	var req subscription.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.subscriptionService.StartCheckout(ctx, u.ID, req.PriceID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
