package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"snapFeedAPI/internal/types/friendship"
	"snapFeedAPI/internal/types/user"
	"snapFeedAPI/middleware"
	"snapFeedAPI/services"

	"github.com/google/uuid"
)

type FriendHandler struct {
	friendService *services.FriendService
	userService   *services.UserService
}

func NewFriendHandler(friendService *services.FriendService, userService *services.UserService) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
		userService:   userService,
	}
}

// FriendEntry is one rendered row in the friend or request list.
type FriendEntry struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	ProfileImage string    `json:"profile_image"`
}

type FriendsResponse struct {
	Friends             []FriendEntry `json:"friends"`
	PendingSentTo       []uuid.UUID   `json:"pending_sent_to"`
	PendingReceivedFrom []FriendEntry `json:"pending_received_from"`
}

// GetFriends resolves the caller's friend graph and enriches the accepted
// friends and incoming requesters into display entries. A resolve failure
// degrades to an empty list; the page must render either way.
func (h *FriendHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	userID, err := h.userService.GetUserIDByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	view, err := h.friendService.Resolve(ctx, userID)
	if err != nil {
		log.Printf("GetFriends: resolve failed for %s: %v", userID, err)
	}

	profiles := h.friendService.EnrichProfiles(ctx,
		append(append([]uuid.UUID{}, view.AcceptedFriendIDs...), view.PendingReceivedFrom...))

	resp := FriendsResponse{
		Friends:             entriesFor(view.AcceptedFriendIDs, profiles),
		PendingSentTo:       view.PendingSentTo,
		PendingReceivedFrom: entriesFor(view.PendingReceivedFrom, profiles),
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func entriesFor(ids []uuid.UUID, profiles map[uuid.UUID]user.Profile) []FriendEntry {
	entries := []FriendEntry{}
	for _, id := range ids {
		p, ok := profiles[id]
		if !ok {
			// Lookup failed and was already logged; drop the row.
			continue
		}
		entries = append(entries, FriendEntry{
			ID:           id,
			Email:        p.Email,
			Nickname:     p.Nickname,
			ProfileImage: p.ProfileImage,
		})
	}
	return entries
}

type sendRequestBody struct {
	UserID uuid.UUID `json:"user_id"`
}

func (h *FriendHandler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var body sendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fromID, err := h.userService.GetUserIDByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.friendService.SendRequest(ctx, fromID, body.UserID); err != nil {
		if errors.Is(err, services.ErrInvalidOperation) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to send friend request")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Friend request sent"})
}

type acceptRequestBody struct {
	RequesterID uuid.UUID `json:"requester_id"`
}

func (h *FriendHandler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var body acceptRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := h.userService.GetUserIDByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	// Only the recipient accepts, so the edge to flip is requester -> me.
	edge := friendship.Edge{
		UserID1: body.RequesterID,
		UserID2: userID,
		Status:  friendship.FriendshipPending,
	}

	if err := h.friendService.AcceptRequest(ctx, edge); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "No pending request from that user")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to accept friend request")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Friend request accepted"})
}

func (h *FriendHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	userID, err := h.userService.GetUserIDByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	users, err := h.friendService.Suggestions(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch suggestions")
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}

func (h *FriendHandler) GenerateInviteQr(w http.ResponseWriter, r *http.Request) {
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

	qr, err := h.friendService.GenerateInviteQr(u)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Unable to generate QR code")
		return
	}

	respondWithJSON(w, http.StatusCreated, qr)
}
