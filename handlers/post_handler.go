package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"snapFeedAPI/internal/types/post"
	"snapFeedAPI/middleware"
	"snapFeedAPI/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxUploadBytes = 32 << 20

type PostHandler struct {
	postService   *services.PostService
	friendService *services.FriendService
	userService   *services.UserService
	storage       *services.StorageService
}

func NewPostHandler(postService *services.PostService, friendService *services.FriendService, userService *services.UserService, storage *services.StorageService) *PostHandler {
	return &PostHandler{
		postService:   postService,
		friendService: friendService,
		userService:   userService,
		storage:       storage,
	}
}

// GetFeed resolves the caller's accepted friends and composes their posts,
// newest first. The friend resolution must complete before the feed query;
// that ordering is carried by the data dependency, nothing else. Read
// failures degrade to an empty feed with a logged diagnostic.
func (h *PostHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
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
		log.Printf("GetFeed: resolve failed for %s: %v", userID, err)
	}

	posts, err := h.postService.ComposeFeed(ctx, view.AcceptedFriendIDs)
	if err != nil {
		log.Printf("GetFeed: compose failed for %s: %v", userID, err)
		posts = []*post.Post{}
	}

	respondWithJSON(w, http.StatusOK, posts)
}

// CreatePost accepts a multipart form: one or more "images" files, a
// "description" field, and an optional "event_date" (YYYY-MM-DD). Images go
// to object storage first; the post row references their public URLs.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	author, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	description := r.FormValue("description")
	if description == "" {
		respondWithError(w, http.StatusBadRequest, "Description is required")
		return
	}

	var eventDate *time.Time
	if raw := r.FormValue("event_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "event_date must be YYYY-MM-DD")
			return
		}
		eventDate = &parsed
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		respondWithError(w, http.StatusBadRequest, "At least one image is required")
		return
	}

	imageURLs := make(post.ImageURLList, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Unable to read uploaded file")
			return
		}

		fileName := uuid.New().String() + filepath.Ext(fh.Filename)
		url, err := h.storage.Upload(ctx, fileName, f, fh.Header.Get("Content-Type"))
		f.Close()
		if err != nil {
			log.Printf("CreatePost: upload failed for %s: %v", fh.Filename, err)
			respondWithError(w, http.StatusInternalServerError, "Image upload failed")
			return
		}
		imageURLs = append(imageURLs, url)
	}

	p, err := h.postService.CreatePost(ctx, author, description, eventDate, imageURLs)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	respondWithJSON(w, http.StatusCreated, p)
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	p, err := h.postService.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to get post")
		return
	}

	detail := post.PostDetail{Post: *p, DaysUntilEvent: p.DaysUntilEvent(time.Now())}
	respondWithJSON(w, http.StatusOK, detail)
}

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req post.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	author, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.postService.UpdateDescription(ctx, id, author.Email, req.Description); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Post updated"})
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	author, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.postService.DeletePost(ctx, id, author.Email); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}

// GetUserPosts lists a single author's posts for the profile page.
func (h *PostHandler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	email := mux.Vars(r)["email"]
	if email == "" {
		respondWithError(w, http.StatusBadRequest, "Email is required")
		return
	}

	posts, err := h.postService.GetPostsByAuthorEmail(ctx, email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	respondWithJSON(w, http.StatusOK, posts)
}
