package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/TaINaS20/tarefa-node-api/internal/db"
	"github.com/TaINaS20/tarefa-node-api/internal/models"
)

// PostStore is the persistence surface the post handlers depend on.
type PostStore interface {
	CreatePost(ctx context.Context, input models.NewPost) (*models.PostWithOwner, error)
	ListPosts(ctx context.Context) ([]models.PostWithOwner, error)
	GetPostByID(ctx context.Context, id int64) (*models.PostWithOwner, error)
	UpdatePost(ctx context.Context, id int64, patch models.PostPatch) (*models.PostWithOwner, error)
	DeletePost(ctx context.Context, id int64) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type PostsHandler struct {
	store    PostStore
	validate *validator.Validate
	logger   *zap.Logger
}

func NewPostsHandler(store PostStore, logger *zap.Logger) *PostsHandler {
	return &PostsHandler{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

type CreatePostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	UserID  int64  `json:"userId" validate:"required,gt=0"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.store.GetUserByID(r.Context(), req.UserID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.internalError(w, "failed to load post owner", err)
		return
	}

	post, err := h.store.CreatePost(r.Context(), models.NewPost{
		Title:   req.Title,
		Content: req.Content,
		UserID:  req.UserID,
	})
	if err != nil {
		// The existence pre-check races with the insert; a foreign key
		// violation means the owner vanished in between.
		if errors.Is(err, db.ErrForeignKeyViolation) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.internalError(w, "failed to create post", err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context())
	if err != nil {
		h.internalError(w, "failed to list posts", err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	post, err := h.store.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "post not found")
			return
		}
		h.internalError(w, "failed to load post", err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.store.UpdatePost(r.Context(), id, models.PostPatch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "post not found")
			return
		}
		h.internalError(w, "failed to update post", err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.store.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "post not found")
			return
		}
		h.internalError(w, "failed to delete post", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostsHandler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal server error")
}
