package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TaINaS20/tarefa-node-api/internal/db"
	"github.com/TaINaS20/tarefa-node-api/internal/hash"
	"github.com/TaINaS20/tarefa-node-api/internal/models"
)

// UserStore is the persistence surface the user handlers depend on.
type UserStore interface {
	CreateUser(ctx context.Context, input models.NewUser) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListUserPosts(ctx context.Context, userID int64) ([]models.Post, error)
}

type UsersHandler struct {
	store    UserStore
	hasher   *hash.Hasher
	validate *validator.Validate
	logger   *zap.Logger
}

func NewUsersHandler(store UserStore, hasher *hash.Hasher, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		store:    store,
		hasher:   hasher,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

type CreateUserRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Photo    *string `json:"photo"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Photo    *string `json:"photo"`
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err == nil {
		respondError(w, http.StatusConflict, "email already registered")
		return
	}
	if !errors.Is(err, db.ErrNotFound) {
		h.internalError(w, "email lookup failed", err)
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.internalError(w, "password hashing failed", err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), models.NewUser{
		PublicID:     uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Photo:        req.Photo,
	})
	if err != nil {
		// The uniqueness pre-check races with the insert; the unique
		// index is the fallback signal.
		if errors.Is(err, db.ErrUniqueViolation) {
			respondError(w, http.StatusConflict, "email already registered")
			return
		}
		h.internalError(w, "failed to create user", err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.internalError(w, "failed to list users", err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.internalError(w, "failed to load user", err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := models.UserPatch{
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
	}
	if req.Password != nil {
		hashed, err := h.hasher.Hash(*req.Password)
		if err != nil {
			h.internalError(w, "password hashing failed", err)
			return
		}
		patch.PasswordHash = &hashed
	}

	user, err := h.store.UpdateUser(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			respondError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, db.ErrUniqueViolation):
			respondError(w, http.StatusConflict, "email already registered")
		default:
			h.internalError(w, "failed to update user", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			respondError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, db.ErrForeignKeyViolation):
			// The user row exists but posts still reference it; the
			// schema does not cascade.
			respondError(w, http.StatusConflict, "user has posts")
		default:
			h.internalError(w, "failed to delete user", err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPosts returns the user's posts, most recent first.
func (h *UsersHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if _, err := h.store.GetUserByID(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.internalError(w, "failed to load user", err)
		return
	}
	posts, err := h.store.ListUserPosts(r.Context(), id)
	if err != nil {
		h.internalError(w, "failed to list user posts", err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *UsersHandler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal server error")
}
