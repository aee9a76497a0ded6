package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/taskhub/internal/authz"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/category"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryStore interface {
	Create(ctx context.Context, c category.Category) (category.Category, error)
	ListOwned(ctx context.Context, ownerID string) ([]category.Category, error)
	GetByID(ctx context.Context, id string) (category.Category, error)
	Update(ctx context.Context, id, name string) (category.Category, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (category.Category, error)
}

type CategoriesHandler struct {
	categories CategoryStore
}

func NewCategoriesHandler(categories CategoryStore) *CategoriesHandler {
	return &CategoriesHandler{categories: categories}
}

func (h *CategoriesHandler) CreateCategory(ctx *gin.Context) {
	actorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	var req category.CreateCategoryRequest

	if !BindJSON(ctx, &req) {
		return
	}

	now := time.Now().UTC()

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	created, err := h.categories.Create(cctx, category.Category{
		ID:        uuid.NewString(),
		OwnerID:   actorID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})

	if err != nil {
		if errors.Is(err, category.ErrNameTaken) {
			RespondBadRequest(ctx, "Category name is already in use")
			return
		}
		RespondInternal(ctx, "Could not create category")
		return
	}

	RespondCreated(ctx, "Category created successfully", created)
}

func (h *CategoriesHandler) ListCategories(ctx *gin.Context) {
	actorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	list, err := h.categories.ListOwned(cctx, actorID)

	if err != nil {
		RespondInternal(ctx, "Could not fetch categories")
		return
	}

	RespondOK(ctx, "Categories fetched successfully", list)
}

// UpdateCategory answers 403 for a foreign category, unlike delete which
// answers 404. Both shapes are kept from the system this replaces.
func (h *CategoriesHandler) UpdateCategory(ctx *gin.Context) {
	actorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	id := ctx.Param("categoryId")

	if !utils.IsUUID(id) {
		RespondNotFound(ctx, "Category not found")
		return
	}

	var req category.UpdateCategoryRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	existing, err := h.categories.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			RespondNotFound(ctx, "Category not found")
			return
		}
		RespondInternal(ctx, "Could not fetch category")
		return
	}

	if err := authz.CanUpdateCategory(existing, actorID); err != nil {
		RespondForbidden(ctx, "Not allowed to update this category")
		return
	}

	updated, err := h.categories.Update(cctx, id, req.Name)

	if err != nil {
		if errors.Is(err, category.ErrNameTaken) {
			RespondBadRequest(ctx, "Category name is already in use")
			return
		}
		if errors.Is(err, category.ErrNotFound) {
			RespondNotFound(ctx, "Category not found")
			return
		}
		RespondInternal(ctx, "Could not update category")
		return
	}

	RespondOK(ctx, "Category updated successfully", updated)
}

func (h *CategoriesHandler) DeleteCategory(ctx *gin.Context) {
	actorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	id := ctx.Param("categoryId")

	if !utils.IsUUID(id) {
		RespondNotFound(ctx, "Category not found")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	deleted, err := h.categories.DeleteOwned(cctx, id, actorID)

	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			RespondNotFound(ctx, "Category not found")
			return
		}
		RespondInternal(ctx, "Could not delete category")
		return
	}

	RespondOK(ctx, "Category deleted successfully", deleted)
}
