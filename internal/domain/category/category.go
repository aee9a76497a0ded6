package category

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("category not found")
	// Category names are unique across the whole system, not per owner. Two
	// users cannot both have a "Work" category. Kept as-is from the original.
	ErrNameTaken = errors.New("category name already in use")
)

type Category struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=80"`
}

type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=80"`
}
