package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/category"
)

type CategoriesRepo struct {
	mu    sync.RWMutex
	items map[string]category.Category
}

func NewCategoriesRepo() *CategoriesRepo {
	return &CategoriesRepo{items: make(map[string]category.Category)}
}

func (r *CategoriesRepo) Create(_ context.Context, c category.Category) (category.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// name uniqueness is global, owner does not matter
	for _, existing := range r.items {
		if existing.Name == c.Name {
			return category.Category{}, category.ErrNameTaken
		}
	}

	r.items[c.ID] = c
	return c, nil
}

func (r *CategoriesRepo) ListOwned(_ context.Context, ownerID string) ([]category.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]category.Category, 0, len(r.items))
	for _, c := range r.items {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *CategoriesRepo) GetByID(_ context.Context, id string) (category.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return category.Category{}, category.ErrNotFound
	}
	return c, nil
}

func (r *CategoriesRepo) Update(_ context.Context, id, name string) (category.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return category.Category{}, category.ErrNotFound
	}

	for otherID, other := range r.items {
		if otherID != id && other.Name == name {
			return category.Category{}, category.ErrNameTaken
		}
	}

	c.Name = name
	c.UpdatedAt = time.Now().UTC()
	r.items[id] = c
	return c, nil
}

func (r *CategoriesRepo) DeleteOwned(_ context.Context, id, ownerID string) (category.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok || c.OwnerID != ownerID {
		return category.Category{}, category.ErrNotFound
	}
	delete(r.items, id)
	return c, nil
}
