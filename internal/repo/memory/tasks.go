package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/geocoder89/taskhub/internal/authz"
	"github.com/geocoder89/taskhub/internal/domain/task"
)

type TasksRepo struct {
	mu    sync.RWMutex
	items map[string]task.Task
}

func NewTasksRepo() *TasksRepo {
	return &TasksRepo{items: make(map[string]task.Task)}
}

func (r *TasksRepo) Create(_ context.Context, t task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.Collaborators == nil {
		t.Collaborators = []string{}
	}
	r.items[t.ID] = t
	return nil
}

func (r *TasksRepo) AddCollaborator(_ context.Context, taskID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[taskID]
	if !ok {
		return task.ErrNotFound
	}
	// duplicates append, as in the real store
	t.Collaborators = append(t.Collaborators, userID)
	r.items[taskID] = t
	return nil
}

func (r *TasksRepo) GetByID(_ context.Context, id string) (task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}
	return t, nil
}

func (r *TasksRepo) GetVisible(_ context.Context, id, userID string) (task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok || authz.TaskRelation(t, userID) == authz.Stranger {
		return task.Task{}, task.ErrNotFound
	}
	return t, nil
}

func (r *TasksRepo) list(keep func(task.Task) bool) []task.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]task.Task, 0, len(r.items))
	for _, t := range r.items {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *TasksRepo) ListMine(_ context.Context, userID string) ([]task.Task, error) {
	return r.list(func(t task.Task) bool {
		return authz.TaskRelation(t, userID) != authz.Stranger
	}), nil
}

func (r *TasksRepo) ListOwnedByPriority(_ context.Context, userID string, p task.Priority) ([]task.Task, error) {
	return r.list(func(t task.Task) bool {
		return t.OwnerID == userID && t.Priority == p
	}), nil
}

func (r *TasksRepo) ListOwnedByCompletion(_ context.Context, userID string, completed bool) ([]task.Task, error) {
	return r.list(func(t task.Task) bool {
		return t.OwnerID == userID && t.Completed == completed
	}), nil
}

func (r *TasksRepo) UpdateFields(_ context.Context, id, userID string, p task.Patch) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok || authz.TaskRelation(t, userID) == authz.Stranger {
		return task.Task{}, task.ErrNotFound
	}

	t = p.Apply(t)
	t.UpdatedAt = time.Now().UTC()
	r.items[id] = t
	return t, nil
}

func (r *TasksRepo) UpdateStatus(_ context.Context, id string, completed bool) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}

	t.Completed = completed
	t.UpdatedAt = time.Now().UTC()
	r.items[id] = t
	return t, nil
}

func (r *TasksRepo) DeleteOwned(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok || t.OwnerID != ownerID {
		return task.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
