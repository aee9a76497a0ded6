package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/geocoder89/taskhub/internal/authz"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/job"
	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/jobs"
	"github.com/geocoder89/taskhub/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskStore interface {
	Create(ctx context.Context, t task.Task) error
	AddCollaborator(ctx context.Context, taskID, userID string) error
	GetByID(ctx context.Context, id string) (task.Task, error)
	GetVisible(ctx context.Context, id, userID string) (task.Task, error)
	ListMine(ctx context.Context, userID string) ([]task.Task, error)
	ListOwnedByPriority(ctx context.Context, userID string, p task.Priority) ([]task.Task, error)
	ListOwnedByCompletion(ctx context.Context, userID string, completed bool) ([]task.Task, error)
	UpdateFields(ctx context.Context, id, userID string, p task.Patch) (task.Task, error)
	UpdateStatus(ctx context.Context, id string, completed bool) (task.Task, error)
	DeleteOwned(ctx context.Context, id, ownerID string) error
}

type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type JobEnqueuer interface {
	Create(ctx context.Context, req job.CreateRequest) (job.Job, error)
}

type TasksHandler struct {
	tasks TaskStore
	users UserFinder
	jobs  JobEnqueuer
}

func NewTasksHandler(tasks TaskStore, users UserFinder, jobEnqueuer JobEnqueuer) *TasksHandler {
	return &TasksHandler{
		tasks: tasks,
		users: users,
		jobs:  jobEnqueuer,
	}
}

func (h *TasksHandler) CreateTask(ctx *gin.Context) {
	actorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	var req task.CreateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	now := time.Now().UTC()

	t := task.Task{
		ID:          uuid.NewString(),
		OwnerID:     actorID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.tasks.Create(cctx, t); err != nil {
		RespondInternal(ctx, "Could not create task")
		return
	}

	// Collaborators are appended row by row after the task row exists. A
	// failure partway leaves the earlier appends in place.
	for _, collaboratorID := range req.Collaborators {
		if err := h.tasks.AddCollaborator(cctx, t.ID, collaboratorID); err != nil {
			RespondInternal(ctx, "Could not add collaborator")
			return
		}
		t.Collaborators = append(t.Collaborators, collaboratorID)
	}

	RespondCreated(ctx, "Task created successfully", t)
}

func (h *TasksHandler) MyTasks(ctx *gin.Context) {
	actorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	list, err := h.tasks.ListMine(cctx, actorID)

	if err != nil {
		RespondInternal(ctx, "Could not fetch tasks")
		return
	}

	RespondOK(ctx, "Tasks fetched successfully", list)
}

// TasksByPriority serves the fixed priority routes. Only owned tasks appear;
// tasks shared with the caller are excluded from every filtered list.
func (h *TasksHandler) TasksByPriority(p task.Priority) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actorID, ok := middlewares.UserIDFromContext(ctx)

		if !ok {
			RespondUnauthorized(ctx, "Please authenticate")
			return
		}

		cctx, cancel := config.WithTimeout(3 * time.Second)
		defer cancel()

		list, err := h.tasks.ListOwnedByPriority(cctx, actorID, p)

		if err != nil {
			RespondInternal(ctx, "Could not fetch tasks")
			return
		}

		RespondOK(ctx, "Tasks fetched successfully", list)
	}
}

func (h *TasksHandler) TasksByCompletion(completed bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actorID, ok := middlewares.UserIDFromContext(ctx)

		if !ok {
			RespondUnauthorized(ctx, "Please authenticate")
			return
		}

		cctx, cancel := config.WithTimeout(3 * time.Second)
		defer cancel()

		list, err := h.tasks.ListOwnedByCompletion(cctx, actorID, completed)

		if err != nil {
			RespondInternal(ctx, "Could not fetch tasks")
			return
		}

		RespondOK(ctx, "Tasks fetched successfully", list)
	}
}

func (h *TasksHandler) GetTask(ctx *gin.Context) {
	actorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	id := ctx.Param("taskId")

	if !utils.IsUUID(id) {
		RespondNotFound(ctx, "Task not found")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	t, err := h.tasks.GetVisible(cctx, id, actorID)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not fetch task")
		return
	}

	RespondOK(ctx, "Task fetched successfully", t)
}

func (h *TasksHandler) UpdateTask(ctx *gin.Context) {
	actorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	id := ctx.Param("taskId")

	if !utils.IsUUID(id) {
		RespondNotFound(ctx, "Task not found")
		return
	}

	body, err := io.ReadAll(ctx.Request.Body)

	if err != nil {
		RespondBadRequest(ctx, "Invalid request body")
		return
	}

	patch, err := task.ParsePatch(body)

	if err != nil {
		RespondBadRequest(ctx, "Invalid update fields")
		return
	}

	if patch.Empty() {
		RespondBadRequest(ctx, "Nothing to update")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	updated, err := h.tasks.UpdateFields(cctx, id, actorID, patch)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			// strangers get the same answer as a missing task
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not update task")
		return
	}

	RespondOK(ctx, "Task updated successfully", updated)
}

// UpdateTaskStatus toggles completion without authentication. The route has no
// auth middleware in front of it, matching the system this replaces.
func (h *TasksHandler) UpdateTaskStatus(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondNotFound(ctx, "Task not found")
		return
	}

	var req task.UpdateStatusRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	updated, err := h.tasks.UpdateStatus(cctx, id, req.Completed)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not update task")
		return
	}

	RespondOK(ctx, "Task status updated successfully", updated)
}

// DeleteTask is owner only. Collaborators and strangers both get 404 so a
// collaborator cannot learn that delete exists for a task they can read.
func (h *TasksHandler) DeleteTask(ctx *gin.Context) {
	actorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	id := ctx.Param("taskId")

	if !utils.IsUUID(id) {
		RespondNotFound(ctx, "Task not found")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.tasks.DeleteOwned(cctx, id, actorID); err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not delete task")
		return
	}

	RespondOK(ctx, "Task deleted successfully", nil)
}

// InviteCollaborator appends the invited user to the task's collaborator set
// and enqueues the invite mail. Any authenticated user who can name the task
// id may invite; the task is looked up without a visibility scope. The
// collaborator row commits before the job is enqueued, so a failed enqueue
// still leaves the collaborator attached.
func (h *TasksHandler) InviteCollaborator(ctx *gin.Context) {
	actorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	if err := authz.CanInviteCollaborator(actorID); err != nil {
		RespondForbidden(ctx, "Not allowed")
		return
	}

	id := ctx.Param("taskId")

	if !utils.IsUUID(id) {
		RespondNotFound(ctx, "Task not found")
		return
	}

	var req task.InviteCollaboratorRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	t, err := h.tasks.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}
		RespondInternal(ctx, "Could not fetch task")
		return
	}

	invited, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not fetch user")
		return
	}

	// Plain append. Inviting the same user twice yields two rows.
	if err := h.tasks.AddCollaborator(cctx, t.ID, invited.ID); err != nil {
		RespondInternal(ctx, "Could not add collaborator")
		return
	}

	payload := jobs.CollaboratorInvitePayload{
		TaskID:      t.ID,
		TaskTitle:   t.Title,
		Email:       invited.Email,
		InvitedByID: actorID,
		RequestedAt: time.Now().UTC(),
	}

	raw, err := payload.JSON()

	if err != nil {
		RespondInternal(ctx, "Could not enqueue invite notification")
		return
	}

	idempotencyKey := "invite:" + t.ID + ":" + invited.ID + ":" + uuid.NewString()

	_, err = h.jobs.Create(cctx, job.CreateRequest{
		Type:           jobs.TypeCollaboratorInvite,
		Payload:        raw,
		RunAt:          time.Now().UTC(),
		IdempotencyKey: &idempotencyKey,
	})

	if err != nil {
		// collaborator row is already committed at this point
		slog.Default().ErrorContext(ctx.Request.Context(), "invite job enqueue failed",
			"task_id", t.ID, "error", err)
		RespondInternal(ctx, "Could not enqueue invite notification")
		return
	}

	RespondOK(ctx, "Collaborator invited successfully", gin.H{
		"taskId":       t.ID,
		"collaborator": invited.Email,
	})
}
