package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/domain/job"
	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/repo/memory"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
	"github.com/geocoder89/taskhub/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeJobsRepo records enqueued jobs so tests can assert the mutation
// committed before (or despite) the enqueue.
type fakeJobsRepo struct {
	mu        sync.Mutex
	created   []job.CreateRequest
	createErr error
}

func (f *fakeJobsRepo) Create(_ context.Context, req job.CreateRequest) (job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return job.Job{}, f.createErr
	}

	f.created = append(f.created, req)
	return job.New(req), nil
}

func (f *fakeJobsRepo) enqueued() []job.CreateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]job.CreateRequest, len(f.created))
	copy(out, f.created)
	return out
}

type testServer struct {
	router *gin.Engine

	users      *memory.UsersRepo
	sessions   *memory.SessionsRepo
	tasks      *memory.TasksRepo
	categories *memory.CategoriesRepo
	jobs       *fakeJobsRepo

	jwt *auth.Manager
}

// newTestServer mounts the full route table over in-memory stores, mirroring
// the production router without its metrics and tracing middleware.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		users:      memory.NewUsersRepo(),
		sessions:   memory.NewSessionsRepo(),
		tasks:      memory.NewTasksRepo(),
		categories: memory.NewCategoriesRepo(),
		jobs:       &fakeJobsRepo{},
		jwt:        auth.NewManager("test-secret"),
	}

	authMW := middlewares.NewAuthMiddleware(ts.jwt, ts.sessions, ts.users)
	requireAuth := authMW.RequireAuth()

	usersHandler := handlers.NewUsersHandler(ts.users, ts.sessions, ts.jwt)
	tasksHandler := handlers.NewTasksHandler(ts.tasks, ts.users, ts.jobs)
	categoriesHandler := handlers.NewCategoriesHandler(ts.categories)

	r := gin.New()

	users := r.Group("/users")
	{
		users.POST("/create-user", usersHandler.Register)
		users.POST("/login", usersHandler.Login)
		users.POST("/logout", requireAuth, usersHandler.Logout)
		users.GET("/my-profile", requireAuth, usersHandler.MyProfile)
		users.PUT("/update-my-profile", requireAuth, usersHandler.UpdateMyProfile)
		users.DELETE("/delete-my-profile", requireAuth, usersHandler.DeleteMyProfile)
	}

	tasks := r.Group("/tasks")
	{
		tasks.POST("/create-task", requireAuth, tasksHandler.CreateTask)
		tasks.GET("/my-tasks", requireAuth, tasksHandler.MyTasks)
		tasks.GET("/tasks-priority-low", requireAuth, tasksHandler.TasksByPriority(task.PriorityLow))
		tasks.GET("/tasks-priority-medium", requireAuth, tasksHandler.TasksByPriority(task.PriorityMedium))
		tasks.GET("/tasks-priority-high", requireAuth, tasksHandler.TasksByPriority(task.PriorityHigh))
		tasks.GET("/tasks-completed", requireAuth, tasksHandler.TasksByCompletion(true))
		tasks.GET("/tasks-incomplete", requireAuth, tasksHandler.TasksByCompletion(false))
		tasks.GET("/get-task/:taskId", requireAuth, tasksHandler.GetTask)
		tasks.PUT("/update-task/:taskId", requireAuth, tasksHandler.UpdateTask)
		tasks.PUT("/update-task-status/:id", tasksHandler.UpdateTaskStatus)
		tasks.DELETE("/delete-task/:taskId", requireAuth, tasksHandler.DeleteTask)
		tasks.POST("/invite-collaborator/:taskId", requireAuth, tasksHandler.InviteCollaborator)

		tasks.GET("/categories", requireAuth, categoriesHandler.ListCategories)
		tasks.POST("/create-category", requireAuth, categoriesHandler.CreateCategory)
		tasks.PUT("/update-category/:categoryId", requireAuth, categoriesHandler.UpdateCategory)
		tasks.DELETE("/delete-category/:categoryId", requireAuth, categoriesHandler.DeleteCategory)
	}

	ts.router = r

	return ts
}

// seedUser creates an account directly in the store and returns it.
func (ts *testServer) seedUser(t *testing.T, email, password string) user.User {
	t.Helper()

	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()

	u, err := ts.users.Create(context.Background(), user.User{
		ID:           uuid.NewString(),
		FirstName:    "Test",
		LastName:     "User",
		Age:          30,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return u
}

// mintToken issues a session token and records it in the session set, the
// same way a login does.
func (ts *testServer) mintToken(t *testing.T, userID string) string {
	t.Helper()

	raw, jti, err := ts.jwt.GenerateSessionToken(userID)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	err = ts.sessions.Create(context.Background(), postgres.SessionRow{
		ID:        jti,
		UserID:    userID,
		TokenHash: ts.jwt.HashSessionToken(raw),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("store session: %v", err)
	}

	return raw
}

func (ts *testServer) seedTask(t *testing.T, ownerID string, mutate func(*task.Task)) task.Task {
	t.Helper()

	now := time.Now().UTC()

	tk := task.Task{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       "Ship the release",
		Description: "Cut and tag",
		Priority:    task.PriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if mutate != nil {
		mutate(&tk)
	}

	if err := ts.tasks.Create(context.Background(), tk); err != nil {
		t.Fatalf("seed task: %v", err)
	}

	for _, c := range tk.Collaborators {
		if err := ts.tasks.AddCollaborator(context.Background(), tk.ID, c); err != nil {
			t.Fatalf("seed collaborator: %v", err)
		}
	}

	return tk
}

// do performs a request against the test router. An empty token leaves the
// request unauthenticated.
func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	return w
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope

	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v, body=%s", err, w.Body.String())
	}

	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	env := decodeEnvelope(t, w)

	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v, data=%s", err, string(env.Data))
	}
}

var errEnqueueDown = errors.New("jobs table unavailable")
