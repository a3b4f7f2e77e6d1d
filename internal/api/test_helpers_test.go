package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/smarttask/smarttask-api/internal/api/middleware"
	"github.com/smarttask/smarttask-api/internal/domain"
	"github.com/smarttask/smarttask-api/internal/mocks"
	"github.com/smarttask/smarttask-api/internal/service"
	"github.com/smarttask/smarttask-api/internal/service/auth"
)

// testEnv wires the handlers against in-memory stores and a recording
// notifier, mirroring the production route layout.
type testEnv struct {
	router     http.Handler
	users      *mocks.UserStore
	tasks      *mocks.TaskStore
	notifier   *mocks.Notifier
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := mocks.NewUserStore()
	tasks := mocks.NewTaskStore()
	notifier := mocks.NewNotifier()

	jwtService := auth.NewTestJWTService(
		"test-secret-that-is-long-enough-for-testing",
		time.Hour,
		time.Now,
	)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	taskService := service.NewTaskService(tasks, users, notifier, nil)
	insightService := service.NewInsightService(tasks, nil)

	authHandler := NewAuthHandler(users, jwtService, auth.NewBcryptVerifier(), hasher, notifier,
		"http://localhost:3000/reset-password")
	taskHandler := NewTaskHandler(taskService, insightService, users)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)
		r.Post("/auth/forgot-password", authHandler.ForgotPassword)
		r.Post("/auth/reset-password", authHandler.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/tasks/reminders", taskHandler.Reminders)
			r.Get("/tasks/insights", taskHandler.Insights)
			r.Get("/tasks/analytics", taskHandler.Analytics)

			r.Get("/tasks", taskHandler.ListTasks)
			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)
		})
	})

	return &testEnv{
		router:     r,
		users:      users,
		tasks:      tasks,
		notifier:   notifier,
		jwtService: jwtService,
		hasher:     hasher,
	}
}

// createUser seeds a user with a bcrypt-hashed password and returns it.
func (e *testEnv) createUser(t *testing.T, email, password string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, password)
	require.NoError(t, err)
	hashed, err := e.hasher.Hash(password)
	require.NoError(t, err)
	user.HashedPassword = hashed
	user.Password = ""
	e.users.Seed(user)
	return user
}

// tokenFor mints a valid access token for a user.
func (e *testEnv) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := e.jwtService.GenerateToken(context.Background(), user.ID, user.IsAdmin)
	require.NoError(t, err)
	return token
}

// doJSON performs a request with an optional JSON body and bearer token.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorded JSON response body.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
