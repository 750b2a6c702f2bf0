package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/joke-moderation-service/internal/api/http/handlers"
	"github.com/spec-kit/joke-moderation-service/internal/auth"
	"github.com/spec-kit/joke-moderation-service/internal/config"
	"github.com/spec-kit/joke-moderation-service/internal/domain"
	"github.com/spec-kit/joke-moderation-service/internal/events"
	"github.com/spec-kit/joke-moderation-service/internal/jokestore"
	"github.com/spec-kit/joke-moderation-service/internal/observability"
	"github.com/spec-kit/joke-moderation-service/internal/persistence"
	"github.com/spec-kit/joke-moderation-service/internal/service"
	"go.uber.org/zap"
)

// downstream is an in-memory stand-in for the joke store service. Calls
// counts every request so tests can assert the store was never contacted.
type downstream struct {
	mu    sync.Mutex
	jokes map[string]domain.Joke
	next  int
	Calls atomic.Int64
}

func newDownstream(jokes ...domain.Joke) *downstream {
	d := &downstream{jokes: make(map[string]domain.Joke)}
	for _, joke := range jokes {
		d.jokes[joke.ID] = joke
	}
	return d
}

func (d *downstream) handler() nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		d.Calls.Add(1)
		d.mu.Lock()
		defer d.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/jokes/":
			jokes := make([]domain.Joke, 0, len(d.jokes))
			for _, joke := range d.jokes {
				jokes = append(jokes, joke)
			}
			json.NewEncoder(w).Encode(jokes)
		case r.URL.Path == "/joke/" && r.Method == nethttp.MethodPost:
			var input jokestore.JokeInput
			json.NewDecoder(r.Body).Decode(&input)
			d.next++
			joke := domain.Joke{
				ID:       fmt.Sprintf("j-%d", d.next),
				Content:  input.Content,
				TypeID:   input.TypeID,
				Approved: input.Approved,
			}
			d.jokes[joke.ID] = joke
			json.NewEncoder(w).Encode(joke)
		case r.URL.Path == "/joke-type/" && r.Method == nethttp.MethodPost:
			var input map[string]string
			json.NewDecoder(r.Body).Decode(&input)
			json.NewEncoder(w).Encode(domain.JokeType{ID: "jt-1", Label: input["type"]})
		case strings.HasPrefix(r.URL.Path, "/joke/"):
			id := strings.TrimPrefix(r.URL.Path, "/joke/")
			joke, ok := d.jokes[id]
			if !ok {
				w.WriteHeader(nethttp.StatusNotFound)
				return
			}
			switch r.Method {
			case nethttp.MethodGet:
				json.NewEncoder(w).Encode(joke)
			case nethttp.MethodPut:
				var input jokestore.JokeInput
				json.NewDecoder(r.Body).Decode(&input)
				joke = domain.Joke{ID: id, Content: input.Content, TypeID: input.TypeID, Approved: input.Approved}
				d.jokes[id] = joke
				json.NewEncoder(w).Encode(joke)
			case nethttp.MethodDelete:
				delete(d.jokes, id)
				json.NewEncoder(w).Encode(joke)
			default:
				w.WriteHeader(nethttp.StatusMethodNotAllowed)
			}
		default:
			w.WriteHeader(nethttp.StatusNotFound)
		}
	})
}

type memoryReviewerRepo struct {
	reviewers map[string]domain.Reviewer
}

func (m *memoryReviewerRepo) GetByEmail(_ context.Context, email string) (*domain.Reviewer, error) {
	reviewer, ok := m.reviewers[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &reviewer, nil
}

type gateway struct {
	app   *fiber.App
	store *downstream
}

func newGateway(t *testing.T, jokes ...domain.Joke) *gateway {
	t.Helper()

	store := newDownstream(jokes...)
	ts := httptest.NewServer(store.handler())
	t.Cleanup(ts.Close)

	hash, err := auth.HashPassword("sekrit", bcrypt.MinCost)
	require.NoError(t, err)
	reviewerRepo := &memoryReviewerRepo{reviewers: map[string]domain.Reviewer{
		"mod@example.com": {ID: "rev-1", Email: "mod@example.com", PasswordHash: hash},
	}}

	authService := service.NewAuthService(config.AuthConfig{
		JWTSecret:           "e2e-secret",
		AccessTokenTTLHours: 4,
	}, service.AuthDependencies{ReviewerRepo: reviewerRepo})

	moderationService := service.NewModerationService(service.ModerationDependencies{
		Store:      jokestore.New(ts.URL, time.Second),
		Dispatcher: events.NewInMemoryDispatcher(),
	})

	logger := zap.NewNop()
	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Jokes:          handlers.NewJokesHandler(moderationService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager()),
	})

	return &gateway{app: app, store: store}
}

func (g *gateway) request(t *testing.T, method, path, token string, body any) (*nethttp.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.app.Test(req, 5000)
	require.NoError(t, err)

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (g *gateway) authenticate(t *testing.T) string {
	t.Helper()
	resp, body := g.request(t, nethttp.MethodPost, "/authenticate", "", map[string]string{
		"email":    "mod@example.com",
		"password": "sekrit",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthenticateAndApprove(t *testing.T) {
	t.Parallel()

	g := newGateway(t, domain.Joke{ID: "123", Content: "why", TypeID: "pun", Approved: false})
	token := g.authenticate(t)

	resp, body := g.request(t, nethttp.MethodPut, "/joke/123/approve", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "Joke approved and submitted", body["message"])

	joke := body["joke"].(map[string]any)
	require.Equal(t, true, joke["approved"])
	require.Equal(t, "approved", joke["status"])
}

func TestApproveTwice_AlreadyProcessed(t *testing.T) {
	t.Parallel()

	g := newGateway(t, domain.Joke{ID: "123", Content: "why", TypeID: "pun", Approved: false})
	token := g.authenticate(t)

	resp, _ := g.request(t, nethttp.MethodPut, "/joke/123/approve", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, body := g.request(t, nethttp.MethodPut, "/joke/123/approve", token, nil)
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Joke has already been processed", body["message"])
}

func TestGetJoke_NotFound(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	token := g.authenticate(t)

	resp, body := g.request(t, nethttp.MethodGet, "/joke/999", token, nil)
	require.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Joke not found", body["message"])
}

func TestProtectedRoutes_NoToken(t *testing.T) {
	t.Parallel()

	g := newGateway(t, domain.Joke{ID: "123", Approved: false})

	for _, route := range []struct {
		method string
		path   string
	}{
		{nethttp.MethodGet, "/jokes"},
		{nethttp.MethodGet, "/joke/123"},
		{nethttp.MethodPost, "/joke"},
		{nethttp.MethodPut, "/joke/123"},
		{nethttp.MethodDelete, "/joke/123"},
		{nethttp.MethodPut, "/joke/123/approve"},
		{nethttp.MethodPut, "/joke/123/reject"},
		{nethttp.MethodPost, "/joke-type"},
	} {
		resp, body := g.request(t, route.method, route.path, "", nil)
		require.Equalf(t, nethttp.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
		require.NotEmpty(t, body["message"])
	}

	// The guard short-circuits before the store is ever contacted.
	require.Zero(t, g.store.Calls.Load())
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	t.Parallel()

	g := newGateway(t)

	resp, body := g.request(t, nethttp.MethodPost, "/authenticate", "", map[string]string{
		"email":    "mod@example.com",
		"password": "wrong",
	})
	require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid credentials", body["message"])

	resp, body = g.request(t, nethttp.MethodPost, "/authenticate", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "wrong",
	})
	require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid credentials", body["message"])
}

func TestSubmitRejectFlow(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	token := g.authenticate(t)

	resp, body := g.request(t, nethttp.MethodPost, "/joke", token, map[string]string{
		"content": "why did the gopher cross the road",
		"type":    "pun",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	require.Equal(t, "Joke submitted for moderation", body["message"])

	joke := body["joke"].(map[string]any)
	id := joke["id"].(string)
	require.Equal(t, "pending", joke["status"])

	// Rejecting before any approval trips the idempotency guard.
	resp, body = g.request(t, nethttp.MethodPut, "/joke/"+id+"/reject", token, nil)
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Joke has already been processed", body["message"])

	resp, _ = g.request(t, nethttp.MethodPut, "/joke/"+id+"/approve", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, body = g.request(t, nethttp.MethodPut, "/joke/"+id+"/reject", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "Joke rejected and updated", body["message"])
	require.Equal(t, false, body["joke"].(map[string]any)["approved"])
}

func TestUpdateAndDelete(t *testing.T) {
	t.Parallel()

	g := newGateway(t, domain.Joke{ID: "u1", Content: "old", TypeID: "pun", Approved: false})
	token := g.authenticate(t)

	resp, body := g.request(t, nethttp.MethodPut, "/joke/u1", token, map[string]any{
		"content":  "new text",
		"type":     "pun",
		"approved": false,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "Joke Type updated successfully", body["message"])
	require.Equal(t, "new text", body["jokeType"].(map[string]any)["content"])

	resp, body = g.request(t, nethttp.MethodDelete, "/joke/u1", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "Joke Type deleted successfully", body["message"])

	resp, _ = g.request(t, nethttp.MethodDelete, "/joke/u1", token, nil)
	require.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestListJokes(t *testing.T) {
	t.Parallel()

	g := newGateway(t,
		domain.Joke{ID: "1", Content: "a", TypeID: "t", Approved: true},
		domain.Joke{ID: "2", Content: "b", TypeID: "t", Approved: false},
	)
	token := g.authenticate(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/jokes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := g.app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var jokes []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&jokes))
	require.Len(t, jokes, 2)
}

func TestCreateJokeType(t *testing.T) {
	t.Parallel()

	g := newGateway(t)
	token := g.authenticate(t)

	resp, body := g.request(t, nethttp.MethodPost, "/joke-type", token, map[string]string{"type": "dad"})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "dad", body["type"])
}
