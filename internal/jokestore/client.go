// Package jokestore is a typed HTTP client for the downstream joke-data
// service, the system of record for jokes and joke types. Every call
// reflects live downstream state: no retries, no caching. The moderation
// workflow depends on that freshness for its read-before-write guard.
package jokestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spec-kit/joke-moderation-service/internal/domain"
)

// ErrNotFound reports that the downstream store has no record for the id.
var ErrNotFound = errors.New("jokestore: not found")

// Error carries a downstream fault's original status and body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("jokestore: status=%d message=%s", e.Status, e.Message)
}

// JokeInput is the downstream create/update payload. The store reads the
// category as "typeId" on writes while exposing it as "type" on reads; the
// asymmetry is the downstream wire contract.
type JokeInput struct {
	Content  string `json:"content"`
	TypeID   string `json:"typeId"`
	Approved bool   `json:"approved"`
}

// Client defines the operations the gateway needs from the joke store.
type Client interface {
	GetJoke(ctx context.Context, id string) (*domain.Joke, error)
	ListJokes(ctx context.Context) ([]domain.Joke, error)
	CreateJoke(ctx context.Context, input JokeInput) (*domain.Joke, error)
	UpdateJoke(ctx context.Context, id string, input JokeInput) (*domain.Joke, error)
	DeleteJoke(ctx context.Context, id string) (*domain.Joke, error)
	CreateJokeType(ctx context.Context, label string) (*domain.JokeType, error)
}

// HTTPClient implements Client over the store's JSON HTTP interface.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

// New builds a client for the store at baseURL.
func New(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// GetJoke fetches a single joke. A 404 or JSON-null body maps to ErrNotFound.
func (c *HTTPClient) GetJoke(ctx context.Context, id string) (*domain.Joke, error) {
	raw, err := c.doJSON(ctx, http.MethodGet, "/joke/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeJoke(raw)
}

// ListJokes fetches every joke the store holds.
func (c *HTTPClient) ListJokes(ctx context.Context) ([]domain.Joke, error) {
	raw, err := c.doJSON(ctx, http.MethodGet, "/jokes/", nil)
	if err != nil {
		return nil, err
	}
	var jokes []domain.Joke
	if isNull(raw) {
		return []domain.Joke{}, nil
	}
	if err := json.Unmarshal(raw, &jokes); err != nil {
		return nil, fmt.Errorf("jokestore: decode list: %w", err)
	}
	return jokes, nil
}

// CreateJoke persists a new joke.
func (c *HTTPClient) CreateJoke(ctx context.Context, input JokeInput) (*domain.Joke, error) {
	raw, err := c.doJSON(ctx, http.MethodPost, "/joke/", input)
	if err != nil {
		return nil, err
	}
	return decodeJoke(raw)
}

// UpdateJoke writes the full {content, typeId, approved} triple. It is not a
// partial patch; callers supply every field.
func (c *HTTPClient) UpdateJoke(ctx context.Context, id string, input JokeInput) (*domain.Joke, error) {
	raw, err := c.doJSON(ctx, http.MethodPut, "/joke/"+id, input)
	if err != nil {
		return nil, err
	}
	return decodeJoke(raw)
}

// DeleteJoke removes a joke, returning the store's view of the deleted record.
func (c *HTTPClient) DeleteJoke(ctx context.Context, id string) (*domain.Joke, error) {
	raw, err := c.doJSON(ctx, http.MethodDelete, "/joke/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeJoke(raw)
}

// CreateJokeType registers a new category.
func (c *HTTPClient) CreateJokeType(ctx context.Context, label string) (*domain.JokeType, error) {
	payload := map[string]string{"type": label}
	raw, err := c.doJSON(ctx, http.MethodPost, "/joke-type/", payload)
	if err != nil {
		return nil, err
	}
	var jokeType domain.JokeType
	if isNull(raw) {
		return nil, &Error{Status: http.StatusOK, Message: "empty joke type response"}
	}
	if err := json.Unmarshal(raw, &jokeType); err != nil {
		return nil, fmt.Errorf("jokestore: decode joke type: %w", err)
	}
	return &jokeType, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("jokestore: encode request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("jokestore: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jokestore: send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jokestore: read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Message: string(respBody)}
	}
	return respBody, nil
}

func decodeJoke(raw json.RawMessage) (*domain.Joke, error) {
	if isNull(raw) {
		return nil, ErrNotFound
	}
	var joke domain.Joke
	if err := json.Unmarshal(raw, &joke); err != nil {
		return nil, fmt.Errorf("jokestore: decode joke: %w", err)
	}
	return &joke, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
