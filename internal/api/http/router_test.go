package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blog-dashboard/internal/api/http"
	"github.com/spec-kit/blog-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/blog-dashboard/internal/auth"
	"github.com/spec-kit/blog-dashboard/internal/observability"
	"github.com/spec-kit/blog-dashboard/internal/service"
	"github.com/spec-kit/blog-dashboard/internal/store"
)

const testSecret = "test-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	recordStore := store.OpenMemory()
	tokens := auth.NewTokenManager(testSecret, time.Hour)

	accountService := service.NewAccountService(service.AccountDependencies{
		Store:      recordStore,
		Tokens:     tokens,
		BcryptCost: 4,
	})
	postService := service.NewPostService(recordStore, nil)

	validate := validator.New()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("blog-dashboard", "test", recordStore, nil),
		Users:          handlers.NewUsersHandler(accountService, validate),
		Posts:          handlers.NewPostsHandler(postService, validate),
		Dashboard:      handlers.NewDashboardHandler(),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeMap(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func errorCode(t *testing.T, data []byte) string {
	t.Helper()
	m := decodeMap(t, data)
	errObj, ok := m["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %s", data)
	code, _ := errObj["code"].(string)
	return code
}

func signupAndLogin(t *testing.T, app *fiber.App, name, email, password string) string {
	t.Helper()

	status, _ := doRequest(t, app, http.MethodPost, "/signup", "",
		map[string]string{"name": name, "email": email, "password": password})
	require.Equal(t, http.StatusOK, status)

	status, body := doRequest(t, app, http.MethodPost, "/login", "",
		map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status)

	token, _ := decodeMap(t, body)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignupDuplicateEmailConflict(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	payload := map[string]string{"name": "A", "email": "a@x.com", "password": "secret1"}
	status, body := doRequest(t, app, http.MethodPost, "/signup", "", payload)
	require.Equal(t, http.StatusOK, status)

	response := decodeMap(t, body)
	assert.Equal(t, "Signup successful", response["message"])
	user, ok := response["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A", user["name"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")

	status, body = doRequest(t, app, http.MethodPost, "/signup", "", payload)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CONFLICT", errorCode(t, body))
}

func TestLoginInvalidCredentials(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	status, _ := doRequest(t, app, http.MethodPost, "/signup", "",
		map[string]string{"name": "A", "email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)

	for _, creds := range []map[string]string{
		{"email": "a@x.com", "password": "wrong"},
		{"email": "nobody@x.com", "password": "secret1"},
	} {
		status, body := doRequest(t, app, http.MethodPost, "/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, body))
	}
}

func TestProtectedPathsRequireToken(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/posts"},
		{http.MethodGet, "/posts/some-id"},
		{http.MethodPost, "/new-post"},
		{http.MethodDelete, "/delete-post/some-id"},
		{http.MethodGet, "/user-posts"},
	}

	for _, route := range paths {
		status, body := doRequest(t, app, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, "%s %s", route.method, route.path)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, body), "%s %s", route.method, route.path)
	}
}

func TestExpiredTokenRejectedEverywhere(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	// Well-signed token whose expiry has passed.
	claims := jwt.MapClaims{
		"sub":   "user-1",
		"email": "a@x.com",
		"name":  "A",
		"iat":   time.Now().Add(-2 * time.Hour).Unix(),
		"exp":   time.Now().Add(-time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for _, path := range []string{"/dashboard", "/posts", "/user-posts"} {
		status, body := doRequest(t, app, http.MethodGet, path, expired, nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
		assert.Equal(t, "TOKEN_EXPIRED", errorCode(t, body), path)
	}
}

func TestDashboardGreetsByName(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	token := signupAndLogin(t, app, "A", "a@x.com", "secret1")

	status, body := doRequest(t, app, http.MethodGet, "/dashboard", token, nil)
	require.Equal(t, http.StatusOK, status)
	response := decodeMap(t, body)
	assert.Equal(t, "Welcome A!", response["message"])
}

func TestCreatePostIgnoresClientAuthorFields(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	token := signupAndLogin(t, app, "A", "a@x.com", "secret1")

	status, body := doRequest(t, app, http.MethodPost, "/new-post", token, map[string]string{
		"title":    "T",
		"body":     "B",
		"author":   "Mallory",
		"authorId": "spoofed-id",
	})
	require.Equal(t, http.StatusOK, status)

	post, ok := decodeMap(t, body)["post"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A", post["author"])
	assert.NotEqual(t, "spoofed-id", post["authorId"])
}

func TestGetPostByID(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	token := signupAndLogin(t, app, "A", "a@x.com", "secret1")

	status, body := doRequest(t, app, http.MethodPost, "/new-post", token,
		map[string]string{"title": "T", "body": "B"})
	require.Equal(t, http.StatusOK, status)
	created, ok := decodeMap(t, body)["post"].(map[string]any)
	require.True(t, ok)

	status, body = doRequest(t, app, http.MethodGet, "/posts/"+created["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created, decodeMap(t, body))

	status, body = doRequest(t, app, http.MethodGet, "/posts/no-such-id", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestDeleteOwnershipRules(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	tokenA := signupAndLogin(t, app, "A", "a@x.com", "secret1")
	tokenB := signupAndLogin(t, app, "B", "b@x.com", "secret2")

	status, body := doRequest(t, app, http.MethodPost, "/new-post", tokenA,
		map[string]string{"title": "T", "body": "B"})
	require.Equal(t, http.StatusOK, status)
	post, _ := decodeMap(t, body)["post"].(map[string]any)
	postID := post["id"].(string)

	// Another user may not delete it.
	status, body = doRequest(t, app, http.MethodDelete, "/delete-post/"+postID, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	// Deleting an absent id succeeds without touching the collection.
	status, _ = doRequest(t, app, http.MethodDelete, "/delete-post/no-such-id", tokenB, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = doRequest(t, app, http.MethodGet, "/posts", tokenA, nil)
	require.Equal(t, http.StatusOK, status)
	var posts []map[string]any
	require.NoError(t, json.Unmarshal(body, &posts))
	assert.Len(t, posts, 1)
}

func TestEndToEndScenario(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	// register -> login -> create -> list -> delete -> list empty
	token := signupAndLogin(t, app, "A", "a@x.com", "secret1")

	status, body := doRequest(t, app, http.MethodPost, "/new-post", token,
		map[string]string{"title": "T", "body": "B"})
	require.Equal(t, http.StatusOK, status)
	response := decodeMap(t, body)
	assert.Equal(t, "Post added!", response["message"])
	post, _ := response["post"].(map[string]any)
	postID := post["id"].(string)

	status, body = doRequest(t, app, http.MethodGet, "/posts", token, nil)
	require.Equal(t, http.StatusOK, status)
	var posts []map[string]any
	require.NoError(t, json.Unmarshal(body, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "A", posts[0]["author"])

	status, body = doRequest(t, app, http.MethodGet, "/user-posts", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &posts))
	assert.Len(t, posts, 1)

	status, body = doRequest(t, app, http.MethodDelete, "/delete-post/"+postID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post deleted!", decodeMap(t, body)["message"])

	status, body = doRequest(t, app, http.MethodGet, "/posts", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &posts))
	assert.Empty(t, posts)
}

func TestHealthProbes(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alive", decodeMap(t, body)["status"])

	status, body = doRequest(t, app, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", decodeMap(t, body)["status"])
}

func TestSignupValidation(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	cases := []map[string]string{
		{"email": "a@x.com", "password": "secret1"}, // missing name
		{"name": "A", "password": "secret1"},        // missing email
		{"name": "A", "email": "not-an-email", "password": "secret1"},
		{"name": "A", "email": "a@x.com", "password": "ab"}, // too short
	}
	for _, payload := range cases {
		status, body := doRequest(t, app, http.MethodPost, "/signup", "", payload)
		assert.Equal(t, http.StatusBadRequest, status, "payload %v", payload)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body), "payload %v", payload)
	}
}
