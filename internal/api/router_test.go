package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rohits-web03/chatterbox/internal/api/handlers"
	"github.com/rohits-web03/chatterbox/internal/auth"
	"github.com/rohits-web03/chatterbox/internal/config"
	"github.com/rohits-web03/chatterbox/internal/logging"
	"github.com/rohits-web03/chatterbox/internal/repositories"
	"github.com/rohits-web03/chatterbox/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *auth.TokenIssuer) {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("router-secret", 0)
	require.NoError(t, err)

	logger := logging.Discard()
	svc := services.NewAuthService(repositories.NewMemoryUserStore(), auth.NewBcryptHasher(0), tokens, logger)
	h := Handlers{
		Users:   handlers.NewUserHandler(svc, logger, true),
		Uploads: handlers.NewUploadHandler(nil, logger),
	}

	srv := httptest.NewServer(SetupRouter(config.Config{}, h, tokens, logger))
	t.Cleanup(srv.Close)
	return srv, tokens
}

func post(t *testing.T, srv *httptest.Server, path, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestRouter_SignUpSignInFlow(t *testing.T) {
	srv, tokens := newTestServer(t)

	status, body := post(t, srv, "/api/user/signup", `{"username":"alice","email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User created", body["message"])
	newUser := body["newUser"].(map[string]any)
	id, err := tokens.Verify(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, newUser["id"], id)

	status, body = post(t, srv, "/api/user/signup", `{"username":"alice","email":"b@x.com","password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Username already exists", body["message"])

	status, body = post(t, srv, "/api/user/signin", `{"username":"alice","password":"secret1"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login successful", body["message"])
	token := body["token"].(string)

	status, body = post(t, srv, "/api/user/signin", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid credentials", body["message"])

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/user/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "alice", me["user"].(map[string]any)["username"])
}

func TestRouter_MeRejectsForgedToken(t *testing.T) {
	srv, _ := newTestServer(t)
	forger, err := auth.NewTokenIssuer("someone-else", 0)
	require.NoError(t, err)
	forged, err := forger.Issue("u1")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/user/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+forged)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_HealthAndNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	for _, path := range []string{"/nope", "/api/user/unknown", "/api/upload/other"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "Not Found - "+path, body["message"])
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/user/signup")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRouter_UploadUnconfigured(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/upload/profile-pic", "multipart/form-data; boundary=x", strings.NewReader("--x--\r\n"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/user/signin", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://chat.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://chat.test", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
