package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rohits-web03/chatterbox/internal/api/middleware"
	"github.com/rohits-web03/chatterbox/internal/auth"
	"github.com/rohits-web03/chatterbox/internal/logging"
	"github.com/rohits-web03/chatterbox/internal/models"
	"github.com/rohits-web03/chatterbox/internal/repositories"
	"github.com/rohits-web03/chatterbox/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newUserHandler(t *testing.T, store repositories.UserStore, exposeDetails bool) (*UserHandler, *auth.TokenIssuer) {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("handler-secret", 0)
	require.NoError(t, err)
	svc := services.NewAuthService(store, auth.NewBcryptHasher(0), tokens, logging.Discard())
	return NewUserHandler(svc, logging.Discard(), exposeDetails), tokens
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

type brokenStore struct{ repositories.UserStore }

func (brokenStore) FindByUsername(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection refused")
}

// --- tests ---

func TestSignUpHandler_Created(t *testing.T) {
	h, tokens := newUserHandler(t, repositories.NewMemoryUserStore(), false)

	rec := postJSON(t, h.SignUp, `{"username":"alice","email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res SignUpResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "User created", res.Message)
	require.NotNil(t, res.NewUser)
	assert.Equal(t, "alice", res.NewUser.Username)
	assert.Equal(t, models.DefaultPictureURL, res.NewUser.PictureURL)

	id, err := tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.NewUser.ID, id)

	assert.NotContains(t, rec.Body.String(), "secret1")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestSignUpHandler_ProfileURL(t *testing.T) {
	h, _ := newUserHandler(t, repositories.NewMemoryUserStore(), false)

	rec := postJSON(t, h.SignUp, `{"username":"bob","email":"b@x.com","password":"pw","profileUrl":"https://cdn.test/b.png"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	newUser := decodeBody(t, rec)["newUser"].(map[string]any)
	assert.Equal(t, "https://cdn.test/b.png", newUser["pictureUrl"])
}

func TestSignUpHandler_Errors(t *testing.T) {
	store := repositories.NewMemoryUserStore()
	h, _ := newUserHandler(t, store, false)
	require.Equal(t, http.StatusCreated, postJSON(t, h.SignUp, `{"username":"alice","email":"a@x.com","password":"secret1"}`).Code)

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"missing password", `{"username":"carol","email":"c@x.com"}`, "All fields are required"},
		{"username taken", `{"username":"alice","email":"new@x.com","password":"pw"}`, "Username already exists"},
		{"email taken", `{"username":"carol","email":"a@x.com","password":"pw"}`, "Email already exists"},
		{"malformed", `{"username":`, "Invalid input"},
		{"unknown field", `{"username":"d","email":"d@x.com","password":"pw","admin":true}`, "Invalid input"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, h.SignUp, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"message":"`+tc.msg+`"}`, rec.Body.String())
		})
	}
}

func TestSignUpHandler_MethodNotAllowed(t *testing.T) {
	h, _ := newUserHandler(t, repositories.NewMemoryUserStore(), false)
	rec := httptest.NewRecorder()

	h.SignUp(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"message":"Method not allowed"}`, rec.Body.String())
}

func TestSignUpHandler_InternalErrorHidesDetailsInProduction(t *testing.T) {
	store := brokenStore{repositories.NewMemoryUserStore()}
	body := `{"username":"alice","email":"a@x.com","password":"pw"}`

	prod, _ := newUserHandler(t, store, false)
	rec := postJSON(t, prod.SignUp, body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())

	dev, _ := newUserHandler(t, store, true)
	rec = postJSON(t, dev.SignUp, body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, "Internal server error", got["message"])
	assert.Contains(t, got["stack"], "connection refused")
}

func TestSignInHandler(t *testing.T) {
	h, tokens := newUserHandler(t, repositories.NewMemoryUserStore(), false)
	require.Equal(t, http.StatusCreated, postJSON(t, h.SignUp, `{"username":"alice","email":"a@x.com","password":"secret1"}`).Code)

	t.Run("username", func(t *testing.T) {
		rec := postJSON(t, h.SignIn, `{"username":"alice","password":"secret1"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var res SignInResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "Login successful", res.Message)
		id, err := tokens.Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, id)
	})

	t.Run("email", func(t *testing.T) {
		rec := postJSON(t, h.SignIn, `{"email":"a@x.com","password":"secret1"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("username wins over unknown email", func(t *testing.T) {
		rec := postJSON(t, h.SignIn, `{"username":"alice","email":"nobody@x.com","password":"secret1"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	for _, tc := range []struct {
		name string
		body string
		msg  string
	}{
		{"wrong password", `{"username":"alice","password":"wrong"}`, "Invalid credentials"},
		{"unknown user", `{"username":"ghost","password":"secret1"}`, "User not found"},
		{"no identity", `{"password":"secret1"}`, "All fields are required"},
		{"no password", `{"username":"alice"}`, "All fields are required"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, h.SignIn, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"message":"`+tc.msg+`"}`, rec.Body.String())
		})
	}
}

func TestMeHandler(t *testing.T) {
	h, _ := newUserHandler(t, repositories.NewMemoryUserStore(), false)
	rec := postJSON(t, h.SignUp, `{"username":"alice","email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created SignUpResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	call := func(ctx context.Context) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		h.Me(rec, req)
		return rec
	}

	rec = call(context.WithValue(context.Background(), middleware.UserIDKey, created.NewUser.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	var me MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.User.Username)

	rec = call(context.Background())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(context.WithValue(context.Background(), middleware.UserIDKey, "gone"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	h, _ := newUserHandler(t, repositories.NewMemoryUserStore(), false)
	big := `{"username":"` + string(bytes.Repeat([]byte("a"), maxJSONBody)) + `"}`

	rec := postJSON(t, h.SignUp, big)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()

	NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope?x=1", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not Found - /nope?x=1"}`, rec.Body.String())
}
