package handlers

import (
	"net/http"

	"github.com/rohits-web03/chatterbox/internal/api/middleware"
	"github.com/rohits-web03/chatterbox/internal/logging"
	"github.com/rohits-web03/chatterbox/internal/models"
	"github.com/rohits-web03/chatterbox/internal/services"
	"github.com/rohits-web03/chatterbox/internal/utils"
)

type SignUpRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ProfileURL string `json:"profileUrl,omitempty"`
}

type SignUpResponse struct {
	NewUser *models.User `json:"newUser"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
}

type SignInRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type SignInResponse struct {
	User    *models.User `json:"user"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
}

type MeResponse struct {
	User *models.User `json:"user"`
}

type UserHandler struct {
	auth   *services.AuthService
	errors errorWriter
}

func NewUserHandler(auth *services.AuthService, logger logging.Logger, exposeDetails bool) *UserHandler {
	return &UserHandler{
		auth:   auth,
		errors: errorWriter{logger: logger, exposeDetails: exposeDetails},
	}
}

// SignUp godoc
// @Summary Register a new user
// @Tags User
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Account details"
// @Success 201 {object} SignUpResponse
// @Failure 400 {object} utils.ErrorPayload
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/user/signup [post]
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var input SignUpRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	res, err := h.auth.SignUp(r.Context(), services.SignUpInput{
		Username:   input.Username,
		Email:      input.Email,
		Password:   input.Password,
		PictureURL: input.ProfileURL,
	})
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusCreated, SignUpResponse{
		NewUser: res.User,
		Message: "User created",
		Token:   res.Token,
	})
}

// SignIn godoc
// @Summary Sign in with username or email
// @Description Username takes precedence when both username and email are sent.
// @Tags User
// @Accept json
// @Produce json
// @Param body body SignInRequest true "Credentials"
// @Success 200 {object} SignInResponse
// @Failure 400 {object} utils.ErrorPayload
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/user/signin [post]
func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var input SignInRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	res, err := h.auth.SignIn(r.Context(), services.SignInInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, SignInResponse{
		User:    res.User,
		Message: "Login successful",
		Token:   res.Token,
	})
}

// Me godoc
// @Summary Current user
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 400 {object} utils.ErrorPayload
// @Failure 401 {object} utils.ErrorPayload
// @Router /api/user/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, MeResponse{User: user})
}
