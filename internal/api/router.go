package api

import (
	"context"
	"fmt"
	"net/http"

	_ "github.com/rohits-web03/chatterbox/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rohits-web03/chatterbox/internal/api/handlers"
	"github.com/rohits-web03/chatterbox/internal/api/middleware"
	"github.com/rohits-web03/chatterbox/internal/config"
	"github.com/rohits-web03/chatterbox/internal/logging"
	"github.com/rs/cors"
)

// Handlers groups the endpoint implementations mounted by SetupRouter.
type Handlers struct {
	Users   *handlers.UserHandler
	Uploads *handlers.UploadHandler
}

func SetupRouter(cfg config.Config, h Handlers, tokens middleware.TokenVerifier, logger logging.Logger) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(cfg.CorsOptions())

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	userMux := http.NewServeMux()
	userMux.HandleFunc("/signup", h.Users.SignUp)
	userMux.HandleFunc("/signin", h.Users.SignIn)

	// ---------- PROTECTED ROUTES ----------
	userMux.Handle("/me", middleware.AuthMiddleware(tokens)(http.HandlerFunc(h.Users.Me)))
	userMux.HandleFunc("/", handlers.NotFound)

	mainMux.Handle("/api/user/",
		http.StripPrefix("/api/user", userMux),
	)

	uploadMux := http.NewServeMux()
	uploadMux.HandleFunc("/profile-pic", h.Uploads.ProfilePicture)
	uploadMux.HandleFunc("/", handlers.NotFound)

	mainMux.Handle("/api/upload/",
		http.StripPrefix("/api/upload", uploadMux),
	)

	mainMux.HandleFunc("/", handlers.NotFound)

	logger.Info(context.Background(), "router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(logger)(handler)
	return handler
}
