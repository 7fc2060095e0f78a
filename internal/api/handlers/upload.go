package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rohits-web03/chatterbox/internal/logging"
	"github.com/rohits-web03/chatterbox/internal/utils"
)

const (
	maxProfilePicSize = 5 << 20 // 5 MB
	profilePicField   = "profilePic"
	profilePicPrefix  = "profile-pics/"
)

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

type UploadHandler struct {
	images ImageUploader
	logger logging.Logger
}

// NewUploadHandler accepts a nil uploader; uploads then answer 503.
func NewUploadHandler(images ImageUploader, logger logging.Logger) *UploadHandler {
	return &UploadHandler{images: images, logger: logger}
}

// ProfilePicture godoc
// @Summary Upload a profile picture
// @Description Stores one image (≤5 MB) on the image host and returns its URL.
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param profilePic formData file true "Image file"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} utils.ErrorPayload
// @Failure 500 {object} utils.ErrorPayload
// @Failure 503 {object} utils.ErrorPayload
// @Router /api/upload/profile-pic [post]
func (h *UploadHandler) ProfilePicture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if h.images == nil {
		utils.ErrorResponse(w, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}

	// Leave headroom for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, maxProfilePicSize+(64<<10))
	if err := r.ParseMultipartForm(maxProfilePicSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ErrorResponse(w, http.StatusBadRequest, "File exceeds 5 MB limit")
			return
		}
		utils.ErrorResponse(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(profilePicField)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxProfilePicSize {
		utils.ErrorResponse(w, http.StatusBadRequest, "File exceeds 5 MB limit")
		return
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		h.fail(w, r, fmt.Errorf("detect content type: %w", err))
		return
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		utils.ErrorResponse(w, http.StatusBadRequest, "Only image uploads are allowed")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.fail(w, r, fmt.Errorf("rewind upload: %w", err))
		return
	}

	key := profilePicPrefix + uuid.NewString() + "_" + sanitizeFilename(header.Filename)
	url, err := h.images.Upload(r.Context(), key, mtype.String(), file, header.Size)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "profile picture uploaded", "key", key, "size", header.Size)
	utils.JSONResponse(w, http.StatusOK, UploadResponse{ImageURL: url})
}

func (h *UploadHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error(r.Context(), "profile picture upload failed", "error", err)
	utils.ErrorResponse(w, http.StatusInternalServerError, "Error uploading image")
}

// sanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] so the value is safe inside an object key.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	clean = strings.Trim(clean, ".")
	if clean == "" {
		return "image"
	}
	return clean
}
