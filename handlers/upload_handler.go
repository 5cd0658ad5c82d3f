package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/raheem101000-netizen/gamehub/storage"
)

// maxUploadSize bounds chat image uploads.
const maxUploadSize = 10 << 20 // 10MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadHandler stores chat images and returns the public URL the client
// then sends over the socket as imageUrl.
type UploadHandler struct {
	uploader storage.FileUploader
}

func NewUploadHandler(uploader storage.FileUploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// ChatImageHandler handles POST /uploads/chat-image (multipart field
// "image").
func (h *UploadHandler) ChatImageHandler(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		errorResponse(w, r, http.StatusServiceUnavailable, "image uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing image file"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		badRequestResponse(w, r, fmt.Errorf("unsupported image type %q", contentType))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := "chat-images/" + uuid.NewString() + ext

	result, err := h.uploader.Upload(r.Context(), key, contentType, file)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"url": result.Location, "key": result.Key}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
