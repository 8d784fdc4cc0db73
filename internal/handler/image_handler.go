package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"threadboard/internal/models"
	"threadboard/internal/result"
)

// multipartOverhead leaves room for the form boundaries around the file.
const multipartOverhead = 1 << 20

// AttachImage handles a multipart upload with the file in the "image" field.
func (h *Handlers) AttachImage(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	email, ok := principal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, result.StatusBadRequest,
				fmt.Sprintf("File too large (max %d MB)", h.Cfg.MaxUploadSize/(1024*1024)))
			return
		}
		WriteError(w, result.StatusBadRequest, "Could not read multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, result.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	if header.Size > h.Cfg.MaxUploadSize {
		WriteError(w, result.StatusBadRequest,
			fmt.Sprintf("File too large (max %d MB)", h.Cfg.MaxUploadSize/(1024*1024)))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	upload := models.ImageUpload{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Content:     file,
	}

	writeResult(w, h.ImageService.Attach(r.Context(), postID, upload, email))
}

func (h *Handlers) ListImages(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	writeResult(w, h.ImageService.List(r.Context(), postID))
}

func (h *Handlers) RemoveImage(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	email, ok := principal(w, r)
	if !ok {
		return
	}

	writeResult(w, h.ImageService.Remove(r.Context(), postID, mux.Vars(r)["imageId"], email))
}
