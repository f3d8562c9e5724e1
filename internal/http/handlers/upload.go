package handlers

import (
	"io"
	"net/http"

	"github.com/google/uuid"

	"mentorhood/internal/storage"
)

const maxUploadBytes = 10 << 20

// UploadProfilePhoto stores a profile image and returns its public URL. When
// no storage backend is configured the response falls back to a generated
// avatar URL so profile creation never blocks on storage.
func (a *App) UploadProfilePhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to read upload")
		return
	}
	if len(data) > maxUploadBytes {
		a.error(w, http.StatusBadRequest, "bad_request", "file too large")
		return
	}

	if a.Uploader == nil {
		name := r.FormValue("name")
		if name == "" {
			name = header.Filename
		}
		a.json(w, http.StatusOK, map[string]any{
			"status": "success",
			"url":    storage.AvatarFallbackURL(name),
		})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := "profile-photos/" + uuid.NewString() + "-" + header.Filename
	url, err := a.Uploader.Upload(r.Context(), key, data, contentType)
	if err != nil {
		a.Logger.Error().Err(err).Str("key", key).Msg("upload failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store file")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status": "success",
		"url":    url,
	})
}
