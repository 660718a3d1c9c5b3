package api

import (
	"net/http"

	"github.com/example/storefront/internal/errs"
	"github.com/example/storefront/internal/media"
)

const maxUploadBytes = 32 << 20

// UploadHandlers stores media files and returns their public URLs.
type UploadHandlers struct {
	uploader media.Uploader
}

func NewUploadHandlers(uploader media.Uploader) *UploadHandlers {
	return &UploadHandlers{uploader: uploader}
}

func (h *UploadHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		respondErrorMessage(w, "media storage is not configured", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, errs.Validationf("invalid multipart form"))
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		respondError(w, errs.Validationf("no files provided"))
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			respondError(w, errs.Validationf("unreadable file %q", fh.Filename))
			return
		}
		url, err := h.uploader.Upload(r.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
		f.Close()
		if err != nil {
			respondError(w, err)
			return
		}
		urls = append(urls, url)
	}

	respondJSON(w, http.StatusOK, map[string]any{"urls": urls})
}
