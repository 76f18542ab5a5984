package preview

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"mediagate/internal/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandlePreview serves GET /v1/preview/{folder}/{fileName}?width=&quality=.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	folder := chi.URLParam(r, "folder")
	fileName := chi.URLParam(r, "fileName")
	if folder == "" || fileName == "" {
		response.WriteError(w, http.StatusBadRequest, response.ErrBadRequest, "folder and fileName are required", "")
		return
	}

	width, quality, err := parseQueryParams(r)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, response.ErrBadRequest, err.Error(), "")
		return
	}

	data, contentType, err := h.service.Render(r.Context(), folder, fileName, width, quality)
	if err != nil {
		log.Error().Err(err).
			Str("folder", folder).
			Str("file_name", fileName).
			Msg("preview render failed")
		response.WriteError(w, http.StatusNotFound, response.ErrNotFound, "preview not available", "")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("ETag", fmt.Sprintf(`"%s/%s_%d_%d"`, folder, fileName, width, quality))
	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Msg("failed to write preview response")
	}
}

func parseQueryParams(r *http.Request) (width, quality int, err error) {
	width = 256
	quality = 75

	if w := r.URL.Query().Get("width"); w != "" {
		width, err = strconv.Atoi(w)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid width parameter")
		}
		if width <= 0 || width > 2048 {
			return 0, 0, fmt.Errorf("width must be between 1 and 2048")
		}
	}

	if q := r.URL.Query().Get("quality"); q != "" {
		quality, err = strconv.Atoi(q)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid quality parameter")
		}
		if quality < 1 || quality > 100 {
			return 0, 0, fmt.Errorf("quality must be between 1 and 100")
		}
	}

	return width, quality, nil
}
