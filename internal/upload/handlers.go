package upload

import (
	"encoding/json"
	"errors"
	"net/http"

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

// HandlePresign handles POST /v1/uploads/presign
func (h *Handler) HandlePresign(w http.ResponseWriter, r *http.Request) {
	var req PresignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.ErrBadRequest, "Invalid request body", "")
		return
	}

	if req.Folder == "" {
		response.WriteError(w, http.StatusBadRequest, response.ErrBadRequest, "folder is required", "")
		return
	}
	if req.FileName == "" {
		response.WriteError(w, http.StatusBadRequest, response.ErrBadRequest, "fileName is required", "")
		return
	}
	if req.FileType == "" {
		response.WriteError(w, http.StatusBadRequest, response.ErrBadRequest, "fileType is required", "")
		return
	}
	if req.SizeBytes < 0 {
		response.WriteError(w, http.StatusBadRequest, response.ErrBadRequest, "sizeBytes must not be negative", "")
		return
	}

	resp, err := h.service.PresignUpload(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMimeNotAllowed):
			response.WriteError(w, http.StatusBadRequest, response.ErrMimeNotAllowed, err.Error(),
				"Check allowed_mimes in the upload policy")
		case errors.Is(err, ErrExtNotAllowed):
			response.WriteError(w, http.StatusBadRequest, response.ErrExtNotAllowed, err.Error(),
				"Check allowed_exts in the upload policy")
		case errors.Is(err, ErrSizeTooLarge):
			response.WriteError(w, http.StatusBadRequest, response.ErrSizeTooLarge, err.Error(),
				"Reduce file size or check size_max_mb in the upload policy")
		default:
			log.Error().Err(err).Str("folder", req.Folder).Msg("presign failed")
			response.WriteError(w, http.StatusInternalServerError, response.ErrInternal,
				"Failed to generate presigned upload", "")
		}
		return
	}

	response.WriteJSON(w, http.StatusOK, resp)
}

// HandleSign handles POST /v1/uploads/sign
func (h *Handler) HandleSign(w http.ResponseWriter, r *http.Request) {
	var req SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.ErrBadRequest, "Invalid request body", "")
		return
	}

	if req.FileURL == "" {
		response.WriteError(w, http.StatusBadRequest, response.ErrBadRequest, "fileUrl is required", "")
		return
	}

	signedURL, err := h.service.SignURL(r.Context(), req.FileURL)
	if err != nil {
		if errors.Is(err, ErrUnknownURL) {
			response.WriteError(w, http.StatusBadRequest, response.ErrBadRequest, err.Error(),
				"Only URLs on the configured storage domain can be signed")
			return
		}
		log.Error().Err(err).Str("file_url", req.FileURL).Msg("sign failed")
		response.WriteError(w, http.StatusInternalServerError, response.ErrInternal,
			"Failed to generate signed URL", "")
		return
	}

	response.WriteJSON(w, http.StatusOK, SignResponse{SignedURL: signedURL})
}

// HandleDelete handles DELETE /v1/uploads/{folder}/{fileName}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	folder := chi.URLParam(r, "folder")
	fileName := chi.URLParam(r, "fileName")

	if folder == "" || fileName == "" {
		response.WriteError(w, http.StatusBadRequest, response.ErrBadRequest,
			"folder and fileName are required", "Expected /v1/uploads/{folder}/{fileName}")
		return
	}

	if err := h.service.DeleteObject(r.Context(), folder, fileName); err != nil {
		log.Error().Err(err).Str("folder", folder).Str("file_name", fileName).Msg("delete failed")
		response.WriteError(w, http.StatusInternalServerError, response.ErrInternal,
			"Failed to delete object", "")
		return
	}

	response.WriteJSON(w, http.StatusOK, DeleteResponse{Status: "deleted", FileName: fileName})
}
