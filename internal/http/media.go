package http

import (
	"encoding/json"
	"errors"
	"net/http"

	httpmiddleware "github.com/highwoods/media-gateway/internal/http/middleware"
	"github.com/highwoods/media-gateway/internal/media"
)

// presignRequest é a união discriminada por action do endpoint
// /r2-presign. Os campos soltos cobrem o formato legado de arquivo
// único.
type presignRequest struct {
	Action       string             `json:"action"`
	PostID       string             `json:"postId"`
	ContentType  string             `json:"contentType"`
	Files        []media.UploadItem `json:"files"`
	StoragePath  string             `json:"storagePath"`
	StoragePaths []string           `json:"storagePaths"`
}

// R2Presign emite URLs pré-assinadas de upload ou exclusão no bucket.
// Cada item do lote carrega seu próprio sucesso ou erro; o status HTTP
// é 200 desde que a requisição em si seja válida.
func (h *Handler) R2Presign(w http.ResponseWriter, r *http.Request) {
	userID := httpmiddleware.GetUserID(r.Context())

	var payload presignRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	switch payload.Action {
	case "upload":
		items := payload.Files
		if len(items) == 0 {
			items = []media.UploadItem{{PostID: payload.PostID, ContentType: payload.ContentType}}
		}
		for i := range items {
			if items[i].PostID == "" {
				items[i].PostID = payload.PostID
			}
			if items[i].ContentType == "" {
				items[i].ContentType = payload.ContentType
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"files": h.media.CreateUploadURLs(userID, items)})

	case "delete":
		paths := payload.StoragePaths
		if len(paths) == 0 && payload.StoragePath != "" {
			paths = []string{payload.StoragePath}
		}
		if len(paths) == 0 {
			writeError(w, http.StatusBadRequest, "storagePath or storagePaths is required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"files": h.media.CreateDeleteURLs(userID, paths)})

	default:
		writeError(w, http.StatusBadRequest, "Invalid action. Use 'upload' or 'delete'")
	}
}

type streamRequest struct {
	Action   string `json:"action"`
	VideoUID string `json:"videoUid"`
}

// StreamUpload cobre o ciclo do vídeo: criação do slot de upload
// direto, consulta de status normalizado e exclusão com checagem de
// dono.
func (h *Handler) StreamUpload(w http.ResponseWriter, r *http.Request) {
	userID := httpmiddleware.GetUserID(r.Context())

	var payload streamRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	switch payload.Action {
	case "create-upload":
		result, err := h.media.CreateVideoUpload(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)

	case "get-status":
		if payload.VideoUID == "" {
			writeError(w, http.StatusBadRequest, "videoUid is required")
			return
		}
		status, err := h.media.VideoStatus(r.Context(), payload.VideoUID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, status)

	case "delete":
		if payload.VideoUID == "" {
			writeError(w, http.StatusBadRequest, "videoUid is required")
			return
		}
		if err := h.media.DeleteVideo(r.Context(), userID, payload.VideoUID); err != nil {
			if errors.Is(err, media.ErrVideoForbidden) {
				writeError(w, http.StatusForbidden, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to delete video")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		writeError(w, http.StatusBadRequest, "Invalid action. Use 'create-upload', 'get-status', or 'delete'")
	}
}
