package media

import (
	"math"

	"github.com/highwoods/media-gateway/internal/stream"
)

// Estados normalizados expostos ao cliente. O vocabulário aberto da API
// externa é reduzido a estes três valores.
const (
	StatusReady      = "ready"
	StatusProcessing = "processing"
	StatusError      = "error"
)

// VideoStatus é a visão normalizada de um vídeo para consumo do cliente.
// Campos ainda não disponíveis ficam nulos.
type VideoStatus struct {
	VideoUID     string  `json:"videoUid"`
	Status       string  `json:"status"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	PlaybackURL  *string `json:"playbackUrl"`
	Duration     *int    `json:"duration"`
	Width        *int    `json:"width"`
	Height       *int    `json:"height"`
}

func normalizeVideo(v *stream.Video) *VideoStatus {
	status := StatusProcessing
	if v.ReadyToStream {
		status = StatusReady
	} else if v.Status.State == "error" {
		status = StatusError
	}

	out := &VideoStatus{VideoUID: v.UID, Status: status}
	if v.Thumbnail != "" {
		out.ThumbnailURL = &v.Thumbnail
	}
	if v.Playback.HLS != "" {
		out.PlaybackURL = &v.Playback.HLS
	}
	if v.Duration > 0 {
		d := int(math.Round(v.Duration))
		out.Duration = &d
	}
	if v.Input.Width > 0 {
		w := v.Input.Width
		out.Width = &w
	}
	if v.Input.Height > 0 {
		h := v.Input.Height
		out.Height = &h
	}
	return out
}
