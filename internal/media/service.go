package media

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/highwoods/media-gateway/internal/stream"
)

// Mensagens de wire consumidas pelo frontend existente; não traduzir.
var (
	// ErrVideoForbidden indica tentativa de excluir vídeo de outro dono.
	ErrVideoForbidden = errors.New("Unauthorized: Cannot delete videos owned by other users")

	msgPathForbidden = "Unauthorized: Cannot delete files owned by other users"
	msgMissingPostID = "postId is required for each file"
)

// Presigner emite credenciais escopadas sobre objetos do bucket.
type Presigner interface {
	PresignPut(key, contentType string, expiry time.Duration) (string, error)
	PresignDelete(key string, expiry time.Duration) (string, error)
	PublicURL(key string) string
}

// VideoAPI cobre as operações do serviço de vídeo usadas pelo gateway.
type VideoAPI interface {
	CreateDirectUpload(ctx context.Context, input stream.DirectUploadInput) (*stream.DirectUpload, error)
	GetVideo(ctx context.Context, uid string) (*stream.Video, error)
	DeleteVideo(ctx context.Context, uid string) error
}

// Service emite credenciais curtas e escopadas em nome de um usuário já
// verificado. Não guarda estado entre requisições.
type Service struct {
	presigner        Presigner
	videos           VideoAPI
	urlTTL           time.Duration
	maxVideoDuration time.Duration
}

// NewService cria o serviço com as dependências injetadas.
func NewService(presigner Presigner, videos VideoAPI, urlTTL, maxVideoDuration time.Duration) *Service {
	return &Service{
		presigner:        presigner,
		videos:           videos,
		urlTTL:           urlTTL,
		maxVideoDuration: maxVideoDuration,
	}
}

// UploadItem é um pedido de upload dentro de um lote.
type UploadItem struct {
	PostID      string `json:"postId"`
	ContentType string `json:"contentType"`
}

// FileResult é o desfecho individual de um item do lote: credencial
// emitida ou erro, nunca os dois.
type FileResult struct {
	PresignedURL string `json:"presignedUrl,omitempty"`
	PublicURL    string `json:"publicUrl,omitempty"`
	StoragePath  string `json:"storagePath,omitempty"`
	ContentType  string `json:"contentType,omitempty"`
	Error        string `json:"error,omitempty"`
}

// VideoUpload é o slot de upload direto devolvido ao cliente.
type VideoUpload struct {
	UploadURL string `json:"uploadUrl"`
	VideoUID  string `json:"videoUid"`
}

// CreateUploadURLs emite uma URL de PUT por item, na ordem recebida.
// A falha de um item não interrompe os demais.
func (s *Service) CreateUploadURLs(userID string, items []UploadItem) []FileResult {
	results := make([]FileResult, 0, len(items))
	for _, item := range items {
		results = append(results, s.uploadCredential(userID, item))
	}
	return results
}

func (s *Service) uploadCredential(userID string, item UploadItem) FileResult {
	if strings.TrimSpace(item.PostID) == "" {
		return FileResult{Error: msgMissingPostID}
	}

	contentType := item.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	key := ObjectKey(userID, item.PostID, contentType)
	presigned, err := s.presigner.PresignPut(key, contentType, s.urlTTL)
	if err != nil {
		return FileResult{Error: err.Error(), StoragePath: key}
	}

	return FileResult{
		PresignedURL: presigned,
		PublicURL:    s.presigner.PublicURL(key),
		StoragePath:  key,
		ContentType:  contentType,
	}
}

// CreateDeleteURLs emite uma URL de DELETE por caminho, na ordem
// recebida. Caminhos fora do namespace do usuário são rejeitados
// individualmente.
func (s *Service) CreateDeleteURLs(userID string, paths []string) []FileResult {
	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, s.deleteCredential(userID, path))
	}
	return results
}

func (s *Service) deleteCredential(userID, path string) FileResult {
	// O primeiro segmento da chave é o dono; comparação de prefixo
	// basta como verificação de posse.
	if !strings.HasPrefix(path, userID+"/") {
		return FileResult{Error: msgPathForbidden, StoragePath: path}
	}

	presigned, err := s.presigner.PresignDelete(path, s.urlTTL)
	if err != nil {
		return FileResult{Error: err.Error(), StoragePath: path}
	}
	return FileResult{PresignedURL: presigned, StoragePath: path}
}

// CreateVideoUpload abre um slot de upload direto no serviço de vídeo,
// gravando o dono nos metadados para a checagem de posse na exclusão.
func (s *Service) CreateVideoUpload(ctx context.Context, userID string) (*VideoUpload, error) {
	result, err := s.videos.CreateDirectUpload(ctx, stream.DirectUploadInput{
		MaxDurationSeconds: int(s.maxVideoDuration.Seconds()),
		Meta: map[string]string{
			"userId":     userID,
			"uploadedAt": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, err
	}
	return &VideoUpload{UploadURL: result.UploadURL, VideoUID: result.UID}, nil
}

// VideoStatus consulta o vídeo e devolve o estado normalizado.
func (s *Service) VideoStatus(ctx context.Context, uid string) (*VideoStatus, error) {
	video, err := s.videos.GetVideo(ctx, uid)
	if err != nil {
		return nil, err
	}
	return normalizeVideo(video), nil
}

// DeleteVideo exclui um vídeo depois de conferir o dono nos metadados.
// Metadados indisponíveis não bloqueiam a exclusão (fail-open herdado
// da política original; ver DESIGN.md).
func (s *Service) DeleteVideo(ctx context.Context, userID, uid string) error {
	video, err := s.videos.GetVideo(ctx, uid)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("video_uid", uid).Msg("exclusão sem verificação de dono")
	case video.Meta["userId"] != "" && video.Meta["userId"] != userID:
		return ErrVideoForbidden
	}

	return s.videos.DeleteVideo(ctx, uid)
}
