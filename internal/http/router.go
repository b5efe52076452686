package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/highwoods/media-gateway/internal/auth"
	"github.com/highwoods/media-gateway/internal/config"
	httpmiddleware "github.com/highwoods/media-gateway/internal/http/middleware"
	"github.com/highwoods/media-gateway/internal/media"
	"github.com/highwoods/media-gateway/internal/storage"
	"github.com/highwoods/media-gateway/internal/stream"
)

// Handler concentra as dependências dos endpoints do gateway.
type Handler struct {
	verifier auth.Verifier
	media    *media.Service
}

// NewHandler cria o handler com dependências injetadas (substituíveis
// por fakes em teste).
func NewHandler(verifier auth.Verifier, mediaService *media.Service) *Handler {
	return &Handler{verifier: verifier, media: mediaService}
}

// NewRouter constrói os clientes externos a partir da configuração e
// devolve o roteador pronto.
func NewRouter(cfg *config.Config) (http.Handler, error) {
	presigner, err := storage.NewR2Presigner(storage.R2Config{
		AccountID: cfg.R2.AccountID,
		AccessKey: cfg.R2.AccessKey,
		SecretKey: cfg.R2.SecretKey,
		Bucket:    cfg.R2.Bucket,
		PublicURL: cfg.R2.PublicURL,
	})
	if err != nil {
		return nil, err
	}

	streamClient, err := stream.New(stream.Config{
		AccountID: cfg.Stream.AccountID,
		APIToken:  cfg.Stream.APIToken,
	})
	if err != nil {
		return nil, err
	}

	var verifier auth.Verifier
	if cfg.Supabase.JWTSecret != "" {
		verifier = auth.NewLocalVerifier(cfg.Supabase.JWTSecret)
	} else {
		verifier, err = auth.NewProviderClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
		if err != nil {
			return nil, err
		}
	}

	mediaService := media.NewService(presigner, streamClient, cfg.SignedURLTTL, cfg.MaxVideoDuration)

	return NewHandler(verifier, mediaService).Routes(), nil
}

// Routes monta o roteador chi com a pilha de middlewares.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS)

	r.Get("/health", h.Health)

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(h.verifier))
		private.Post("/r2-presign", h.R2Presign)
		private.Post("/stream-upload", h.StreamUpload)
	})

	return r
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
