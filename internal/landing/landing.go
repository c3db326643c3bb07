package landing

import (
	"context"
	"log"
	"net/http"

	"github.com/canvasspace/canvasaem/internal/httputil"
	"github.com/canvasspace/canvasaem/internal/validate"
)

// MediaSource resolves the demo video key to a playable URL.
type MediaSource interface {
	MediaURL(ctx context.Context, key string) (string, error)
}

type Config struct {
	Title string
	// Media and VideoKey take precedence over VideoURL.
	Media            MediaSource
	VideoKey         string
	VideoURL         string
	ThresholdSeconds float64
}

type Handler struct {
	cfg Config
}

func NewHandler(cfg Config) *Handler {
	if cfg.Title == "" {
		cfg.Title = "Canvas AEM"
	}
	return &Handler{cfg: cfg}
}

type pageData struct {
	Title            string
	VideoURL         string
	ThresholdSeconds float64
	Nonce            string
	Limits           map[string]int
}

// Page serves GET /, the two-section landing page with the gated demo.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	videoURL, err := h.videoURL(r.Context())
	if err != nil {
		log.Printf("landing: failed to resolve demo video: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, pageData{
		Title:            h.cfg.Title,
		VideoURL:         videoURL,
		ThresholdSeconds: h.cfg.ThresholdSeconds,
		Nonce:            httputil.NonceFromContext(r.Context()),
		Limits:           validate.FieldLimits(),
	}); err != nil {
		log.Printf("landing: failed to render page: %v", err)
	}
}

func (h *Handler) videoURL(ctx context.Context) (string, error) {
	if h.cfg.Media != nil && h.cfg.VideoKey != "" {
		return h.cfg.Media.MediaURL(ctx, h.cfg.VideoKey)
	}
	return h.cfg.VideoURL, nil
}
